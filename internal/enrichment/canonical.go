// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"strings"
	"unicode/utf8"
)

const (
	avatarNamePrefix    = "Avatar - "
	avatarNameAssetMark = " - Asset bundle"
)

// normalizeAvatarName derives the AvatarDetails primary-key name from
// the client's raw avatar name (spec.md §3): strip the fixed "Avatar - "
// prefix, truncate at the first " - Asset bundle" marker, then trim
// trailing unmatched ')'/'）' characters until parens balance. Only
// trailing closers are ever removed, never ones embedded mid-string.
func normalizeAvatarName(name string) string {
	s := strings.TrimPrefix(name, avatarNamePrefix)
	if idx := strings.Index(s, avatarNameAssetMark); idx >= 0 {
		s = s[:idx]
	}
	for parenCounts(s) {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != ')' && r != '）' {
			break
		}
		s = s[:len(s)-size]
	}
	return s
}

// parenCounts reports whether s has more closing parens than opening
// ones, i.e. whether normalizeAvatarName still has trailing unmatched
// closers left to trim.
func parenCounts(s string) bool {
	opens := strings.Count(s, "(") + strings.Count(s, "（")
	closes := strings.Count(s, ")") + strings.Count(s, "）")
	return closes > opens
}

// canonicalItemType resolves an invChk response's item type, per spec.md
// §4.6 and §9 open question 4. The remote service's field names are
// inconsistent across item kinds, so this checks, in order: an explicit
// type field, then id prefixes, then metadata heuristics.
func canonicalItemType(resp invChkResponse, id string) string {
	if t, ok := stringField(resp, "itemType"); ok && t != "" {
		return t
	}
	if t, ok := stringField(resp, "item_type"); ok && t != "" {
		return t
	}
	if t, ok := stringField(resp, "type"); ok && t != "" {
		return t
	}

	switch {
	case strings.HasPrefix(id, "prnt_"):
		return "print"
	case strings.HasPrefix(id, "sticker_"):
		return "sticker"
	case strings.HasPrefix(id, "emoji_"):
		return "emoji"
	}

	if meta, ok := resp["metadata"].(map[string]any); ok {
		if tmpl, ok := stringField(meta, "templateId"); ok {
			switch {
			case strings.Contains(tmpl, "sticker"):
				return "sticker"
			case strings.Contains(tmpl, "emoji"):
				return "emoji"
			case strings.Contains(tmpl, "print"):
				return "print"
			}
		}
		if tags, ok := meta["tags"].([]any); ok {
			for _, tag := range tags {
				s, _ := tag.(string)
				switch strings.ToLower(s) {
				case "sticker":
					return "sticker"
				case "emoji":
					return "emoji"
				case "print":
					return "print"
				}
			}
		}
	}

	return "unknown"
}

// canonicalItemID normalizes the stored media_items primary key: prints
// use their prnt_ id alone, inventories compose "<owner>&<inventoryID>"
// unless the id is already composite.
func canonicalItemID(itemType, owner, id string) string {
	if itemType == "print" {
		return id
	}
	if strings.Contains(id, "&") {
		return id
	}
	if owner == "" {
		return id
	}
	return owner + "&" + id
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
