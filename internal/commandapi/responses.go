// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package commandapi

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("commandapi: failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	logging.Error().Err(err).Msg("commandapi: request failed")
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// decodeValidated decodes the request body into dst, then runs it
// through the shared validator (§7 kind 7: user-input errors). Callers
// treat the returned error like any other 400, since
// *validation.RequestValidationError satisfies the error interface.
func decodeValidated(r *http.Request, dst interface{}) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}
