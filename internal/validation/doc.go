// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages, and integrates
// with commandapi's error format for consistent 400 responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the command surface's error format
//   - Built-in validator support (required, min/max, dive, oneof, etc.)
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type readChunkRequest struct {
//	    Offset   int64 `validate:"min=0"`
//	    MaxBytes int64 `validate:"required,min=1,max=10485760"`
//	}
//
//	func (h *Handler) readLogChunk(w http.ResponseWriter, r *http.Request) {
//	    var req readChunkRequest
//	    if err := decodeValidated(r, &req); err != nil {
//	        respondError(w, http.StatusBadRequest, err)
//	        return
//	    }
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - dive: apply tags to each element of a slice
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - gt=n: Greater than n
//   - lt=n: Less than n
//   - min=n: Minimum value n
//   - max=n: Maximum value n
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	type ValidationError struct {
//	    Field()   string      // Struct field name
//	    Tag()     string      // Validation tag that failed
//	    Param()   string      // Tag parameter (e.g., "100" for max=100)
//	    Value()   interface{} // Actual value that failed
//	    Error()   string      // Human-readable message
//	}
//
// RequestValidationError aggregates multiple field errors:
//
//	type RequestValidationError struct {
//	    Errors() []ValidationError
//	    Error()  string           // Combined message
//	    ToAPIError() *APIError    // Convert to API error format
//	}
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "MaxBytes is required",
//	    "details": {"field": "MaxBytes", "tag": "required", "value": 0}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "UserID: UserID is required; Username: Username is required",
//	    "details": {
//	        "fields": [
//	            {"field": "UserID", "tag": "required", "message": "..."},
//	            {"field": "Username", "tag": "required", "message": "..."}
//	        ]
//	    }
//	}
//
// # Error Message Translation
//
// Human-readable messages are generated for common validation tags:
//
//	required   -> "UserID is required"
//	min=1      -> "MaxBytes must be at least 1"
//	max=10485760 -> "MaxBytes must be at most 10485760"
//	gte=1      -> "Limit must be greater than or equal to 1"
//	lte=1000   -> "Limit must be less than or equal to 1000"
//	oneof=a b  -> "Status must be one of: a b"
//
// # Struct Tag Examples
//
// Command request validation:
//
//	type readChunkRequest struct {
//	    Offset   int64 `validate:"min=0"`
//	    MaxBytes int64 `validate:"required,min=1,max=10485760"`
//	}
//
// Slice element validation:
//
//	type setWatchlistedRequest struct {
//	    UserIDs []string `validate:"required,min=1,dive,required"`
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/commandapi: command-surface handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
