// Package errors provides structured error types for skilzy.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes for skilzy operations.
const (
	// Reference errors
	CodeInvalidReference = "REF_001" // Malformed author/name[@version] reference

	// Manifest errors
	CodeManifestCorrupt = "MANIFEST_001" // Tracking file present but unparsable
	CodeAlreadyExists   = "MANIFEST_002" // Tracking file already initialized

	// Install errors
	CodeDestinationExists = "INSTALL_001" // Destination directory already exists

	// Skill errors
	CodeSkillNotFound  = "SKILL_001" // Skill not in registry or not tracked
	CodeAmbiguousSkill = "SKILL_002" // Bare name matches multiple authors

	// Registry API errors
	CodeAuthentication = "API_001" // 401 Unauthorized
	CodePermission     = "API_002" // 403 Forbidden
	CodeNotFound       = "API_003" // 404 Not Found
	CodeConflict       = "API_004" // 409 Conflict
	CodeAPI            = "API_005" // Other non-2xx response
	CodeTransport      = "API_006" // Connection or TLS failure
)

// SkilzyError is the structured error type for skilzy operations.
type SkilzyError struct {
	Code    string         `json:"code"`              // Error code (e.g., "REF_001")
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Context (skill, path, etc.)
	Cause   error          `json:"-"`                 // Wrapped error (not serialized)
}

// Error implements the error interface.
func (e *SkilzyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *SkilzyError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *SkilzyError) WithDetail(key string, value any) *SkilzyError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *SkilzyError) WithCause(err error) *SkilzyError {
	e.Cause = err
	return e
}

// MarshalJSON implements json.Marshaler with cause error message.
func (e *SkilzyError) MarshalJSON() ([]byte, error) {
	type alias SkilzyError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// New creates a new SkilzyError.
func New(code, message string) *SkilzyError {
	return &SkilzyError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new SkilzyError with formatted message.
func Newf(code, format string, args ...any) *SkilzyError {
	return &SkilzyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with a SkilzyError.
func Wrap(code, message string, err error) *SkilzyError {
	return &SkilzyError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted SkilzyError.
func Wrapf(code string, err error, format string, args ...any) *SkilzyError {
	return &SkilzyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// --- Reference Errors ---

// InvalidReference creates an error for a malformed skill reference.
func InvalidReference(text, reason string) *SkilzyError {
	return Newf(CodeInvalidReference, "invalid skill reference %q: %s", text, reason).
		WithDetail("reference", text).
		WithDetail("reason", reason)
}

// --- Manifest Errors ---

// ManifestCorrupt creates an error for an unparsable tracking file.
func ManifestCorrupt(path string, err error) *SkilzyError {
	return Wrap(CodeManifestCorrupt, "tracking file is corrupt", err).
		WithDetail("path", path)
}

// ManifestExists creates an error for initializing over an existing tracking file.
func ManifestExists(path string) *SkilzyError {
	return Newf(CodeAlreadyExists, "tracking file already exists: %s", path).
		WithDetail("path", path)
}

// --- Install Errors ---

// DestinationExists creates an error for an occupied install destination.
func DestinationExists(path string) *SkilzyError {
	return Newf(CodeDestinationExists, "destination %q already exists", path).
		WithDetail("path", path)
}

// --- Skill Errors ---

// SkillNotFound creates an error for a skill missing from the registry or manifest.
func SkillNotFound(skill string) *SkilzyError {
	return Newf(CodeSkillNotFound, "skill not found: %s", skill).
		WithDetail("skill", skill)
}

// VersionNotFound creates an error for a missing skill version.
func VersionNotFound(skill, version string) *SkilzyError {
	return Newf(CodeSkillNotFound, "skill %s has no version %s", skill, version).
		WithDetail("skill", skill).
		WithDetail("version", version)
}

// AmbiguousSkill creates an error for a bare name matching multiple entries.
func AmbiguousSkill(name string, matches []string) *SkilzyError {
	return Newf(CodeAmbiguousSkill, "skill name %q matches multiple entries, use author/name", name).
		WithDetail("name", name).
		WithDetail("matches", matches)
}

// --- Registry API Errors ---

// apiCodes maps HTTP status codes to skilzy error codes.
var apiCodes = map[int]string{
	401: CodeAuthentication,
	403: CodePermission,
	404: CodeNotFound,
	409: CodeConflict,
}

// APIError creates an error for a non-2xx registry response.
func APIError(status int, message string) *SkilzyError {
	code, ok := apiCodes[status]
	if !ok {
		code = CodeAPI
	}
	return Newf(code, "API error %d: %s", status, message).
		WithDetail("status", status)
}

// TransportError creates an error for a connection or TLS failure.
func TransportError(err error) *SkilzyError {
	return Wrap(CodeTransport, "registry request failed", err)
}

// HasCode checks if an error is a SkilzyError with the given code.
// It handles wrapped errors by unwrapping to find a SkilzyError.
func HasCode(err error, code string) bool {
	var serr *SkilzyError
	if errors.As(err, &serr) {
		return serr.Code == code
	}
	return false
}

// Code returns the error code if err is a SkilzyError, empty string otherwise.
// It handles wrapped errors by unwrapping to find a SkilzyError.
func Code(err error) string {
	var serr *SkilzyError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ""
}
