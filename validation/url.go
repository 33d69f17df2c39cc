package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// ValidateURL checks that url is present and looks like an absolute
// HTTP or HTTPS URL.
func ValidateURL(url string) error {
	if url == "" {
		return ErrURLRequired
	}
	if !urlPattern.MatchString(url) {
		return ErrInvalidURL
	}
	return nil
}

// ValidateTaskData checks that raw is a JSON object. An absent field, an
// explicit null, and any non-object value are all rejected.
func ValidateTaskData(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrInvalidTaskData
	}
	if !json.Valid(trimmed) {
		return ErrInvalidTaskData
	}
	return nil
}
