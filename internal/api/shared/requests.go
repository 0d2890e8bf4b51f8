package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// ErrBodyTooLarge is returned when a request body exceeds the decode limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ErrNotAnObject is returned when a JSON body is valid but not an object.
var ErrNotAnObject = errors.New("request body must be a JSON object")

// IsJSONContent reports whether the request declares a JSON body.
func IsJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// DecodeObject reads at most limit bytes from body and decodes a JSON object.
// An empty or whitespace-only body decodes to an empty map. Numbers are
// decoded as float64.
func DecodeObject(body io.Reader, limit int64) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, ErrBodyTooLarge
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	if raw[0] != '{' {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid JSON: %w", syntaxError(raw))
		}
		return nil, ErrNotAnObject
	}

	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	if out == nil {
		return map[string]any{}, nil
	}
	return out, nil
}

func syntaxError(raw []byte) error {
	var v any
	return json.Unmarshal(raw, &v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
