package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError is a 400 answer: malformed, duplicate or missing input.
type ValidationError struct {
	Status  int
	Message string
	// Fields maps a form field to the backend's complaints about it.
	Fields map[string][]string
	Body   string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed on %s: %s", strings.Join(keys, ", "), e.Message)
}

// HasField reports whether the backend rejected the given field.
func (e *ValidationError) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

// AuthError is a 401/403 answer: missing, invalid or insufficient credentials.
type AuthError struct {
	Status  int
	Message string
	Body    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("not authorized (%d): %s", e.Status, e.Message)
}

// NotFoundError means the referenced topic, reply or user no longer exists.
type NotFoundError struct {
	Message string
	Body    string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// ResponseError is any other failed answer.
type ResponseError struct {
	Status  int
	Message string
	Body    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure; the backend could not be reached or
// the exchange was interrupted.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means a successful answer did not match the expected schema.
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// errorFromResponse maps a failed HTTP answer onto the error taxonomy.
func errorFromResponse(status int, body []byte) error {
	msg, fields, text := parseErrorBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest:
		return &ValidationError{Status: status, Message: msg, Fields: fields, Body: text}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status, Message: msg, Body: text}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg, Body: text}
	}
	return &ResponseError{Status: status, Message: msg, Body: text}
}

// parseErrorBody understands the two shapes the backend uses: a single
// "error"/"detail" string, or a map of field name to messages. Anything
// else is kept as text.
func parseErrorBody(body []byte) (msg string, fields map[string][]string, text string) {
	trimmed := bytes.TrimSpace(body)
	text = string(trimmed)
	if len(trimmed) == 0 {
		return "", nil, ""
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return text, nil, text
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err == nil {
		text = compact.String()
	}

	for k, v := range raw {
		if k == "error" || k == "detail" {
			if s, ok := v.(string); ok {
				msg = s
				continue
			}
		}
		var msgs []string
		switch t := v.(type) {
		case string:
			msgs = []string{t}
		case []any:
			for _, it := range t {
				if s, ok := it.(string); ok {
					msgs = append(msgs, s)
				}
			}
		default:
			msgs = []string{fmt.Sprint(t)}
		}
		if fields == nil {
			fields = make(map[string][]string)
		}
		fields[k] = msgs
	}

	if msg == "" {
		msg = text
	}
	return msg, fields, text
}

// ResponseBody returns the stringified error body carried by err, if any.
func ResponseBody(err error) string {
	var (
		ve *ValidationError
		ae *AuthError
		ne *NotFoundError
		re *ResponseError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Body
	case errors.As(err, &ae):
		return ae.Body
	case errors.As(err, &ne):
		return ne.Body
	case errors.As(err, &re):
		return re.Body
	}
	return ""
}

// ErrorMessage returns the backend's "error" (or "detail") string carried by
// err, when the body had that shape.
func ErrorMessage(err error) (string, bool) {
	body := ResponseBody(err)
	if body == "" {
		return "", false
	}
	var m map[string]any
	if json.Unmarshal([]byte(body), &m) != nil {
		return "", false
	}
	for _, k := range []string{"error", "detail"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
