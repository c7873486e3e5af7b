package gateway

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
)

const fallbackErrorMessage = "an unknown error occurred"

// APIError is the normalized form of every backend rejection: a non-2xx
// status, or a 2xx response carrying success:false in the envelope. The
// message is extracted with the precedence rule shared by all stores.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Is maps the error onto the package sentinels so callers can match with
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case errs.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errs.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case errs.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case errs.ErrServer:
		return true
	}
	return false
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: NormalizeMessage(status, body)}
}

// NormalizeMessage produces a single human-readable message from a failure
// response. Precedence: the body's message field, then a joined list from its
// errors field, then the raw body when it is a plain string, then the status
// text, then a generic fallback.
func NormalizeMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && strings.TrimSpace(msg.String()) != "" {
		return msg.String()
	}

	if joined := joinErrors(gjson.GetBytes(body, "errors")); joined != "" {
		return joined
	}

	if raw := plainBody(body); raw != "" {
		return raw
	}

	if text := http.StatusText(status); text != "" {
		return text
	}

	return fallbackErrorMessage
}

// joinErrors flattens the envelope's errors field, which the backend emits
// either as a list of strings or as a field-name -> messages map.
func joinErrors(result gjson.Result) string {
	if !result.Exists() || result.Type == gjson.Null {
		return ""
	}

	var parts []string
	collect := func(r gjson.Result) {
		if s := strings.TrimSpace(r.String()); s != "" {
			parts = append(parts, s)
		}
	}

	switch {
	case result.IsArray():
		result.ForEach(func(_, value gjson.Result) bool {
			collect(value)
			return true
		})
	case result.IsObject():
		result.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				value.ForEach(func(_, inner gjson.Result) bool {
					collect(inner)
					return true
				})
			} else {
				collect(value)
			}
			return true
		})
	default:
		collect(result)
	}

	return strings.Join(parts, "; ")
}

func plainBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	// A bare JSON string still counts as a plain-string body.
	if parsed := gjson.Parse(trimmed); parsed.Type == gjson.String {
		return parsed.String()
	}
	return trimmed
}
