package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies how a remote store call failed. Callers use it to
// decide between a retry-worthy message and a permanent one.
type Kind int

const (
	KindRemoteRejected Kind = iota
	KindNotFound
	KindPayloadTooLarge
	KindServiceUnavailable
	KindNetworkOrTimeout
)

type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when the request never completed
	Message string // store-supplied message when present
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "remote: not found"
	case KindPayloadTooLarge:
		return "remote: payload too large"
	case KindServiceUnavailable:
		return "remote: service unavailable"
	case KindNetworkOrTimeout:
		if e.Message != "" {
			return fmt.Sprintf("remote: request failed: %s", e.Message)
		}
		return "remote: request failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("remote: rejected (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote: rejected (status %d)", e.Status)
}

func kindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

func IsPayloadTooLarge(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindPayloadTooLarge
}

func IsServiceUnavailable(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindServiceUnavailable
}

func IsNetworkOrTimeout(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetworkOrTimeout
}

// IsRetryable reports whether the failure is transient enough that the
// user should be told to try again. No caller retries automatically.
func IsRetryable(err error) bool {
	k, ok := kindOf(err)
	return ok && (k == KindServiceUnavailable || k == KindNetworkOrTimeout)
}

// classify maps a non-2xx response to a typed error. The store's own
// message, when the body carries one, is surfaced verbatim.
func classify(status int, body []byte) *Error {
	e := &Error{Status: status, Message: messageFrom(body)}
	switch status {
	case 404:
		e.Kind = KindNotFound
	case 413:
		e.Kind = KindPayloadTooLarge
	case 503:
		e.Kind = KindServiceUnavailable
	default:
		e.Kind = KindRemoteRejected
	}
	return e
}

func messageFrom(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
