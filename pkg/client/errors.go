package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Op names a Resource Client operation. It keys the fallback messages.
type Op string

const (
	OpLogin              Op = "login"
	OpIntrospect         Op = "introspect"
	OpListAssets         Op = "list_assets"
	OpGetAsset           Op = "get_asset"
	OpCreateAsset        Op = "create_asset"
	OpUpdateAsset        Op = "update_asset"
	OpDeleteAsset        Op = "delete_asset"
	OpListAssetsCategory Op = "list_assets_by_category"
)

// Messages maps each operation to the message used when the server gives no detail.
type Messages map[Op]string

// DefaultMessages are the fallback messages shown to users.
var DefaultMessages = Messages{
	OpLogin:              "Login failed",
	OpIntrospect:         "Failed to validate token",
	OpListAssets:         "Failed to fetch assets",
	OpGetAsset:           "Failed to fetch asset",
	OpCreateAsset:        "Failed to create asset",
	OpUpdateAsset:        "Failed to update asset",
	OpDeleteAsset:        "Failed to delete asset",
	OpListAssetsCategory: "Failed to fetch assets by category",
}

func (m Messages) fallback(op Op) string {
	if msg, ok := m[op]; ok && msg != "" {
		return msg
	}
	if msg, ok := DefaultMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

// Error is the single error kind returned by every client operation.
// Error() is the human-readable message: the server's detail when it sent
// one, otherwise the operation's fallback message.
type Error struct {
	Op         Op
	StatusCode int // 0 for transport or decode failures
	Message    string
	detail     string
	err        error
}

func (e *Error) Error() string {
	return e.Message
}

// Detail returns the server-supplied detail, or "" if the payload had none.
func (e *Error) Detail() string {
	return e.detail
}

func (e *Error) Unwrap() error {
	return e.err
}

// String includes the operation and status for logs.
func (e *Error) String() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an Error with the given status code.
func IsStatus(err error, code int) bool {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.StatusCode == code
	}
	return false
}

// errorPayload is the backend's error contract: an optional string "detail".
// Any other shape (missing, null, validation arrays) counts as absent.
type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

func decodeDetail(body []byte) string {
	var p errorPayload
	if json.Unmarshal(body, &p) != nil || len(p.Detail) == 0 {
		return ""
	}
	var detail string
	if json.Unmarshal(p.Detail, &detail) != nil {
		return ""
	}
	return detail
}

func (c *Client) newError(op Op, status int, body []byte, cause error) *Error {
	detail := decodeDetail(body)
	msg := detail
	if msg == "" {
		msg = c.messages.fallback(op)
	}
	return &Error{Op: op, StatusCode: status, Message: msg, detail: detail, err: cause}
}
