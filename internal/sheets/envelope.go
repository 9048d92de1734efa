package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// Envelope is the response shape shared by the Apps Script endpoint and the
// HTTP API
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// RemoteError is a failure reported by the Apps Script endpoint, either as
// an HTTP status or as success=false in the envelope
type RemoteError struct {
	Action     string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("apps script %s: status %d: %s", e.Action, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apps script %s: %s", e.Action, e.Message)
}

// Is lets errors.Is match jobs.ErrNotFound for "not found" failures
func (e *RemoteError) Is(target error) bool {
	return target == jobs.ErrNotFound && strings.Contains(strings.ToLower(e.Message), "not found")
}

type rawEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// decodeRecords extracts job records from a getAllJobs response. The list
// may be the whole body, the data field, or nested once more as data.data.
// It is either a list of objects or a values matrix with a header row.
func decodeRecords(action string, body []byte) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []map[string]any{}, nil
	}

	data := body
	if body[0] == '{' {
		var env rawEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decoding %s response: %w", action, err)
		}
		if env.Success != nil && !*env.Success {
			return nil, &RemoteError{Action: action, Message: orDefault(env.Error, "request failed")}
		}
		data = bytes.TrimSpace(env.Data)
		if len(data) > 0 && data[0] == '{' {
			var inner rawEnvelope
			if err := json.Unmarshal(data, &inner); err != nil {
				return nil, fmt.Errorf("decoding %s response: %w", action, err)
			}
			data = bytes.TrimSpace(inner.Data)
		}
	}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []map[string]any{}, nil
	}

	if isMatrix(data) {
		var values [][]any
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("decoding %s values: %w", action, err)
		}
		return parser.RecordsFromValues(values), nil
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s records: %w", action, err)
	}
	return records, nil
}

// isMatrix reports whether data is a JSON array whose first element is an array
func isMatrix(data []byte) bool {
	if len(data) == 0 || data[0] != '[' {
		return false
	}
	rest := bytes.TrimSpace(data[1:])
	return len(rest) > 0 && rest[0] == '['
}

// decodeWrite checks the envelope of a write response
func decodeWrite(action string, body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if env.Success != nil && !*env.Success {
		return &RemoteError{Action: action, Message: orDefault(env.Error, "request failed")}
	}
	return nil
}

// decodeCSV returns the CSV text of an exportCSV response, which is either
// plain text or an envelope whose data is the text
func decodeCSV(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return string(body), nil
	}
	var env rawEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", ActionExportCSV, err)
	}
	if env.Success != nil && !*env.Success {
		return "", &RemoteError{Action: ActionExportCSV, Message: orDefault(env.Error, "request failed")}
	}
	var text string
	if err := json.Unmarshal(env.Data, &text); err != nil {
		return "", fmt.Errorf("%s data is not text: %w", ActionExportCSV, err)
	}
	return text, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
