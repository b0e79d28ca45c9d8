package storeapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Status is the envelope "status" flag. The API answers with booleans on most
// endpoints and with the string "success" on login.
type Status bool

func (s *Status) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null" || raw == "":
		*s = false
	case raw == "true" || raw == "false":
		*s = raw == "true"
	case strings.HasPrefix(raw, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "success", "true", "ok", "1":
			*s = true
		default:
			*s = false
		}
	default:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*s = n != 0
	}
	return nil
}

// Pagination is the paging block returned by list endpoints
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page,omitempty"`
	Total       int `json:"total"`
}

// Envelope is the common response wrapper {status, message, data, pagination}
type Envelope struct {
	Status     Status          `json:"status"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// HasData reports whether data is present and not JSON null
func (e *Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// DecodeData unmarshals the data payload into out
func (e *Envelope) DecodeData(out interface{}) error {
	if !e.HasData() {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return err
	}
	return nil
}
