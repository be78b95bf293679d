// Package ipc is the line-delimited JSON protocol spoken over the control
// socket of a running demo window.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus  CommandType = "STATUS"
	CommandPreset  CommandType = "PRESET"
	CommandCommand CommandType = "COMMAND"
	CommandReload  CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by STATUS.
type StatusData struct {
	Preset        string   `json:"preset"`
	Cells         int      `json:"cells"`
	Presets       []string `json:"presets"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	UptimeSeconds int64    `json:"uptime_seconds"`
}

// PresetPayload selects a preset. An empty name means the next one.
type PresetPayload struct {
	Name string `json:"name,omitempty"`
}

// CommandPayload carries a command id for the window's command handler.
type CommandPayload struct {
	ID int `json:"id"`
}

// NewRequest builds a request with an optional payload.
func NewRequest(cmd CommandType, payload any) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		req.Payload = data
	}
	return req, nil
}

// DecodePayload unmarshals the request payload into v. A missing payload
// leaves v unchanged.
func (r *Request) DecodePayload(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", r.Command, err)
	}
	return nil
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
