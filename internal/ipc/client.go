package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client handles IPC communication with a running demo window
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w (is 'wintk run' running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("wintk error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) (*Response, error) {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return nil, err
	}
	return c.sendRequest(req)
}

// Status retrieves the window state.
func (c *Client) Status() (*StatusData, error) {
	resp, err := c.send(CommandStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Preset switches the window to the named preset, or to the next one when
// name is empty. It returns the preset now active.
func (c *Client) Preset(name string) (string, error) {
	resp, err := c.send(CommandPreset, PresetPayload{Name: name})
	if err != nil {
		return "", err
	}
	var out PresetPayload
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return "", fmt.Errorf("failed to parse preset data: %w", err)
	}
	return out.Name, nil
}

// Command posts command id to the window.
func (c *Client) Command(id int) error {
	_, err := c.send(CommandCommand, CommandPayload{ID: id})
	return err
}

// Reload asks the window to re-read its configuration file.
func (c *Client) Reload() error {
	_, err := c.send(CommandReload, nil)
	return err
}
