package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postTx sends transaction bytes via POST /tx and returns the status code
// with the decoded JSON body.
func (c *Client) postTx(txBytes []byte, result any) (int, error) {
	resp, err := c.http.Post(c.baseURL+"/tx", "application/octet-stream", bytes.NewReader(txBytes))
	if err != nil {
		return 0, fmt.Errorf("post tx:\n%w", err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnprocessableEntity:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode receipt:\n%w", err)
		}
		return resp.StatusCode, nil
	default:
		return resp.StatusCode, fmt.Errorf("post tx: status %d: %s", resp.StatusCode, readError(resp.Body))
	}
}

// get performs a GET request on path and decodes the JSON response.
// A 404 returns ErrNotFound.
func (c *Client) get(path string, result any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s:\n%w", path, err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(result)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	default:
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, readError(resp.Body))
	}
}

// readError extracts the "error" field of an error response.
func readError(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return "unreadable error body"
	}

	return body.Error
}
