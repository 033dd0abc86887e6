// Package remote is the HTTP client for the blog platform's backing
// REST store. The store exposes plain collection endpoints for users
// and posts; it offers no transactions, no concurrency tokens and no
// server-side pagination, so every caller gets whole-collection reads
// and whole-record writes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	base  string
	token string
	http  *http.Client
}

// New builds a client with a fixed request timeout. The bearer token is
// sent on every request; the mock store ignores it, but real backends
// behind the same contract may not.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// do performs one request. A nil in skips the request body; a nil out
// skips decoding. When out is non-nil, a 2xx with an empty body counts
// as a rejection: the store did not confirm the write with a record.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return err
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetworkOrTimeout, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetworkOrTimeout, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &Error{
			Kind:    KindRemoteRejected,
			Status:  resp.StatusCode,
			Message: "empty response body",
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:    KindRemoteRejected,
			Status:  resp.StatusCode,
			Message: "malformed response body",
		}
	}

	return nil
}

func pathID(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}
