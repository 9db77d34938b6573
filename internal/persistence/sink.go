package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNoLocation is returned when the sink acknowledges without a location.
var ErrNoLocation = errors.New("sink response carries no location")

// Sink accepts an encoded result document and returns where it was stored.
type Sink interface {
	Submit(ctx context.Context, body []byte) (string, error)
}

// maxSinkResponse bounds how much of a sink reply is read.
const maxSinkResponse = 64 << 10

// HTTPSink posts documents as JSON to a URL.
type HTTPSink struct {
	url    string
	client *http.Client
}

// NewHTTPSink returns a sink posting to url. A nil client uses http.DefaultClient;
// deadlines come from the context passed to Submit.
func NewHTTPSink(url string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{url: url, client: client}
}

// sinkReply accepts both a bare {"path": ...} and the enveloped
// {"data": {"path": ...}} shape.
type sinkReply struct {
	Path string `json:"path"`
	Data *struct {
		Path string `json:"path"`
	} `json:"data"`
}

func (s *HTTPSink) Submit(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post to sink: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxSinkResponse))
	if err != nil {
		return "", fmt.Errorf("read sink response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sink returned status %d", resp.StatusCode)
	}

	var reply sinkReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return "", fmt.Errorf("decode sink response: %w", err)
	}
	location := reply.Path
	if location == "" && reply.Data != nil {
		location = reply.Data.Path
	}
	if strings.TrimSpace(location) == "" {
		return "", ErrNoLocation
	}
	return location, nil
}
