// Package client is the HTTP client of the onboarding CLI. It consumes the
// server's NDJSON snapshot stream over a streaming-enabled hertz client.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/onatvural/onboarding-demo/internal/cli/types"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
	"github.com/onatvural/onboarding-demo/pkg/ndjson"
)

// sendTimeout bounds a stalled consumer; the TUI normally drains frames
// immediately.
const sendTimeout = 5 * time.Second

// ErrStreamFailed is returned when the server reports a terminal stream
// failure.
var ErrStreamFailed = errors.New("stream failed")

// APIClient wraps the hertz client for the onboarding API.
type APIClient struct {
	client *client.Client
	server string
}

// NewAPIClient creates a client for the given server address.
func NewAPIClient(server string) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// netpoll does not support streaming bodies; use the standard dialer.
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{
		client: c,
		server: normalizedServer,
	}, nil
}

// normalizeServerURL ensures a scheme and strips any path.
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Ping checks that the server answers.
func (c *APIClient) Ping(ctx context.Context) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointPing)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("server answered HTTP %d", resp.StatusCode())
	}
	return nil
}

// StreamChat sends the transcript and returns the snapshot stream of the
// assistant's reply. Each received snapshot is the full current state of
// the turn; the caller replaces, never merges.
func (c *APIClient) StreamChat(ctx context.Context, messages []types.ChatMessage) (<-chan *entity.Snapshot, <-chan error, error) {
	resp, req, err := c.startStream(ctx, endpointChat, messages)
	if err != nil {
		return nil, nil, err
	}

	snapCh := make(chan *entity.Snapshot, 10)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(snapCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			errCh <- fmt.Errorf("body stream is nil")
			return
		}

		// Malformed lines are skipped; the next frame supersedes anyway.
		dec := ndjson.NewDecoder(bodyStream, nil)
		for {
			var frame types.StreamFrame
			if err := dec.Decode(&frame); err != nil {
				if !errors.Is(err, io.EOF) {
					errCh <- fmt.Errorf("stream read failed: %w", err)
				}
				return
			}
			if frame.Error != "" {
				errCh <- fmt.Errorf("%w: %s", ErrStreamFailed, frame.Error)
				return
			}

			snap := frame.Snapshot
			select {
			case snapCh <- &snap:
			case <-ctx.Done():
				return
			case <-time.After(sendTimeout):
				errCh <- fmt.Errorf("timeout delivering snapshot")
				return
			}
		}
	}()

	return snapCh, errCh, nil
}

// StreamText sends the transcript to the plain-text endpoint and returns
// the raw deltas.
func (c *APIClient) StreamText(ctx context.Context, messages []types.ChatMessage) (<-chan string, <-chan error, error) {
	resp, req, err := c.startStream(ctx, endpointChatText, messages)
	if err != nil {
		return nil, nil, err
	}

	textCh := make(chan string, 10)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(textCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			errCh <- fmt.Errorf("body stream is nil")
			return
		}

		buf := make([]byte, 4096)
		for {
			n, err := bodyStream.Read(buf)
			if n > 0 {
				select {
				case textCh <- string(buf[:n]):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errCh <- fmt.Errorf("stream read failed: %w", err)
				}
				return
			}
		}
	}()

	return textCh, errCh, nil
}

// startStream posts the transcript and validates the response status. On
// success the caller owns req/resp and must release them after draining.
func (c *APIClient) startStream(ctx context.Context, endpoint string, messages []types.ChatMessage) (*protocol.Response, *protocol.Request, error) {
	if len(messages) == 0 {
		return nil, nil, fmt.Errorf("chat request requires at least one message")
	}

	// Copy so a caller mutating its slice mid-stream cannot race the request.
	safeMessages := make([]types.ChatMessage, len(messages))
	copy(safeMessages, messages)

	bodyBytes, err := sonic.Marshal(types.ChatRequest{Messages: safeMessages})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpoint)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(bodyBytes)

	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		statusCode := resp.StatusCode()
		body := resp.Body()
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, fmt.Errorf("chat failed with HTTP status: %d, body: %s", statusCode, string(body))
	}

	return resp, req, nil
}
