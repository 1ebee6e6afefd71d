package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/proxy/types"
)

// clientFlags are shared by the commands that talk to a running proxy.
type clientFlags struct {
	url     string
	secret  string
	header  string
	timeout time.Duration
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "http://localhost:3000", "base URL of the running proxy")
	cmd.Flags().StringVar(&f.secret, "secret", "", "shared secret (default $SECRET_KEY)")
	cmd.Flags().StringVar(&f.header, "header", config.DefaultAuthHeader, "credential header name")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 90*time.Second, "request timeout")
}

func (f *clientFlags) client() *chatClient {
	secret := f.secret
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}
	return &chatClient{
		baseURL: strings.TrimRight(f.url, "/"),
		header:  f.header,
		secret:  secret,
		http:    &http.Client{Timeout: f.timeout},
	}
}

// chatClient is a minimal client for /chat and /clear.
type chatClient struct {
	baseURL string
	header  string
	secret  string
	http    *http.Client
}

// Send posts message to /chat and returns the reply and disclaimer.
func (c *chatClient) Send(ctx context.Context, message string) (*types.ChatResponse, error) {
	var resp types.ChatResponse
	if err := c.post(ctx, "/chat", types.ChatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Clear posts to /clear.
func (c *chatClient) Clear(ctx context.Context) (*types.ClearResponse, error) {
	var resp types.ClearResponse
	if err := c.post(ctx, "/clear", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *chatClient) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set(c.header, c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.baseURL+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("%s returned HTTP %d", path, resp.StatusCode)
		}
		return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
