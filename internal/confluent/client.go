// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

// Package confluent provides a typed REST client for the Confluent Cloud APIs.
package confluent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onchain-media/confluent-mcp-server/pkg/config"
)

// Client wraps the Confluent Cloud REST APIs with typed operations.
// Each API surface (Flink, Kafka REST, Schema Registry, control plane)
// has its own base URL and API key pair.
type Client struct {
	httpClient *http.Client
	config     *config.Config
}

// endpoint pairs a base URL with the credentials used against it.
type endpoint struct {
	baseURL string
	creds   config.Credentials
}

// NewClient creates a new Confluent Cloud client.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *config.Config {
	return c.config
}

func (c *Client) flinkEndpoint() endpoint {
	return endpoint{baseURL: c.config.Endpoints.Flink, creds: c.config.FlinkCredentials}
}

func (c *Client) kafkaEndpoint() endpoint {
	return endpoint{baseURL: c.config.Endpoints.KafkaRest, creds: c.config.KafkaCredentials}
}

func (c *Client) schemaRegistryEndpoint() endpoint {
	return endpoint{baseURL: c.config.Endpoints.SchemaRegistry, creds: c.config.SchemaRegistryCredentials}
}

func (c *Client) cloudEndpoint() endpoint {
	return endpoint{baseURL: c.config.Endpoints.ConfluentCloud, creds: c.config.CloudCredentials}
}

// APIError represents a non-2xx response from a Confluent Cloud API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("confluent API %s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// do issues one request against an API surface and decodes the JSON
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, ep endpoint, method, path string, query url.Values, body, out interface{}) error {
	if ep.baseURL == "" {
		return fmt.Errorf("no endpoint configured for %s", path)
	}

	reqURL := strings.TrimRight(ep.baseURL, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ep.creds.APIKey != "" {
		req.SetBasicAuth(ep.creds.APIKey, ep.creds.APISecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}
