// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package confluent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ConnectorInfo describes a managed connector instance.
type ConnectorInfo struct {
	Name   string            `json:"name"`
	Type   string            `json:"type,omitempty"`
	Config map[string]string `json:"config,omitempty"`
	Tasks  []ConnectorTask   `json:"tasks,omitempty"`
}

// ConnectorTask identifies one task of a connector.
type ConnectorTask struct {
	Connector string `json:"connector"`
	Task      int    `json:"task"`
}

// CreateConnectorRequest is the body for connector creation.
type CreateConnectorRequest struct {
	Name   string            `json:"name"`
	Config map[string]string `json:"config"`
}

func connectorsPath(envID, clusterID string) string {
	return fmt.Sprintf("/connect/v1/environments/%s/clusters/%s/connectors", envID, clusterID)
}

// ListConnectors returns the names of all connectors on the cluster.
func (c *Client) ListConnectors(ctx context.Context, envID, clusterID string) ([]string, error) {
	var names []string
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodGet, connectorsPath(envID, clusterID), nil, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// GetConnector fetches a connector by name.
func (c *Client) GetConnector(ctx context.Context, envID, clusterID, name string) (*ConnectorInfo, error) {
	path := connectorsPath(envID, clusterID) + "/" + url.PathEscape(name)

	var info ConnectorInfo
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodGet, path, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateConnector provisions a new connector on the cluster.
func (c *Client) CreateConnector(ctx context.Context, envID, clusterID string, req CreateConnectorRequest) (*ConnectorInfo, error) {
	var info ConnectorInfo
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodPost, connectorsPath(envID, clusterID), nil, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteConnector removes a connector from the cluster.
func (c *Client) DeleteConnector(ctx context.Context, envID, clusterID, name string) error {
	path := connectorsPath(envID, clusterID) + "/" + url.PathEscape(name)
	return c.do(ctx, c.cloudEndpoint(), http.MethodDelete, path, nil, nil, nil)
}
