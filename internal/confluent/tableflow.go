// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package confluent

import (
	"context"
	"net/http"
	"net/url"
)

// TableflowTopic describes a Kafka topic materialized as an open-table
// format table through Tableflow.
type TableflowTopic struct {
	DisplayName string              `json:"display_name"`
	Suspended   bool                `json:"suspended,omitempty"`
	Spec        *TableflowTopicSpec `json:"spec,omitempty"`
	Phase       string              `json:"phase,omitempty"`
}

// TableflowTopicSpec holds the user-settable portion of a Tableflow topic.
type TableflowTopicSpec struct {
	DisplayName  string   `json:"display_name"`
	TableFormats []string `json:"table_formats,omitempty"`
	Storage      *Storage `json:"storage,omitempty"`
}

// Storage identifies where materialized table data lands.
type Storage struct {
	Kind     string `json:"kind"`
	BucketName string `json:"bucket_name,omitempty"`
}

type tableflowTopicList struct {
	Data []TableflowTopic `json:"data"`
}

const tableflowTopicsPath = "/tableflow/v1/tableflow-topics"

func tableflowQuery(envID, clusterID string) url.Values {
	return url.Values{
		"environment":        {envID},
		"spec.kafka_cluster": {clusterID},
	}
}

// ListTableflowTopics returns all Tableflow-enabled topics on the cluster.
func (c *Client) ListTableflowTopics(ctx context.Context, envID, clusterID string) ([]TableflowTopic, error) {
	var list tableflowTopicList
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodGet, tableflowTopicsPath, tableflowQuery(envID, clusterID), nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// GetTableflowTopic fetches one Tableflow topic by display name.
func (c *Client) GetTableflowTopic(ctx context.Context, envID, clusterID, name string) (*TableflowTopic, error) {
	path := tableflowTopicsPath + "/" + url.PathEscape(name)

	var topic TableflowTopic
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodGet, path, tableflowQuery(envID, clusterID), nil, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// CreateTableflowTopic enables Tableflow for a topic.
func (c *Client) CreateTableflowTopic(ctx context.Context, envID, clusterID string, spec TableflowTopicSpec) (*TableflowTopic, error) {
	var topic TableflowTopic
	if err := c.do(ctx, c.cloudEndpoint(), http.MethodPost, tableflowTopicsPath, tableflowQuery(envID, clusterID), spec, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// DeleteTableflowTopic disables Tableflow for a topic.
func (c *Client) DeleteTableflowTopic(ctx context.Context, envID, clusterID, name string) error {
	path := tableflowTopicsPath + "/" + url.PathEscape(name)
	return c.do(ctx, c.cloudEndpoint(), http.MethodDelete, path, tableflowQuery(envID, clusterID), nil, nil)
}
