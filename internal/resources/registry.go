// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

// Package resources implements MCP resource definitions and handlers for Confluent Cloud.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
	"github.com/onchain-media/confluent-mcp-server/pkg/config"
)

// ResourceDefinition represents an MCP resource definition.
type ResourceDefinition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Registry manages available MCP resources.
type Registry struct {
	client *confluent.Client
	config *config.Config
}

// NewRegistry creates a new resource registry.
func NewRegistry(client *confluent.Client, cfg *config.Config) *Registry {
	return &Registry{
		client: client,
		config: cfg,
	}
}

// List returns all available resource definitions.
func (r *Registry) List() []ResourceDefinition {
	resources := []ResourceDefinition{
		{
			URI:         "confluent://topics",
			Name:        "Kafka Topics",
			Description: "Topic listing for the configured cluster",
			MimeType:    "application/json",
		},
		{
			URI:         "confluent://statements",
			Name:        "Flink Statements",
			Description: "Flink SQL statements and their lifecycle phases",
			MimeType:    "application/json",
		},
		{
			URI:         "confluent://connectors",
			Name:        "Connectors",
			Description: "Managed connector names on the configured cluster",
			MimeType:    "application/json",
		},
		{
			URI:         "confluent://tableflow-topics",
			Name:        "Tableflow Topics",
			Description: "Topics materialized as open-table-format tables",
			MimeType:    "application/json",
		},
		{
			URI:         "confluent://tags",
			Name:        "Catalog Tags",
			Description: "Schema Registry catalog tag definitions",
			MimeType:    "application/json",
		},
	}

	return resources
}

// Read retrieves the content of a resource by URI.
func (r *Registry) Read(ctx context.Context, uri string) (string, string, error) {
	if !strings.HasPrefix(uri, "confluent://") {
		return "", "", fmt.Errorf("invalid URI scheme: %s", uri)
	}

	path := strings.TrimPrefix(uri, "confluent://")

	switch {
	case path == "topics":
		return r.readTopics(ctx)

	case path == "statements":
		return r.readStatements(ctx)

	case strings.HasPrefix(path, "statements/"):
		return r.readStatement(ctx, strings.TrimPrefix(path, "statements/"))

	case path == "connectors":
		return r.readConnectors(ctx)

	case path == "tableflow-topics":
		return r.readTableflowTopics(ctx)

	case path == "tags":
		return r.readTags(ctx)

	default:
		return "", "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (r *Registry) clusterID() (string, error) {
	if r.config.KafkaClusterID == "" {
		return "", fmt.Errorf("no kafka cluster configured")
	}
	return r.config.KafkaClusterID, nil
}

func (r *Registry) flinkScope() (string, string, error) {
	if r.config.FlinkOrgID == "" || r.config.FlinkEnvID == "" {
		return "", "", fmt.Errorf("no flink organization/environment configured")
	}
	return r.config.FlinkOrgID, r.config.FlinkEnvID, nil
}

// readTopics returns the topic listing for the configured cluster.
func (r *Registry) readTopics(ctx context.Context) (string, string, error) {
	clusterID, err := r.clusterID()
	if err != nil {
		return "", "", err
	}

	topics, err := r.client.ListTopics(ctx, clusterID)
	if err != nil {
		return "", "", err
	}

	return marshalResource(map[string]interface{}{
		"cluster_id": clusterID,
		"topics":     topics,
	})
}

// readStatements returns the Flink statements in the configured environment.
func (r *Registry) readStatements(ctx context.Context) (string, string, error) {
	orgID, envID, err := r.flinkScope()
	if err != nil {
		return "", "", err
	}

	statements, err := r.client.ListStatements(ctx, orgID, envID)
	if err != nil {
		return "", "", err
	}

	return marshalResource(map[string]interface{}{
		"environment_id": envID,
		"statements":     statements,
	})
}

// readStatement returns a single Flink statement by name.
func (r *Registry) readStatement(ctx context.Context, name string) (string, string, error) {
	if name == "" {
		return "", "", fmt.Errorf("statement name is required")
	}

	orgID, envID, err := r.flinkScope()
	if err != nil {
		return "", "", err
	}

	statement, err := r.client.GetStatement(ctx, orgID, envID, name)
	if err != nil {
		return "", "", err
	}

	return marshalResource(statement)
}

// readConnectors returns connector names on the configured cluster.
func (r *Registry) readConnectors(ctx context.Context) (string, string, error) {
	clusterID, err := r.clusterID()
	if err != nil {
		return "", "", err
	}
	if r.config.FlinkEnvID == "" {
		return "", "", fmt.Errorf("no environment configured")
	}

	connectors, err := r.client.ListConnectors(ctx, r.config.FlinkEnvID, clusterID)
	if err != nil {
		return "", "", err
	}

	return marshalResource(map[string]interface{}{
		"cluster_id": clusterID,
		"connectors": connectors,
	})
}

// readTableflowTopics returns Tableflow-materialized topics on the configured cluster.
func (r *Registry) readTableflowTopics(ctx context.Context) (string, string, error) {
	clusterID, err := r.clusterID()
	if err != nil {
		return "", "", err
	}
	if r.config.FlinkEnvID == "" {
		return "", "", fmt.Errorf("no environment configured")
	}

	topics, err := r.client.ListTableflowTopics(ctx, r.config.FlinkEnvID, clusterID)
	if err != nil {
		return "", "", err
	}

	return marshalResource(map[string]interface{}{
		"cluster_id":       clusterID,
		"tableflow_topics": topics,
	})
}

// readTags returns Schema Registry catalog tag definitions.
func (r *Registry) readTags(ctx context.Context) (string, string, error) {
	tags, err := r.client.ListTags(ctx)
	if err != nil {
		return "", "", err
	}

	return marshalResource(map[string]interface{}{
		"tags": tags,
	})
}

func marshalResource(v interface{}) (string, string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", "", err
	}
	return string(data), "application/json", nil
}
