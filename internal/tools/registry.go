// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

// Package tools implements MCP tool definitions and handlers for Confluent Cloud operations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onchain-media/confluent-mcp-server/internal/audit"
	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
	"github.com/onchain-media/confluent-mcp-server/internal/flink"
	"github.com/onchain-media/confluent-mcp-server/pkg/config"
)

// ToolDefinition represents an MCP tool definition.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema represents the JSON schema for tool inputs.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property represents a property in the input schema.
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Items       *Property   `json:"items,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// Registry manages available MCP tools.
type Registry struct {
	client    *confluent.Client
	config    *config.Config
	validator *audit.Validator
	tools     map[string]ToolHandler
}

// ToolHandler is a function that handles a tool call.
type ToolHandler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// NewRegistry creates a new tool registry.
func NewRegistry(client *confluent.Client, cfg *config.Config) *Registry {
	r := &Registry{
		client:    client,
		config:    cfg,
		validator: audit.NewValidator(validatorConfig(cfg)),
		tools:     make(map[string]ToolHandler),
	}

	// Register read tools
	r.registerReadTools()

	// Register the Flink statement pipeline
	r.registerStatementTools()

	// Register write tools (if permitted)
	if cfg.CanWrite() {
		r.registerWriteTools()
	}

	// Register destructive tools (if admin)
	if cfg.CanAdmin() {
		r.registerAdminTools()
	}

	return r
}

func validatorConfig(cfg *config.Config) audit.ValidatorConfig {
	vc := audit.DefaultValidatorConfig()
	if cfg.MaxStatementLength > 0 {
		vc.MaxStatementLength = cfg.MaxStatementLength
	}
	return vc
}

// List returns all available tool definitions.
func (r *Registry) List() []ToolDefinition {
	clusterProp := Property{Type: "string", Description: "Kafka cluster ID (lkc-xxx, defaults to configured cluster)"}

	definitions := []ToolDefinition{
		// Kafka topics
		{
			Name:        "list_topics",
			Description: "List all Kafka topics on the cluster",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"cluster_id": clusterProp,
				},
			},
		},
		// Flink SQL
		{
			Name: "execute_flink_statement",
			Description: "Execute a bounded Flink SQL statement on a compute pool and return all result rows. " +
				"Catalog and database hints may be friendly names or stable IDs (env-xxx / lkc-xxx).",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"sql":             {Type: "string", Description: "Flink SQL statement text"},
					"catalog_name":    {Type: "string", Description: "Catalog scope: environment ID (env-xxx) or display name (defaults to configured environment)"},
					"database_name":   {Type: "string", Description: "Database scope: cluster ID (lkc-xxx) or display name (defaults to configured cluster)"},
					"organization_id": {Type: "string", Description: "Organization ID (defaults to configured organization)"},
					"environment_id":  {Type: "string", Description: "Environment ID for statement placement (defaults to configured environment)"},
					"compute_pool_id": {Type: "string", Description: "Flink compute pool ID (defaults to configured pool)"},
					"timeout_ms":      {Type: "integer", Description: "Overall timeout in milliseconds (default: 30000)", Default: 30000},
				},
				Required: []string{"sql"},
			},
		},
		{
			Name:        "list_flink_statements",
			Description: "List Flink SQL statements in an environment with their lifecycle phases",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"organization_id": {Type: "string", Description: "Organization ID (defaults to configured organization)"},
					"environment_id":  {Type: "string", Description: "Environment ID (defaults to configured environment)"},
				},
			},
		},
		// Schema Registry tags
		{
			Name:        "list_tags",
			Description: "List all Schema Registry catalog tag definitions",
			InputSchema: InputSchema{Type: "object"},
		},
		// Connect
		{
			Name:        "list_connectors",
			Description: "List managed connector names on the cluster",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
					"cluster_id":     clusterProp,
				},
			},
		},
		{
			Name:        "read_connector",
			Description: "Retrieve a connector's configuration and task status",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
					"cluster_id":     clusterProp,
					"connector_name": {Type: "string", Description: "Connector name"},
				},
				Required: []string{"connector_name"},
			},
		},
		// Tableflow
		{
			Name:        "list_tableflow_topics",
			Description: "List topics materialized as open-table-format tables through Tableflow",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
					"cluster_id":     clusterProp,
				},
			},
		},
		{
			Name:        "read_tableflow_topic",
			Description: "Retrieve one Tableflow topic by name",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
					"cluster_id":     clusterProp,
					"topic_name":     {Type: "string", Description: "Tableflow topic display name"},
				},
				Required: []string{"topic_name"},
			},
		},
	}

	// Add write tools if permitted
	if r.config.CanWrite() {
		definitions = append(definitions,
			ToolDefinition{
				Name:        "create_topic",
				Description: "Create a Kafka topic on the cluster",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"cluster_id":         clusterProp,
						"topic_name":         {Type: "string", Description: "Topic name"},
						"partitions_count":   {Type: "integer", Description: "Partition count (default: 6)", Default: 6},
						"replication_factor": {Type: "integer", Description: "Replication factor (default: 3)", Default: 3},
						"configs":            {Type: "object", Description: "Topic configuration overrides"},
					},
					Required: []string{"topic_name"},
				},
			},
			ToolDefinition{
				Name:        "create_tags",
				Description: "Define new Schema Registry catalog tags",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"tags": {
							Type:        "array",
							Description: "Tag definitions: {name: string, description?: string}",
							Items:       &Property{Type: "object"},
						},
					},
					Required: []string{"tags"},
				},
			},
			ToolDefinition{
				Name:        "tag_entity",
				Description: "Attach existing tags to catalog entities such as topics or schema records",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"bindings": {
							Type:        "array",
							Description: "Tag bindings: {typeName: string, entityType: string, entityName: string}",
							Items:       &Property{Type: "object"},
						},
					},
					Required: []string{"bindings"},
				},
			},
			ToolDefinition{
				Name:        "create_connector",
				Description: "Provision a managed connector on the cluster",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
						"cluster_id":     clusterProp,
						"connector_name": {Type: "string", Description: "Connector name"},
						"config":         {Type: "object", Description: "Connector configuration key-value pairs"},
					},
					Required: []string{"connector_name", "config"},
				},
			},
			ToolDefinition{
				Name:        "create_tableflow_topic",
				Description: "Enable Tableflow materialization for a topic",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
						"cluster_id":     clusterProp,
						"topic_name":     {Type: "string", Description: "Topic to materialize"},
						"table_formats":  {Type: "array", Description: "Table formats (e.g. ICEBERG, DELTA)", Items: &Property{Type: "string"}},
					},
					Required: []string{"topic_name"},
				},
			},
		)
	}

	// Add admin tools if permitted
	if r.config.CanAdmin() {
		definitions = append(definitions,
			ToolDefinition{
				Name:        "delete_topic",
				Description: "Delete a Kafka topic. Requires explicit confirmation.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"cluster_id": clusterProp,
						"topic_name": {Type: "string", Description: "Topic name"},
						"confirm":    {Type: "boolean", Description: "Confirmation flag (required: true)"},
					},
					Required: []string{"topic_name", "confirm"},
				},
			},
			ToolDefinition{
				Name:        "delete_flink_statement",
				Description: "Delete a Flink SQL statement by name",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"organization_id": {Type: "string", Description: "Organization ID (defaults to configured organization)"},
						"environment_id":  {Type: "string", Description: "Environment ID (defaults to configured environment)"},
						"statement_name":  {Type: "string", Description: "Statement name"},
					},
					Required: []string{"statement_name"},
				},
			},
			ToolDefinition{
				Name:        "delete_tag",
				Description: "Delete a Schema Registry catalog tag definition",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"tag_name": {Type: "string", Description: "Tag name"},
						"confirm":  {Type: "boolean", Description: "Confirmation flag (required: true)"},
					},
					Required: []string{"tag_name", "confirm"},
				},
			},
			ToolDefinition{
				Name:        "delete_connector",
				Description: "Delete a managed connector. Requires explicit confirmation.",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
						"cluster_id":     clusterProp,
						"connector_name": {Type: "string", Description: "Connector name"},
						"confirm":        {Type: "boolean", Description: "Confirmation flag (required: true)"},
					},
					Required: []string{"connector_name", "confirm"},
				},
			},
			ToolDefinition{
				Name:        "delete_tableflow_topic",
				Description: "Disable Tableflow materialization for a topic",
				InputSchema: InputSchema{
					Type: "object",
					Properties: map[string]Property{
						"environment_id": {Type: "string", Description: "Environment ID (defaults to configured environment)"},
						"cluster_id":     clusterProp,
						"topic_name":     {Type: "string", Description: "Tableflow topic display name"},
					},
					Required: []string{"topic_name"},
				},
			},
		)
	}

	return definitions
}

// Call executes a tool by name with the given arguments.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	handler, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return handler(ctx, args)
}

// ============================================================================
// Tool Registration
// ============================================================================

func (r *Registry) registerReadTools() {
	r.tools["list_topics"] = r.handleListTopics
	r.tools["list_flink_statements"] = r.handleListFlinkStatements
	r.tools["list_tags"] = r.handleListTags
	r.tools["list_connectors"] = r.handleListConnectors
	r.tools["read_connector"] = r.handleReadConnector
	r.tools["list_tableflow_topics"] = r.handleListTableflowTopics
	r.tools["read_tableflow_topic"] = r.handleReadTableflowTopic
}

func (r *Registry) registerStatementTools() {
	r.tools["execute_flink_statement"] = r.handleExecuteFlinkStatement
}

func (r *Registry) registerWriteTools() {
	r.tools["create_topic"] = r.handleCreateTopic
	r.tools["create_tags"] = r.handleCreateTags
	r.tools["tag_entity"] = r.handleTagEntity
	r.tools["create_connector"] = r.handleCreateConnector
	r.tools["create_tableflow_topic"] = r.handleCreateTableflowTopic
}

func (r *Registry) registerAdminTools() {
	r.tools["delete_topic"] = r.handleDeleteTopic
	r.tools["delete_flink_statement"] = r.handleDeleteFlinkStatement
	r.tools["delete_tag"] = r.handleDeleteTag
	r.tools["delete_connector"] = r.handleDeleteConnector
	r.tools["delete_tableflow_topic"] = r.handleDeleteTableflowTopic
}

// ============================================================================
// Scope helpers
// ============================================================================

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *Registry) clusterID(argValue string) (string, error) {
	id := firstNonEmpty(argValue, r.config.KafkaClusterID)
	if id == "" {
		return "", fmt.Errorf("no cluster_id provided and no default configured")
	}
	return id, nil
}

func (r *Registry) environmentID(argValue string) (string, error) {
	id := firstNonEmpty(argValue, r.config.FlinkEnvID)
	if id == "" {
		return "", fmt.Errorf("no environment_id provided and no default configured")
	}
	return id, nil
}

func (r *Registry) organizationID(argValue string) (string, error) {
	id := firstNonEmpty(argValue, r.config.FlinkOrgID)
	if id == "" {
		return "", fmt.Errorf("no organization_id provided and no default configured")
	}
	return id, nil
}

// ============================================================================
// Flink Statement Handlers
// ============================================================================

type executeFlinkStatementArgs struct {
	SQL            string `json:"sql"`
	CatalogName    string `json:"catalog_name"`
	DatabaseName   string `json:"database_name"`
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
	ComputePoolID  string `json:"compute_pool_id"`
	TimeoutMs      int    `json:"timeout_ms"`
}

func (r *Registry) handleExecuteFlinkStatement(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a executeFlinkStatementArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateSQL(a.SQL); err != nil {
		return nil, err
	}

	orgID, err := r.organizationID(a.OrganizationID)
	if err != nil {
		return nil, err
	}
	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	poolID := firstNonEmpty(a.ComputePoolID, r.config.FlinkComputePoolID)
	if poolID == "" {
		return nil, fmt.Errorf("no compute_pool_id provided and no default configured")
	}

	timeout := time.Duration(r.config.StatementTimeoutMs) * time.Millisecond
	if a.TimeoutMs > 0 {
		timeout = time.Duration(a.TimeoutMs) * time.Millisecond
	}

	session := flink.NewSession(r.client, flink.SessionConfig{
		Scope: flink.Scope{
			OrganizationID: orgID,
			EnvironmentID:  envID,
			ComputePoolID:  poolID,
		},
		DefaultEnvironmentID: r.config.FlinkEnvID,
		DefaultClusterID:     firstNonEmpty(r.config.FlinkDatabaseName, r.config.KafkaClusterID),
		Timeout:              timeout,
		MaxSQLLength:         r.config.MaxStatementLength,
	})

	// The outcome is the tool result in both the success and failure
	// case: the calling agent inspects it and decides whether to
	// resubmit.
	return session.Execute(ctx, a.SQL, a.CatalogName, a.DatabaseName), nil
}

type listFlinkStatementsArgs struct {
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
}

func (r *Registry) handleListFlinkStatements(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a listFlinkStatementsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	orgID, err := r.organizationID(a.OrganizationID)
	if err != nil {
		return nil, err
	}
	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}

	return r.client.ListStatements(ctx, orgID, envID)
}

type deleteFlinkStatementArgs struct {
	OrganizationID string `json:"organization_id"`
	EnvironmentID  string `json:"environment_id"`
	StatementName  string `json:"statement_name"`
}

func (r *Registry) handleDeleteFlinkStatement(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a deleteFlinkStatementArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if a.StatementName == "" {
		return nil, fmt.Errorf("statement_name is required")
	}

	orgID, err := r.organizationID(a.OrganizationID)
	if err != nil {
		return nil, err
	}
	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}

	if err := r.client.DeleteStatement(ctx, orgID, envID, a.StatementName); err != nil {
		return nil, err
	}

	return map[string]string{"status": "ok", "deleted": a.StatementName}, nil
}

// ============================================================================
// Kafka Topic Handlers
// ============================================================================

type listTopicsArgs struct {
	ClusterID string `json:"cluster_id"`
}

func (r *Registry) handleListTopics(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a listTopicsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.ListTopics(ctx, clusterID)
}

type createTopicArgs struct {
	ClusterID         string            `json:"cluster_id"`
	TopicName         string            `json:"topic_name"`
	PartitionsCount   int               `json:"partitions_count"`
	ReplicationFactor int               `json:"replication_factor"`
	Configs           map[string]string `json:"configs"`
}

func (r *Registry) handleCreateTopic(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a createTopicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateTopicName(a.TopicName); err != nil {
		return nil, err
	}

	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	req := confluent.CreateTopicRequest{
		TopicName:         a.TopicName,
		PartitionsCount:   a.PartitionsCount,
		ReplicationFactor: a.ReplicationFactor,
	}
	for name, value := range a.Configs {
		req.Configs = append(req.Configs, confluent.TopicConfigEntry{Name: name, Value: value})
	}

	return r.client.CreateTopic(ctx, clusterID, req)
}

type deleteTopicArgs struct {
	ClusterID string `json:"cluster_id"`
	TopicName string `json:"topic_name"`
	Confirm   bool   `json:"confirm"`
}

func (r *Registry) handleDeleteTopic(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a deleteTopicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if !a.Confirm {
		return nil, fmt.Errorf("delete_topic requires confirm=true")
	}

	if err := r.validator.ValidateTopicName(a.TopicName); err != nil {
		return nil, err
	}

	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	if err := r.client.DeleteTopic(ctx, clusterID, a.TopicName); err != nil {
		return nil, err
	}

	return map[string]string{"status": "ok", "deleted": a.TopicName}, nil
}

// ============================================================================
// Schema Registry Tag Handlers
// ============================================================================

func (r *Registry) handleListTags(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return r.client.ListTags(ctx)
}

type createTagsArgs struct {
	Tags []confluent.TagDef `json:"tags"`
}

func (r *Registry) handleCreateTags(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a createTagsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if len(a.Tags) == 0 {
		return nil, fmt.Errorf("tags must not be empty")
	}
	for _, tag := range a.Tags {
		if err := r.validator.ValidateTagName(tag.Name); err != nil {
			return nil, err
		}
	}

	return r.client.CreateTags(ctx, a.Tags)
}

type tagEntityArgs struct {
	Bindings []confluent.TagBinding `json:"bindings"`
}

func (r *Registry) handleTagEntity(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a tagEntityArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateBatchSize(len(a.Bindings)); err != nil {
		return nil, err
	}

	return r.client.TagEntity(ctx, a.Bindings)
}

type deleteTagArgs struct {
	TagName string `json:"tag_name"`
	Confirm bool   `json:"confirm"`
}

func (r *Registry) handleDeleteTag(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a deleteTagArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if !a.Confirm {
		return nil, fmt.Errorf("delete_tag requires confirm=true")
	}

	if err := r.validator.ValidateTagName(a.TagName); err != nil {
		return nil, err
	}

	if err := r.client.DeleteTag(ctx, a.TagName); err != nil {
		return nil, err
	}

	return map[string]string{"status": "ok", "deleted": a.TagName}, nil
}

// ============================================================================
// Connect Handlers
// ============================================================================

type listConnectorsArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
}

func (r *Registry) handleListConnectors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a listConnectorsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.ListConnectors(ctx, envID, clusterID)
}

type readConnectorArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
	ConnectorName string `json:"connector_name"`
}

func (r *Registry) handleReadConnector(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a readConnectorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateConnectorName(a.ConnectorName); err != nil {
		return nil, err
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.GetConnector(ctx, envID, clusterID, a.ConnectorName)
}

type createConnectorArgs struct {
	EnvironmentID string            `json:"environment_id"`
	ClusterID     string            `json:"cluster_id"`
	ConnectorName string            `json:"connector_name"`
	Config        map[string]string `json:"config"`
}

func (r *Registry) handleCreateConnector(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a createConnectorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateConnectorName(a.ConnectorName); err != nil {
		return nil, err
	}
	if len(a.Config) == 0 {
		return nil, fmt.Errorf("config must not be empty")
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.CreateConnector(ctx, envID, clusterID, confluent.CreateConnectorRequest{
		Name:   a.ConnectorName,
		Config: a.Config,
	})
}

type deleteConnectorArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
	ConnectorName string `json:"connector_name"`
	Confirm       bool   `json:"confirm"`
}

func (r *Registry) handleDeleteConnector(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a deleteConnectorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if !a.Confirm {
		return nil, fmt.Errorf("delete_connector requires confirm=true")
	}

	if err := r.validator.ValidateConnectorName(a.ConnectorName); err != nil {
		return nil, err
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	if err := r.client.DeleteConnector(ctx, envID, clusterID, a.ConnectorName); err != nil {
		return nil, err
	}

	return map[string]string{"status": "ok", "deleted": a.ConnectorName}, nil
}

// ============================================================================
// Tableflow Handlers
// ============================================================================

type listTableflowTopicsArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
}

func (r *Registry) handleListTableflowTopics(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a listTableflowTopicsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.ListTableflowTopics(ctx, envID, clusterID)
}

type readTableflowTopicArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
	TopicName     string `json:"topic_name"`
}

func (r *Registry) handleReadTableflowTopic(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a readTableflowTopicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateTopicName(a.TopicName); err != nil {
		return nil, err
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.GetTableflowTopic(ctx, envID, clusterID, a.TopicName)
}

type createTableflowTopicArgs struct {
	EnvironmentID string   `json:"environment_id"`
	ClusterID     string   `json:"cluster_id"`
	TopicName     string   `json:"topic_name"`
	TableFormats  []string `json:"table_formats"`
}

func (r *Registry) handleCreateTableflowTopic(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a createTableflowTopicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateTopicName(a.TopicName); err != nil {
		return nil, err
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	return r.client.CreateTableflowTopic(ctx, envID, clusterID, confluent.TableflowTopicSpec{
		DisplayName:  a.TopicName,
		TableFormats: a.TableFormats,
	})
}

type deleteTableflowTopicArgs struct {
	EnvironmentID string `json:"environment_id"`
	ClusterID     string `json:"cluster_id"`
	TopicName     string `json:"topic_name"`
}

func (r *Registry) handleDeleteTableflowTopic(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a deleteTableflowTopicArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := r.validator.ValidateTopicName(a.TopicName); err != nil {
		return nil, err
	}

	envID, err := r.environmentID(a.EnvironmentID)
	if err != nil {
		return nil, err
	}
	clusterID, err := r.clusterID(a.ClusterID)
	if err != nil {
		return nil, err
	}

	if err := r.client.DeleteTableflowTopic(ctx, envID, clusterID, a.TopicName); err != nil {
		return nil, err
	}

	return map[string]string{"status": "ok", "deleted": a.TopicName}, nil
}
