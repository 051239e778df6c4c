// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration types and loading for the Confluent MCP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Role defines the permission level for Confluent Cloud operations.
type Role string

const (
	RoleReadOnly  Role = "read-only"
	RoleReadWrite Role = "read-write"
	RoleAdmin     Role = "admin"
)

// Endpoints holds the base URLs for the Confluent Cloud API surfaces.
type Endpoints struct {
	ConfluentCloud string `json:"confluent_cloud,omitempty"`
	Flink          string `json:"flink,omitempty"`
	KafkaRest      string `json:"kafka_rest,omitempty"`
	SchemaRegistry string `json:"schema_registry,omitempty"`
}

// Credentials holds an API key pair for one Confluent Cloud API surface.
// SecretEnv names an environment variable consulted when APISecret is empty.
type Credentials struct {
	APIKey    string `json:"api_key,omitempty"`
	APISecret string `json:"api_secret,omitempty"`
	SecretEnv string `json:"secret_env,omitempty"`
}

// Config holds the complete configuration for the Confluent MCP server.
type Config struct {
	// API endpoints
	Endpoints Endpoints `json:"endpoints,omitempty"`

	// Per-surface authentication
	CloudCredentials          Credentials `json:"cloud_credentials,omitempty"`
	FlinkCredentials          Credentials `json:"flink_credentials,omitempty"`
	KafkaCredentials          Credentials `json:"kafka_credentials,omitempty"`
	SchemaRegistryCredentials Credentials `json:"schema_registry_credentials,omitempty"`

	// Default execution scope, used when tool arguments omit them
	FlinkOrgID         string `json:"flink_org_id,omitempty"`
	FlinkEnvID         string `json:"flink_env_id,omitempty"`
	FlinkComputePoolID string `json:"flink_compute_pool_id,omitempty"`
	FlinkDatabaseName  string `json:"flink_database_name,omitempty"`
	KafkaClusterID     string `json:"kafka_cluster_id,omitempty"`

	// Authorization
	Role Role `json:"role"`

	// Client settings
	TimeoutMs          int `json:"timeout_ms"`
	StatementTimeoutMs int `json:"statement_timeout_ms"`
	MaxStatementLength int `json:"max_statement_length"`

	// Server settings
	Transport string `json:"transport"` // "stdio" or "sse"
	Port      int    `json:"port,omitempty"`

	// Audit settings
	Audit AuditConfig `json:"audit,omitempty"`
}

// AuditConfig holds audit logging configuration.
type AuditConfig struct {
	Enabled          bool    `json:"enabled"`
	FilePath         string  `json:"file_path,omitempty"`
	BufferSize       int     `json:"buffer_size"`
	RateLimitEnabled bool    `json:"rate_limit_enabled"`
	RateLimitRPS     float64 `json:"rate_limit_rps"`
	RateLimitBurst   int     `json:"rate_limit_burst"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoints: Endpoints{
			ConfluentCloud: "https://api.confluent.cloud",
		},
		Role:               RoleReadOnly,
		TimeoutMs:          10000,
		StatementTimeoutMs: 30000,
		MaxStatementLength: 10000,
		Transport:          "stdio",
		Audit: AuditConfig{
			Enabled:          true,
			BufferSize:       100,
			RateLimitEnabled: true,
			RateLimitRPS:     100,
			RateLimitBurst:   200,
		},
	}
}

// Load reads configuration from a file path or uses defaults.
// If configPath is empty, it checks for CONFLUENT_MCP_CONFIG env var.
// A .env file in the working directory is loaded first so that
// credentials can live outside the config file.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env file is not an error
	_ = godotenv.Load()

	// Check environment variable if no path provided
	if configPath == "" {
		configPath = os.Getenv("CONFLUENT_MCP_CONFIG")
	}

	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides fills credentials and scope defaults from the
// conventional Confluent environment variables.
func (c *Config) applyEnvOverrides() {
	overrideString(&c.CloudCredentials.APIKey, "CONFLUENT_CLOUD_API_KEY")
	overrideString(&c.CloudCredentials.APISecret, "CONFLUENT_CLOUD_API_SECRET")
	overrideString(&c.FlinkCredentials.APIKey, "FLINK_API_KEY")
	overrideString(&c.FlinkCredentials.APISecret, "FLINK_API_SECRET")
	overrideString(&c.KafkaCredentials.APIKey, "KAFKA_API_KEY")
	overrideString(&c.KafkaCredentials.APISecret, "KAFKA_API_SECRET")
	overrideString(&c.SchemaRegistryCredentials.APIKey, "SCHEMA_REGISTRY_API_KEY")
	overrideString(&c.SchemaRegistryCredentials.APISecret, "SCHEMA_REGISTRY_API_SECRET")

	overrideString(&c.Endpoints.Flink, "FLINK_REST_ENDPOINT")
	overrideString(&c.Endpoints.KafkaRest, "KAFKA_REST_ENDPOINT")
	overrideString(&c.Endpoints.SchemaRegistry, "SCHEMA_REGISTRY_ENDPOINT")

	overrideString(&c.FlinkOrgID, "FLINK_ORG_ID")
	overrideString(&c.FlinkEnvID, "FLINK_ENV_ID")
	overrideString(&c.FlinkComputePoolID, "FLINK_COMPUTE_POOL_ID")
	overrideString(&c.FlinkDatabaseName, "FLINK_DATABASE_NAME")
	overrideString(&c.KafkaClusterID, "KAFKA_CLUSTER_ID")

	// Secret env indirection, same pattern for every surface
	resolveSecretEnv(&c.CloudCredentials)
	resolveSecretEnv(&c.FlinkCredentials)
	resolveSecretEnv(&c.KafkaCredentials)
	resolveSecretEnv(&c.SchemaRegistryCredentials)
}

func overrideString(dst *string, envKey string) {
	if *dst == "" {
		*dst = os.Getenv(envKey)
	}
}

func resolveSecretEnv(creds *Credentials) {
	if creds.SecretEnv != "" && creds.APISecret == "" {
		creds.APISecret = os.Getenv(creds.SecretEnv)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Role {
	case RoleReadOnly, RoleReadWrite, RoleAdmin:
		// Valid roles
	case "":
		c.Role = RoleReadOnly
	default:
		return fmt.Errorf("invalid role: %s (must be read-only, read-write, or admin)", c.Role)
	}

	validTransports := []string{"stdio", "sse"}
	transportValid := false
	for _, t := range validTransports {
		if strings.EqualFold(c.Transport, t) {
			transportValid = true
			break
		}
	}
	if !transportValid {
		return fmt.Errorf("invalid transport: %s (must be stdio or sse)", c.Transport)
	}

	if c.FlinkEnvID != "" && !strings.HasPrefix(c.FlinkEnvID, "env-") {
		return fmt.Errorf("invalid flink_env_id: %s (must begin with env-)", c.FlinkEnvID)
	}

	if c.KafkaClusterID != "" && !strings.HasPrefix(c.KafkaClusterID, "lkc-") {
		return fmt.Errorf("invalid kafka_cluster_id: %s (must begin with lkc-)", c.KafkaClusterID)
	}

	if c.TimeoutMs <= 0 {
		c.TimeoutMs = 10000
	}

	if c.StatementTimeoutMs <= 0 {
		c.StatementTimeoutMs = 30000
	}

	if c.MaxStatementLength <= 0 {
		c.MaxStatementLength = 10000
	}

	return nil
}

// CanWrite returns true if the role permits write operations.
func (c *Config) CanWrite() bool {
	return c.Role == RoleReadWrite || c.Role == RoleAdmin
}

// CanAdmin returns true if the role permits administrative operations.
func (c *Config) CanAdmin() bool {
	return c.Role == RoleAdmin
}
