// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Endpoints.ConfluentCloud != "https://api.confluent.cloud" {
		t.Errorf("Expected cloud endpoint 'https://api.confluent.cloud', got '%s'", cfg.Endpoints.ConfluentCloud)
	}

	if cfg.Role != RoleReadOnly {
		t.Errorf("Expected role '%s', got '%s'", RoleReadOnly, cfg.Role)
	}

	if cfg.Transport != "stdio" {
		t.Errorf("Expected transport 'stdio', got '%s'", cfg.Transport)
	}

	if cfg.StatementTimeoutMs != 30000 {
		t.Errorf("Expected statement timeout 30000, got %d", cfg.StatementTimeoutMs)
	}

	if cfg.MaxStatementLength != 10000 {
		t.Errorf("Expected max statement length 10000, got %d", cfg.MaxStatementLength)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid default",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "invalid role",
			config: &Config{
				Role:      "invalid",
				Transport: "stdio",
			},
			wantErr: true,
		},
		{
			name: "empty role defaults to read-only",
			config: &Config{
				Role:      "",
				Transport: "stdio",
			},
			wantErr: false,
		},
		{
			name: "invalid transport",
			config: &Config{
				Role:      RoleReadOnly,
				Transport: "websocket",
			},
			wantErr: true,
		},
		{
			name: "sse transport",
			config: &Config{
				Role:      RoleAdmin,
				Transport: "sse",
			},
			wantErr: false,
		},
		{
			name: "bad environment prefix",
			config: &Config{
				Role:       RoleReadOnly,
				Transport:  "stdio",
				FlinkEnvID: "environment-123",
			},
			wantErr: true,
		},
		{
			name: "bad cluster prefix",
			config: &Config{
				Role:           RoleReadOnly,
				Transport:      "stdio",
				KafkaClusterID: "cluster-abc",
			},
			wantErr: true,
		},
		{
			name: "valid scope IDs",
			config: &Config{
				Role:           RoleReadOnly,
				Transport:      "stdio",
				FlinkEnvID:     "env-123",
				KafkaClusterID: "lkc-abc",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := &Config{
		Role:      RoleReadOnly,
		Transport: "stdio",
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.TimeoutMs != 10000 {
		t.Errorf("Expected timeout default 10000, got %d", cfg.TimeoutMs)
	}

	if cfg.StatementTimeoutMs != 30000 {
		t.Errorf("Expected statement timeout default 30000, got %d", cfg.StatementTimeoutMs)
	}

	if cfg.MaxStatementLength != 10000 {
		t.Errorf("Expected max statement length default 10000, got %d", cfg.MaxStatementLength)
	}
}

func TestCanWrite(t *testing.T) {
	tests := []struct {
		role     Role
		canWrite bool
	}{
		{RoleReadOnly, false},
		{RoleReadWrite, true},
		{RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			if cfg.CanWrite() != tt.canWrite {
				t.Errorf("CanWrite() = %v, want %v", cfg.CanWrite(), tt.canWrite)
			}
		})
	}
}

func TestCanAdmin(t *testing.T) {
	tests := []struct {
		role     Role
		canAdmin bool
	}{
		{RoleReadOnly, false},
		{RoleReadWrite, false},
		{RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			if cfg.CanAdmin() != tt.canAdmin {
				t.Errorf("CanAdmin() = %v, want %v", cfg.CanAdmin(), tt.canAdmin)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"role": "admin",
		"transport": "sse",
		"flink_org_id": "b0b21724-4586-4a07-b787-d0bb5aacbf87",
		"flink_env_id": "env-z3y2x1",
		"flink_compute_pool_id": "lfcp-8m03rm",
		"kafka_cluster_id": "lkc-ab123",
		"statement_timeout_ms": 45000
	}`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Role != RoleAdmin {
		t.Errorf("Expected role 'admin', got '%s'", cfg.Role)
	}

	if cfg.FlinkEnvID != "env-z3y2x1" {
		t.Errorf("Expected env 'env-z3y2x1', got '%s'", cfg.FlinkEnvID)
	}

	if cfg.StatementTimeoutMs != 45000 {
		t.Errorf("Expected statement timeout 45000, got %d", cfg.StatementTimeoutMs)
	}
}

func TestLoadSecretEnvIndirection(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"transport": "stdio",
		"flink_credentials": {
			"api_key": "FLINKKEY",
			"secret_env": "TEST_FLINK_API_SECRET"
		}
	}`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("TEST_FLINK_API_SECRET", "secret123")
	defer os.Unsetenv("TEST_FLINK_API_SECRET")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FlinkCredentials.APISecret != "secret123" {
		t.Errorf("Expected flink secret 'secret123', got '%s'", cfg.FlinkCredentials.APISecret)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	os.Setenv("KAFKA_CLUSTER_ID", "lkc-env1")
	os.Setenv("CONFLUENT_CLOUD_API_KEY", "CLOUDKEY")
	defer os.Unsetenv("KAFKA_CLUSTER_ID")
	defer os.Unsetenv("CONFLUENT_CLOUD_API_KEY")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.KafkaClusterID != "lkc-env1" {
		t.Errorf("Expected cluster 'lkc-env1', got '%s'", cfg.KafkaClusterID)
	}

	if cfg.CloudCredentials.APIKey != "CLOUDKEY" {
		t.Errorf("Expected cloud key 'CLOUDKEY', got '%s'", cfg.CloudCredentials.APIKey)
	}
}

func TestLoadFileValuesWinOverEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configContent := `{
		"transport": "stdio",
		"kafka_cluster_id": "lkc-file"
	}`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("KAFKA_CLUSTER_ID", "lkc-env1")
	defer os.Unsetenv("KAFKA_CLUSTER_ID")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.KafkaClusterID != "lkc-file" {
		t.Errorf("Expected file value 'lkc-file' to win, got '%s'", cfg.KafkaClusterID)
	}
}
