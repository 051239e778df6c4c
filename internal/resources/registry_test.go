// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/onchain-media/confluent-mcp-server/pkg/config"
)

func TestResourceDefinition(t *testing.T) {
	def := ResourceDefinition{
		URI:         "confluent://topics",
		Name:        "Kafka Topics",
		Description: "Topic listing for the configured cluster",
		MimeType:    "application/json",
	}

	data, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("Failed to marshal ResourceDefinition: %v", err)
	}

	var parsed ResourceDefinition
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal ResourceDefinition: %v", err)
	}

	if parsed.URI != "confluent://topics" {
		t.Errorf("Expected URI 'confluent://topics', got '%s'", parsed.URI)
	}

	if parsed.MimeType != "application/json" {
		t.Errorf("Expected MimeType 'application/json', got '%s'", parsed.MimeType)
	}
}

func TestListResources(t *testing.T) {
	cfg := &config.Config{
		Role:           config.RoleReadOnly,
		KafkaClusterID: "lkc-abc123",
	}

	r := NewRegistry(nil, cfg)

	definitions := r.List()
	if len(definitions) == 0 {
		t.Fatal("Expected at least one resource definition")
	}

	uris := make(map[string]bool)
	for _, def := range definitions {
		if !strings.HasPrefix(def.URI, "confluent://") {
			t.Errorf("Resource URI '%s' does not use confluent:// scheme", def.URI)
		}
		if def.MimeType != "application/json" {
			t.Errorf("Resource '%s' has unexpected mime type '%s'", def.URI, def.MimeType)
		}
		uris[def.URI] = true
	}

	for _, expected := range []string{
		"confluent://topics",
		"confluent://statements",
		"confluent://connectors",
		"confluent://tableflow-topics",
		"confluent://tags",
	} {
		if !uris[expected] {
			t.Errorf("Expected resource '%s' to be listed", expected)
		}
	}
}

func TestReadRejectsInvalidScheme(t *testing.T) {
	cfg := &config.Config{Role: config.RoleReadOnly}
	r := NewRegistry(nil, cfg)

	invalidURIs := []string{
		"http://topics",
		"kafka://topics",
		"invalid",
		"",
	}

	for _, uri := range invalidURIs {
		if _, _, err := r.Read(context.Background(), uri); err == nil {
			t.Errorf("Expected error for URI '%s'", uri)
		}
	}
}

func TestReadUnknownResource(t *testing.T) {
	cfg := &config.Config{Role: config.RoleReadOnly}
	r := NewRegistry(nil, cfg)

	_, _, err := r.Read(context.Background(), "confluent://no-such-resource")
	if err == nil {
		t.Fatal("Expected error for unknown resource")
	}
	if !strings.Contains(err.Error(), "unknown resource") {
		t.Errorf("Expected unknown resource error, got: %v", err)
	}
}

func TestReadRequiresConfiguredScope(t *testing.T) {
	// Without a configured cluster or environment, scoped reads fail
	// before touching the client.
	cfg := &config.Config{Role: config.RoleReadOnly}
	r := NewRegistry(nil, cfg)

	scopedURIs := []string{
		"confluent://topics",
		"confluent://statements",
		"confluent://connectors",
		"confluent://tableflow-topics",
	}

	for _, uri := range scopedURIs {
		if _, _, err := r.Read(context.Background(), uri); err == nil {
			t.Errorf("Expected scope error for '%s' with empty config", uri)
		}
	}
}

func TestReadStatementRequiresName(t *testing.T) {
	cfg := &config.Config{
		Role:       config.RoleReadOnly,
		FlinkOrgID: "org-1",
		FlinkEnvID: "env-abc",
	}
	r := NewRegistry(nil, cfg)

	_, _, err := r.Read(context.Background(), "confluent://statements/")
	if err == nil {
		t.Fatal("Expected error for empty statement name")
	}
}

func TestMarshalResource(t *testing.T) {
	content, mime, err := marshalResource(map[string]interface{}{
		"cluster_id": "lkc-abc123",
		"topics":     []string{"orders", "payments"},
	})
	if err != nil {
		t.Fatalf("marshalResource failed: %v", err)
	}

	if mime != "application/json" {
		t.Errorf("Expected mime 'application/json', got '%s'", mime)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		t.Fatalf("Resource content is not valid JSON: %v", err)
	}

	if parsed["cluster_id"] != "lkc-abc123" {
		t.Errorf("Expected cluster_id 'lkc-abc123', got '%v'", parsed["cluster_id"])
	}
}
