// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns a fixed outcome and records the query it was given.
type fakeRunner struct {
	out      Outcome
	lastSQL  string
	lastOpts ExecuteOptions
}

func (f *fakeRunner) RunStatement(_ context.Context, sql string, opts ExecuteOptions) Outcome {
	f.lastSQL = sql
	f.lastOpts = opts
	return f.out
}

func TestResolveCatalogName(t *testing.T) {
	r := NewResolver(nil, "env-default", "lkc-default")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"env-prefixed input kept verbatim", "env-abcde", "env-abcde"},
		{"env-prefixed input trimmed", "  env-abcde  ", "env-abcde"},
		{"friendly input falls back to default", "prod", "env-default"},
		{"empty input falls back to default", "", "env-default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveCatalogName(tt.input))
		})
	}
}

func TestResolveCatalogNameNoDefault(t *testing.T) {
	r := NewResolver(nil, "", "")
	assert.Empty(t, r.ResolveCatalogName(""), "missing default is a configuration error surfaced by the caller")
}

func TestResolveDatabaseName(t *testing.T) {
	r := NewResolver(nil, "env-default", "lkc-default")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cluster id kept verbatim", "lkc-12345", "lkc-12345"},
		{"friendly name kept verbatim", "orders-db", "orders-db"},
		{"input trimmed", "  orders-db ", "orders-db"},
		{"empty input falls back to default", "", "lkc-default"},
		{"whitespace-only input falls back to default", "   ", "lkc-default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveDatabaseName(tt.input))
		})
	}
}

func TestResolveToCatalogName(t *testing.T) {
	mappings := []CatalogMapping{
		{CatalogID: "env-123", CatalogName: "prod"},
		{CatalogID: "env-456", CatalogName: "staging"},
	}

	assert.Equal(t, "prod", ResolveToCatalogName("env-123", mappings))
	assert.Equal(t, "staging", ResolveToCatalogName("env-456", mappings))
	assert.Equal(t, "env-999", ResolveToCatalogName("env-999", mappings), "unmapped id passes through")
	assert.Equal(t, "prod", ResolveToCatalogName("prod", mappings), "friendly name passes through")
	assert.Equal(t, "env-123", ResolveToCatalogName("env-123", nil), "no mappings passes through")
}

func TestResolveToSchemaName(t *testing.T) {
	mappings := []SchemaMapping{
		{SchemaID: "lkc-111", SchemaName: "orders"},
	}

	assert.Equal(t, "orders", ResolveToSchemaName("lkc-111", mappings))
	assert.Equal(t, "lkc-222", ResolveToSchemaName("lkc-222", mappings))
	assert.Equal(t, "orders", ResolveToSchemaName("orders", mappings))
}

func TestCatalogMappings(t *testing.T) {
	runner := &fakeRunner{out: Outcome{
		Success: true,
		Data: []interface{}{
			row("env-123", "prod"),
			row("env-456", "staging"),
			row("env-789"),                          // short row dropped
			row(float64(42), "numeric-id"),          // non-string id dropped
			map[string]interface{}{"op": float64(0)}, // missing row dropped
			"not an object",                         // wrong shape dropped
		},
	}}
	r := NewResolver(runner, "", "")

	mappings := r.CatalogMappings(context.Background(), "prod")

	require.Len(t, mappings, 2)
	assert.Equal(t, CatalogMapping{CatalogID: "env-123", CatalogName: "prod"}, mappings[0])
	assert.Equal(t, CatalogMapping{CatalogID: "env-456", CatalogName: "staging"}, mappings[1])
	assert.Contains(t, runner.lastSQL, "`prod`.`INFORMATION_SCHEMA`.`CATALOGS`")
	assert.Contains(t, runner.lastSQL, "CATALOG_ID")
}

func TestCatalogMappingsQueryFailure(t *testing.T) {
	runner := &fakeRunner{out: Outcome{Success: false, Error: "Statement failed: catalog not found"}}
	r := NewResolver(runner, "", "")

	assert.Empty(t, r.CatalogMappings(context.Background(), "env-abcde"), "query failure degrades to empty mapping set")
}

func TestSchemaMappings(t *testing.T) {
	runner := &fakeRunner{out: Outcome{
		Success: true,
		Data: []interface{}{
			row("lkc-111", "orders"),
			row("lkc-000", "INFORMATION_SCHEMA"), // pseudo-schema excluded
			row("lkc-222", "payments"),
		},
	}}
	r := NewResolver(runner, "", "")

	mappings := r.SchemaMappings(context.Background(), "prod")

	require.Len(t, mappings, 2)
	assert.Equal(t, "orders", mappings[0].SchemaName)
	assert.Equal(t, "payments", mappings[1].SchemaName)
	assert.Contains(t, runner.lastSQL, "`prod`.`INFORMATION_SCHEMA`.`SCHEMATA`")
	assert.Contains(t, runner.lastSQL, "SCHEMA_ID")
}
