// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"fmt"
	"strings"
)

const (
	environmentIDPrefix = "env-"
	clusterIDPrefix     = "lkc-"

	informationSchemaName = "INFORMATION_SCHEMA"
)

// CatalogMapping pairs a stable environment ID with the friendly
// catalog name the query engine expects.
type CatalogMapping struct {
	CatalogID   string
	CatalogName string
}

// SchemaMapping pairs a stable cluster ID with the friendly database
// name the query engine expects.
type SchemaMapping struct {
	SchemaID   string
	SchemaName string
}

// StatementRunner executes one SQL statement end to end and returns its
// rows. The resolver uses it for metadata queries, so those queries are
// bound by the same timeout and failure semantics as the primary query.
type StatementRunner interface {
	RunStatement(ctx context.Context, sql string, opts ExecuteOptions) Outcome
}

// Resolver maps ambiguous catalog/database inputs, which may be stable
// IDs or friendly display names, to the canonical names required by the
// query engine. Resolution is best effort: when a mapping cannot be
// found the input passes through unchanged, since either form may
// already be valid depending on context.
type Resolver struct {
	runner               StatementRunner
	defaultEnvironmentID string
	defaultClusterID     string
}

// NewResolver creates a resolver with configured fallback identifiers.
func NewResolver(runner StatementRunner, defaultEnvironmentID, defaultClusterID string) *Resolver {
	return &Resolver{
		runner:               runner,
		defaultEnvironmentID: defaultEnvironmentID,
		defaultClusterID:     defaultClusterID,
	}
}

// ResolveCatalogName returns an env-prefixed input verbatim (mapping to
// the friendly name happens later, against the catalog metadata) and
// falls back to the configured default environment ID otherwise. An
// empty result means neither was available, which is a configuration
// error the caller reports.
func (r *Resolver) ResolveCatalogName(input string) string {
	if trimmed := strings.TrimSpace(input); strings.HasPrefix(trimmed, environmentIDPrefix) {
		return trimmed
	}
	return r.defaultEnvironmentID
}

// ResolveDatabaseName accepts any non-empty trimmed input verbatim; it
// may be a stable cluster ID or a friendly name, and the ambiguity is
// resolved later. Falls back to the configured default cluster ID.
func (r *Resolver) ResolveDatabaseName(input string) string {
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		return trimmed
	}
	return r.defaultClusterID
}

// CatalogMappings queries the catalog metadata view for ID-to-name
// pairs. Malformed rows are dropped; any query failure yields an empty
// set rather than an error.
func (r *Resolver) CatalogMappings(ctx context.Context, catalogName string) []CatalogMapping {
	sql := fmt.Sprintf("SELECT `CATALOG_ID`, `CATALOG_NAME` FROM `%s`.`INFORMATION_SCHEMA`.`CATALOGS`", catalogName)

	out := r.runner.RunStatement(ctx, sql, ExecuteOptions{})
	if !out.Success {
		return nil
	}

	var mappings []CatalogMapping
	for _, record := range out.Data {
		id, name, ok := rowStringPair(record)
		if !ok {
			continue
		}
		mappings = append(mappings, CatalogMapping{CatalogID: id, CatalogName: name})
	}
	return mappings
}

// SchemaMappings queries the schema metadata view for ID-to-name pairs,
// excluding the synthetic INFORMATION_SCHEMA pseudo-schema.
func (r *Resolver) SchemaMappings(ctx context.Context, catalogName string) []SchemaMapping {
	sql := fmt.Sprintf("SELECT `SCHEMA_ID`, `SCHEMA_NAME` FROM `%s`.`INFORMATION_SCHEMA`.`SCHEMATA`", catalogName)

	out := r.runner.RunStatement(ctx, sql, ExecuteOptions{})
	if !out.Success {
		return nil
	}

	var mappings []SchemaMapping
	for _, record := range out.Data {
		id, name, ok := rowStringPair(record)
		if !ok || name == informationSchemaName {
			continue
		}
		mappings = append(mappings, SchemaMapping{SchemaID: id, SchemaName: name})
	}
	return mappings
}

// ResolveToCatalogName substitutes the friendly catalog name when input
// has the stable-ID shape and a mapping exists; otherwise the input is
// returned unchanged.
func ResolveToCatalogName(input string, mappings []CatalogMapping) string {
	if !strings.HasPrefix(input, environmentIDPrefix) {
		return input
	}
	for _, m := range mappings {
		if m.CatalogID == input {
			return m.CatalogName
		}
	}
	return input
}

// ResolveToSchemaName is the database analogue of ResolveToCatalogName
// for lkc-prefixed cluster IDs.
func ResolveToSchemaName(input string, mappings []SchemaMapping) string {
	if !strings.HasPrefix(input, clusterIDPrefix) {
		return input
	}
	for _, m := range mappings {
		if m.SchemaID == input {
			return m.SchemaName
		}
	}
	return input
}

// rowStringPair extracts the first two row fields of a result record as
// strings. Records come back as {"op": ..., "row": [...]} objects.
func rowStringPair(record interface{}) (string, string, bool) {
	obj, ok := record.(map[string]interface{})
	if !ok {
		return "", "", false
	}
	row, ok := obj["row"].([]interface{})
	if !ok || len(row) < 2 {
		return "", "", false
	}
	first, ok := row[0].(string)
	if !ok {
		return "", "", false
	}
	second, ok := row[1].(string)
	if !ok {
		return "", "", false
	}
	return first, second, true
}
