// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"strings"
	"time"
)

// SessionConfig collects everything a session needs to run statements.
type SessionConfig struct {
	Scope Scope

	// DefaultEnvironmentID and DefaultClusterID back the name resolver
	// when callers omit catalog/database hints.
	DefaultEnvironmentID string
	DefaultClusterID     string

	Timeout      time.Duration
	MaxSQLLength int
}

// Session composes name resolution, execution, and pagination for one
// logical query. Each stage short-circuits on first failure and
// propagates its outcome unchanged.
type Session struct {
	executor *Executor
	pager    *Pager
	resolver *Resolver
}

// NewSession wires a session from one StatementAPI.
func NewSession(api StatementAPI, cfg SessionConfig) *Session {
	s := &Session{
		executor: NewExecutor(api, cfg.Scope, cfg.Timeout, cfg.MaxSQLLength),
		pager:    NewPager(api, cfg.Scope.OrganizationID, cfg.Scope.EnvironmentID),
	}
	s.resolver = NewResolver(s, cfg.DefaultEnvironmentID, cfg.DefaultClusterID)
	return s
}

// RunStatement executes sql and, on completion, drains all result
// pages into the outcome. It is also the resolver's query channel.
func (s *Session) RunStatement(ctx context.Context, sql string, opts ExecuteOptions) Outcome {
	out := s.executor.Execute(ctx, sql, opts)
	if !out.Success {
		return out
	}

	rows, err := s.pager.Drain(ctx, out.StatementName)
	if err != nil {
		return failedOutcome(out.StatementName, out.Phase, err.Error())
	}

	out.Data = rows
	return out
}

// Execute resolves the catalog/database hints and runs sql with the
// resolved scope properties. Hints that cannot be mapped to friendly
// names are passed to the engine verbatim.
func (s *Session) Execute(ctx context.Context, sql, catalogHint, databaseHint string) Outcome {
	catalog := s.resolver.ResolveCatalogName(catalogHint)
	database := s.resolver.ResolveDatabaseName(databaseHint)

	opts := ExecuteOptions{}

	if catalog != "" {
		if strings.HasPrefix(catalog, environmentIDPrefix) {
			mappings := s.resolver.CatalogMappings(ctx, catalog)
			catalog = ResolveToCatalogName(catalog, mappings)
		}
		opts.Catalog = catalog
	}

	if database != "" && catalog != "" {
		if strings.HasPrefix(database, clusterIDPrefix) {
			mappings := s.resolver.SchemaMappings(ctx, catalog)
			database = ResolveToSchemaName(database, mappings)
		}
		opts.Database = database
	}

	return s.RunStatement(ctx, sql, opts)
}
