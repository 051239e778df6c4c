// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
)

func newTestSession(api StatementAPI) *Session {
	return NewSession(api, SessionConfig{
		Scope:                testScope,
		DefaultEnvironmentID: "env-abc",
		DefaultClusterID:     "lkc-default",
		Timeout:              time.Second,
	})
}

func TestSessionRunStatementPagesResults(t *testing.T) {
	api := newFakeAPI(script{
		statuses: statuses(confluent.PhaseRunning, confluent.PhaseCompleted),
		pages: []confluent.StatementResults{
			page("https://flink.example.com/results?page_token=t1", "a"),
			page("", "b"),
		},
	})
	s := newTestSession(api)
	s.executor.pollInterval = time.Millisecond

	out := s.RunStatement(context.Background(), "SELECT * FROM orders", ExecuteOptions{})

	require.True(t, out.Success)
	assert.Equal(t, []interface{}{"a", "b"}, out.Data)
	assert.Equal(t, confluent.PhaseCompleted, out.Phase)
}

func TestSessionRunStatementExecutionFailureShortCircuits(t *testing.T) {
	api := newFakeAPI(script{statuses: []confluent.StatementStatus{
		{Phase: confluent.PhaseFailed, Detail: "syntax error"},
	}})
	s := newTestSession(api)

	out := s.RunStatement(context.Background(), "SELECT nonsense", ExecuteOptions{})

	assert.False(t, out.Success)
	assert.Equal(t, "Statement failed: syntax error", out.Error)
	assert.Zero(t, api.resultsCalls, "no result retrieval after a failed statement")
}

func TestSessionRunStatementPagerFailure(t *testing.T) {
	api := newFakeAPI(script{statuses: statuses(confluent.PhaseCompleted)})
	api.resultsErr = errors.New("read timeout")
	s := newTestSession(api)

	out := s.RunStatement(context.Background(), "SELECT 1", ExecuteOptions{})

	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "read timeout")
	assert.Nil(t, out.Data)
	assert.NotEmpty(t, out.StatementName, "statement name kept for diagnosis")
}

func TestSessionExecuteResolvesCatalogMapping(t *testing.T) {
	// First scripted statement is the catalog metadata query, second is
	// the user query.
	api := newFakeAPI(
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages: []confluent.StatementResults{
				page("", row("env-123", "prod")),
			},
		},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("", "result")},
		},
	)
	s := newTestSession(api)

	out := s.Execute(context.Background(), "SELECT * FROM orders", "env-123", "main")

	require.True(t, out.Success)
	require.Len(t, api.created, 2)
	userStmt := api.created[1]
	assert.Equal(t, "prod", userStmt.Spec.Properties[confluent.PropertyCurrentCatalog],
		"stable id replaced by mapped friendly name")
	assert.Equal(t, "main", userStmt.Spec.Properties[confluent.PropertyCurrentDatabase])
}

func TestSessionExecuteUnresolvedCatalogPassesThrough(t *testing.T) {
	// Metadata query fails (unknown catalog), so the raw id is sent to
	// the engine verbatim.
	api := newFakeAPI(
		script{statuses: []confluent.StatementStatus{
			{Phase: confluent.PhaseFailed, Detail: "catalog not found"},
		}},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("")},
		},
	)
	s := newTestSession(api)

	out := s.Execute(context.Background(), "SELECT * FROM orders", "env-abcde", "")

	require.True(t, out.Success)
	require.Len(t, api.created, 2)
	assert.Equal(t, "env-abcde", api.created[1].Spec.Properties[confluent.PropertyCurrentCatalog])
}

func TestSessionExecuteResolvesDatabaseMapping(t *testing.T) {
	// Scripts in submission order: catalog metadata, schema metadata,
	// user query.
	api := newFakeAPI(
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("", row("env-123", "prod"))},
		},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages: []confluent.StatementResults{
				page("", row("lkc-111", "orders"), row("lkc-000", "INFORMATION_SCHEMA")),
			},
		},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("", "result")},
		},
	)
	s := newTestSession(api)

	out := s.Execute(context.Background(), "SELECT * FROM orders", "env-123", "lkc-111")

	require.True(t, out.Success)
	require.Len(t, api.created, 3)
	userStmt := api.created[2]
	assert.Equal(t, "prod", userStmt.Spec.Properties[confluent.PropertyCurrentCatalog])
	assert.Equal(t, "orders", userStmt.Spec.Properties[confluent.PropertyCurrentDatabase])
}

func TestSessionExecuteUsesConfiguredDefaults(t *testing.T) {
	// No hints: catalog falls back to the default environment id, which
	// is then resolved through the metadata query; database falls back
	// to the default cluster id.
	api := newFakeAPI(
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("", row("env-abc", "dev"))},
		},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("", row("lkc-default", "maindb"))},
		},
		script{
			statuses: statuses(confluent.PhaseCompleted),
			pages:    []confluent.StatementResults{page("")},
		},
	)
	s := newTestSession(api)

	out := s.Execute(context.Background(), "SELECT 1", "", "")

	require.True(t, out.Success)
	userStmt := api.created[len(api.created)-1]
	assert.Equal(t, "dev", userStmt.Spec.Properties[confluent.PropertyCurrentCatalog])
	assert.Equal(t, "maindb", userStmt.Spec.Properties[confluent.PropertyCurrentDatabase])
}

func TestSessionExecuteNoCatalogAvailable(t *testing.T) {
	api := newFakeAPI(script{
		statuses: statuses(confluent.PhaseCompleted),
		pages:    []confluent.StatementResults{page("")},
	})
	s := NewSession(api, SessionConfig{Scope: testScope, Timeout: time.Second})

	out := s.Execute(context.Background(), "SELECT 1", "", "")

	require.True(t, out.Success)
	require.Len(t, api.created, 1, "no metadata queries without a catalog")
	assert.Empty(t, api.created[0].Spec.Properties)
}
