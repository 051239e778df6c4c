// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
)

// StatementAPI is the subset of the Confluent client used by the
// statement pipeline.
type StatementAPI interface {
	CreateStatement(ctx context.Context, stmt *confluent.Statement) (*confluent.Statement, error)
	GetStatement(ctx context.Context, orgID, envID, name string) (*confluent.Statement, error)
	GetStatementResults(ctx context.Context, orgID, envID, name, pageToken string) (*confluent.StatementResults, error)
}

// Scope identifies where a statement runs.
type Scope struct {
	OrganizationID string
	EnvironmentID  string
	ComputePoolID  string
}

const (
	// DefaultTimeout bounds the whole submit-and-poll cycle.
	DefaultTimeout = 30 * time.Second

	defaultPollInterval = 500 * time.Millisecond
	statementNamePrefix = "mcp"
)

// Executor owns the submit -> poll -> terminal-state lifecycle of one
// statement. It does not retrieve results; see Pager.
type Executor struct {
	api          StatementAPI
	scope        Scope
	timeout      time.Duration
	maxSQLLength int
	pollInterval time.Duration
}

// NewExecutor creates an executor for the given scope. A non-positive
// timeout falls back to DefaultTimeout; a non-positive maxSQLLength
// disables the length bound.
func NewExecutor(api StatementAPI, scope Scope, timeout time.Duration, maxSQLLength int) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		api:          api,
		scope:        scope,
		timeout:      timeout,
		maxSQLLength: maxSQLLength,
		pollInterval: defaultPollInterval,
	}
}

// ExecuteOptions carries the optional query-scope hints.
type ExecuteOptions struct {
	Catalog  string
	Database string
}

// Execute submits sql and polls until the statement reaches a terminal
// phase or the deadline elapses. On COMPLETED the outcome is successful
// but carries no rows; result retrieval is the pager's job. Failures of
// any kind are reported as a failed Outcome, never an error: the caller
// decides whether to resubmit.
func (e *Executor) Execute(ctx context.Context, sql string, opts ExecuteOptions) Outcome {
	if sql == "" {
		return failedOutcome("", "", "sql text must not be empty")
	}
	if e.maxSQLLength > 0 && len(sql) > e.maxSQLLength {
		return failedOutcome("", "", fmt.Sprintf("sql text exceeds maximum length of %d", e.maxSQLLength))
	}

	name := generateStatementName()

	properties := map[string]string{}
	if opts.Catalog != "" {
		properties[confluent.PropertyCurrentCatalog] = opts.Catalog
	}
	if opts.Database != "" {
		properties[confluent.PropertyCurrentDatabase] = opts.Database
	}

	stmt := &confluent.Statement{
		Name:           name,
		OrganizationID: e.scope.OrganizationID,
		EnvironmentID:  e.scope.EnvironmentID,
		Spec: confluent.StatementSpec{
			ComputePoolID: e.scope.ComputePoolID,
			Statement:     sql,
			Properties:    properties,
		},
	}

	if _, err := e.api.CreateStatement(ctx, stmt); err != nil {
		return failedOutcome(name, "", fmt.Sprintf("statement submission failed: %v", err))
	}

	deadline := time.Now().Add(e.timeout)
	var lastPhase confluent.Phase

	for {
		if time.Now().After(deadline) {
			return failedOutcome(name, lastPhase,
				fmt.Sprintf("timed out after %s waiting for statement %s to reach a terminal phase (last phase: %s)",
					e.timeout, name, phaseOrUnknown(lastPhase)))
		}

		current, err := e.api.GetStatement(ctx, e.scope.OrganizationID, e.scope.EnvironmentID, name)
		if err != nil {
			return failedOutcome(name, lastPhase, fmt.Sprintf("polling statement status failed: %v", err))
		}

		if current.Status != nil {
			lastPhase = current.Status.Phase
		}

		switch lastPhase {
		case confluent.PhaseCompleted:
			return Outcome{Success: true, StatementName: name, Phase: lastPhase}
		case confluent.PhaseFailed:
			detail := ""
			if current.Status != nil {
				detail = current.Status.Detail
			}
			if detail == "" {
				detail = "no failure detail provided"
			}
			return failedOutcome(name, lastPhase, "Statement failed: "+detail)
		case confluent.PhaseStopped, confluent.PhaseDeleted:
			return failedOutcome(name, lastPhase,
				fmt.Sprintf("statement reached phase %s before completion", lastPhase))
		}

		// Cooperative wait between polls
		select {
		case <-ctx.Done():
			return failedOutcome(name, lastPhase, fmt.Sprintf("statement execution canceled: %v", ctx.Err()))
		case <-time.After(e.pollInterval):
		}
	}
}

func phaseOrUnknown(p confluent.Phase) string {
	if p == "" {
		return "unknown"
	}
	return string(p)
}

// generateStatementName builds a per-invocation unique name from the
// current time and a random suffix, both base36. Collisions are
// improbable rather than impossible.
func generateStatementName() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strconv.FormatInt(rand.Int63n(1<<31), 36)
	return fmt.Sprintf("%s-%s-%s", statementNamePrefix, ts, suffix)
}
