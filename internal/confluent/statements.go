// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package confluent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Phase is the server-reported lifecycle state of a Flink SQL statement.
type Phase string

const (
	PhasePending   Phase = "PENDING"
	PhaseRunning   Phase = "RUNNING"
	PhaseCompleted Phase = "COMPLETED"
	PhaseFailed    Phase = "FAILED"
	PhaseStopped   Phase = "STOPPED"
	PhaseDeleted   Phase = "DELETED"
)

// Terminal reports whether no further phase transition can occur.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseCompleted, PhaseFailed, PhaseStopped, PhaseDeleted:
		return true
	}
	return false
}

// Statement property keys understood by the Flink SQL engine.
const (
	PropertyCurrentCatalog  = "sql.current-catalog"
	PropertyCurrentDatabase = "sql.current-database"
)

// Statement represents one submitted unit of SQL work.
type Statement struct {
	Name           string           `json:"name"`
	OrganizationID string           `json:"organization_id"`
	EnvironmentID  string           `json:"environment_id"`
	Spec           StatementSpec    `json:"spec"`
	Status         *StatementStatus `json:"status,omitempty"`
}

// StatementSpec holds the submitted SQL and its execution scope.
type StatementSpec struct {
	ComputePoolID string            `json:"compute_pool_id"`
	Statement     string            `json:"statement"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// StatementStatus is the server-maintained lifecycle state.
type StatementStatus struct {
	Phase  Phase  `json:"phase"`
	Detail string `json:"detail,omitempty"`
}

// StatementResults is one page of a completed statement's result set.
type StatementResults struct {
	Results  StatementResultData `json:"results"`
	Metadata ResultMetadata      `json:"metadata"`
}

// StatementResultData holds the opaque row records of one page.
type StatementResultData struct {
	Data []interface{} `json:"data"`
}

// ResultMetadata carries the continuation link for the next page, if any.
type ResultMetadata struct {
	Next string `json:"next,omitempty"`
}

// StatementList is the list response for statements in an environment.
type StatementList struct {
	Data []Statement `json:"data"`
}

func statementsPath(orgID, envID string) string {
	return fmt.Sprintf("/sql/v1/organizations/%s/environments/%s/statements", orgID, envID)
}

// CreateStatement submits a new Flink SQL statement. The statement
// carries its own organization and environment scope.
func (c *Client) CreateStatement(ctx context.Context, stmt *Statement) (*Statement, error) {
	path := statementsPath(stmt.OrganizationID, stmt.EnvironmentID)

	var created Statement
	if err := c.do(ctx, c.flinkEndpoint(), http.MethodPost, path, nil, stmt, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetStatement fetches the current state of a statement by name.
func (c *Client) GetStatement(ctx context.Context, orgID, envID, name string) (*Statement, error) {
	path := statementsPath(orgID, envID) + "/" + name

	var stmt Statement
	if err := c.do(ctx, c.flinkEndpoint(), http.MethodGet, path, nil, nil, &stmt); err != nil {
		return nil, err
	}
	return &stmt, nil
}

// ListStatements returns all statements in an environment.
func (c *Client) ListStatements(ctx context.Context, orgID, envID string) ([]Statement, error) {
	var list StatementList
	if err := c.do(ctx, c.flinkEndpoint(), http.MethodGet, statementsPath(orgID, envID), nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// DeleteStatement removes a statement by name.
func (c *Client) DeleteStatement(ctx context.Context, orgID, envID, name string) error {
	path := statementsPath(orgID, envID) + "/" + name
	return c.do(ctx, c.flinkEndpoint(), http.MethodDelete, path, nil, nil, nil)
}

// GetStatementResults fetches one page of results for a completed
// statement. An empty pageToken requests the first page.
func (c *Client) GetStatementResults(ctx context.Context, orgID, envID, name, pageToken string) (*StatementResults, error) {
	path := statementsPath(orgID, envID) + "/" + name + "/results"

	var query url.Values
	if pageToken != "" {
		query = url.Values{"page_token": {pageToken}}
	}

	var results StatementResults
	if err := c.do(ctx, c.flinkEndpoint(), http.MethodGet, path, query, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
