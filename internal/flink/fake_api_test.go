// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"fmt"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
)

// script describes the remote behavior of one statement: the sequence
// of statuses reported by polling (the last one repeats) and the result
// pages served in order (the last one repeats).
type script struct {
	statuses []confluent.StatementStatus
	pages    []confluent.StatementResults
}

// fakeAPI serves scripted statements in submission order.
type fakeAPI struct {
	scripts []script

	createErr        error
	getErr           error
	getErrOnCall     int // 1-based global GetStatement call, 0 = never
	resultsErr       error
	resultsErrOnCall int // 1-based global GetStatementResults call, 0 = never

	created      []*confluent.Statement
	order        map[string]int
	statusCalls  map[string]int
	pagesServed  map[string]int
	resultTokens []string

	getCalls     int
	resultsCalls int
}

func newFakeAPI(scripts ...script) *fakeAPI {
	return &fakeAPI{
		scripts:     scripts,
		order:       map[string]int{},
		statusCalls: map[string]int{},
		pagesServed: map[string]int{},
	}
}

func (f *fakeAPI) CreateStatement(_ context.Context, stmt *confluent.Statement) (*confluent.Statement, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.order[stmt.Name] = len(f.created)
	f.created = append(f.created, stmt)
	return stmt, nil
}

func (f *fakeAPI) GetStatement(_ context.Context, _, _, name string) (*confluent.Statement, error) {
	f.getCalls++
	if f.getErr != nil && (f.getErrOnCall == 0 || f.getCalls == f.getErrOnCall) {
		return nil, f.getErr
	}

	sc, err := f.scriptFor(name)
	if err != nil {
		return nil, err
	}

	i := f.statusCalls[name]
	f.statusCalls[name]++
	if i >= len(sc.statuses) {
		i = len(sc.statuses) - 1
	}

	status := sc.statuses[i]
	return &confluent.Statement{Name: name, Status: &status}, nil
}

func (f *fakeAPI) GetStatementResults(_ context.Context, _, _, name, pageToken string) (*confluent.StatementResults, error) {
	f.resultsCalls++
	f.resultTokens = append(f.resultTokens, pageToken)
	if f.resultsErr != nil && (f.resultsErrOnCall == 0 || f.resultsCalls == f.resultsErrOnCall) {
		return nil, f.resultsErr
	}

	sc, err := f.scriptFor(name)
	if err != nil {
		return nil, err
	}

	i := f.pagesServed[name]
	f.pagesServed[name]++
	if i >= len(sc.pages) {
		i = len(sc.pages) - 1
	}

	page := sc.pages[i]
	return &page, nil
}

func (f *fakeAPI) scriptFor(name string) (script, error) {
	idx, ok := f.order[name]
	if !ok {
		return script{}, fmt.Errorf("unknown statement %q", name)
	}
	if idx >= len(f.scripts) {
		idx = len(f.scripts) - 1
	}
	if idx < 0 {
		return script{}, fmt.Errorf("no script for statement %q", name)
	}
	return f.scripts[idx], nil
}

// Test helpers for building scripted responses.

func statuses(phases ...confluent.Phase) []confluent.StatementStatus {
	out := make([]confluent.StatementStatus, len(phases))
	for i, p := range phases {
		out[i] = confluent.StatementStatus{Phase: p}
	}
	return out
}

func page(next string, rows ...interface{}) confluent.StatementResults {
	return confluent.StatementResults{
		Results:  confluent.StatementResultData{Data: rows},
		Metadata: confluent.ResultMetadata{Next: next},
	}
}

// row builds a result record in the engine's wire shape.
func row(fields ...interface{}) map[string]interface{} {
	return map[string]interface{}{"op": float64(0), "row": fields}
}
