// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
)

func drainPrepared(t *testing.T, api *fakeAPI) ([]interface{}, error) {
	t.Helper()

	// Register a statement so the fake can route results to its script.
	stmt := &confluent.Statement{Name: "mcp-test-1"}
	_, err := api.CreateStatement(context.Background(), stmt)
	require.NoError(t, err)

	p := NewPager(api, "org-1", "env-abc")
	return p.Drain(context.Background(), stmt.Name)
}

func TestDrainSinglePage(t *testing.T) {
	api := newFakeAPI(script{pages: []confluent.StatementResults{
		page("", "a", "b"),
	}})

	rows, err := drainPrepared(t, api)

	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, rows)
	assert.Equal(t, 1, api.resultsCalls)
}

func TestDrainFollowsContinuationTokens(t *testing.T) {
	api := newFakeAPI(script{pages: []confluent.StatementResults{
		page("https://flink.example.com/results?page_token=t1", "a"),
		page("", "b"),
	}})

	rows, err := drainPrepared(t, api)

	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, rows)
	assert.Equal(t, []string{"", "t1"}, api.resultTokens)
}

func TestDrainEmptyResultSet(t *testing.T) {
	api := newFakeAPI(script{pages: []confluent.StatementResults{
		page(""),
	}})

	rows, err := drainPrepared(t, api)

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDrainReadErrorDiscardsRows(t *testing.T) {
	api := newFakeAPI(script{pages: []confluent.StatementResults{
		page("https://flink.example.com/results?page_token=t1", "a"),
		page("", "b"),
	}})
	api.resultsErr = errors.New("connection reset")
	api.resultsErrOnCall = 2

	rows, err := drainPrepared(t, api)

	require.Error(t, err)
	assert.Nil(t, rows, "partial results must not be returned")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNextPageToken(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty link", "", ""},
		{"link without token", "https://flink.example.com/results", ""},
		{"link with token", "https://flink.example.com/results?page_token=abc123", "abc123"},
		{"token among other params", "https://flink.example.com/results?limit=10&page_token=xyz", "xyz"},
		{"unparseable link", "://not-a-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageToken(tt.next))
		})
	}
}
