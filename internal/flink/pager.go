// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package flink

import (
	"context"
	"fmt"
	"net/url"
)

// Pager drains the full result set of a completed statement, following
// continuation tokens until a page carries none.
type Pager struct {
	api   StatementAPI
	orgID string
	envID string
}

// NewPager creates a pager bound to one environment.
func NewPager(api StatementAPI, orgID, envID string) *Pager {
	return &Pager{api: api, orgID: orgID, envID: envID}
}

// Drain retrieves every result page in order. A read error on any page
// discards the rows accumulated so far: callers either get the complete
// result set or none of it.
func (p *Pager) Drain(ctx context.Context, statementName string) ([]interface{}, error) {
	var rows []interface{}
	pageToken := ""

	for {
		page, err := p.api.GetStatementResults(ctx, p.orgID, p.envID, statementName, pageToken)
		if err != nil {
			return nil, fmt.Errorf("reading results of statement %s: %w", statementName, err)
		}

		rows = append(rows, page.Results.Data...)

		pageToken = nextPageToken(page.Metadata.Next)
		if pageToken == "" {
			return rows, nil
		}
	}
}

// nextPageToken extracts the page_token query parameter from the next
// link. An absent or unparseable link means the page was the last one.
func nextPageToken(next string) string {
	if next == "" {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return u.Query().Get("page_token")
}
