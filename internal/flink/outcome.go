// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

// Package flink drives Flink SQL statements through their remote
// lifecycle: submit, poll to a terminal phase, and page results.
package flink

import (
	"github.com/onchain-media/confluent-mcp-server/internal/confluent"
)

// Outcome is the unified result of one statement execution. It is the
// unit passed between the executor, the pager, and the session, and the
// value ultimately returned to the tool caller. A failed outcome keeps
// the statement name and last-known phase for diagnosis.
type Outcome struct {
	Success       bool            `json:"success"`
	Data          []interface{}   `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
	StatementName string          `json:"statement_name,omitempty"`
	Phase         confluent.Phase `json:"phase,omitempty"`
}

func failedOutcome(name string, phase confluent.Phase, message string) Outcome {
	return Outcome{
		Success:       false,
		Error:         message,
		StatementName: name,
		Phase:         phase,
	}
}
