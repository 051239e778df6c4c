// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator provides input validation for MCP operations.
type Validator struct {
	maxStatementLength int
	maxTopicNameLength int
	maxTagNameLength   int
	maxBatchSize       int
}

// ValidatorConfig holds validator configuration.
type ValidatorConfig struct {
	MaxStatementLength int `json:"max_statement_length"`
	MaxTopicNameLength int `json:"max_topic_name_length"`
	MaxTagNameLength   int `json:"max_tag_name_length"`
	MaxBatchSize       int `json:"max_batch_size"`
}

// DefaultValidatorConfig returns default validation configuration.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MaxStatementLength: 10000,
		MaxTopicNameLength: 249, // Kafka limit
		MaxTagNameLength:   64,
		MaxBatchSize:       100,
	}
}

// NewValidator creates a new validator.
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{
		maxStatementLength: cfg.MaxStatementLength,
		maxTopicNameLength: cfg.MaxTopicNameLength,
		maxTagNameLength:   cfg.MaxTagNameLength,
		maxBatchSize:       cfg.MaxBatchSize,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSQL validates Flink SQL statement text.
func (v *Validator) ValidateSQL(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return ValidationError{Field: "sql", Message: "cannot be empty"}
	}

	if len(sql) > v.maxStatementLength {
		return ValidationError{
			Field:   "sql",
			Message: fmt.Sprintf("exceeds maximum length of %d", v.maxStatementLength),
		}
	}

	if !utf8.ValidString(sql) {
		return ValidationError{Field: "sql", Message: "must be valid UTF-8"}
	}

	return nil
}

// ValidateTopicName validates a Kafka topic name.
func (v *Validator) ValidateTopicName(topicName string) error {
	if topicName == "" {
		return ValidationError{Field: "topic_name", Message: "cannot be empty"}
	}

	if len(topicName) > v.maxTopicNameLength {
		return ValidationError{
			Field:   "topic_name",
			Message: fmt.Sprintf("exceeds maximum length of %d", v.maxTopicNameLength),
		}
	}

	if topicName == "." || topicName == ".." {
		return ValidationError{Field: "topic_name", Message: "cannot be . or .."}
	}

	if !isValidTopicName(topicName) {
		return ValidationError{
			Field:   "topic_name",
			Message: "contains invalid characters (must be alphanumeric, period, underscore, or hyphen)",
		}
	}

	return nil
}

// ValidateTagName validates a Schema Registry tag name.
func (v *Validator) ValidateTagName(tagName string) error {
	if tagName == "" {
		return ValidationError{Field: "tag_name", Message: "cannot be empty"}
	}

	if len(tagName) > v.maxTagNameLength {
		return ValidationError{
			Field:   "tag_name",
			Message: fmt.Sprintf("exceeds maximum length of %d", v.maxTagNameLength),
		}
	}

	if !isValidIdentifier(tagName) {
		return ValidationError{
			Field:   "tag_name",
			Message: "contains invalid characters (must be alphanumeric, underscore, or hyphen)",
		}
	}

	return nil
}

// ValidateConnectorName validates a connector name.
func (v *Validator) ValidateConnectorName(name string) error {
	if name == "" {
		return ValidationError{Field: "connector_name", Message: "cannot be empty"}
	}

	if len(name) > 128 {
		return ValidationError{
			Field:   "connector_name",
			Message: "exceeds maximum length of 128",
		}
	}

	if !isValidIdentifier(name) {
		return ValidationError{
			Field:   "connector_name",
			Message: "contains invalid characters",
		}
	}

	return nil
}

// ValidateClusterID validates a Kafka cluster identifier.
func (v *Validator) ValidateClusterID(clusterID string) error {
	if clusterID == "" {
		return ValidationError{Field: "cluster_id", Message: "cannot be empty"}
	}

	if !strings.HasPrefix(clusterID, "lkc-") {
		return ValidationError{Field: "cluster_id", Message: "must begin with lkc-"}
	}

	return nil
}

// ValidateEnvironmentID validates a Confluent environment identifier.
func (v *Validator) ValidateEnvironmentID(envID string) error {
	if envID == "" {
		return ValidationError{Field: "environment_id", Message: "cannot be empty"}
	}

	if !strings.HasPrefix(envID, "env-") {
		return ValidationError{Field: "environment_id", Message: "must begin with env-"}
	}

	return nil
}

// ValidateBatchSize validates a batch operation size.
func (v *Validator) ValidateBatchSize(size int) error {
	if size <= 0 {
		return ValidationError{Field: "batch_size", Message: "must be positive"}
	}

	if size > v.maxBatchSize {
		return ValidationError{
			Field:   "batch_size",
			Message: fmt.Sprintf("exceeds maximum of %d", v.maxBatchSize),
		}
	}

	return nil
}

// SanitizeString removes potentially dangerous characters.
func SanitizeString(s string) string {
	// Remove null bytes and control characters
	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// isValidIdentifier checks if a string is a valid identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, s)
	return matched
}

// isValidTopicName checks the Kafka topic name character set.
func isValidTopicName(s string) bool {
	if s == "" {
		return false
	}
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9._-]+$`, s)
	return matched
}
