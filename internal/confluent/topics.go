// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package confluent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Topic describes a Kafka topic as reported by the Kafka REST v3 API.
type Topic struct {
	TopicName         string `json:"topic_name"`
	ClusterID         string `json:"cluster_id,omitempty"`
	PartitionsCount   int    `json:"partitions_count,omitempty"`
	ReplicationFactor int    `json:"replication_factor,omitempty"`
	IsInternal        bool   `json:"is_internal,omitempty"`
}

// TopicConfigEntry is a single topic configuration override.
type TopicConfigEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreateTopicRequest is the body for topic creation.
type CreateTopicRequest struct {
	TopicName         string             `json:"topic_name"`
	PartitionsCount   int                `json:"partitions_count,omitempty"`
	ReplicationFactor int                `json:"replication_factor,omitempty"`
	Configs           []TopicConfigEntry `json:"configs,omitempty"`
}

type topicList struct {
	Data []Topic `json:"data"`
}

func topicsPath(clusterID string) string {
	return fmt.Sprintf("/kafka/v3/clusters/%s/topics", clusterID)
}

// ListTopics returns all topics on the cluster.
func (c *Client) ListTopics(ctx context.Context, clusterID string) ([]Topic, error) {
	var list topicList
	if err := c.do(ctx, c.kafkaEndpoint(), http.MethodGet, topicsPath(clusterID), nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// CreateTopic creates a topic on the cluster.
func (c *Client) CreateTopic(ctx context.Context, clusterID string, req CreateTopicRequest) (*Topic, error) {
	var topic Topic
	if err := c.do(ctx, c.kafkaEndpoint(), http.MethodPost, topicsPath(clusterID), nil, req, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// DeleteTopic removes a topic from the cluster.
func (c *Client) DeleteTopic(ctx context.Context, clusterID, topicName string) error {
	path := topicsPath(clusterID) + "/" + url.PathEscape(topicName)
	return c.do(ctx, c.kafkaEndpoint(), http.MethodDelete, path, nil, nil, nil)
}
