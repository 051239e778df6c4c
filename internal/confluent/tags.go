// Copyright 2024 OnChain Media Corporation
// SPDX-License-Identifier: Apache-2.0

package confluent

import (
	"context"
	"net/http"
	"net/url"
)

// TagDef is a Schema Registry catalog tag definition.
type TagDef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TagBinding attaches a tag to a catalog entity such as a topic or
// schema record.
type TagBinding struct {
	TypeName   string `json:"typeName"`
	EntityType string `json:"entityType"`
	EntityName string `json:"entityName"`
}

const tagDefsPath = "/catalog/v1/types/tagdefs"

// ListTags returns all tag definitions in the catalog.
func (c *Client) ListTags(ctx context.Context) ([]TagDef, error) {
	var tags []TagDef
	if err := c.do(ctx, c.schemaRegistryEndpoint(), http.MethodGet, tagDefsPath, nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTags defines new tags in the catalog. The API accepts and
// returns a batch.
func (c *Client) CreateTags(ctx context.Context, tags []TagDef) ([]TagDef, error) {
	var created []TagDef
	if err := c.do(ctx, c.schemaRegistryEndpoint(), http.MethodPost, tagDefsPath, nil, tags, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteTag removes a tag definition from the catalog.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	return c.do(ctx, c.schemaRegistryEndpoint(), http.MethodDelete, tagDefsPath+"/"+url.PathEscape(name), nil, nil, nil)
}

// TagEntity attaches tags to catalog entities.
func (c *Client) TagEntity(ctx context.Context, bindings []TagBinding) ([]TagBinding, error) {
	var applied []TagBinding
	if err := c.do(ctx, c.schemaRegistryEndpoint(), http.MethodPost, "/catalog/v1/entity/tags", nil, bindings, &applied); err != nil {
		return nil, err
	}
	return applied, nil
}
