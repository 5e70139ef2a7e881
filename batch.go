package fhirclient

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// resourceTypeOperationOutcome marks diagnostic entries that must never
// be targeted by a cascade delete.
const resourceTypeOperationOutcome = "OperationOutcome"

// ResourceItem is the contract a consumer supplies per write operation.
type ResourceItem struct {
	// Endpoint overrides the batch-level endpoint when set.
	Endpoint string

	// Content is the resource payload.
	Content any

	// Type is the FHIR resource type, used for logging.
	Type string

	// Filename names the source file, used for logging.
	Filename string

	// Filepath keys the item in the batch result.
	Filepath string
}

// UploadAll writes every item to the server with op, which must be
// OpCreate or OpReplace. Items are processed one at a time in input
// order; one item's failure, including a transport fault, never stops
// the remaining items. Each item lands in exactly one of the result
// maps keyed by its Filepath. Items without their own Endpoint go to
// the batch endpoint.
func (c *Client) UploadAll(ctx context.Context, items []ResourceItem, endpoint string, op Operation) (*BatchResult, error) {
	if op != OpCreate && op != OpReplace {
		return nil, fmt.Errorf("upload requires create or replace, got %s", op)
	}

	batch := NewBatchResult()
	for _, item := range items {
		target := item.Endpoint
		if target == "" {
			target = endpoint
		}

		result, err := c.Upload(ctx, target, item, op)
		if err != nil {
			c.logger.WithError(err).WithField("file", item.Filename).Warn("upload failed without a response")
			batch.Failures[item.Filepath] = faultResult(err)
			continue
		}

		if result.Success {
			batch.Successes[item.Filepath] = result
		} else {
			batch.Failures[item.Filepath] = result
		}
	}

	return batch, nil
}

// Upload writes a single resource item to endpoint with op.
func (c *Client) Upload(ctx context.Context, endpoint string, item ResourceItem, op Operation) (*Result, error) {
	entry := c.logger.WithFields(logrus.Fields{
		"op":   op.String(),
		"type": item.Type,
		"file": item.Filename,
	})
	entry.Info("sending resource")

	result, err := c.Send(ctx, Request{Op: op, URL: endpoint, Body: item.Content})
	if err != nil {
		return nil, err
	}

	if result.Success {
		entry.WithField("url", result.RequestURL).Info("resource accepted")
	} else {
		entry.WithField("url", result.RequestURL).Infof("resource rejected: %s", failureCause(result))
	}

	return result, nil
}

// DeleteAll fetches the collection at endpoint and deletes every entry
// in it. OperationOutcome entries are skipped. A failed fetch aborts
// the cascade before any delete is attempted; a failed delete does not
// stop the deletes after it, so partial cleanup still happens. Deletes
// are keyed in the batch result by "Type/id".
func (c *Client) DeleteAll(ctx context.Context, endpoint string) (*BatchResult, error) {
	c.logger.WithField("endpoint", endpoint).Info("deleting resources")

	batch := NewBatchResult()

	fetched, err := c.Send(ctx, Request{Op: OpFetch, URL: endpoint})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if !fetched.Success {
		// Nothing to delete without a fetched collection.
		batch.Failures[endpoint] = fetched
		return batch, nil
	}

	entries := bundleEntries(fetched.Body)
	c.logger.WithFields(logrus.Fields{
		"url":   fetched.RequestURL,
		"count": len(entries),
	}).Debug("fetched collection")

	for _, entry := range entries {
		if entry.Type == resourceTypeOperationOutcome {
			continue
		}

		key := entry.Type + "/" + entry.ID
		target := c.baseURL + "/" + key
		c.logger.WithField("url", target).Debug("deleting resource")

		result, err := c.Send(ctx, Request{Op: OpDelete, URL: target})
		if err != nil {
			c.logger.WithError(err).WithField("url", target).Warn("delete failed without a response")
			batch.Failures[key] = faultResult(err)
			continue
		}

		if result.Success {
			batch.Successes[key] = result
		} else {
			batch.Failures[key] = result
		}
	}

	return batch, nil
}

// bundleEntry identifies one resource inside a fetched collection.
type bundleEntry struct {
	Type string
	ID   string
}

// bundleEntries walks a fetched Bundle body and lists the type and id
// of every entry's resource. Raw bodies and entries without both fields
// yield nothing.
func bundleEntries(body Body) []bundleEntry {
	root, ok := body.JSON.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := root["entry"].([]any)
	if !ok {
		return nil
	}

	entries := make([]bundleEntry, 0, len(list))
	for _, raw := range list {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		resource, ok := entry["resource"].(map[string]any)
		if !ok {
			continue
		}

		resourceType, _ := resource["resourceType"].(string)
		id, _ := resource["id"].(string)
		if resourceType == "" || id == "" {
			continue
		}
		entries = append(entries, bundleEntry{Type: resourceType, ID: id})
	}
	return entries
}
