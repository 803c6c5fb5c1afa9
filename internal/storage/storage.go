// Copyright (c) 2026 Carbongold. All rights reserved.

// Package storage abstracts the object store holding document binaries,
// thumbnails, and review attachments.
//
// # Design
//
// Implementations stream content between the client and the backend; the
// portal never spools uploads or downloads to local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions carries optional parameters for uploads.
//
// Size must be the exact byte count when known. A value of -1 lets the
// backend fall back to chunked transfer.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is the S3-compatible object store used by the portal.
type Storage interface {
	// Put uploads an object under the given key from a streaming reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Get returns an object's content as a streaming reader alongside its info.
	// The caller owns the returned ReadCloser.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
