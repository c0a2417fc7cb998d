// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package blob archives raw source documents into MinIO, addressed by
// document index, for audit and replay (§6). The retriever never reads
// from it; it exists purely as a durability log for the text that fed
// the tree.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes how to reach the archive bucket.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// Archive writes raw documents into a MinIO bucket, one object per
// document index.
type Archive struct {
	client *minio.Client
	bucket string
}

// NewArchive connects to MinIO and ensures the archive bucket exists.
func NewArchive(ctx context.Context, cfg Config) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("blob: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("blob: create bucket: %w", err)
		}
	}

	return &Archive{client: client, bucket: cfg.BucketName}, nil
}

// Put archives document at documentIndex under its own object key.
func (a *Archive) Put(ctx context.Context, documentIndex int, document string) error {
	key := objectKey(documentIndex)
	reader := bytes.NewReader([]byte(document))
	_, err := a.client.PutObject(ctx, a.bucket, key, reader, int64(len(document)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return fmt.Errorf("blob: put %s: %w", key, err)
	}
	return nil
}

// Get replays the archived document at documentIndex.
func (a *Archive) Get(ctx context.Context, documentIndex int) (string, error) {
	key := objectKey(documentIndex)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("blob: get %s: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return "", fmt.Errorf("blob: read %s: %w", key, err)
	}
	return buf.String(), nil
}

func objectKey(documentIndex int) string {
	return "documents/" + strconv.Itoa(documentIndex) + ".txt"
}
