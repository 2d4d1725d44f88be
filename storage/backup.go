// Package storage exports catalog snapshots to MinIO.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"artiststudio/config"
	"artiststudio/logger"
	"artiststudio/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotPrefix is the object key prefix of every catalog snapshot.
const SnapshotPrefix = "backups/"

// Snapshot is the exported state of the catalog.
type Snapshot struct {
	TakenAt    time.Time         `json:"takenAt"`
	Tracks     []*model.Track    `json:"tracks"`
	Categories []*model.Category `json:"categories"`
}

// ObjectInfo describes one stored snapshot.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BackupStore writes snapshots into a single bucket.
type BackupStore struct {
	client     *minio.Client
	bucketName string
	region     string
}

// NewBackupStore creates a MinIO client from cfg. No request is made until
// the first call.
func NewBackupStore(cfg *config.Config) (*BackupStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &BackupStore{client: client, bucketName: cfg.MinioBucket, region: cfg.MinioRegion}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *BackupStore) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucketName, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucketName, minio.MakeBucketOptions{Region: b.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucketName, err)
	}
	logger.Info("Bucket created", logger.String("bucket", b.bucketName))
	return nil
}

// SnapshotKey returns the object key for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return SnapshotPrefix + "catalog-" + t.UTC().Format("20060102T150405Z") + ".json"
}

// EncodeSnapshot renders s as indented JSON.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// PutSnapshot uploads s and returns its object key.
func (b *BackupStore) PutSnapshot(ctx context.Context, s *Snapshot) (string, error) {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return "", err
	}
	key := SnapshotKey(s.TakenAt)

	_, err = b.client.PutObject(ctx, b.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	logger.Info("Catalog snapshot uploaded",
		logger.String("bucket", b.bucketName),
		logger.String("key", key),
		logger.Int("tracks", len(s.Tracks)),
		logger.Int("size", len(data)))
	return key, nil
}

// ListSnapshots returns the stored snapshots, newest first.
func (b *BackupStore) ListSnapshots(ctx context.Context) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for object := range b.client.ListObjects(ctx, b.bucketName, minio.ListObjectsOptions{Prefix: SnapshotPrefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", object.Err)
		}
		if !strings.HasSuffix(object.Key, ".json") {
			continue
		}
		out = append(out, ObjectInfo{Key: object.Key, Size: object.Size, LastModified: object.LastModified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out, nil
}
