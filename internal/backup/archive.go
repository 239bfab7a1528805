package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Archive keeps backup documents in an S3-compatible bucket, one prefix per
// account.
type Archive struct {
	client  *minio.Client
	bucket  string
	account string
	now     func() time.Time
}

// NewArchive connects to the object store and creates the bucket when it does
// not exist yet.
func NewArchive(ctx context.Context, cfg ArchiveConfig, account string) (*Archive, error) {
	if account == "" {
		return nil, fmt.Errorf("archive account is required: %w", model.ErrValidation)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Archive{
		client:  client,
		bucket:  cfg.Bucket,
		account: account,
		now:     time.Now,
	}, nil
}

// ObjectKey is where the backup of account taken at t is stored.
func ObjectKey(account string, t time.Time) string {
	return path.Join(account, "backups", FileName(t))
}

func (a *Archive) prefix() string {
	return path.Join(a.account, "backups") + "/"
}

// Upload exports the current data set and stores it under today's key.
// A second upload on the same day replaces the first.
func (a *Archive) Upload(ctx context.Context, svc *Service) (string, error) {
	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf); err != nil {
		return "", err
	}

	key := ObjectKey(a.account, a.now())

	_, err := a.client.PutObject(ctx, a.bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("upload backup %s: %w", key, err)
	}

	return key, nil
}

// List returns the account's backup keys, newest first.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	var keys []string

	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.prefix()}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list backups: %w", obj.Err)
		}

		keys = append(keys, obj.Key)
	}

	// Keys embed the date as YYYY-MM-DD, so lexical order is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	return keys, nil
}

// Restore imports the backup stored under key. An empty key restores the
// newest backup.
func (a *Archive) Restore(ctx context.Context, svc *Service, key string) (Summary, error) {
	if key == "" {
		keys, err := a.List(ctx)
		if err != nil {
			return Summary{}, err
		}

		if len(keys) == 0 {
			return Summary{}, fmt.Errorf("no backups for account %s: %w", a.account, model.ErrNotFound)
		}

		key = keys[0]
	}

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Summary{}, fmt.Errorf("fetch backup %s: %w", key, err)
	}
	defer obj.Close()

	return svc.Import(ctx, obj)
}
