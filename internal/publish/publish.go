// Package publish uploads a rendered site directory to an S3 bucket.
package publish

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Uploader copies every file under a directory to Bucket/Prefix, keeping the
// relative layout so the index links keep working.
type Uploader struct {
	Client      s3iface.S3API
	Bucket      string
	Prefix      string
	Concurrency int
	Logger      *slog.Logger
}

// Upload walks dir and puts each regular file. It stops at the first failed
// upload and returns the number of files uploaded.
func (u *Uploader) Upload(ctx context.Context, dir string) (int, error) {
	if u.Bucket == "" {
		return 0, fmt.Errorf("no bucket configured")
	}
	logger := u.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", dir, err)
	}

	limit := u.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var uploaded atomic.Int64
	for _, file := range files {
		g.Go(func() error {
			rel, err := filepath.Rel(dir, file)
			if err != nil {
				return err
			}
			key := path.Join(u.Prefix, filepath.ToSlash(rel))
			if err := u.put(gctx, file, key); err != nil {
				return fmt.Errorf("uploading %s: %w", key, err)
			}
			uploaded.Add(1)
			logger.Debug("uploaded", "bucket", u.Bucket, "key", key)
			return nil
		})
	}
	err = g.Wait()
	return int(uploaded.Load()), err
}

func (u *Uploader) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(key)),
	})
	return err
}

// ContentType picks the Content-Type for an object key by its extension.
func ContentType(key string) string {
	switch ext := path.Ext(key); ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".geojson":
		return "application/geo+json"
	case ".parquet":
		return "application/vnd.apache.parquet"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
