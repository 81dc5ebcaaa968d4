package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type object struct {
	data        []byte
	contentType string
}

type s3Fake struct {
	s3iface.S3API
	mu      sync.Mutex
	objects map[[2]string]object
	failKey string
}

func (f *s3Fake) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if *in.Key == f.failKey {
		return nil, errors.New("access denied")
	}
	var b bytes.Buffer
	if _, err := io.Copy(&b, in.Body); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[[2]string{*in.Bucket, *in.Key}] = object{b.Bytes(), aws.StringValue(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func testSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":                     "<h1>index</h1>",
		"London/Attendant.html":          "<h1>Attendant</h1>",
		"London/Attendant.md":            "# Attendant",
		"London/images/Attendant_1.jpg":  "jpeg",
		"San_Francisco/Blue_Bottle.html": "<h1>Blue Bottle</h1>",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestUpload(t *testing.T) {
	fake := &s3Fake{objects: map[[2]string]object{}}
	u := &Uploader{Client: fake, Bucket: "cafes", Prefix: "site", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n, err := u.Upload(context.Background(), testSite(t))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if n != 5 || len(fake.objects) != 5 {
		t.Fatalf("expected 5 uploads, got %d (%d stored)", n, len(fake.objects))
	}

	page, ok := fake.objects[[2]string{"cafes", "site/London/Attendant.html"}]
	if !ok {
		t.Fatal("expected page under prefix with relative layout")
	}
	if string(page.data) != "<h1>Attendant</h1>" || page.contentType != "text/html; charset=utf-8" {
		t.Errorf("unexpected page object %q %q", page.data, page.contentType)
	}
	if img := fake.objects[[2]string{"cafes", "site/London/images/Attendant_1.jpg"}]; img.contentType != "image/jpeg" {
		t.Errorf("unexpected image content type %q", img.contentType)
	}
}

func TestUploadFailure(t *testing.T) {
	fake := &s3Fake{objects: map[[2]string]object{}, failKey: "index.html"}
	u := &Uploader{Client: fake, Bucket: "cafes", Concurrency: 1}

	_, err := u.Upload(context.Background(), testSite(t))
	if err == nil || !strings.Contains(err.Error(), "uploading index.html") {
		t.Fatalf("expected upload error for index.html, got %v", err)
	}
}

func TestUploadRequiresBucket(t *testing.T) {
	u := &Uploader{Client: &s3Fake{}}
	if _, err := u.Upload(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a/index.html":   "text/html; charset=utf-8",
		"a/shop.md":      "text/markdown; charset=utf-8",
		"a/images/x.jpg": "image/jpeg",
		"shops.geojson":  "application/geo+json",
		"shops.parquet":  "application/vnd.apache.parquet",
		"README":         "application/octet-stream",
	}
	for key, want := range tests {
		if got := ContentType(key); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", key, got, want)
		}
	}
}
