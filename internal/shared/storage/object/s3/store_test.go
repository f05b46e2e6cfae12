package s3

import (
	"context"
	"errors"
	"fmt"
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"careergap/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "resumes/u/cv.pdf", want: "resumes/u/cv.pdf"},
		{name: "prefix", prefix: "careergap", key: "resumes/u/cv.pdf", want: "careergap/resumes/u/cv.pdf"},
		{name: "slashes", prefix: "/careergap/", key: "/resumes/u/cv.pdf", want: "careergap/resumes/u/cv.pdf"},
		{name: "empty key", prefix: "careergap", key: "", want: "careergap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix("  /a/b/ "); got != "a/b" {
		t.Fatalf("unexpected prefix %q", got)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestNewWithCompatibleEndpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	store, err := New(context.Background(), Options{
		Region:   "auto",
		Bucket:   "resumes",
		Prefix:   "/dev/",
		Endpoint: "http://localhost:9000/",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	opts := store.client.Options()
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Fatalf("unexpected endpoint %v", opts.BaseEndpoint)
	}
	if !opts.UsePathStyle {
		t.Fatal("expected path-style addressing")
	}
	if store.sse {
		t.Fatal("server-side encryption header should be off for compatible endpoints")
	}
	if store.prefix != "dev" {
		t.Fatalf("unexpected prefix %q", store.prefix)
	}
}

func TestWrapMapsMissingObjects(t *testing.T) {
	store := &Store{bucket: "resumes", prefix: "dev"}

	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{name: "typed no such key", err: &s3types.NoSuchKey{}, notFound: true},
		{name: "compatible not found", err: fmt.Errorf("op: %w", &smithy.GenericAPIError{Code: "NotFound"}), notFound: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
		{name: "transport", err: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.wrap("get", "resumes/u/cv.pdf", tt.err)
			if errors.Is(got, object.ErrNotFound) != tt.notFound {
				t.Fatalf("wrap(%v) = %v", tt.err, got)
			}
			if !tt.notFound && !errors.Is(got, tt.err) {
				t.Fatalf("original error should stay wrapped: %v", got)
			}
		})
	}
}
