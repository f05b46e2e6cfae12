package object

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNewKeyLayout(t *testing.T) {
	key, err := NewKey("user-1", "My CV.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != "resumes" {
		t.Fatalf("unexpected key %q", key)
	}
	if parts[1] != ownerKey("user-1") || len(parts[1]) != 64 {
		t.Fatalf("owner segment %q is not the owner hash", parts[1])
	}
	if strings.Contains(key, "user-1") {
		t.Fatalf("key leaks owner id: %q", key)
	}
	if !strings.HasSuffix(parts[2], "_My CV.pdf") {
		t.Fatalf("unexpected file segment %q", parts[2])
	}

	other, _ := NewKey("user-1", "My CV.pdf")
	if other == key {
		t.Fatal("expected unique keys for repeated uploads")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " dir/sub\\cv.pdf ", want: "dir_sub_cv.pdf"},
		{in: "cv\x00.pdf", want: "cv_.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "//", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("SanitizeFileName(%q) err = %v, want ErrInvalidFileName", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	long, err := SanitizeFileName(strings.Repeat("a", 300) + ".pdf")
	if err != nil || len(long) != maxFileNameRune {
		t.Fatalf("expected truncation to %d, got %d (%v)", maxFileNameRune, len(long), err)
	}
}

func TestSniffReplaysHead(t *testing.T) {
	data := []byte("%PDF-1.7\n" + strings.Repeat("x", 1000))
	ct, r, err := Sniff(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	got, _ := io.ReadAll(r)
	if !bytes.Equal(got, data) {
		t.Fatal("replayed bytes differ")
	}
}
