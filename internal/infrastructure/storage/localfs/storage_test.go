package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/legalsift/docsift/internal/core/domain"
)

func TestPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "http://localhost:8080/files/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	obj, err := s.Put(context.Background(), "abc_terms.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if obj.ID != "abc_terms.txt" || obj.URL != "http://localhost:8080/files/abc_terms.txt" {
		t.Fatalf("unexpected stored object %+v", obj)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "abc_terms.txt"))
	if err != nil || string(raw) != "hello" {
		t.Fatalf("expected file contents, got %q err=%v", raw, err)
	}

	if err := s.Delete(context.Background(), obj.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc_terms.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}
	if err := s.Delete(context.Background(), obj.ID); err != nil {
		t.Fatalf("Delete() of missing file error = %v", err)
	}
}

func TestPutRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"", "..", "../escape.txt", "a/b.txt"} {
		if _, err := s.Put(context.Background(), key, "", []byte("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Put(%q) expected invalid input, got %v", key, err)
		}
	}
}
