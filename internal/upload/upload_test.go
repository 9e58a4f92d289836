package upload_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MiniAdmin/internal/upload"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestSaver_SaveKeepsExtensionAndPrefix(t *testing.T) {
	s := &upload.Saver{Dir: t.TempDir(), PublicPrefix: "uploads"}

	rel, err := s.Save(fileHeader(t, "cat.png", []byte("meow")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(rel, "uploads/") || !strings.HasSuffix(rel, ".png") {
		t.Fatalf("rel = %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.Base(rel)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "meow" {
		t.Fatalf("content = %q", data)
	}
}

func TestSaver_NamesNeverCollide(t *testing.T) {
	s := &upload.Saver{Dir: t.TempDir(), PublicPrefix: "uploads"}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rel, err := s.Save(fileHeader(t, "a.jpg", []byte("x")))
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if seen[rel] {
			t.Fatalf("duplicate name %q", rel)
		}
		seen[rel] = true
	}
}

func TestSaver_CleanupDisabledByDefault(t *testing.T) {
	s := &upload.Saver{Dir: t.TempDir(), PublicPrefix: "uploads"}

	rel, err := s.Save(fileHeader(t, "a.jpg", []byte("x")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Cleanup(rel); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, filepath.Base(rel))); err != nil {
		t.Fatalf("file removed despite cleanup being off: %v", err)
	}
}

func TestSaver_CleanupRemovesFile(t *testing.T) {
	s := &upload.Saver{Dir: t.TempDir(), PublicPrefix: "uploads", RemoveOrphans: true}

	rel, err := s.Save(fileHeader(t, "a.jpg", []byte("x")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Cleanup(rel); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, filepath.Base(rel))); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}

	// Missing files are not an error: orphaned paths from old records.
	if err := s.Cleanup(rel); err != nil {
		t.Fatalf("cleanup of missing file: %v", err)
	}
}

func TestSaver_CleanupIgnoresDirectoryParts(t *testing.T) {
	s := &upload.Saver{Dir: t.TempDir(), PublicPrefix: "uploads", RemoveOrphans: true}

	outside := filepath.Join(filepath.Dir(s.Dir), "victim.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write victim: %v", err)
	}

	_ = s.Cleanup("uploads/../victim.txt")

	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside upload dir was removed: %v", err)
	}
}
