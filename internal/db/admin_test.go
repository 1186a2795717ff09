package db

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestAttachAdminRoutes tests that the debug routes are mounted and serve.
func TestAttachAdminRoutes(t *testing.T) {
	tmpDir := t.TempDir()

	// Backup files are written to the working directory; run from the temp
	// dir so they land there.
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	db, err := NewDB(filepath.Join(tmpDir, "admin_test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.InsertTransactions(sampleTransactions()); err != nil {
		t.Fatalf("Failed to seed transactions: %v", err)
	}

	httpMux := http.NewServeMux()
	db.AttachAdminRoutes(httpMux)

	t.Run("tailsql endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/debug/tailsql/", nil)
		w := httptest.NewRecorder()

		httpMux.ServeHTTP(w, req)

		// Should be registered (might return 403 due to auth)
		if w.Code == http.StatusNotFound {
			t.Error("Route /debug/tailsql/ should be registered, got 404")
		}
	})

	t.Run("backup endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/debug/backup", nil)
		w := httptest.NewRecorder()

		httpMux.ServeHTTP(w, req)

		// Should be registered (might return 403 due to auth or 200 if auth passes)
		if w.Code == http.StatusNotFound {
			t.Error("Route /debug/backup should be registered, got 404")
		}

		// If we get 200, validate the download headers and gzip payload
		if w.Code == http.StatusOK {
			disposition := w.Header().Get("Content-Disposition")
			if !strings.HasPrefix(disposition, "attachment; filename=backup-") {
				t.Errorf("Expected backup attachment disposition, got %q", disposition)
			}
			if encoding := w.Header().Get("Content-Encoding"); encoding != "gzip" {
				t.Errorf("Expected Content-Encoding 'gzip', got %q", encoding)
			}
			if contentType := w.Header().Get("Content-Type"); contentType != "application/octet-stream" {
				t.Errorf("Expected Content-Type 'application/octet-stream', got %q", contentType)
			}

			gz, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
			if err != nil {
				t.Fatalf("Backup body is not valid gzip: %v", err)
			}
			defer gz.Close()
			payload, err := io.ReadAll(gz)
			if err != nil {
				t.Fatalf("Failed to decompress backup: %v", err)
			}
			if !bytes.HasPrefix(payload, []byte("SQLite format 3")) {
				t.Error("Decompressed backup is not a SQLite database")
			}
		}
	})
}

// TestBackupEndpoint_FileCleanup tests that backup files are properly cleaned up
func TestBackupEndpoint_FileCleanup(t *testing.T) {
	tmpDir := t.TempDir()

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	db, err := NewDB(filepath.Join(tmpDir, "cleanup_test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	httpMux := http.NewServeMux()
	db.AttachAdminRoutes(httpMux)

	beforeFiles, err := filepath.Glob("backup-*.db")
	if err != nil {
		t.Fatalf("Failed to list files: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/debug/backup", nil)
	w := httptest.NewRecorder()

	httpMux.ServeHTTP(w, req)

	afterFiles, err := filepath.Glob("backup-*.db")
	if err != nil {
		t.Fatalf("Failed to list files after backup: %v", err)
	}

	// The handler removes the VACUUM INTO file after streaming it; verify
	// we did not accumulate leftovers.
	if len(afterFiles) > len(beforeFiles)+1 {
		t.Errorf("Too many backup files created: before=%d, after=%d", len(beforeFiles), len(afterFiles))
	}
}
