// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSnapshotSaveAndOpen(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	content := "Date Occurred,Location 1\n4/1/2019,\"(36.8, -76.1)\"\n"
	day := time.Date(2019, time.April, 2, 10, 0, 0, 0, time.UTC)

	path, n, err := store.Save("vbpd", day, strings.NewReader(content))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if expected, actual := int64(len(content)), n; expected != actual {
		t.Errorf("Expected %d raw bytes written, got %d", expected, actual)
	}

	if base := filepath.Base(path); base != "2019-04-02.csv.gz" {
		t.Errorf("Snapshot name = %q, want %q", base, "2019-04-02.csv.gz")
	}

	// The bytes on disk are gzip, not the raw CSV
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Errorf("Expected a gzip magic number, got % x", raw)
	}

	r, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if string(got) != content {
		t.Errorf("Roundtrip = %q, want %q", got, content)
	}
}

func TestSnapshotLatest(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	days := []time.Time{
		time.Date(2019, time.April, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2019, time.December, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2019, time.September, 5, 0, 0, 0, 0, time.UTC),
	}

	for _, day := range days {
		if _, _, err := store.Save("vbpd", day, strings.NewReader("x")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	path, err := store.Latest("vbpd")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}

	if base := filepath.Base(path); base != "2019-12-31.csv.gz" {
		t.Errorf("Latest() = %q, want the newest date", base)
	}
}

func TestSnapshotLatestEmpty(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	if _, err := store.Latest("vbpd"); err == nil {
		t.Error("Expected an error for a source with no snapshots")
	}
}

func TestSnapshotOpenPlainCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hand-made.csv")

	if err := os.WriteFile(path, []byte("a,b\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r, err := NewSnapshotStore(dir).Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if string(got) != "a,b\n" {
		t.Errorf("Open() = %q, want the file verbatim", got)
	}
}

func TestSnapshotOpenCorruptGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv.gz")

	if err := os.WriteFile(path, []byte("this is not gzip"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := NewSnapshotStore(dir).Open(path); err == nil {
		t.Error("Expected an error for a corrupt gzip snapshot")
	}
}

func TestSnapshotCompresses(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	content := strings.Repeat("ASSAULT,300 BLOCK OF PACIFIC AVE\n", 1024)
	day := time.Date(2019, time.April, 2, 0, 0, 0, 0, time.UTC)

	path, _, err := store.Save("vbpd", day, strings.NewReader(content))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if info.Size() >= int64(len(content)) {
		t.Errorf("Snapshot of %d bytes took %d on disk; expected compression", len(content), info.Size())
	}
}
