// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotSuffix = ".csv.gz"

// Combines multiple closers to ensure all resources are released.
type multiReadCloser struct {
	io.ReadCloser
	underlying io.Closer
}

// Implements io.Closer and ensures all resources are properly released.
func (r *multiReadCloser) Close() error {
	return errors.Join(
		r.ReadCloser.Close(),
		r.underlying.Close(),
	)
}

// SnapshotStore keeps dated copies of downloaded CSV exports, one
// subdirectory per source, gzip-compressed. Keeping the raw files
// around makes reloads reproducible after parser changes.
type SnapshotStore struct {
	root string
}

// NewSnapshotStore creates a store rooted at the given directory.
func NewSnapshotStore(root string) *SnapshotStore {
	return &SnapshotStore{root: root}
}

func (s *SnapshotStore) dirFor(sourceID string) string {
	return filepath.Join(s.root, sourceID)
}

// Ensures that the directory for the given source exists.
func (s *SnapshotStore) dirMustExist(sourceID string) error {
	if err := os.MkdirAll(s.dirFor(sourceID), 0o700); err != nil {
		return fmt.Errorf("setting up snapshot store: %w", err)
	}

	return nil
}

// Save stores the content as the snapshot for the given day,
// compressed with gzip at best compression. It returns the snapshot
// path and the number of raw bytes written.
func (s *SnapshotStore) Save(sourceID string, day time.Time, content io.Reader) (path string, n int64, err error) {
	if err := s.dirMustExist(sourceID); err != nil {
		return "", 0, err
	}

	path = filepath.Join(s.dirFor(sourceID), day.Format("2006-01-02")+snapshotSuffix)

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return "", 0, fmt.Errorf("creating snapshot file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing file: %w", cerr))
		}
	}()

	gw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return "", 0, fmt.Errorf("creating gzip writer: %w", err)
	}

	defer func() {
		if cerr := gw.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing gzip writer: %w", cerr))
		}
	}()

	if n, err = io.Copy(gw, content); err != nil {
		return "", 0, fmt.Errorf("writing snapshot file: %w", err)
	}

	return path, n, err
}

// Latest resolves the newest snapshot for a source. The date-stamped
// names sort chronologically, so lexicographic order is enough.
func (s *SnapshotStore) Latest(sourceID string) (string, error) {
	entries, err := os.ReadDir(s.dirFor(sourceID))
	if err != nil {
		return "", fmt.Errorf("reading snapshot directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), snapshotSuffix) {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no snapshots for source %q under %s", sourceID, s.root)
	}

	sort.Strings(names)

	return filepath.Join(s.dirFor(sourceID), names[len(names)-1]), nil
}

// Open returns a reader over a snapshot, decompressing transparently.
// Plain .csv files pass through so users can load hand-made files.
func (s *SnapshotStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gr, err := gzip.NewReader(f)
	if err != nil {
		err1 := f.Close()

		return nil, errors.Join(fmt.Errorf("creating gzip reader: %w", err), err1)
	}

	return &multiReadCloser{gr, f}, nil
}
