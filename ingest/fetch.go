// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jcodagnone/hotspot/utils/httputils"
	"github.com/jcodagnone/hotspot/utils/textutils"
)

// FetchOptions configuration for Fetcher.
type FetchOptions struct {
	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool

	// Timeout for the whole download. City-sized exports run into the
	// hundreds of megabytes.
	Timeout time.Duration
}

// Fetcher downloads source CSV exports into the snapshot store.
type Fetcher struct {
	client  *http.Client
	store   *SnapshotStore
	options *FetchOptions
}

// NewFetcher creates a fetcher with the provided options writing to
// the given snapshot store.
func NewFetcher(options *FetchOptions, store *SnapshotStore) *Fetcher {
	if options == nil {
		options = &FetchOptions{}
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		MaxConnsPerHost:       4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		DisableKeepAlives:     false,
		DisableCompression:    false,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    httpLogWriter,
		DumpBody:  options.EnableHTTPBodyTrace,
		Transport: transport,
	}

	userAgent := "hotspot/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "text/csv, */*",
		},
		Transport: loggingTransport,
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: headerTransport,
	}

	return &Fetcher{
		client:  client,
		store:   store,
		options: options,
	}
}

// Fetch downloads the source export and stores it as today's
// snapshot, returning the snapshot path.
func (f *Fetcher) Fetch(ctx context.Context, source Source) (string, error) {
	if err := source.Validate(); err != nil {
		return "", fmt.Errorf("validating source: %w", err)
	}

	log.Printf("Downloading %s from %s", source.Name, source.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading export: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Join(
			resp.Body.Close(),
			fmt.Errorf("downloading export: status %d", resp.StatusCode),
		)
	}

	path, n, err := f.store.Save(source.ID, time.Now(), resp.Body)
	if err != nil {
		return "", errors.Join(
			resp.Body.Close(),
			fmt.Errorf("saving snapshot: %w", err),
		)
	}

	if err := resp.Body.Close(); err != nil {
		return "", fmt.Errorf("closing response: %w", err)
	}

	log.Printf("💾 Saved snapshot %s (%s bytes)", path, textutils.FormatInt(n))

	return path, nil
}
