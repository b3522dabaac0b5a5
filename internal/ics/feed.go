// Package ics retrieves, parses and expands the meetup calendar document.
package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "meetupsync/internal/log"
)

// Feed retrieves the calendar document from a single source. The source
// is either a local file path (the usual case: a downloaded meetup.ics)
// or an http(s) URL, in which case responses are cached on disk and
// revalidated with ETag / Last-Modified.
type Feed struct {
	source   string
	cacheDir string
	client   *http.Client
	log      *appLog.Logger
}

// cacheEntry holds HTTP cache metadata for the feed URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewFeed creates a Feed for the given source. cacheDir is only used for
// http(s) sources.
func NewFeed(source, cacheDir string, logger *appLog.Logger) *Feed {
	if cacheDir == "" {
		// Relative fallback so development runs without root permissions.
		cacheDir = "./var/ics-cache"
	}
	return &Feed{
		source:   source,
		cacheDir: cacheDir,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logger,
	}
}

// Fetch returns the calendar document, fully in memory.
func (f *Feed) Fetch(ctx context.Context) ([]byte, error) {
	if f.source == "" {
		return nil, errors.New("calendar source is empty")
	}
	if isHTTP(f.source) {
		return f.fetchURL(ctx)
	}
	return os.ReadFile(f.source)
}

func isHTTP(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// fetchURL fetches the feed over HTTP, honoring ETag and Last-Modified.
// A 304 answers from the disk cache; so does a network error when a
// cached body exists.
func (f *Feed) fetchURL(ctx context.Context) ([]byte, error) {
	cachePath := f.cachePath()
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return nil, err
	}

	meta, _ := f.loadCacheMeta(cachePath)
	cachedBody, _ := f.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source, nil)
	if err != nil {
		return nil, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	f.log.Info("feed fetch start", "url", redactURL(f.source))

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			f.log.Error("feed fetch network error, using cached body", err, "url", redactURL(f.source))
			return cachedBody, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}

		newMeta := cacheEntry{
			URL:          f.source,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := f.saveCache(cachePath, newMeta, body); err != nil {
			// Log but still return the freshly fetched body.
			f.log.Error("feed cache save failed", err, "url", redactURL(f.source))
		}

		f.log.Info("feed fetch success", "url", redactURL(f.source), "status", resp.StatusCode, "from_cache", false)
		return body, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, errors.New("received 304 Not Modified but no cached body available")
		}
		f.log.Info("feed not modified; using cache", "url", redactURL(f.source))
		return cachedBody, nil

	default:
		if len(cachedBody) > 0 {
			f.log.Error("feed fetch non-OK, using cached body", errors.New(resp.Status), "url", redactURL(f.source), "status", resp.StatusCode)
			return cachedBody, nil
		}
		return nil, errors.New(resp.Status)
	}
}

func (f *Feed) cachePath() string {
	sum := sha256.Sum256([]byte(f.source))
	// First 16 hex chars as directory name.
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
}

func (f *Feed) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (f *Feed) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.ics"))
}

func (f *Feed) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.ics"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL hides sensitive parts of a feed URL for logging purposes.
// Subscription URLs commonly embed access tokens in the path or query.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}

	j := i + 3
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
