package dataset

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "dataset")

const dbPrefix = "db:"

// TableReader reads a named table as a header and string rows.
type TableReader interface {
	ReadTable(ctx context.Context, name string) (header []string, rows [][]string, err error)
}

// Loader reads sources into frames. Remote sources go through the cache;
// local files and database tables are read on every call.
type Loader struct {
	client *http.Client
	cache  *Cache
	tables TableReader
}

// NewLoader builds a loader. tables may be nil when no database is configured.
func NewLoader(client *http.Client, cache *Cache, tables TableReader) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if cache == nil {
		cache = NewCache(0)
	}
	return &Loader{client: client, cache: cache, tables: tables}
}

// Cache returns the remote source cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// IsTable reports whether source names a database table.
func IsTable(source string) bool {
	return strings.HasPrefix(source, dbPrefix)
}

// Frame loads source.
func (l *Loader) Frame(ctx context.Context, source string) (Frame, error) {
	switch {
	case IsRemote(source):
		return l.cache.Get(ctx, source, l.remoteFetch(source))
	case IsTable(source):
		return l.readTable(ctx, source)
	default:
		return readFile(source)
	}
}

// Refresh reloads source. A failed reload keeps the cached copy.
func (l *Loader) Refresh(ctx context.Context, source string) (Frame, error) {
	if IsRemote(source) {
		return l.cache.Refresh(ctx, source, l.remoteFetch(source))
	}
	return l.Frame(ctx, source)
}

func (l *Loader) remoteFetch(url string) FetchFunc {
	return func(ctx context.Context) (Frame, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Frame{}, unavailable(url, err)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return Frame{}, unavailable(url, fmt.Errorf("request feed: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Frame{}, unavailable(url, fmt.Errorf("unexpected status %s", resp.Status))
		}

		var body io.Reader = resp.Body
		if strings.HasSuffix(url, ".gz") {
			gz, err := gzip.NewReader(resp.Body)
			if err != nil {
				return Frame{}, unavailable(url, fmt.Errorf("decompress feed: %w", err))
			}
			defer gz.Close()
			body = gz
		}
		return ReadCSV(body, url)
	}
}

func (l *Loader) readTable(ctx context.Context, source string) (Frame, error) {
	name := strings.TrimPrefix(source, dbPrefix)
	if l.tables == nil {
		return Frame{}, unavailable(source, errors.New("no database configured"))
	}
	header, rows, err := l.tables.ReadTable(ctx, name)
	if err != nil {
		return Frame{}, unavailable(source, err)
	}
	return Frame{Source: source, Header: header, Rows: rows}, nil
}

func readFile(path string) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frame{}, unavailable(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Frame{}, unavailable(path, fmt.Errorf("decompress: %w", err))
		}
		defer gz.Close()
		r = gz
	}
	return ReadCSV(r, path)
}
