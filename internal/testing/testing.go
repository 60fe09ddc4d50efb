// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// ErrStoreUnavailable is returned by [FStore].
var ErrStoreUnavailable = errors.New("store unavailable")

// Entries returns a small catalog in file order.
func Entries() []models.PlaylistEntry {
	return []models.PlaylistEntry{
		{URL: "https://open.spotify.com/playlist/a", Name: "Jazz", Image: "https://i.scdn.co/image/a", Duration: models.Duration{Hours: 1, Minutes: 2, Seconds: 3}},
		{URL: "https://open.spotify.com/playlist/b", Name: "Rock", Duration: models.Duration{Days: 1}},
		{URL: "https://open.spotify.com/playlist/c", Name: "Late Night Jazz", Duration: models.Duration{Minutes: 45}},
	}
}

// ManyEntries returns n entries named "Playlist 0".."Playlist n-1".
func ManyEntries(n int) []models.PlaylistEntry {
	out := make([]models.PlaylistEntry, n)
	for i := range out {
		out[i] = models.PlaylistEntry{
			URL:      "https://open.spotify.com/playlist/" + strconv.Itoa(i),
			Name:     "Playlist " + strconv.Itoa(i),
			Duration: models.Duration{Minutes: i},
		}
	}
	return out
}

// FStore is a [models.KeyValueStore] where reads find nothing and writes fail.
type FStore struct{}

func (FStore) Get(_ context.Context, key string) (string, error) {
	return "", fmt.Errorf("%w: %s", shared.ErrKeyNotFound, key)
}

func (FStore) Set(context.Context, string, string) error { return ErrStoreUnavailable }
func (FStore) Delete(context.Context, string) error      { return ErrStoreUnavailable }
func (FStore) Keys(context.Context) ([]string, error)    { return nil, ErrStoreUnavailable }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FReader simulates a failure when reading a request body
type FReader struct{}

func (f *FReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FReader) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
