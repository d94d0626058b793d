package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"go.uber.org/zap"
)

// Ensure LocalObjectStorage implements ObjectStorage
var _ ports.ObjectStorage = (*LocalObjectStorage)(nil)

// ErrNotServed is returned by DownloadURL for keys outside the served prefixes
var ErrNotServed = errors.New("object is not served over HTTP")

// LocalObjectStorage keeps objects on the local filesystem under root.
// Download URLs point at baseURL, which the HTTP server serves statically
// for the served prefixes only.
type LocalObjectStorage struct {
	root    string
	baseURL string
	served  []string
	logger  *zap.Logger
}

// NewLocalObjectStorage creates the root directory if needed. When served
// is empty every key gets a download URL.
func NewLocalObjectStorage(root, baseURL string, logger *zap.Logger, served ...string) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("local storage path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	prefixes := make([]string, 0, len(served))
	for _, p := range served {
		if p = strings.Trim(p, "/"); p != "" {
			prefixes = append(prefixes, p+"/")
		}
	}
	return &LocalObjectStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		served:  prefixes,
		logger:  logger,
	}, nil
}

// Root returns the directory objects are stored in
func (s *LocalObjectStorage) Root() string {
	return s.root
}

// resolve maps a key to a path inside root, rejecting traversal.
func (s *LocalObjectStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errKeyRequired
	}
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	full := filepath.Join(s.root, clean)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return full, nil
}

// Upload writes the reader to the key's file
func (s *LocalObjectStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	return f.Close()
}

// Download opens the key's file
func (s *LocalObjectStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete removes the key's file. Missing files are not an error.
func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists checks whether the key's file exists
func (s *LocalObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	full, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// List walks the directory tree. With a delimiter only the first level
// below prefix is returned, mirroring S3 common prefixes.
func (s *LocalObjectStorage) List(_ context.Context, prefix, delimiter string) (*ports.Listing, error) {
	listing := &ports.Listing{}
	folders := map[string]struct{}{}

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if i := strings.Index(rest, delimiter); i >= 0 {
				folders[prefix+rest[:i+len(delimiter)]] = struct{}{}
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		listing.Files = append(listing.Files, ports.ObjectInfo{
			Key:          key,
			Name:         filepath.Base(p),
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ContentTypeFor(key),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	for f := range folders {
		listing.Folders = append(listing.Folders, f)
	}
	sort.Strings(listing.Folders)
	sort.Slice(listing.Files, func(i, j int) bool { return listing.Files[i].Key < listing.Files[j].Key })
	return listing, nil
}

// DownloadURL returns a static URL; local files do not expire.
func (s *LocalObjectStorage) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	if !s.isServed(key) {
		return "", fmt.Errorf("%w: %s", ErrNotServed, key)
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segments, "/"), nil
}

func (s *LocalObjectStorage) isServed(key string) bool {
	if len(s.served) == 0 {
		return true
	}
	key = strings.TrimLeft(key, "/")
	if strings.Contains(key, "..") {
		return false
	}
	for _, p := range s.served {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
