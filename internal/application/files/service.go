// Package files exposes the public document area: a read-only folder tree
// under a fixed storage root with time-limited download links.
package files

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultRoot is the storage folder published to visitors
const DefaultRoot = "prosperar-publico"

// ErrPathOutsideRoot is returned for paths that leave the public root
var ErrPathOutsideRoot = shared.NewDomainError("INVALID_PATH", "Caminho fora da área pública")

// Config tunes the public file browser
type Config struct {
	Root string
	// LinkTTL is how long download links stay valid
	LinkTTL time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Root:    DefaultRoot,
		LinkTTL: 168 * time.Hour,
	}
}

// Service browses and searches the public area
type Service struct {
	storage ports.ObjectStorage
	config  Config
	logger  *zap.Logger
}

// NewService creates a new public file Service
func NewService(storage ports.ObjectStorage, config Config, logger *zap.Logger) *Service {
	if config.Root == "" {
		config.Root = DefaultRoot
	}
	config.Root = strings.Trim(config.Root, "/")
	if config.LinkTTL <= 0 {
		config.LinkTTL = DefaultConfig().LinkTTL
	}
	return &Service{storage: storage, config: config, logger: logger}
}

// Browse lists the sub-folders and files directly inside p. An empty p is
// the root.
func (s *Service) Browse(ctx context.Context, p string) (*FolderContents, error) {
	if s.storage == nil {
		return nil, shared.ErrNotConfigured
	}
	current, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	listing, err := s.storage.List(ctx, current+"/", "/")
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Erro ao listar conteúdo da pasta: "+err.Error())
	}

	out := &FolderContents{
		CurrentPath: current,
		Folders:     []FileItem{},
		Files:       []FileItem{},
	}
	if current != s.config.Root {
		out.ParentPath = path.Dir(current)
	}
	for _, prefix := range listing.Folders {
		folder := strings.TrimSuffix(prefix, "/")
		name := path.Base(folder)
		if name == "" || folder == current {
			continue
		}
		out.Folders = append(out.Folders, FileItem{Name: name, Path: folder, Type: TypeFolder})
	}
	for _, obj := range listing.Files {
		// placeholder objects some clients create for empty folders
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out.Files = append(out.Files, s.fileItem(ctx, obj))
	}
	sortItems(out.Folders)
	sortItems(out.Files)
	out.TotalFolders = len(out.Folders)
	out.TotalFiles = len(out.Files)

	s.logger.Debug("Public folder listed",
		zap.String("path", current),
		zap.Int("folders", out.TotalFolders),
		zap.Int("files", out.TotalFiles))
	return out, nil
}

// Search returns every file under the root whose name contains query,
// ignoring case
func (s *Service) Search(ctx context.Context, query string) ([]FileItem, error) {
	if s.storage == nil {
		return nil, shared.ErrNotConfigured
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []FileItem{}, nil
	}
	listing, err := s.storage.List(ctx, s.config.Root+"/", "")
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Erro na busca: "+err.Error())
	}
	results := []FileItem{}
	for _, obj := range listing.Files {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if strings.Contains(strings.ToLower(path.Base(obj.Key)), query) {
			results = append(results, s.fileItem(ctx, obj))
		}
	}
	sortItems(results)
	return results, nil
}

// resolve cleans p and checks it stays under the root
func (s *Service) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return s.config.Root, nil
	}
	if strings.Contains(p, "..") {
		return "", ErrPathOutsideRoot
	}
	cleaned := strings.Trim(path.Clean("/"+p), "/")
	if cleaned != s.config.Root && !strings.HasPrefix(cleaned, s.config.Root+"/") {
		return "", ErrPathOutsideRoot
	}
	return cleaned, nil
}

func (s *Service) fileItem(ctx context.Context, obj ports.ObjectInfo) FileItem {
	item := FileItem{
		Name:     path.Base(obj.Key),
		Path:     obj.Key,
		Type:     TypeFile,
		Size:     obj.Size,
		MimeType: obj.ContentType,
	}
	if !obj.LastModified.IsZero() {
		modified := obj.LastModified
		item.LastModified = &modified
	}
	url, err := s.storage.DownloadURL(ctx, obj.Key, s.config.LinkTTL)
	if err != nil {
		s.logger.Warn("Failed to sign public file link", zap.String("key", obj.Key), zap.Error(err))
		return item
	}
	item.DownloadURL = url
	if strings.HasPrefix(obj.ContentType, "image/") {
		item.PreviewURL = url
	}
	return item
}

func sortItems(items []FileItem) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
