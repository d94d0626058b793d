package storage

import (
	"fmt"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the configured ObjectStorage
func New(cfg *config.StorageConfig, logger *zap.Logger) (ports.ObjectStorage, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case "local", "":
		return NewLocalObjectStorage(cfg.LocalPath, cfg.LocalDownloadBase(), logger, cfg.PublicRoot)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
