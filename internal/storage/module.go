package storage

import (
	"context"
	"fmt"

	"github.com/ghaggin/eduarchive/internal/config"
)

// UploadsURLPrefix is where the local store's files are served from.
const UploadsURLPrefix = "/uploads"

// New picks the backend named in config.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "local":
		return NewLocal(cfg.Storage.Dir, UploadsURLPrefix)
	case "s3":
		return NewS3(context.Background(), cfg.Storage.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
