package storage

//go:generate go run go.uber.org/mock/mockgen -source=./storage.go -destination=./mocks/storage_mock.go -package=mocks

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"todoapi/config"
	"todoapi/infras/otel"
	"todoapi/infras/s3"

	"github.com/rs/zerolog/log"
)

// Object is a stored file.
type Object struct {
	Path string
	Size int64
}

// Storage persists uploaded file content. Path values returned by Save are
// what Delete expects back. An empty contentType is stored as octet-stream
// where the backend records one.
type Storage interface {
	Save(ctx context.Context, directory, fileName, contentType string, content io.Reader) (Object, error)
	Delete(ctx context.Context, path string) error
}

func New(cfg *config.Config, otl otel.Otel) Storage {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3(s3.New(cfg, otl), otl)
	case config.StorageDriverLocal, "":
		return NewLocal(cfg.Storage.Local.Root, otl)
	default:
		log.Fatal().Str("driver", cfg.Storage.Driver).Msg("Unknown storage driver")

		return nil
	}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const (
	fallbackName = "file"
	// maxNameLength keeps a stored segment well under the 255 byte limit
	// most filesystems and object stores put on a single path element.
	maxNameLength = 200
	maxExtLength  = 16
)

// SanitizeName reduces name to a single safe path segment of at most
// maxNameLength bytes. A short extension survives truncation.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")

	if name == "" {
		return fallbackName
	}

	if len(name) <= maxNameLength {
		return name
	}

	ext := path.Ext(name)
	if len(ext) > maxExtLength {
		ext = ""
	}

	// only ASCII remains after replacement, so byte slicing is safe
	base := strings.TrimRight(name[:maxNameLength-len(ext)], "._")
	if base == "" {
		base = fallbackName
	}

	return base + ext
}
