package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"todoapi/infras/otel"
	"todoapi/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type localImpl struct {
	root string
	otel otel.Otel
}

// NewLocal stores files on disk under root.
func NewLocal(root string, otl otel.Otel) Storage {
	return &localImpl{
		root: root,
		otel: otl,
	}
}

func (s *localImpl) Save(ctx context.Context, directory, fileName, _ string, content io.Reader) (obj Object, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = ctx.Err(); err != nil {
		return obj, fmt.Errorf("failed to save file: %w", err)
	}

	dir := filepath.Join(s.root, SanitizeName(directory))
	if err = os.MkdirAll(dir, dirPerm); err != nil {
		return obj, fmt.Errorf("failed to create storage directory: %w", err)
	}

	target := filepath.Join(dir, SanitizeName(fileName))

	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return obj, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(file, content)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if rmErr := os.Remove(target); rmErr != nil {
			log.Error().Err(rmErr).Str("path", target).Msg("failed to remove partial file")
		}

		return obj, fmt.Errorf("failed to write file: %w", err)
	}

	scope.SetAttributes(map[string]any{
		"storage.path": target,
		"storage.size": size,
	})

	return Object{Path: target, Size: size}, nil
}

// Delete removes the file at path. A file that is already gone is not an error.
func (s *localImpl) Delete(ctx context.Context, path string) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
