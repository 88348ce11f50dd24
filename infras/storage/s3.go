package storage

import (
	"context"
	"fmt"
	"io"

	"todoapi/infras/otel"
	"todoapi/infras/s3"
	"todoapi/shared/constant"
)

type s3Impl struct {
	client s3.S3
	otel   otel.Otel
}

// NewS3 stores files as objects; the stored path is the object key.
func NewS3(client s3.S3, otl otel.Otel) Storage {
	return &s3Impl{
		client: client,
		otel:   otl,
	}
}

func (s *s3Impl) Save(ctx context.Context, directory, fileName, contentType string, content io.Reader) (obj Object, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key, size, err := s.client.UploadFile(ctx, SanitizeName(directory), SanitizeName(fileName), contentType, content)
	if err != nil {
		return obj, fmt.Errorf("failed to save object: %w", err)
	}

	return Object{Path: key, Size: size}, nil
}

func (s *s3Impl) Delete(ctx context.Context, path string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.client.DeleteFile(ctx, path); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
