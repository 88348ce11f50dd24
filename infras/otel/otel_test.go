package otel_test

import (
	"context"
	"errors"
	"testing"

	"todoapi/config"
	"todoapi/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todoapi-test"

	tracer := otel.New(cfg)
	defer func() { require.NoError(t, tracer.Shutdown(context.Background())) }()

	ctx, scope := tracer.NewScope(context.Background(), "service", "service.Create")
	scope.SetAttributes(map[string]any{
		"todo.id": "t-1",
		"size":    int64(12),
		"count":   3,
		"cascade": true,
		"ids":     []string{"a", "b"},
		"other":   1.5,
	})
	scope.AddEvent("created")
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("boom"))
	scope.End()

	span := oteltrace.SpanFromContext(ctx)
	assert.True(t, span.SpanContext().IsValid(), "expected a recording span in the returned context")
}
