package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_OnStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockProgressRenderer(ctrl)
	bridge := telemetry.NewBridge(mockRenderer)

	mockRenderer.EXPECT().
		OnSpanStart(gomock.Any(), "", "round", map[string]any{"round.number": int64(3)}, gomock.Any()).
		Times(1)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "round",
		oteltrace.WithAttributes(attribute.Int("round.number", 3)))
	defer span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
	}
}

func TestBridge_OnStartWithNilRenderer(_ *testing.T) {
	bridge := telemetry.NewBridge(nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "test-span")
	defer span.End()

	if rwSpan, ok := span.(sdktrace.ReadWriteSpan); ok {
		bridge.OnStart(ctx, rwSpan)
	}
}

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockProgressRenderer(ctrl)
	bridge := telemetry.NewBridge(mockRenderer)

	mockRenderer.EXPECT().OnSpanEnd(gomock.Any(), gomock.Any(), nil).Times(1)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}

func TestBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRenderer := mocks.NewMockProgressRenderer(ctrl)
	bridge := telemetry.NewBridge(mockRenderer)

	mockRenderer.EXPECT().
		OnSpanEnd(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil())).
		Times(1)

	tp := sdktrace.NewTracerProvider()
	_, span := tp.Tracer("test").Start(context.Background(), "test-span")
	span.SetStatus(codes.Error, "compilation failed")
	span.End()

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok {
		bridge.OnEnd(roSpan)
	}
}
