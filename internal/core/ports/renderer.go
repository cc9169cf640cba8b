package ports

import (
	"time"

	"go.trai.ch/rebuild/internal/core/domain"
)

// ReportRenderer presents the outcome of an update to the user.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type ReportRenderer interface {
	// RenderReport writes a summary of a completed update.
	RenderReport(report *domain.UpdateReport)
	// RenderFailure writes the diagnostics of a failed update.
	RenderFailure(err error, diagnostics []domain.Diagnostic)
}

// ProgressRenderer is told about spans as they start and end, so that long updates can show
// each round while it runs.
type ProgressRenderer interface {
	// OnSpanStart is called when a span begins.
	// spanID: unique identifier for this span
	// parentID: spanID of the parent span (empty if root)
	OnSpanStart(spanID, parentID, name string, attrs map[string]any, startTime time.Time)

	// OnSpanEnd is called when a span finishes; err is nil unless the span recorded a failure.
	OnSpanEnd(spanID string, endTime time.Time, err error)
}
