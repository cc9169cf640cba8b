package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebuild/internal/adapters/linear"
	"go.trai.ch/rebuild/internal/core/domain"
)

var (
	unitA = domain.NewUnit("p/A.java")
	unitB = domain.NewUnit("p/B.java")
	unitC = domain.NewUnit("p/C.java")
)

func newRenderer() (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return linear.NewRendererWithProfile(&stdout, &stderr, termenv.Ascii), &stdout, &stderr
}

func TestRenderer_RenderReport(t *testing.T) {
	r, stdout, stderr := newRenderer()
	classA := domain.NewInternedString("p.A")
	classB := domain.NewInternedString("p.B")
	back := domain.Invalidation{
		Unit:   unitA,
		Reason: domain.ReasonReferencesChangedClass,
		Change: domain.Changed(domain.EntityClass, classB),
	}

	r.RenderReport(&domain.UpdateReport{
		ID: "update-1",
		Rounds: []domain.Round{
			{
				Number:   1,
				Compiled: []domain.Unit{unitA},
				Invalidations: []domain.Invalidation{{
					Unit:   unitB,
					Reason: domain.ReasonParentsChanged,
					Change: domain.Changed(domain.EntityClass, classA),
				}},
			},
			{Number: 2, Compiled: []domain.Unit{unitB}, Invalidations: []domain.Invalidation{back}},
		},
		Cycles: []domain.CycleEvent{{Round: 2, Invalidation: back}},
	})

	assert.Empty(t, stderr.String())
	goldie.New(t).Assert(t, "report", stdout.Bytes())
}

func TestRenderer_RenderReport_Removal(t *testing.T) {
	r, stdout, _ := newRenderer()

	r.RenderReport(&domain.UpdateReport{
		Rounds: []domain.Round{
			{
				Number: 0,
				Invalidations: []domain.Invalidation{{
					Unit:   unitC,
					Reason: domain.ReasonReferencesRemovedDefinition,
					Change: domain.Removed(domain.EntityDefinition, domain.NewInternedString("q.Util.helper")),
				}},
			},
			{Number: 1, Compiled: []domain.Unit{unitC}},
		},
	})

	goldie.New(t).Assert(t, "report_removal", stdout.Bytes())
}

func TestRenderer_RenderReport_UpToDate(t *testing.T) {
	r, stdout, _ := newRenderer()

	r.RenderReport(&domain.UpdateReport{ID: "update-2"})

	goldie.New(t).Assert(t, "report_up_to_date", stdout.Bytes())
}

func TestRenderer_RenderFailure(t *testing.T) {
	r, stdout, stderr := newRenderer()
	diags := []domain.Diagnostic{
		{Unit: unitA, Line: 3, Severity: domain.SeverityError, Message: "syntax error"},
		{Unit: unitB, Severity: domain.SeverityError, Message: domain.ErrSourceReadFailed.Error()},
	}

	r.RenderFailure(&domain.CompileError{Round: 1, Units: []domain.Unit{unitA, unitB}, Diagnostics: diags}, diags)

	assert.Empty(t, stdout.String())
	goldie.New(t).Assert(t, "failure", stderr.Bytes())
}

func TestRenderer_Progress(t *testing.T) {
	r, stdout, stderr := newRenderer()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r.OnSpanStart("u1", "", "update", map[string]any{"update.id": "x"}, start)
	r.OnSpanStart("r1", "u1", "round", map[string]any{"round.number": 1, "round.units": 2}, start)
	r.OnSpanEnd("r1", start.Add(15*time.Millisecond), nil)
	r.OnSpanStart("r2", "u1", "round", map[string]any{"round.number": 2, "round.units": 1}, start)
	r.OnSpanEnd("r2", start.Add(1500*time.Millisecond), assert.AnError)
	r.OnSpanEnd("u1", start.Add(2*time.Second), nil)

	assert.Empty(t, stdout.String())
	goldie.New(t).Assert(t, "progress", stderr.Bytes())
}
