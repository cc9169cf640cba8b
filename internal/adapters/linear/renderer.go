// Package linear renders update progress and reports as plain, line-oriented text.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/ui/output"
	"go.trai.ch/rebuild/internal/ui/style"
)

var (
	_ ports.ReportRenderer   = (*Renderer)(nil)
	_ ports.ProgressRenderer = (*Renderer)(nil)
)

// Renderer writes reports to stdout and progress to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer

	ok     lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	accent lipgloss.Style
	faint  lipgloss.Style

	mu    sync.Mutex
	spans map[string]spanState
}

type spanState struct {
	label string
	start time.Time
}

// NewRenderer creates a Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return NewRendererWithProfile(stdout, stderr, output.ColorProfileANSI())
}

// NewRendererWithProfile creates a Renderer with a fixed color profile.
func NewRendererWithProfile(stdout, stderr io.Writer, profile termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	lr := lipgloss.NewRenderer(stdout, termenv.WithProfile(profile))
	lr.SetColorProfile(profile)

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		ok:     lr.NewStyle().Foreground(style.Green),
		fail:   lr.NewStyle().Foreground(style.Red),
		warn:   lr.NewStyle().Foreground(style.Yellow),
		accent: lr.NewStyle().Foreground(style.Iris).Bold(true),
		faint:  lr.NewStyle().Foreground(style.Slate),
		spans:  make(map[string]spanState),
	}
}

// OnSpanStart prints a line when a compile round starts.
func (r *Renderer) OnSpanStart(spanID, _, name string, attrs map[string]any, startTime time.Time) {
	if name != "round" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	label := fmt.Sprintf("[round %v]", attrs["round.number"])
	r.spans[spanID] = spanState{label: label, start: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s compiling %v unit(s)\n", r.faint.Render(label), attrs["round.units"])
}

// OnSpanEnd prints how a compile round ended.
func (r *Renderer) OnSpanEnd(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	span, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)

	duration := endTime.Sub(span.start)
	label := r.faint.Render(span.label)
	if err != nil {
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v\n", label, r.fail.Render(style.Cross), duration)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s %s done in %v\n", label, r.ok.Render(style.Check), duration)
}

// RenderReport prints every round of an update with the reason each unit was invalidated.
func (r *Renderer) RenderReport(report *domain.UpdateReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	recompiled := report.Recompiled()
	if len(recompiled) == 0 && len(report.Rounds) == 0 {
		fmt.Fprintf(&b, "%s up to date\n", r.ok.Render(style.Check))
		_, _ = io.WriteString(r.stdout, b.String())
		return
	}

	fmt.Fprintf(&b, "%s %d unit(s) recompiled in %d round(s)\n",
		r.ok.Render(style.Check), len(recompiled), countCompileRounds(report))

	for _, round := range report.Rounds {
		if round.Number == 0 {
			fmt.Fprintf(&b, "  %s\n", r.accent.Render("removed:"))
		} else {
			fmt.Fprintf(&b, "  %s %s\n", r.accent.Render(fmt.Sprintf("round %d:", round.Number)), joinUnits(round.Compiled))
		}
		for _, inv := range round.Invalidations {
			fmt.Fprintf(&b, "    %s %s %s\n", style.Arrow, inv.Unit, r.faint.Render(describe(inv)))
		}
	}

	for _, c := range report.Cycles {
		fmt.Fprintf(&b, "%s %s invalidated again in round %d %s\n",
			r.warn.Render(style.Cycle), c.Invalidation.Unit, c.Round, r.faint.Render(describe(c.Invalidation)))
	}

	_, _ = io.WriteString(r.stdout, b.String())
}

// RenderFailure prints the error diagnostics that failed an update.
func (r *Renderer) RenderFailure(err error, diagnostics []domain.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.fail.Render(style.Cross), err)
	for _, d := range diagnostics {
		loc := d.Unit.String()
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Line)
		}
		fmt.Fprintf(&b, "  %s: %s: %s\n", loc, d.Severity, d.Message)
	}
	_, _ = io.WriteString(r.stderr, b.String())
}

func describe(inv domain.Invalidation) string {
	return fmt.Sprintf("(%s: %s)", inv.Reason, inv.Change)
}

func countCompileRounds(report *domain.UpdateReport) int {
	n := 0
	for _, round := range report.Rounds {
		if round.Number > 0 {
			n++
		}
	}
	return n
}

func joinUnits(units []domain.Unit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.String()
	}
	return strings.Join(parts, ", ")
}
