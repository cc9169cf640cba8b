// Package driver implements the build driver: it recompiles units, classifies what changed and
// propagates invalidation through the dependency graph until nothing new needs compiling.
package driver

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/engine/classify"
	"go.trai.ch/rebuild/internal/engine/invalidate"
	"go.trai.ch/zerr"
)

// Driver owns the managed set and the snapshot store.
//
// A Driver is not safe for concurrent use; callers serialize Update, AddSourceFiles,
// RemoveFiles and DeleteFiles.
type Driver struct {
	frontend ports.Frontend
	graph    ports.DependencyGraph
	recorder ports.GraphRecorder
	logger   ports.Logger
	tracer   ports.Tracer

	engine  *invalidate.Engine
	store   *Store
	managed domain.UnitSet

	maxRounds    int
	conservative bool
	newID        func() string
}

// Option configures a Driver.
type Option func(*Driver)

// WithRecorder registers a recorder that is told about every successfully compiled or removed unit.
func WithRecorder(r ports.GraphRecorder) Option {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithMaxRounds bounds the number of compile rounds per update. Zero or less disables the bound.
func WithMaxRounds(n int) Option {
	return func(d *Driver) {
		d.maxRounds = n
	}
}

// WithConservativeReferences invalidates dependents without reference information on any change.
func WithConservativeReferences(enabled bool) Option {
	return func(d *Driver) {
		d.conservative = enabled
	}
}

// WithIDGenerator replaces the generator of update report IDs.
func WithIDGenerator(fn func() string) Option {
	return func(d *Driver) {
		d.newID = fn
	}
}

// New creates a Driver with an empty managed set.
func New(
	frontend ports.Frontend,
	graph ports.DependencyGraph,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Driver {
	d := &Driver{
		frontend:  frontend,
		graph:     graph,
		logger:    logger,
		tracer:    tracer,
		store:     NewStore(),
		managed:   make(domain.UnitSet),
		maxRounds: domain.DefaultMaxRounds,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.engine = invalidate.New(graph, view{d.store}, invalidate.WithConservativeReferences(d.conservative))
	return d
}

// Managed returns the managed units, sorted.
func (d *Driver) Managed() []domain.Unit {
	return d.managed.Sorted()
}

// IsManaged reports whether unit was added and not removed since.
func (d *Driver) IsManaged(unit domain.Unit) bool {
	return d.managed.Contains(unit)
}

// Snapshot returns a copy of the last successful compile of unit.
func (d *Driver) Snapshot(unit domain.Unit) (domain.Snapshot, bool) {
	return d.store.Snapshot(unit)
}

// Definitions returns a copy of the definitions unit had after its last successful compile.
func (d *Driver) Definitions(unit domain.Unit) []domain.Definition {
	return domain.CloneDefinitions(d.store.definitions(unit))
}

// References returns a copy of the names unit referenced after its last successful compile.
func (d *Driver) References(unit domain.Unit) domain.NameSet {
	snap, ok := d.store.Snapshot(unit)
	if !ok {
		return nil
	}
	return snap.References
}

// AddSourceFiles adds units to the managed set and compiles them.
func (d *Driver) AddSourceFiles(ctx context.Context, units []domain.Unit) (*domain.UpdateReport, error) {
	for _, u := range units {
		d.managed.Add(u)
	}
	return d.Update(ctx, units)
}

// RemoveFiles drops units from the managed set and discards their snapshots.
// Dependents are not invalidated; see DeleteFiles.
func (d *Driver) RemoveFiles(units []domain.Unit) {
	for _, u := range units {
		delete(d.managed, u)
		d.store.Delete(u)
		if d.recorder != nil {
			d.recorder.Forget(u)
		}
	}
}

// DeleteFiles removes units whose sources no longer exist and recompiles every dependent that
// used one of the definitions they declared.
func (d *Driver) DeleteFiles(ctx context.Context, units []domain.Unit) (*domain.UpdateReport, error) {
	report := &domain.UpdateReport{ID: d.newID()}

	var deleted []domain.Unit
	var cs domain.ChangeSet
	for _, u := range domain.NewUnitSet(units...).Sorted() {
		if !d.managed.Contains(u) {
			continue
		}
		deleted = append(deleted, u)
		cs = append(cs, removals(d.store.definitions(u))...)
	}
	if len(deleted) == 0 {
		return report, nil
	}

	invs := d.managedOnly(d.engine.Invalidate(deleted, cs))
	d.RemoveFiles(deleted)
	report.Rounds = append(report.Rounds, domain.Round{Changes: cs, Invalidations: invs})
	d.logger.Info("removed units", "units", joinUnits(deleted), "invalidated", len(invs))

	next := make([]domain.Unit, 0, len(invs))
	for _, inv := range invs {
		next = append(next, inv.Unit)
	}
	return report, d.run(ctx, report, next)
}

// Update recompiles units and every unit invalidated as a consequence, until a fixpoint.
// Units that are not managed are skipped. An empty input is a no-op.
//
// On a compile failure the failing batch leaves no trace and a *domain.CompileError is
// returned; rounds completed before it keep their effects and are listed in the report.
func (d *Driver) Update(ctx context.Context, units []domain.Unit) (*domain.UpdateReport, error) {
	report := &domain.UpdateReport{ID: d.newID()}

	var batch []domain.Unit
	for _, u := range domain.NewUnitSet(units...).Sorted() {
		if !d.managed.Contains(u) {
			d.logger.Warn(zerr.With(domain.ErrUnitNotManaged, "unit", u.String()).Error(), "unit", u.String())
			continue
		}
		batch = append(batch, u)
	}
	return report, d.run(ctx, report, batch)
}

// run is the worklist loop. An invalidation that targets a unit already compiled in this call
// schedules it again unless the unit lies on a dependency cycle; those are reported as cycles.
func (d *Driver) run(ctx context.Context, report *domain.UpdateReport, batch []domain.Unit) error {
	if len(batch) == 0 {
		return nil
	}

	ctx, span := d.tracer.Start(ctx, "update", ports.WithAttribute("update.id", report.ID))
	defer span.End()

	visited := make(domain.UnitSet)
	for number := 1; len(batch) > 0; number++ {
		if d.maxRounds > 0 && number > d.maxRounds {
			err := zerr.Wrap(domain.ErrRoundLimitExceeded, "update aborted")
			err = zerr.With(err, "rounds", d.maxRounds)
			err = zerr.With(err, "pending", joinUnits(batch))
			span.RecordError(err)
			return err
		}

		for _, u := range batch {
			visited.Add(u)
		}

		round, err := d.round(ctx, number, batch)
		if err != nil {
			span.RecordError(err)
			return err
		}
		report.Rounds = append(report.Rounds, round)

		var next []domain.Unit
		for _, inv := range round.Invalidations {
			if visited.Contains(inv.Unit) && d.onCycle(inv.Unit) {
				report.Cycles = append(report.Cycles, domain.CycleEvent{Round: number, Invalidation: inv})
				d.logger.Warn("unit invalidated again within one update",
					"unit", inv.Unit.String(), "reason", string(inv.Reason), "change", inv.Change.String())
				continue
			}
			next = append(next, inv.Unit)
		}
		batch = next
	}

	span.SetAttribute("update.rounds", len(report.Rounds))
	span.SetAttribute("update.cycles", len(report.Cycles))
	return nil
}

// round compiles one batch, records its output and computes the next batch's invalidations.
func (d *Driver) round(ctx context.Context, number int, batch []domain.Unit) (domain.Round, error) {
	ctx, span := d.tracer.Start(ctx, "round",
		ports.WithAttribute("round.number", number),
		ports.WithAttribute("round.units", len(batch)),
	)
	defer span.End()

	d.logger.Debug("compiling", "round", number, "units", joinUnits(batch))

	d.frontend.Reset()
	res, err := d.frontend.Compile(ctx, batch)
	if err == nil && res == nil {
		err = domain.ErrNoCompileResult
	}
	if err != nil || res.HasErrors() {
		cerr := &domain.CompileError{Round: number, Units: batch, Err: err}
		if res != nil {
			cerr.Diagnostics = res.Errors()
		}
		span.RecordError(cerr)
		return domain.Round{}, cerr
	}
	for _, diag := range res.Diagnostics {
		d.logger.Warn(diag.Message, "unit", diag.Unit.String(), "line", diag.Line)
	}

	var cs domain.ChangeSet
	for _, u := range batch {
		cs = append(cs, classify.Classify(d.store.definitions(u), res.Units[u].Definitions)...)
	}

	// Dependents are looked up before the batch is recorded: a removed definition must still
	// lead to the units that used it.
	invs := d.managedOnly(d.engine.Invalidate(batch, cs))

	for _, u := range batch {
		out := res.Units[u]
		d.store.Put(u, out)
		if d.recorder != nil {
			d.recorder.Record(u, out)
		}
	}

	for _, inv := range invs {
		d.logger.Debug("invalidated", "unit", inv.Unit.String(), "reason", string(inv.Reason), "change", inv.Change.String())
		span.AddEvent("invalidated", "unit", inv.Unit.String(), "reason", string(inv.Reason))
	}
	span.SetAttribute("round.changes", cs.Len())
	span.SetAttribute("round.invalidated", len(invs))

	return domain.Round{Number: number, Compiled: batch, Changes: cs, Invalidations: invs}, nil
}

// onCycle reports whether unit transitively depends on itself.
func (d *Driver) onCycle(unit domain.Unit) bool {
	return slices.Contains(d.graph.DependentsAtDepth(0, []domain.Unit{unit}), unit)
}

func (d *Driver) managedOnly(invs []domain.Invalidation) []domain.Invalidation {
	out := invs[:0]
	for _, inv := range invs {
		if d.managed.Contains(inv.Unit) {
			out = append(out, inv)
		}
	}
	return out
}

// removals describes the disappearance of every definition and member in defs.
func removals(defs []domain.Definition) domain.ChangeSet {
	cs := make(domain.ChangeSet, 0, len(defs))
	for _, def := range defs {
		changes := make([]domain.Change, 0, len(def.Members)+1)
		for _, m := range def.Members {
			changes = append(changes, domain.Removed(domain.EntityDefinition, m.Name))
		}
		changes = append(changes, domain.Removed(def.Entity(), def.Name))
		cs = append(cs, domain.DefinitionChanges{Definition: def.Clone(), Changes: changes})
	}
	return cs
}

func joinUnits(units []domain.Unit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.String()
	}
	return strings.Join(parts, ", ")
}
