package domain

// Snapshot is the last successfully compiled state of one unit.
type Snapshot struct {
	Definitions []Definition
	References  NameSet
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Definitions: CloneDefinitions(s.Definitions),
		References:  s.References.Clone(),
	}
}

// Severity classifies a compiler diagnostic.
type Severity uint8

const (
	// SeverityWarning does not fail the batch.
	SeverityWarning Severity = iota
	// SeverityError fails the whole batch.
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a message reported by the frontend for a unit.
type Diagnostic struct {
	Unit     Unit
	Line     int
	Severity Severity
	Message  string
}

// UnitOutput is what the frontend produced for one unit.
type UnitOutput struct {
	Definitions []Definition
	References  NameSet
}

// CompileResult is the outcome of compiling one batch of units.
type CompileResult struct {
	Units       map[Unit]UnitOutput
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r *CompileResult) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error diagnostics.
func (r *CompileResult) Errors() []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
