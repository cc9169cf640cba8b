package frontend

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/rebuild/internal/core/domain"
)

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// compact collapses whitespace runs so formatting changes do not alter a signature.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// namedChildren returns the named children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// childOfType returns the first named child of n with the given node type.
func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, c := range namedChildren(n) {
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// walk visits n and its named descendants depth-first. Returning false skips a subtree.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range namedChildren(n) {
		walk(c, visit)
	}
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// scope resolves simple names seen in a file to fully-qualified candidates.
type scope struct {
	pkg       string
	imports   map[string]string
	wildcards []string
}

func newScope(pkg string) *scope {
	return &scope{pkg: pkg, imports: make(map[string]string)}
}

// typeCandidates returns every fully-qualified name a simple type name may denote.
func (s *scope) typeCandidates(simple string) []string {
	if fq, ok := s.imports[simple]; ok {
		return []string{fq}
	}
	out := []string{qualify(s.pkg, simple)}
	for _, w := range s.wildcards {
		out = append(out, w+"."+simple)
	}
	return out
}

// refs accumulates referenced names. Member accesses are recorded by simple name and expanded
// against every referenced type once the file is fully walked.
type refs struct {
	types   domain.NameSet
	names   domain.NameSet
	members map[string]struct{}
}

func newRefs() *refs {
	return &refs{
		types:   make(domain.NameSet),
		names:   make(domain.NameSet),
		members: make(map[string]struct{}),
	}
}

func (r *refs) addType(names ...string) {
	for _, n := range names {
		r.types.Add(domain.NewInternedString(n))
	}
}

func (r *refs) addName(names ...string) {
	for _, n := range names {
		r.names.Add(domain.NewInternedString(n))
	}
}

func (r *refs) addMember(simple string) {
	r.members[simple] = struct{}{}
}

// resolve returns the referenced names: every type, every plain name, and every member name
// combined with every referenced type.
func (r *refs) resolve() domain.NameSet {
	out := make(domain.NameSet, len(r.types)+len(r.names))
	for t := range r.types {
		out.Add(t)
		for m := range r.members {
			out.Add(domain.NewInternedString(t.String() + "." + m))
		}
	}
	for n := range r.names {
		out.Add(n)
	}
	return out
}

// mergeOverloads folds members sharing a name into one member whose signature lists every
// overload in declaration order.
func mergeOverloads(members []domain.Definition) []domain.Definition {
	index := make(map[domain.InternedString]int, len(members))
	out := make([]domain.Definition, 0, len(members))
	for _, m := range members {
		if i, ok := index[m.Name]; ok {
			out[i].Signature += ";" + m.Signature
			continue
		}
		index[m.Name] = len(out)
		out = append(out, m)
	}
	return out
}
