// Package frontend compiles Java and Go source units into definitions and referenced names
// using tree-sitter grammars.
package frontend

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Frontend = (*Frontend)(nil)

// language extracts the semantic outline of one parsed file.
type language interface {
	grammar() *sitter.Language
	extract(root *sitter.Node, src []byte) outline
}

// outline is what a language extractor found in one file.
type outline struct {
	definitions []domain.Definition
	references  domain.NameSet
}

var languages = map[string]language{
	".java": javaLanguage{},
	".go":   goLanguage{},
}

// Frontend compiles units found below a project root.
//
// Diagnostics accumulate across Compile calls until Reset.
type Frontend struct {
	root string

	mu       sync.Mutex
	reported []domain.Diagnostic
}

// New creates a Frontend reading units relative to root.
func New(root string) *Frontend {
	return &Frontend{root: root}
}

// Supported reports whether a file name has a grammar.
func Supported(name string) bool {
	_, ok := languages[filepath.Ext(name)]
	return ok
}

// Compile parses every unit concurrently. Unreadable, unsupported or syntactically invalid
// units are reported as error diagnostics; only cancellation and parser failures are returned
// as errors.
func (f *Frontend) Compile(ctx context.Context, units []domain.Unit) (*domain.CompileResult, error) {
	type compiled struct {
		out   domain.UnitOutput
		diags []domain.Diagnostic
	}
	results := make([]compiled, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range units {
		g.Go(func() error {
			out, diags, err := f.compileUnit(ctx, u)
			if err != nil {
				return err
			}
			results[i] = compiled{out: out, diags: diags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &domain.CompileResult{Units: make(map[domain.Unit]domain.UnitOutput, len(units))}
	for i, u := range units {
		res.Units[u] = results[i].out
		res.Diagnostics = append(res.Diagnostics, results[i].diags...)
	}

	f.mu.Lock()
	f.reported = append(f.reported, res.Diagnostics...)
	f.mu.Unlock()

	return res, nil
}

// Reset clears the diagnostics reported since the last Reset.
func (f *Frontend) Reset() {
	f.mu.Lock()
	f.reported = nil
	f.mu.Unlock()
}

// Reported returns the diagnostics reported since the last Reset.
func (f *Frontend) Reported() []domain.Diagnostic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Diagnostic(nil), f.reported...)
}

func (f *Frontend) compileUnit(
	ctx context.Context,
	u domain.Unit,
) (domain.UnitOutput, []domain.Diagnostic, error) {
	lang, ok := languages[filepath.Ext(u.String())]
	if !ok {
		return domain.UnitOutput{}, []domain.Diagnostic{errorAt(u, 0, domain.ErrUnsupportedLanguage.Error())}, nil
	}

	src, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(u.String())))
	if err != nil {
		msg := zerr.Wrap(err, domain.ErrSourceReadFailed.Error()).Error()
		return domain.UnitOutput{}, []domain.Diagnostic{errorAt(u, 0, msg)}, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return domain.UnitOutput{}, nil, zerr.With(zerr.Wrap(err, domain.ErrSourceParseFailed.Error()), "unit", u.String())
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		return domain.UnitOutput{}, []domain.Diagnostic{errorAt(u, line, "syntax error")}, nil
	}

	o := lang.extract(root, src)
	for _, def := range o.definitions {
		delete(o.references, def.Name)
		for _, m := range def.Members {
			delete(o.references, m.Name)
		}
	}
	return domain.UnitOutput{Definitions: o.definitions, References: o.references}, nil, nil
}

func errorAt(u domain.Unit, line int, msg string) domain.Diagnostic {
	return domain.Diagnostic{Unit: u, Line: line, Severity: domain.SeverityError, Message: msg}
}

// firstErrorLine returns the 1-based line of the first ERROR or missing node.
func firstErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.HasError() {
			return firstErrorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}

func javaGrammar() *sitter.Language { return java.GetLanguage() }

func goGrammar() *sitter.Language { return golang.GetLanguage() }
