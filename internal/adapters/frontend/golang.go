package frontend

import (
	"path"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/rebuild/internal/core/domain"
)

var predeclared = map[string]struct{}{
	"any": {}, "bool": {}, "byte": {}, "comparable": {}, "complex64": {}, "complex128": {},
	"error": {}, "float32": {}, "float64": {}, "int": {}, "int8": {}, "int16": {}, "int32": {},
	"int64": {}, "rune": {}, "string": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {},
	"uint64": {}, "uintptr": {}, "nil": {}, "true": {}, "false": {}, "iota": {}, "_": {},
}

type goLanguage struct{}

func (goLanguage) grammar() *sitter.Language { return goGrammar() }

// extract qualifies names by package clause, so "util.Parse" is Parse in any package named util.
func (goLanguage) extract(root *sitter.Node, src []byte) outline {
	x := &goExtractor{src: src, scope: newScope(""), refs: newRefs()}

	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "package_clause":
			if c := childOfType(n, "package_identifier"); c != nil {
				x.scope.pkg = text(c, src)
			}
		case "import_declaration":
			walk(n, func(c *sitter.Node) bool {
				if c.Type() == "import_spec" {
					x.importSpec(c)
					return false
				}
				return true
			})
		}
	}

	var defs []domain.Definition
	methods := make(map[string][]domain.Definition)
	var receivers []string
	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "type_declaration":
			for _, c := range namedChildren(n) {
				if c.Type() == "type_spec" || c.Type() == "type_alias" {
					defs = append(defs, x.typeSpec(c))
				}
			}
		case "function_declaration":
			defs = append(defs, domain.Definition{
				Kind:      domain.KindFunction,
				Name:      domain.NewInternedString(qualify(x.scope.pkg, text(n.ChildByFieldName("name"), src))),
				Signature: x.funcSignature(n),
			})
		case "method_declaration":
			recv := x.receiverType(n.ChildByFieldName("receiver"))
			if recv == "" {
				continue
			}
			if _, ok := methods[recv]; !ok {
				receivers = append(receivers, recv)
			}
			methods[recv] = append(methods[recv], domain.Definition{
				Kind:      domain.KindMethod,
				Name:      domain.NewInternedString(qualify(x.scope.pkg, recv) + "." + text(n.ChildByFieldName("name"), src)),
				Signature: x.funcSignature(n),
			})
		case "const_declaration", "var_declaration":
			defs = append(defs, x.valueSpecs(n)...)
		}
	}

	// Methods declared next to their type become members; the rest stand alone.
	for i := range defs {
		recv := domain.SimpleName(defs[i].Name)
		if ms, ok := methods[recv]; ok && defs[i].Kind.IsClassLike() {
			defs[i].Members = mergeOverloads(append(defs[i].Members, ms...))
			delete(methods, recv)
		}
	}
	for _, recv := range receivers {
		defs = append(defs, methods[recv]...)
	}

	walk(root, x.reference)
	return outline{definitions: defs, references: x.refs.resolve()}
}

type goExtractor struct {
	src   []byte
	scope *scope
	refs  *refs
}

func (x *goExtractor) importSpec(n *sitter.Node) {
	p, err := strconv.Unquote(text(n.ChildByFieldName("path"), x.src))
	if err != nil {
		return
	}
	pkg := path.Base(p)
	alias := pkg
	if name := n.ChildByFieldName("name"); name != nil {
		alias = text(name, x.src)
	}
	switch alias {
	case "_":
	case ".":
		x.scope.wildcards = append(x.scope.wildcards, pkg)
	default:
		x.scope.imports[alias] = pkg
	}
}

func (x *goExtractor) typeSpec(n *sitter.Node) domain.Definition {
	name := qualify(x.scope.pkg, text(n.ChildByFieldName("name"), x.src))
	typ := n.ChildByFieldName("type")
	def := domain.Definition{
		Kind: domain.KindClass,
		Name: domain.NewInternedString(name),
	}
	tparams := text(n.ChildByFieldName("type_parameters"), x.src)

	switch {
	case n.Type() == "type_alias":
		def.Signature = compact("= " + text(typ, x.src))
		def.SelfType = x.namedType(typ)
	case typ != nil && typ.Type() == "struct_type":
		def.Signature = compact(tparams)
		x.structFields(&def, typ)
	case typ != nil && typ.Type() == "interface_type":
		def.Kind = domain.KindInterface
		def.Signature = compact(tparams)
		x.interfaceElems(&def, typ)
	default:
		def.Signature = compact(tparams + " " + text(typ, x.src))
		def.SelfType = x.namedType(typ)
	}
	return def
}

func (x *goExtractor) structFields(def *domain.Definition, st *sitter.Node) {
	for _, f := range namedChildren(childOfType(st, "field_declaration_list")) {
		if f.Type() != "field_declaration" {
			continue
		}
		typ := f.ChildByFieldName("type")
		var names []string
		for _, c := range namedChildren(f) {
			if c.Type() == "field_identifier" {
				names = append(names, text(c, x.src))
			}
		}
		if len(names) == 0 {
			if parent := x.namedType(typ); !parent.IsZero() {
				def.Parents = append(def.Parents, parent)
				def.Members = append(def.Members, domain.Definition{
					Kind:      domain.KindField,
					Name:      domain.NewInternedString(def.Name.String() + "." + domain.SimpleName(parent)),
					Signature: compact(text(typ, x.src)),
				})
			}
			continue
		}
		for _, fn := range names {
			def.Members = append(def.Members, domain.Definition{
				Kind:      domain.KindField,
				Name:      domain.NewInternedString(def.Name.String() + "." + fn),
				Signature: compact(text(typ, x.src)),
			})
		}
	}
}

func (x *goExtractor) interfaceElems(def *domain.Definition, it *sitter.Node) {
	for _, e := range namedChildren(it) {
		switch e.Type() {
		case "method_elem", "method_spec":
			def.Members = append(def.Members, domain.Definition{
				Kind:      domain.KindMethod,
				Name:      domain.NewInternedString(def.Name.String() + "." + text(e.ChildByFieldName("name"), x.src)),
				Signature: compact(text(e.ChildByFieldName("parameters"), x.src) + " " + text(e.ChildByFieldName("result"), x.src)),
			})
		case "type_elem", "constraint_elem", "interface_type_name":
			targets := namedChildren(e)
			if e.Type() == "interface_type_name" {
				targets = []*sitter.Node{e}
			}
			for _, t := range targets {
				if parent := x.namedType(t); !parent.IsZero() {
					def.Parents = append(def.Parents, parent)
				}
			}
		}
	}
}

func (x *goExtractor) valueSpecs(n *sitter.Node) []domain.Definition {
	var out []domain.Definition
	walk(n, func(c *sitter.Node) bool {
		if c.Type() != "const_spec" && c.Type() != "var_spec" {
			return true
		}
		sig := compact(text(c.ChildByFieldName("type"), x.src))
		for _, id := range namedChildren(c) {
			name := text(id, x.src)
			if id.Type() != "identifier" || name == "_" {
				continue
			}
			out = append(out, domain.Definition{
				Kind:      domain.KindField,
				Name:      domain.NewInternedString(qualify(x.scope.pkg, name)),
				Signature: sig,
			})
		}
		return false
	})
	return out
}

func (x *goExtractor) funcSignature(n *sitter.Node) string {
	return compact(text(n.ChildByFieldName("type_parameters"), x.src) + " " +
		text(n.ChildByFieldName("parameters"), x.src) + " " +
		text(n.ChildByFieldName("result"), x.src))
}

// receiverType returns the base type name of a method receiver, without pointer or type arguments.
func (x *goExtractor) receiverType(params *sitter.Node) string {
	decl := childOfType(params, "parameter_declaration")
	if decl == nil {
		return ""
	}
	t := decl.ChildByFieldName("type")
	for t != nil {
		switch t.Type() {
		case "type_identifier":
			return text(t, x.src)
		case "pointer_type":
			t = t.NamedChild(0)
		case "generic_type":
			t = t.ChildByFieldName("type")
		default:
			return ""
		}
	}
	return ""
}

// namedType returns the qualified name of a named type expression, or the zero name.
func (x *goExtractor) namedType(t *sitter.Node) domain.InternedString {
	for t != nil {
		switch t.Type() {
		case "type_identifier":
			s := text(t, x.src)
			if _, ok := predeclared[s]; ok {
				return domain.InternedString{}
			}
			return domain.NewInternedString(qualify(x.scope.pkg, s))
		case "qualified_type":
			return domain.NewInternedString(x.qualified(t.ChildByFieldName("package"), t.ChildByFieldName("name")))
		case "pointer_type", "interface_type_name":
			t = t.NamedChild(0)
		case "generic_type":
			t = t.ChildByFieldName("type")
		default:
			return domain.InternedString{}
		}
	}
	return domain.InternedString{}
}

func (x *goExtractor) qualified(pkg, name *sitter.Node) string {
	alias := text(pkg, x.src)
	if p, ok := x.scope.imports[alias]; ok {
		alias = p
	}
	return alias + "." + text(name, x.src)
}

func (x *goExtractor) reference(n *sitter.Node) bool {
	switch n.Type() {
	case "package_clause", "import_declaration":
		return false
	case "type_identifier", "identifier":
		s := text(n, x.src)
		if _, ok := predeclared[s]; ok {
			return true
		}
		if n.Type() == "type_identifier" {
			x.refs.addType(x.scope.typeCandidates(s)...)
		} else if _, isImport := x.scope.imports[s]; !isImport {
			x.refs.addName(x.scope.typeCandidates(s)...)
		}
	case "qualified_type":
		x.refs.addType(x.qualified(n.ChildByFieldName("package"), n.ChildByFieldName("name")))
		return false
	case "selector_expression":
		operand := n.ChildByFieldName("operand")
		field := n.ChildByFieldName("field")
		if operand != nil && operand.Type() == "identifier" {
			if _, ok := x.scope.imports[text(operand, x.src)]; ok {
				x.refs.addName(x.qualified(operand, field))
				return false
			}
		}
		x.refs.addMember(text(field, x.src))
	}
	return true
}
