package frontend

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/rebuild/internal/core/domain"
)

type javaLanguage struct{}

func (javaLanguage) grammar() *sitter.Language { return javaGrammar() }

func (javaLanguage) extract(root *sitter.Node, src []byte) outline {
	x := &javaExtractor{src: src, scope: newScope(""), refs: newRefs()}

	for _, n := range namedChildren(root) {
		switch n.Type() {
		case "package_declaration":
			for _, c := range namedChildren(n) {
				if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
					x.scope.pkg = text(c, src)
				}
			}
		case "import_declaration":
			x.importDecl(n)
		}
	}

	var defs []domain.Definition
	for _, n := range namedChildren(root) {
		if isJavaTypeDecl(n) {
			defs = append(defs, x.typeDecl(n, x.scope.pkg)...)
		}
	}

	walk(root, x.reference)
	return outline{definitions: defs, references: x.refs.resolve()}
}

type javaExtractor struct {
	src   []byte
	scope *scope
	refs  *refs
}

func isJavaTypeDecl(n *sitter.Node) bool {
	switch n.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		return true
	}
	return false
}

func (x *javaExtractor) importDecl(n *sitter.Node) {
	var path string
	static, wildcard := false, false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			static = true
		case "asterisk":
			wildcard = true
		case "scoped_identifier", "identifier":
			path = text(c, x.src)
		}
	}
	switch {
	case path == "":
	case static && !wildcard:
		x.refs.addName(path)
	case static:
		x.refs.addType(path)
	case wildcard:
		x.scope.wildcards = append(x.scope.wildcards, path)
	default:
		x.scope.imports[domain.SimpleName(domain.NewInternedString(path))] = path
	}
}

// typeDecl returns the definition of a type declaration followed by its nested types.
func (x *javaExtractor) typeDecl(n *sitter.Node, prefix string) []domain.Definition {
	name := qualify(prefix, text(n.ChildByFieldName("name"), x.src))
	def := domain.Definition{
		Kind:      domain.KindClass,
		Name:      domain.NewInternedString(name),
		Signature: compact(text(n.ChildByFieldName("type_parameters"), x.src)),
	}
	if n.Type() == "interface_declaration" || n.Type() == "annotation_type_declaration" {
		def.Kind = domain.KindInterface
	}

	def.Parents = x.parents(n)

	var nested []domain.Definition
	var members []domain.Definition
	if params := n.ChildByFieldName("parameters"); params != nil && n.Type() == "record_declaration" {
		for _, p := range namedChildren(params) {
			members = append(members, x.member(name, domain.KindField, p.ChildByFieldName("name"), p.ChildByFieldName("type")))
		}
	}

	body := n.ChildByFieldName("body")
	items := namedChildren(body)
	if decls := childOfType(body, "enum_body_declarations"); decls != nil {
		items = append(items, namedChildren(decls)...)
	}
	for _, c := range items {
		switch c.Type() {
		case "method_declaration":
			members = append(members, x.method(name, c, c.ChildByFieldName("name")))
		case "constructor_declaration":
			members = append(members, x.method(name, c, nil))
		case "field_declaration", "constant_declaration":
			for _, d := range namedChildren(c) {
				if d.Type() == "variable_declarator" {
					members = append(members, x.member(name, domain.KindField, d.ChildByFieldName("name"), c.ChildByFieldName("type")))
				}
			}
		case "enum_constant":
			members = append(members, domain.Definition{
				Kind:      domain.KindField,
				Name:      domain.NewInternedString(name + "." + text(c.ChildByFieldName("name"), x.src)),
				Signature: domain.SimpleName(def.Name),
			})
		default:
			if isJavaTypeDecl(c) {
				nested = append(nested, x.typeDecl(c, name)...)
			}
		}
	}
	def.Members = mergeOverloads(members)

	return append([]domain.Definition{def}, nested...)
}

func (x *javaExtractor) parents(n *sitter.Node) []domain.InternedString {
	var lists []*sitter.Node
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		lists = append(lists, sc)
	}
	if si := n.ChildByFieldName("interfaces"); si != nil {
		lists = append(lists, childOfType(si, "type_list"))
	}
	if ei := childOfType(n, "extends_interfaces"); ei != nil {
		lists = append(lists, childOfType(ei, "type_list"))
	}

	var out []domain.InternedString
	for _, l := range lists {
		for _, t := range namedChildren(l) {
			for _, fq := range x.typeName(t) {
				out = append(out, domain.NewInternedString(fq))
			}
		}
	}
	return out
}

// typeName returns the candidate fully-qualified names of a type node, ignoring type arguments.
func (x *javaExtractor) typeName(t *sitter.Node) []string {
	switch t.Type() {
	case "type_identifier":
		return x.scope.typeCandidates(text(t, x.src))
	case "scoped_type_identifier":
		return []string{text(t, x.src)}
	case "generic_type":
		if c := t.NamedChild(0); c != nil {
			return x.typeName(c)
		}
	}
	return nil
}

func (x *javaExtractor) method(owner string, n, name *sitter.Node) domain.Definition {
	simple := "<init>"
	if name != nil {
		simple = text(name, x.src)
	}
	sig := compact(text(n.ChildByFieldName("type_parameters"), x.src) + " " +
		text(n.ChildByFieldName("type"), x.src) + " " +
		text(n.ChildByFieldName("parameters"), x.src))
	return domain.Definition{
		Kind:      domain.KindMethod,
		Name:      domain.NewInternedString(owner + "." + simple),
		Signature: sig,
	}
}

func (x *javaExtractor) member(owner string, kind domain.Kind, name, typ *sitter.Node) domain.Definition {
	return domain.Definition{
		Kind:      kind,
		Name:      domain.NewInternedString(owner + "." + text(name, x.src)),
		Signature: compact(text(typ, x.src)),
	}
}

func (x *javaExtractor) reference(n *sitter.Node) bool {
	switch n.Type() {
	case "package_declaration", "import_declaration":
		return false
	case "type_identifier":
		x.refs.addType(x.scope.typeCandidates(text(n, x.src))...)
	case "scoped_type_identifier":
		x.refs.addType(text(n, x.src))
		return false
	case "method_invocation":
		x.refs.addMember(text(n.ChildByFieldName("name"), x.src))
		x.qualifier(n.ChildByFieldName("object"))
	case "field_access":
		x.refs.addMember(text(n.ChildByFieldName("field"), x.src))
		x.qualifier(n.ChildByFieldName("object"))
	case "method_reference":
		if cnt := int(n.NamedChildCount()); cnt > 1 {
			if c := n.NamedChild(cnt - 1); c != nil && c.Type() == "identifier" {
				x.refs.addMember(text(c, x.src))
			}
			x.qualifier(n.NamedChild(0))
		}
	}
	return true
}

// qualifier records the receiver of a member access when it names a type, like Foo in Foo.bar().
func (x *javaExtractor) qualifier(obj *sitter.Node) {
	if obj == nil || obj.Type() != "identifier" {
		return
	}
	s := text(obj, x.src)
	if r := []rune(s); len(r) > 0 && unicode.IsUpper(r[0]) {
		x.refs.addType(x.scope.typeCandidates(s)...)
	}
}
