// Package template builds Java source fragments programmatically. Each
// fragment carries the fully qualified types it mentions so the caller can
// reconcile imports at the insertion point.
package template

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

// Fragment is a rendered piece of Java source plus the types it needs.
type Fragment struct {
	text  string
	types []string
}

// String returns the source text.
func (f Fragment) String() string {
	return f.text
}

// Types returns the fully qualified types referenced by simple name.
func (f Fragment) Types() []string {
	return slices.Clone(f.types)
}

// IsZero reports whether the fragment is empty.
func (f Fragment) IsZero() bool {
	return f.text == "" && len(f.types) == 0
}

func join(text string, parts ...Fragment) Fragment {
	out := Fragment{text: text}

	for _, p := range parts {
		for _, typ := range p.types {
			if !slices.Contains(out.types, typ) {
				out.types = append(out.types, typ)
			}
		}
	}

	return out
}

// Raw wraps source text that references no importable types.
func Raw(text string) Fragment {
	return Fragment{text: text}
}

// Type references a type by simple name and records it for import.
// Types in java.lang are written but not recorded.
func Type(fqn string) Fragment {
	f := Fragment{text: jast.SimpleName(fqn)}
	if jast.PackageOf(fqn) != "java.lang" && strings.Contains(fqn, ".") {
		f.types = []string{fqn}
	}

	return f
}

// NestedType references Outer.Inner, importing only the outer type.
func NestedType(outerFQN, inner string) Fragment {
	outer := Type(outerFQN)

	return join(outer.text+"."+inner, outer)
}

// Generic renders base<args...>.
func Generic(base Fragment, args ...Fragment) Fragment {
	if len(args) == 0 {
		return base
	}

	texts := make([]string, len(args))
	for idx, arg := range args {
		texts[idx] = arg.text
	}

	return join(base.text+"<"+strings.Join(texts, ", ")+">", append([]Fragment{base}, args...)...)
}

// ClassLiteral renders T.class.
func ClassLiteral(typ Fragment) Fragment {
	return join(typ.text+".class", typ)
}

// StaticField renders Owner.FIELD.
func StaticField(owner Fragment, field string) Fragment {
	return join(owner.text+"."+field, owner)
}

// Cast renders (T) expr.
func Cast(typ, expr Fragment) Fragment {
	return join("("+typ.text+") "+expr.text, typ, expr)
}

// Assign renders an annotation element pair key = value.
func Assign(key string, value Fragment) Fragment {
	return join(key+" = "+value.text, value)
}

// Annotation renders @Name or @Name(args...).
func Annotation(typ Fragment, args ...Fragment) Fragment {
	if len(args) == 0 {
		return join("@"+typ.text, typ)
	}

	texts := make([]string, len(args))
	for idx, arg := range args {
		texts[idx] = arg.text
	}

	return join("@"+typ.text+"("+strings.Join(texts, ", ")+")", append([]Fragment{typ}, args...)...)
}

// Array renders {a, b, ...}.
func Array(items ...Fragment) Fragment {
	texts := make([]string, len(items))
	for idx, item := range items {
		texts[idx] = item.text
	}

	return join("{"+strings.Join(texts, ", ")+"}", items...)
}

// List joins fragments with ", ".
func List(items ...Fragment) Fragment {
	texts := make([]string, len(items))
	for idx, item := range items {
		texts[idx] = item.text
	}

	return join(strings.Join(texts, ", "), items...)
}

// Concat renders the fragments back to back.
func Concat(parts ...Fragment) Fragment {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.text)
	}

	return join(sb.String(), parts...)
}

// Param is a method parameter.
type Param struct {
	Type Fragment
	Name string
}

// MethodSignature builds a method header.
type MethodSignature struct {
	returns   Fragment
	name      string
	modifiers []string
	params    []Param
	throws    []Fragment
}

// Method starts a method signature with the given name.
func Method(name string) *MethodSignature {
	return &MethodSignature{name: name, returns: Raw("void")}
}

// Modifiers sets modifiers such as public or static.
func (m *MethodSignature) Modifiers(mods ...string) *MethodSignature {
	m.modifiers = append(m.modifiers, mods...)

	return m
}

// Returns sets the return type.
func (m *MethodSignature) Returns(typ Fragment) *MethodSignature {
	m.returns = typ

	return m
}

// Param appends a parameter.
func (m *MethodSignature) Param(typ Fragment, name string) *MethodSignature {
	m.params = append(m.params, Param{Type: typ, Name: name})

	return m
}

// Throws appends thrown exception types.
func (m *MethodSignature) Throws(types ...Fragment) *MethodSignature {
	m.throws = append(m.throws, types...)

	return m
}

// Build renders "mods ret name(params) throws X".
func (m *MethodSignature) Build() Fragment {
	var sb strings.Builder

	parts := []Fragment{m.returns}

	for _, mod := range m.modifiers {
		sb.WriteString(mod)
		sb.WriteByte(' ')
	}

	sb.WriteString(m.returns.text)
	sb.WriteByte(' ')
	sb.WriteString(m.name)
	sb.WriteByte('(')

	for idx, p := range m.params {
		if idx > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Type.text + " " + p.Name)

		parts = append(parts, p.Type)
	}

	sb.WriteByte(')')

	if len(m.throws) > 0 {
		sb.WriteString(" throws ")

		for idx, typ := range m.throws {
			if idx > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(typ.text)
		}

		parts = append(parts, m.throws...)
	}

	return join(sb.String(), parts...)
}

// WithBody renders the signature followed by a block holding statements,
// one per line at the given indentation.
func (m *MethodSignature) WithBody(indent, inner string, statements ...Fragment) Fragment {
	header := m.Build()

	var sb strings.Builder

	sb.WriteString(header.text)
	sb.WriteString(" {\n")

	for _, stmt := range statements {
		sb.WriteString(indent + inner + stmt.text + "\n")
	}

	sb.WriteString(indent + "}")

	return join(sb.String(), append([]Fragment{header}, statements...)...)
}
