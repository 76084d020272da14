package jtypes

import (
	"strings"
	"sync"
	"unicode"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

const javaLang = "java.lang"

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "void": true,
}

// Scope resolves names within one compilation unit.
type Scope struct {
	File    *jast.File
	Catalog *Catalog

	single    map[string]string
	declared  map[string]string
	pkg       string
	wildcards []string

	refsOnce sync.Once
	refs     map[string]bool
}

// NewScope indexes the imports and type declarations of file.
func NewScope(file *jast.File, cat *Catalog) *Scope {
	if cat == nil {
		cat = DefaultCatalog()
	}

	s := &Scope{
		File:     file,
		Catalog:  cat,
		pkg:      file.Package(),
		single:   make(map[string]string),
		declared: make(map[string]string),
	}

	for _, imp := range file.Imports() {
		switch {
		case imp.Static:
			continue
		case imp.Wildcard:
			s.wildcards = append(s.wildcards, imp.Name)
		default:
			s.single[imp.SimpleName()] = imp.Name
		}
	}

	for _, decl := range file.TypeDeclarations() {
		s.declared[file.Text(decl.Child("name"))] = s.qualifiedDeclName(decl)
	}

	return s
}

func (s *Scope) qualifiedDeclName(decl *jast.Node) string {
	parts := []string{s.File.Text(decl.Child("name"))}

	for outer := jast.EnclosingClass(decl); outer != nil; outer = jast.EnclosingClass(outer) {
		parts = append([]string{s.File.Text(outer.Child("name"))}, parts...)
	}

	name := strings.Join(parts, ".")
	if s.pkg != "" {
		name = s.pkg + "." + name
	}

	return name
}

// Package returns the compilation unit's package.
func (s *Scope) Package() string {
	return s.pkg
}

// Declared returns the fully qualified name of a type declared in the file.
func (s *Scope) Declared(simple string) (string, bool) {
	fqn, ok := s.declared[simple]

	return fqn, ok
}

// ResolveName resolves a simple or qualified type name as written in source.
// It returns an empty string when the name cannot be resolved.
func (s *Scope) ResolveName(name string) string {
	name = strings.Join(strings.Fields(name), "")
	if name == "" {
		return ""
	}

	if primitives[name] {
		return name
	}

	first, rest, qualified := strings.Cut(name, ".")
	if !qualified {
		return s.resolveSimple(name)
	}

	if _, ok := s.Catalog.Lookup(name); ok {
		return name
	}

	if isTypeLike(first) {
		if outer := s.resolveSimple(first); outer != "" {
			return outer + "." + rest
		}
	}

	return name
}

func (s *Scope) resolveSimple(name string) string {
	if fqn, ok := s.single[name]; ok {
		return fqn
	}

	if fqn, ok := s.declared[name]; ok {
		return fqn
	}

	if fqn, ok := s.Catalog.InPackage(javaLang, name); ok {
		return fqn
	}

	for _, pkg := range s.wildcards {
		if fqn, ok := s.Catalog.InPackage(pkg, name); ok {
			return fqn
		}
	}

	if s.pkg != "" && isTypeLike(name) {
		return s.pkg + "." + name
	}

	return ""
}

// IsImported reports whether fqn is visible through a single-type or
// wildcard import.
func (s *Scope) IsImported(fqn string) bool {
	if s.single[jast.SimpleName(fqn)] == fqn {
		return true
	}

	pkg := jast.PackageOf(fqn)
	for _, wildcard := range s.wildcards {
		if wildcard == pkg {
			return true
		}
	}

	return false
}

// ResolveType resolves a type node to its erased fully qualified name.
func (s *Scope) ResolveType(n *jast.Node) string {
	if n == nil {
		return ""
	}

	switch n.Kind {
	case jast.KindTypeIdentifier, jast.KindScopedTypeIdentifier, jast.KindIdentifier, jast.KindScopedIdentifier:
		return s.ResolveName(s.File.Text(n))
	case jast.KindGenericType:
		named := n.NamedChildren()
		if len(named) == 0 {
			return ""
		}

		return s.ResolveType(named[0])
	case jast.KindArrayType:
		elem := s.ResolveType(n.Child("element"))
		if elem == "" {
			return ""
		}

		return elem + "[]"
	case jast.KindIntegralType, jast.KindFloatingPointType, jast.KindBooleanType, jast.KindVoidType:
		return s.File.Text(n)
	case "annotated_type":
		named := n.NamedChildren()
		if len(named) == 0 {
			return ""
		}

		return s.ResolveType(named[len(named)-1])
	default:
		return ""
	}
}

// Supertypes returns the resolved superclass and interfaces of a class.
func (s *Scope) Supertypes(class *jast.Node) []string {
	var out []string

	if super := class.Child("superclass"); super != nil {
		for _, typ := range super.NamedChildren() {
			if fqn := s.ResolveType(typ); fqn != "" {
				out = append(out, fqn)
			}
		}
	}

	if ifaces := class.Child("interfaces"); ifaces != nil {
		for _, list := range ifaces.ChildrenOfKind(jast.KindTypeList) {
			for _, typ := range list.NamedChildren() {
				if fqn := s.ResolveType(typ); fqn != "" {
					out = append(out, fqn)
				}
			}
		}
	}

	return out
}

// Implements reports whether class directly or transitively extends or
// implements fqn.
func (s *Scope) Implements(class *jast.Node, fqn string) bool {
	for _, super := range s.Supertypes(class) {
		if s.Catalog.IsAssignable(super, fqn) {
			return true
		}
	}

	return false
}

// isTypeLike reports whether a simple name follows Java type naming.
func isTypeLike(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}

	return false
}
