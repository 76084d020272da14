package jtypes

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

// ReferencedTypes returns the fully qualified names of every type the file
// mentions, including single-type imports. The result is computed once.
func (s *Scope) ReferencedTypes() map[string]bool {
	s.refsOnce.Do(func() {
		s.refs = make(map[string]bool)

		for _, imp := range s.File.Imports() {
			if !imp.Static && !imp.Wildcard {
				s.refs[imp.Name] = true
			}
		}

		s.collectRefs(s.File.Root)
	})

	return s.refs
}

// References reports whether the file mentions fqn outside import statements.
func (s *Scope) References(fqn string) bool {
	found := false

	s.visitTypeRefs(s.File.Root, func(name string) {
		if name == fqn {
			found = true
		}
	})

	return found
}

func (s *Scope) collectRefs(root *jast.Node) {
	s.visitTypeRefs(root, func(name string) {
		s.refs[name] = true
	})
}

func (s *Scope) visitTypeRefs(root *jast.Node, fn func(string)) {
	root.Walk(func(n *jast.Node) bool {
		switch n.Kind {
		case jast.KindImportDeclaration, jast.KindPackageDeclaration:
			return false
		case jast.KindTypeIdentifier, jast.KindScopedTypeIdentifier:
			if name := s.ResolveName(s.File.Text(n)); name != "" {
				fn(name)
			}

			return false
		case jast.KindAnnotation, jast.KindMarkerAnnotation:
			if name := s.ResolveName(s.File.Text(n.Child("name"))); name != "" {
				fn(name)
			}

			if args := n.Child("arguments"); args != nil {
				s.visitTypeRefs(args, fn)
			}

			return false
		case jast.KindFieldAccess, jast.KindMethodInvocation:
			if object := n.Child("object"); object != nil {
				if name := s.TypeName(object); name != "" {
					fn(name)
				}
			}
		}

		return true
	})
}
