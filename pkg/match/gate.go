package match

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

// Gate is a per-file precondition evaluated before any node is visited.
type Gate interface {
	Check(scope *jtypes.Scope) bool
	String() string
}

type gateFunc struct {
	fn   func(*jtypes.Scope) bool
	desc string
}

func (g gateFunc) Check(scope *jtypes.Scope) bool { return g.fn(scope) }
func (g gateFunc) String() string                 { return g.desc }

// NewGate wraps a predicate as a named gate.
func NewGate(desc string, fn func(*jtypes.Scope) bool) Gate {
	return gateFunc{fn: fn, desc: desc}
}

// Always passes every file.
func Always() Gate {
	return NewGate("always", func(*jtypes.Scope) bool { return true })
}

// UsesType passes files referencing a type that matches pattern, either in
// code or in a single-type import. Package patterns also accept wildcard
// imports of a matching package.
func UsesType(pattern string) Gate {
	p := MustTypePattern(pattern)

	return NewGate("usesType("+pattern+")", func(scope *jtypes.Scope) bool {
		for name := range scope.ReferencedTypes() {
			if p.Matches(name) {
				return true
			}
		}

		if p.exact != "" {
			return false
		}

		for _, imp := range scope.File.Imports() {
			if imp.Wildcard && p.Matches(imp.Name+".X") {
				return true
			}
		}

		return false
	})
}

// UsesMethod passes files containing at least one invocation matching m.
func UsesMethod(m *MethodMatcher) Gate {
	return NewGate("usesMethod("+m.String()+")", func(scope *jtypes.Scope) bool {
		for _, call := range scope.File.Root.FindAll(jast.KindMethodInvocation) {
			if m.MatchesInvocation(scope, call) {
				return true
			}
		}

		return false
	})
}

// Implements passes files declaring a class that extends or implements fqn.
func Implements(fqn string) Gate {
	return NewGate("implements("+fqn+")", func(scope *jtypes.Scope) bool {
		for _, decl := range scope.File.TypeDeclarations() {
			if scope.Implements(decl, fqn) {
				return true
			}
		}

		return false
	})
}

// And passes when every gate passes.
func And(gates ...Gate) Gate {
	return NewGate(describe("and", gates), func(scope *jtypes.Scope) bool {
		for _, g := range gates {
			if !g.Check(scope) {
				return false
			}
		}

		return true
	})
}

// Or passes when any gate passes.
func Or(gates ...Gate) Gate {
	return NewGate(describe("or", gates), func(scope *jtypes.Scope) bool {
		for _, g := range gates {
			if g.Check(scope) {
				return true
			}
		}

		return false
	})
}

// Not inverts a gate.
func Not(g Gate) Gate {
	return NewGate("not("+g.String()+")", func(scope *jtypes.Scope) bool {
		return !g.Check(scope)
	})
}

func describe(op string, gates []Gate) string {
	desc := op + "("

	for idx, g := range gates {
		if idx > 0 {
			desc += ", "
		}

		desc += g.String()
	}

	return desc + ")"
}
