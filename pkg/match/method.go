package match

import (
	"fmt"
	"path"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

// anyArgs is the parameter token matching zero or more arguments.
const anyArgs = ".."

// MethodMatcher matches invocations and declarations against a signature
// pattern of the form "owner name(param, ...)". The name may use glob
// wildcards, "*" matches a single parameter of any type and ".." matches any
// number of parameters.
type MethodMatcher struct {
	owner  TypePattern
	name   string
	raw    string
	params []TypePattern
	varArg bool
}

// NewMethodMatcher parses a method pattern.
func NewMethodMatcher(pattern string) (*MethodMatcher, error) {
	pattern = strings.TrimSpace(pattern)

	head, args, ok := strings.Cut(pattern, "(")
	if !ok || !strings.HasSuffix(args, ")") {
		return nil, fmt.Errorf("%w: %q lacks a parameter list", ErrInvalidPattern, pattern)
	}

	fields := strings.Fields(head)
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: %q needs an owner and a name", ErrInvalidPattern, pattern)
	}

	owner, err := NewTypePattern(fields[0])
	if err != nil {
		return nil, err
	}

	if _, err := path.Match(fields[1], ""); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}

	m := &MethodMatcher{owner: owner, name: fields[1], raw: pattern}

	args = strings.TrimSpace(strings.TrimSuffix(args, ")"))
	if args == "" {
		return m, nil
	}

	for idx, arg := range strings.Split(args, ",") {
		arg = strings.TrimSpace(arg)
		if arg == anyArgs {
			if idx != strings.Count(args, ",") {
				return nil, fmt.Errorf("%w: %q: '..' must be last", ErrInvalidPattern, pattern)
			}

			m.varArg = true

			continue
		}

		param, err := NewTypePattern(arg)
		if err != nil {
			return nil, err
		}

		m.params = append(m.params, param)
	}

	return m, nil
}

// MustMethodMatcher is like [NewMethodMatcher] but panics on error.
func MustMethodMatcher(pattern string) *MethodMatcher {
	m, err := NewMethodMatcher(pattern)
	if err != nil {
		panic(err)
	}

	return m
}

// String returns the pattern as written.
func (m *MethodMatcher) String() string {
	return m.raw
}

// Owner returns the owner type pattern.
func (m *MethodMatcher) Owner() TypePattern {
	return m.owner
}

func (m *MethodMatcher) nameMatches(name string) bool {
	ok, _ := path.Match(m.name, name)

	return ok
}

func (m *MethodMatcher) arityMatches(n int) bool {
	if m.varArg {
		return n >= len(m.params)
	}

	return n == len(m.params)
}

// MatchesInvocation reports whether call invokes a matching method. The
// receiver type must resolve and be assignable to the owner; an argument
// whose type cannot be determined does not veto the match.
func (m *MethodMatcher) MatchesInvocation(scope *jtypes.Scope, call *jast.Node) bool {
	if !call.Is(jast.KindMethodInvocation) {
		return false
	}

	if !m.nameMatches(scope.File.Text(call.Child("name"))) {
		return false
	}

	args := call.Child("arguments").NamedChildren()
	if !m.arityMatches(len(args)) {
		return false
	}

	if !m.owner.AssignableFrom(scope.Catalog, m.receiverType(scope, call)) {
		return false
	}

	for idx, param := range m.params {
		argType := scope.TypeOf(args[idx])
		if argType == "" || param.any {
			continue
		}

		if !param.AssignableFrom(scope.Catalog, argType) {
			return false
		}
	}

	return true
}

func (m *MethodMatcher) receiverType(scope *jtypes.Scope, call *jast.Node) string {
	object := call.Child("object")
	if object == nil {
		if class := jast.EnclosingClass(call); class != nil {
			return scope.ResolveName(scope.File.Text(class.Child("name")))
		}

		return ""
	}

	if typeName := scope.TypeName(object); typeName != "" {
		return typeName
	}

	return scope.TypeOf(object)
}

// MatchesDeclaration reports whether method declares a matching signature.
// The owner is checked against the enclosing class and its supertypes.
func (m *MethodMatcher) MatchesDeclaration(scope *jtypes.Scope, method *jast.Node) bool {
	if !method.Is(jast.KindMethodDeclaration) {
		return false
	}

	if !m.nameMatches(scope.File.MethodName(method)) {
		return false
	}

	params := jast.Parameters(method)
	if !m.arityMatches(len(params)) {
		return false
	}

	for idx, want := range m.params {
		got := scope.ResolveType(params[idx].Child("type"))
		if !want.any && !want.Matches(got) {
			return false
		}
	}

	if m.owner.any {
		return true
	}

	class := jast.EnclosingClass(method)
	if class == nil {
		return false
	}

	if m.owner.Matches(scope.ResolveName(scope.File.Text(class.Child("name")))) {
		return true
	}

	for _, super := range scope.Supertypes(class) {
		if m.owner.AssignableFrom(scope.Catalog, super) {
			return true
		}
	}

	return false
}
