package jast

import (
	"slices"
	"strings"
)

// Node kinds produced by the tree-sitter Java grammar that rules rely on.
const (
	KindProgram               = "program"
	KindPackageDeclaration    = "package_declaration"
	KindImportDeclaration     = "import_declaration"
	KindClassDeclaration      = "class_declaration"
	KindInterfaceDeclaration  = "interface_declaration"
	KindEnumDeclaration       = "enum_declaration"
	KindRecordDeclaration     = "record_declaration"
	KindClassBody             = "class_body"
	KindSuperclass            = "superclass"
	KindSuperInterfaces       = "super_interfaces"
	KindTypeList              = "type_list"
	KindModifiers             = "modifiers"
	KindAnnotation            = "annotation"
	KindMarkerAnnotation      = "marker_annotation"
	KindAnnotationArgs        = "annotation_argument_list"
	KindElementValuePair      = "element_value_pair"
	KindElementValueArray     = "element_value_array_initializer"
	KindMethodDeclaration     = "method_declaration"
	KindConstructorDecl       = "constructor_declaration"
	KindFormalParameters      = "formal_parameters"
	KindFormalParameter       = "formal_parameter"
	KindFieldDeclaration      = "field_declaration"
	KindLocalVariableDecl     = "local_variable_declaration"
	KindVariableDeclarator    = "variable_declarator"
	KindBlock                 = "block"
	KindReturnStatement       = "return_statement"
	KindMethodInvocation      = "method_invocation"
	KindArgumentList          = "argument_list"
	KindObjectCreation        = "object_creation_expression"
	KindFieldAccess           = "field_access"
	KindClassLiteral          = "class_literal"
	KindArrayCreation         = "array_creation_expression"
	KindArrayInitializer      = "array_initializer"
	KindArrayAccess           = "array_access"
	KindCastExpression        = "cast_expression"
	KindParenthesized         = "parenthesized_expression"
	KindLambdaExpression      = "lambda_expression"
	KindTypeIdentifier        = "type_identifier"
	KindScopedTypeIdentifier  = "scoped_type_identifier"
	KindGenericType           = "generic_type"
	KindTypeArguments         = "type_arguments"
	KindArrayType             = "array_type"
	KindIntegralType          = "integral_type"
	KindFloatingPointType     = "floating_point_type"
	KindBooleanType           = "boolean_type"
	KindVoidType              = "void_type"
	KindIdentifier            = "identifier"
	KindScopedIdentifier      = "scoped_identifier"
	KindStringLiteral         = "string_literal"
	KindDecimalIntegerLiteral = "decimal_integer_literal"
	KindThis                  = "this"
	KindAsterisk              = "asterisk"
	KindLineComment           = "line_comment"
	KindBlockComment          = "block_comment"
	KindError                 = "ERROR"
)

// Node is an immutable syntax tree node. Offsets are byte positions into the
// owning [File] source.
type Node struct {
	parent *Node

	// Kind is the grammar node type.
	Kind string
	// Field is the grammar field name under the parent, or empty.
	Field string
	// Children holds all children, anonymous tokens included.
	Children []*Node
	// Start and End delimit the node's source span.
	Start int
	End   int
	// Line is the 1-based starting line.
	Line int
	// Named is false for anonymous tokens such as punctuation and keywords.
	Named bool
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	return n != nil && slices.Contains(kinds, n.Kind)
}

// IsComment reports whether the node is a line or block comment.
func (n *Node) IsComment() bool {
	return n.Is(KindLineComment, KindBlockComment)
}

// Child returns the first child recorded under field, or nil.
func (n *Node) Child(field string) *Node {
	if n == nil {
		return nil
	}

	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}

	return nil
}

// NamedChildren returns the named children, comments excluded.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}

	out := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Named && !child.IsComment() {
			out = append(out, child)
		}
	}

	return out
}

// ChildrenOfKind returns the direct children with one of the given kinds.
func (n *Node) ChildrenOfKind(kinds ...string) []*Node {
	if n == nil {
		return nil
	}

	var out []*Node

	for _, child := range n.Children {
		if child.Is(kinds...) {
			out = append(out, child)
		}
	}

	return out
}

// FirstChildOfKind returns the first direct child with one of the given kinds.
func (n *Node) FirstChildOfKind(kinds ...string) *Node {
	if n == nil {
		return nil
	}

	for _, child := range n.Children {
		if child.Is(kinds...) {
			return child
		}
	}

	return nil
}

// HasToken reports whether an anonymous child token with the given text kind exists.
func (n *Node) HasToken(kind string) bool {
	if n == nil {
		return false
	}

	for _, child := range n.Children {
		if !child.Named && child.Kind == kind {
			return true
		}
	}

	return false
}

// FirstAncestor returns the nearest strict ancestor with one of the given kinds.
func (n *Node) FirstAncestor(kinds ...string) *Node {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Is(kinds...) {
			return cur
		}
	}

	return nil
}

// Contains reports whether other lies inside n's span.
func (n *Node) Contains(other *Node) bool {
	return other != nil && n.Start <= other.Start && other.End <= n.End
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FindAll returns every node in the subtree with one of the given kinds.
func (n *Node) FindAll(kinds ...string) []*Node {
	var out []*Node

	n.Walk(func(cur *Node) bool {
		if cur.Is(kinds...) {
			out = append(out, cur)
		}

		return true
	})

	return out
}

// Next returns the following sibling, or nil.
func (n *Node) Next() *Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}

	idx := slices.Index(parent.Children, n)
	if idx < 0 || idx+1 >= len(parent.Children) {
		return nil
	}

	return parent.Children[idx+1]
}

// Prev returns the preceding sibling, or nil.
func (n *Node) Prev() *Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}

	idx := slices.Index(parent.Children, n)
	if idx <= 0 {
		return nil
	}

	return parent.Children[idx-1]
}

// File is a parsed Java compilation unit.
type File struct {
	Root      *Node
	Path      string
	Src       []byte
	hasErrors bool
}

// Text returns the source text spanned by n.
func (f *File) Text(n *Node) string {
	if n == nil {
		return ""
	}

	return string(f.Src[n.Start:n.End])
}

// HasErrors reports whether the parse contains syntax errors.
func (f *File) HasErrors() bool {
	return f.hasErrors
}

// Package returns the declared package name, or empty for the default package.
func (f *File) Package() string {
	pkg := f.Root.FirstChildOfKind(KindPackageDeclaration)
	if pkg == nil {
		return ""
	}

	name := pkg.FirstChildOfKind(KindScopedIdentifier, KindIdentifier)

	return f.Text(name)
}

// Import is a single import declaration.
type Import struct {
	Node *Node
	// Name is the imported qualified name without a trailing ".*".
	Name     string
	Static   bool
	Wildcard bool
}

// SimpleName returns the last segment of the import name.
func (i Import) SimpleName() string {
	return SimpleName(i.Name)
}

// Imports returns the file's import declarations in source order.
func (f *File) Imports() []Import {
	var out []Import

	for _, decl := range f.Root.ChildrenOfKind(KindImportDeclaration) {
		name := decl.FirstChildOfKind(KindScopedIdentifier, KindIdentifier)
		out = append(out, Import{
			Node:     decl,
			Name:     f.Text(name),
			Static:   decl.HasToken("static"),
			Wildcard: decl.FirstChildOfKind(KindAsterisk) != nil,
		})
	}

	return out
}

// LineStart returns the offset of the first byte of the line containing pos.
func (f *File) LineStart(pos int) int {
	for pos > 0 && f.Src[pos-1] != '\n' {
		pos--
	}

	return pos
}

// LineEnd returns the offset just past the newline ending the line containing
// pos, or the file length.
func (f *File) LineEnd(pos int) int {
	for pos < len(f.Src) {
		if f.Src[pos] == '\n' {
			return pos + 1
		}

		pos++
	}

	return pos
}

// Indent returns the whitespace preceding the first token on n's line.
func (f *File) Indent(n *Node) string {
	start := f.LineStart(n.Start)
	end := start

	for end < len(f.Src) && (f.Src[end] == ' ' || f.Src[end] == '\t') {
		end++
	}

	return string(f.Src[start:end])
}

// SimpleName returns the last dot-separated segment of a qualified name.
func SimpleName(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		return qualified[idx+1:]
	}

	return qualified
}

// PackageOf returns everything before the last dot of a qualified name.
func PackageOf(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		return qualified[:idx]
	}

	return ""
}
