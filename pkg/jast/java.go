package jast

import (
	"strconv"
	"strings"
)

// Declaration kinds that carry a modifiers list with annotations.
var memberKinds = []string{
	KindClassDeclaration, KindInterfaceDeclaration, KindEnumDeclaration, KindRecordDeclaration,
	KindMethodDeclaration, KindConstructorDecl, KindFieldDeclaration, KindFormalParameter,
	KindLocalVariableDecl, "annotation_type_declaration", "constant_declaration",
}

// IsAnnotation reports whether n is a marker or regular annotation.
func IsAnnotation(n *Node) bool {
	return n.Is(KindAnnotation, KindMarkerAnnotation)
}

// Annotations returns the annotations on a declaration in source order.
func Annotations(decl *Node) []*Node {
	mods := decl.FirstChildOfKind(KindModifiers)
	if mods == nil {
		return nil
	}

	return mods.ChildrenOfKind(KindAnnotation, KindMarkerAnnotation)
}

// AnnotatedMember returns the declaration an annotation is attached to.
func AnnotatedMember(ann *Node) *Node {
	mods := ann.Parent()
	if !mods.Is(KindModifiers) {
		return nil
	}

	decl := mods.Parent()
	if !decl.Is(memberKinds...) {
		return nil
	}

	return decl
}

// AnnotationName returns the annotation type name as written.
func (f *File) AnnotationName(ann *Node) string {
	return f.Text(ann.Child("name"))
}

// AnnotationArgs returns the argument list of an annotation, nil for markers.
func AnnotationArgs(ann *Node) *Node {
	return ann.Child("arguments")
}

// AnnotationPairs returns the key/value pairs of an annotation.
func AnnotationPairs(ann *Node) []*Node {
	return AnnotationArgs(ann).ChildrenOfKind(KindElementValuePair)
}

// AnnotationPair returns the pair with the given key, or nil.
func (f *File) AnnotationPair(ann *Node, key string) *Node {
	for _, pair := range AnnotationPairs(ann) {
		if f.Text(pair.Child("key")) == key {
			return pair
		}
	}

	return nil
}

// AnnotationValue returns the value bound to key. The key "value" also
// matches a lone unnamed argument.
func (f *File) AnnotationValue(ann *Node, key string) *Node {
	if pair := f.AnnotationPair(ann, key); pair != nil {
		return pair.Child("value")
	}

	if key == "value" {
		return SingleArgument(ann)
	}

	return nil
}

// SingleArgument returns the unnamed argument of an annotation, or nil.
func SingleArgument(ann *Node) *Node {
	args := AnnotationArgs(ann).NamedChildren()
	if len(args) == 1 && !args[0].Is(KindElementValuePair) {
		return args[0]
	}

	return nil
}

// StringValue unquotes a string literal node.
func (f *File) StringValue(lit *Node) (string, bool) {
	if !lit.Is(KindStringLiteral) {
		return "", false
	}

	raw := f.Text(lit)

	unquoted, err := strconv.Unquote(raw)
	if err != nil {
		return strings.Trim(raw, `"`), true
	}

	return unquoted, true
}

// Parameters returns the formal parameters of a method or constructor.
func Parameters(method *Node) []*Node {
	return method.Child("parameters").ChildrenOfKind(KindFormalParameter, "spread_parameter")
}

// MethodName returns the declared name of a method.
func (f *File) MethodName(method *Node) string {
	return f.Text(method.Child("name"))
}

// Declarators returns the variable declarators of a field or local declaration.
func Declarators(decl *Node) []*Node {
	return decl.ChildrenOfKind(KindVariableDeclarator)
}

// EnclosingClass returns the nearest class-like declaration around n.
func EnclosingClass(n *Node) *Node {
	return n.FirstAncestor(KindClassDeclaration, KindInterfaceDeclaration, KindEnumDeclaration, KindRecordDeclaration)
}

// TypeDeclarations returns every class-like declaration in the file.
func (f *File) TypeDeclarations() []*Node {
	return f.Root.FindAll(KindClassDeclaration, KindInterfaceDeclaration, KindEnumDeclaration,
		KindRecordDeclaration, "annotation_type_declaration")
}

// Leftmost returns the first segment of a possibly qualified name node.
func Leftmost(n *Node) *Node {
	for n != nil {
		switch n.Kind {
		case KindScopedIdentifier:
			n = n.Child("scope")
		case KindFieldAccess:
			n = n.Child("object")
		case KindScopedTypeIdentifier:
			named := n.NamedChildren()
			if len(named) == 0 {
				return n
			}

			n = named[0]
		default:
			return n
		}
	}

	return nil
}
