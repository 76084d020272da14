package imports

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

// declaring lists node kinds whose "name" field introduces a symbol rather
// than referencing one.
var declaring = map[string]bool{
	jast.KindClassDeclaration:             true,
	jast.KindInterfaceDeclaration:         true,
	jast.KindEnumDeclaration:              true,
	jast.KindRecordDeclaration:            true,
	jast.KindMethodDeclaration:            true,
	jast.KindConstructorDecl:              true,
	jast.KindFormalParameter:              true,
	jast.KindVariableDeclarator:           true,
	jast.KindMethodInvocation:             true,
	"annotation_type_declaration":         true,
	"annotation_type_element_declaration": true,
	"enum_constant":                       true,
	"catch_formal_parameter":              true,
	"enhanced_for_statement":              true,
	"resource":                            true,
	"spread_parameter":                    true,
	"type_parameter":                      true,
}

// ReferencedNames returns the simple names the file's code uses outside its
// package and import declarations. Only the leftmost segment of a qualified
// name counts, since that is the segment an import supplies.
func ReferencedNames(file *jast.File) map[string]bool {
	refs := make(map[string]bool)

	for _, child := range file.Root.Children {
		if child.Is(jast.KindPackageDeclaration, jast.KindImportDeclaration) {
			continue
		}

		collect(file, child, refs)
	}

	return refs
}

func collect(file *jast.File, n *jast.Node, refs map[string]bool) {
	switch n.Kind {
	case jast.KindTypeIdentifier:
		refs[file.Text(n)] = true

		return
	case jast.KindScopedTypeIdentifier, jast.KindScopedIdentifier:
		if left := jast.Leftmost(n); left != nil && left != n {
			refs[file.Text(left)] = true
		}

		return
	case jast.KindFieldAccess:
		if object := n.Child("object"); object != nil {
			collect(file, object, refs)
		}

		return
	case jast.KindIdentifier:
		if isReference(n) {
			refs[file.Text(n)] = true
		}

		return
	}

	for _, child := range n.Children {
		collect(file, child, refs)
	}
}

func isReference(ident *jast.Node) bool {
	parent := ident.Parent()
	if parent == nil {
		return true
	}

	switch ident.Field {
	case "name":
		return !declaring[parent.Kind]
	case "key", "field":
		return false
	}

	// Lambda parameters written without types are declarations too.
	return !parent.Is(jast.KindLambdaExpression, "inferred_parameters")
}
