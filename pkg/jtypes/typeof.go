package jtypes

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

// TypeOf returns the static type of an expression, or an empty string when
// it cannot be determined.
func (s *Scope) TypeOf(expr *jast.Node) string {
	if expr == nil {
		return ""
	}

	switch expr.Kind {
	case jast.KindObjectCreation:
		return s.ResolveType(expr.Child("type"))
	case jast.KindClassLiteral:
		return "java.lang.Class"
	case jast.KindStringLiteral, "text_block":
		return "java.lang.String"
	case jast.KindDecimalIntegerLiteral, "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return "int"
	case "decimal_floating_point_literal":
		return "double"
	case "true", "false":
		return "boolean"
	case "character_literal":
		return "char"
	case jast.KindParenthesized:
		named := expr.NamedChildren()
		if len(named) == 1 {
			return s.TypeOf(named[0])
		}
	case jast.KindCastExpression:
		return s.ResolveType(expr.Child("type"))
	case jast.KindThis:
		if class := jast.EnclosingClass(expr); class != nil {
			return s.qualifiedDeclName(class)
		}
	case jast.KindIdentifier:
		if decl := s.LookupVariable(expr); decl != nil {
			return s.variableType(decl)
		}
	case jast.KindFieldAccess:
		return s.fieldAccessType(expr)
	case jast.KindMethodInvocation:
		return s.invocationType(expr)
	case jast.KindArrayCreation:
		if elem := s.ResolveType(expr.Child("type")); elem != "" {
			return elem + "[]"
		}
	}

	return ""
}

// TypeName resolves an expression used as a type qualifier, as in
// IntegerType.INSTANCE. It returns empty when expr names a variable.
func (s *Scope) TypeName(expr *jast.Node) string {
	switch expr.Kind {
	case jast.KindIdentifier:
		if s.LookupVariable(expr) != nil || !isTypeLike(s.File.Text(expr)) {
			return ""
		}

		return s.ResolveName(s.File.Text(expr))
	case jast.KindFieldAccess, jast.KindScopedIdentifier:
		if left := jast.Leftmost(expr); left.Is(jast.KindIdentifier) && s.LookupVariable(left) != nil {
			return ""
		}

		name := s.ResolveName(s.File.Text(expr))
		if _, ok := s.Catalog.Lookup(name); ok {
			return name
		}

		if _, ok := s.declared[jast.SimpleName(name)]; ok {
			return name
		}
	}

	return ""
}

func (s *Scope) fieldAccessType(expr *jast.Node) string {
	object := expr.Child("object")
	field := s.File.Text(expr.Child("field"))

	owner := s.TypeName(object)
	if owner == "" {
		owner = s.TypeOf(object)
	}

	return s.Catalog.FieldType(owner, field)
}

func (s *Scope) invocationType(call *jast.Node) string {
	name := s.File.Text(call.Child("name"))

	object := call.Child("object")
	if object == nil {
		return s.localMethodType(call, name)
	}

	owner := s.TypeName(object)
	if owner == "" {
		owner = s.TypeOf(object)
	}

	return s.Catalog.MethodReturn(owner, name)
}

func (s *Scope) localMethodType(call *jast.Node, name string) string {
	class := jast.EnclosingClass(call)
	if class == nil {
		return ""
	}

	for _, method := range class.Child("body").ChildrenOfKind(jast.KindMethodDeclaration) {
		if s.File.MethodName(method) == name {
			return s.ResolveType(method.Child("type"))
		}
	}

	for _, super := range s.Supertypes(class) {
		if found := s.Catalog.MethodReturn(super, name); found != "" {
			return found
		}
	}

	return ""
}

// LookupVariable finds the declaration introducing the identifier: a
// parameter, a local variable, a resource, a loop variable or a field of an
// enclosing class. It returns the declaring node holding the type field.
func (s *Scope) LookupVariable(ident *jast.Node) *jast.Node {
	name := s.File.Text(ident)

	for cur := ident.Parent(); cur != nil; cur = cur.Parent() {
		if decl := s.declarationIn(cur, name); decl != nil {
			return decl
		}
	}

	return nil
}

func (s *Scope) declarationIn(scope *jast.Node, name string) *jast.Node {
	switch scope.Kind {
	case jast.KindMethodDeclaration, jast.KindConstructorDecl:
		for _, param := range jast.Parameters(scope) {
			if s.File.Text(param.Child("name")) == name {
				return param
			}

			if decl := param.Child("declarator"); decl != nil && s.File.Text(decl.Child("name")) == name {
				return param
			}
		}
	case jast.KindLambdaExpression:
		params := scope.Child("parameters")
		for _, param := range params.ChildrenOfKind(jast.KindFormalParameter) {
			if s.File.Text(param.Child("name")) == name {
				return param
			}
		}
	case jast.KindBlock, "switch_block_statement_group", "constructor_body", "try_with_resources_statement", "for_statement":
		for _, child := range scope.Children {
			if child.Is(jast.KindLocalVariableDecl, "resource") && s.declares(child, name) {
				return child
			}

			if child.Is("resource_specification") {
				for _, res := range child.ChildrenOfKind("resource") {
					if s.File.Text(res.Child("name")) == name {
						return res
					}
				}
			}
		}
	case "enhanced_for_statement", "catch_formal_parameter":
		if s.File.Text(scope.Child("name")) == name {
			return scope
		}
	case "catch_clause":
		if param := scope.FirstChildOfKind("catch_formal_parameter"); param != nil &&
			s.File.Text(param.Child("name")) == name {
			return param
		}
	case jast.KindClassBody, "enum_body", "interface_body":
		for _, field := range scope.ChildrenOfKind(jast.KindFieldDeclaration, "constant_declaration") {
			if s.declares(field, name) {
				return field
			}
		}
	}

	return nil
}

func (s *Scope) declares(decl *jast.Node, name string) bool {
	for _, declarator := range jast.Declarators(decl) {
		if s.File.Text(declarator.Child("name")) == name {
			return true
		}
	}

	return false
}

func (s *Scope) variableType(decl *jast.Node) string {
	typ := decl.Child("type")
	if typ == nil {
		if typ = decl.FirstChildOfKind("catch_type"); typ != nil {
			named := typ.NamedChildren()
			if len(named) > 0 {
				return s.ResolveType(named[0])
			}
		}

		return ""
	}

	if s.File.Text(typ) == "var" {
		for _, declarator := range jast.Declarators(decl) {
			return s.TypeOf(declarator.Child("value"))
		}

		return ""
	}

	return s.ResolveType(typ)
}
