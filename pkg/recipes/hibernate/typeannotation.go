package hibernate

import (
	"maps"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const (
	jpaTemporal     = "jakarta.persistence.Temporal"
	jpaTemporalType = "jakarta.persistence.TemporalType"

	msgTypeDefs = "typeDefs"

	typeDefsWarning = "Unable to migrate @TypeDefs with unexpected content, move the type definitions by hand"
	typeDefWarning  = "Unable to migrate @TypeDef with parameters, move the type definition by hand"
)

// removedTypes no longer exist in Hibernate 6; their mappings are dropped.
var removedTypes = map[string]bool{
	"org.hibernate.type.TextType":               true,
	"org.hibernate.type.EnumType":               true,
	"org.hibernate.type.SerializableType":       true,
	"org.hibernate.type.SerializableToBlobType": true,
}

var temporalAliases = map[string]string{
	"date":      "DATE",
	"time":      "TIME",
	"timestamp": "TIMESTAMP",
}

// TypeAnnotationParameter migrates @Type(type = "...") to the class-valued
// form and removes @TypeDef declarations.
type TypeAnnotationParameter struct {
	recipe.Info

	typeAnn  match.AnnotationMatcher
	typeDef  match.AnnotationMatcher
	typeDefs match.AnnotationMatcher
}

// NewTypeAnnotationParameter creates the rule.
func NewTypeAnnotationParameter() *TypeAnnotationParameter {
	return &TypeAnnotationParameter{
		Info: recipe.Info{
			ID:      Prefix + "TypeAnnotationParameter",
			Display: "`@Type` annotation type parameter migration",
			Summary: "Hibernate 6.x has the `type` parameter of type String replaced with `value` of type class.",
		},
		typeAnn:  match.NewAnnotationMatcher(typeAnnotation),
		typeDef:  match.NewAnnotationMatcher(typeDefAnnotation),
		typeDefs: match.NewAnnotationMatcher(typeDefsAnnotation),
	}
}

// Gate implements recipe.Rule.
func (r *TypeAnnotationParameter) Gate() match.Gate {
	return match.UsesType(typeAnnotation)
}

// Visit implements recipe.Rule.
func (r *TypeAnnotationParameter) Visit(c *recipe.Context) error {
	jast.Inspect(c.File.Root, func(cur *jast.Cursor) bool {
		n := cur.Node()

		switch {
		case n.Is(jast.KindClassDeclaration, jast.KindEnumDeclaration, jast.KindRecordDeclaration):
			r.enterClass(c, cur)
		case r.typeAnn.Matches(c.Scope, n):
			r.migrateType(c, cur)
		case r.typeDefs.Matches(c.Scope, n):
			r.removeTypeDefs(c, n)

			return false
		case r.typeDef.Matches(c.Scope, n):
			r.removeTypeDef(c, n)
		}

		return true
	}, nil)

	return nil
}

// enterClass binds the aliases declared by the class's @TypeDef annotations
// on its frame, on top of those of enclosing classes.
func (r *TypeAnnotationParameter) enterClass(c *recipe.Context, cur *jast.Cursor) {
	aliases := map[string]string{}
	if outer, ok := jast.NearestMessageAs[map[string]string](cur, msgTypeDefs); ok {
		maps.Copy(aliases, outer)
	}

	for _, ann := range jast.Annotations(cur.Node()) {
		for _, def := range r.definitionsIn(c, ann) {
			name, class, ok := r.typeDefBinding(c, def)
			if ok {
				aliases[name] = class
			}
		}
	}

	if len(aliases) > 0 {
		cur.PutMessage(msgTypeDefs, aliases)
	}
}

// definitionsIn returns the @TypeDef annotations ann declares, directly or
// through @TypeDefs.
func (r *TypeAnnotationParameter) definitionsIn(c *recipe.Context, ann *jast.Node) []*jast.Node {
	switch {
	case r.typeDef.Matches(c.Scope, ann):
		return []*jast.Node{ann}
	case r.typeDefs.Matches(c.Scope, ann):
		var defs []*jast.Node

		for _, elem := range typeDefsElements(c, ann) {
			if r.typeDef.Matches(c.Scope, elem) {
				defs = append(defs, elem)
			}
		}

		return defs
	default:
		return nil
	}
}

// typeDefsElements flattens the value of @TypeDefs into its elements.
func typeDefsElements(c *recipe.Context, ann *jast.Node) []*jast.Node {
	value := c.File.AnnotationValue(ann, "value")
	if value == nil {
		return nil
	}

	if value.Is(jast.KindElementValueArray) {
		return value.NamedChildren()
	}

	return []*jast.Node{value}
}

// typeDefBinding returns the alias and bound class expression of a
// @TypeDef(name = ..., typeClass | defaultForType = ...).
func (r *TypeAnnotationParameter) typeDefBinding(c *recipe.Context, def *jast.Node) (alias, class string, ok bool) {
	alias, ok = c.File.StringValue(c.File.AnnotationValue(def, "name"))
	if !ok {
		return "", "", false
	}

	for _, key := range []string{"typeClass", "defaultForType"} {
		if value := c.File.AnnotationValue(def, key); value.Is(jast.KindClassLiteral) {
			return alias, c.Text(value), true
		}
	}

	return "", "", false
}

// wellFormed reports whether a @TypeDef carries nothing but an alias binding.
func (r *TypeAnnotationParameter) wellFormed(c *recipe.Context, def *jast.Node) bool {
	if _, _, ok := r.typeDefBinding(c, def); !ok {
		return false
	}

	args := jast.AnnotationArgs(def).NamedChildren()
	for _, arg := range args {
		if !arg.Is(jast.KindElementValuePair) {
			return false
		}

		switch c.Text(arg.Child("key")) {
		case "name", "typeClass", "defaultForType":
		default:
			return false
		}
	}

	return true
}

func (r *TypeAnnotationParameter) migrateType(c *recipe.Context, cur *jast.Cursor) {
	ann := cur.Node()

	pair := c.File.AnnotationPair(ann, "type")
	if pair == nil {
		return
	}

	literal, ok := c.File.StringValue(pair.Child("value"))
	if !ok {
		return
	}

	if removedTypes[literal] {
		c.DeleteAnnotation(ann)
		c.RemoveImport(typeAnnotation)

		return
	}

	if constant, ok := temporalAliases[literal]; ok {
		c.Splice(ann, template.Annotation(
			template.Type(jpaTemporal),
			template.StaticField(template.Type(jpaTemporalType), constant),
		))
		c.RemoveImport(typeAnnotation)

		return
	}

	class := r.classFor(cur, literal)
	if class == "" {
		c.Logger.Debug("unresolved @Type alias left in place", "alias", literal, "line", ann.Line)

		return
	}

	if len(jast.AnnotationArgs(ann).NamedChildren()) == 1 {
		c.Replace(jast.AnnotationArgs(ann), "("+class+")")

		return
	}

	c.Replace(pair, "value = "+class)
}

// classFor returns the class literal standing for a @Type value: a bound
// alias or a fully qualified class name.
func (r *TypeAnnotationParameter) classFor(cur *jast.Cursor, literal string) string {
	if aliases, ok := jast.NearestMessageAs[map[string]string](cur, msgTypeDefs); ok {
		if class, ok := aliases[literal]; ok {
			return class
		}
	}

	if !strings.Contains(literal, ".") {
		return ""
	}

	return literal + ".class"
}

func (r *TypeAnnotationParameter) removeTypeDef(c *recipe.Context, ann *jast.Node) {
	if !r.wellFormed(c, ann) {
		c.Warn(ann, typeDefWarning)

		return
	}

	c.DeleteAnnotation(ann)
	c.RemoveImport(typeDefAnnotation)
}

func (r *TypeAnnotationParameter) removeTypeDefs(c *recipe.Context, ann *jast.Node) {
	elems := typeDefsElements(c, ann)
	if len(elems) == 0 || len(jast.AnnotationArgs(ann).NamedChildren()) != 1 {
		c.Warn(ann, typeDefsWarning)

		return
	}

	for _, elem := range elems {
		if !r.typeDef.Matches(c.Scope, elem) || !r.wellFormed(c, elem) {
			c.Warn(ann, typeDefsWarning)

			return
		}
	}

	c.DeleteAnnotation(ann)
	c.RemoveImport(typeDefsAnnotation)
	c.RemoveImport(typeDefAnnotation)
}
