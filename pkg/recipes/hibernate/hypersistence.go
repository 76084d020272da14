package hibernate

import (
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

const (
	hypersistenceJSONType       = "io.hypersistence.utils.hibernate.type.json.JsonType"
	hypersistenceJSONBinaryType = "io.hypersistence.utils.hibernate.type.json.JsonBinaryType"
	hypersistenceJSONStringType = "io.hypersistence.utils.hibernate.type.json.JsonStringType"
)

// MigrateHypersistenceUtils61Types maps JSON @Type aliases onto the generic
// hypersistence-utils JsonType and drops class-level @TypeDefs.
type MigrateHypersistenceUtils61Types struct {
	recipe.Info

	typeAnn  match.AnnotationMatcher
	typeDefs match.AnnotationMatcher
}

// NewMigrateHypersistenceUtils61Types creates the rule.
func NewMigrateHypersistenceUtils61Types() *MigrateHypersistenceUtils61Types {
	return &MigrateHypersistenceUtils61Types{
		Info: recipe.Info{
			ID:      Prefix + "MigrateHypersistenceUtils61Types",
			Display: "Migrate `io.hypersistence:hypersistence-utils-hibernate` Json type",
			Summary: "When `io.hypersistence.utils` are being used, removes the `@org.hibernate.annotations.TypeDefs` " +
				"annotation as it doesn't exist in Hibernate 6 and updates generic JSON type mapping.",
		},
		typeAnn:  match.NewAnnotationMatcher(typeAnnotation),
		typeDefs: match.NewAnnotationMatcher(typeDefsAnnotation),
	}
}

// Gate implements recipe.Rule.
func (r *MigrateHypersistenceUtils61Types) Gate() match.Gate {
	return match.And(
		match.UsesType(typeAnnotation),
		match.Or(
			match.UsesType("com.vladmihalcea..*"),
			match.UsesType("io.hypersistence.utils..*"),
		),
	)
}

// Visit implements recipe.Rule.
func (r *MigrateHypersistenceUtils61Types) Visit(c *recipe.Context) error {
	for _, ann := range c.File.Root.FindAll(jast.KindAnnotation) {
		if !r.typeAnn.Matches(c.Scope, ann) {
			continue
		}

		pair := c.File.AnnotationPair(ann, "type")
		if pair == nil {
			continue
		}

		literal, ok := c.File.StringValue(pair.Child("value"))
		if !ok || !strings.Contains(literal, "json") {
			continue
		}

		c.Replace(pair, "value = JsonType.class")
		c.AddImport(hypersistenceJSONType, false)
		c.RemoveImport(hypersistenceJSONBinaryType)
		c.RemoveImport(hypersistenceJSONStringType)
	}

	for _, class := range c.File.Root.FindAll(jast.KindClassDeclaration) {
		for _, ann := range r.typeDefs.FindOn(c.Scope, class) {
			c.DeleteAnnotation(ann)
			c.RemoveImport(typeDefsAnnotation)
			c.RemoveImport(typeDefAnnotation)
		}
	}

	return nil
}
