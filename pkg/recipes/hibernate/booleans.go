package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const jpaConvert = "jakarta.persistence.Convert"

// booleanConverters maps @Type(type = ...) values to converter classes in org.hibernate.type.
var booleanConverters = map[string]string{
	"org.hibernate.type.TrueFalseBooleanType": "TrueFalseConverter",
	"true_false":                              "TrueFalseConverter",
	"org.hibernate.type.YesNoBooleanType":     "YesNoConverter",
	"yes_no":                                  "YesNoConverter",
	"org.hibernate.type.NumericBooleanType":   "NumericBooleanConverter",
	"numeric_boolean":                         "NumericBooleanConverter",
}

// MigrateBooleanMappings replaces boolean @Type mappings with @Convert.
type MigrateBooleanMappings struct {
	recipe.Info

	typeAnn match.AnnotationMatcher
}

// NewMigrateBooleanMappings creates the rule.
func NewMigrateBooleanMappings() *MigrateBooleanMappings {
	return &MigrateBooleanMappings{
		Info: recipe.Info{
			ID:      Prefix + "MigrateBooleanMappings",
			Display: "Replace boolean type mappings with converters",
			Summary: "Replaces type mapping of booleans with appropriate attribute converters.",
		},
		typeAnn: match.NewAnnotationMatcher(typeAnnotation),
	}
}

// Gate implements recipe.Rule.
func (r *MigrateBooleanMappings) Gate() match.Gate {
	return match.UsesType(typeAnnotation)
}

// Visit implements recipe.Rule.
func (r *MigrateBooleanMappings) Visit(c *recipe.Context) error {
	for _, ann := range c.File.Root.FindAll(jast.KindAnnotation) {
		if !r.typeAnn.Matches(c.Scope, ann) {
			continue
		}

		literal, ok := c.File.StringValue(c.File.AnnotationValue(ann, "type"))
		if !ok {
			continue
		}

		converter, ok := booleanConverters[literal]
		if !ok {
			continue
		}

		c.Splice(ann, template.Annotation(
			template.Type(jpaConvert),
			template.Assign("converter", template.ClassLiteral(template.Type("org.hibernate.type."+converter))),
		))
		c.RemoveImport(typeAnnotation)
	}

	return nil
}
