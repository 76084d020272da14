package hibernate

import (
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const expectation = "org.hibernate.jdbc.Expectation"

// resultCheckStyles lists the packages ResultCheckStyle has lived in.
var resultCheckStyles = []string{
	"org.hibernate.annotations.ResultCheckStyle",
	"org.hibernate.engine.spi.ResultCheckStyle",
}

// expectations maps ResultCheckStyle constants to nested Expectation classes.
var expectations = map[string]string{
	"NONE":  "None",
	"COUNT": "RowCount",
	"PARAM": "OutParameter",
}

var customSQLAnnotations = []string{
	"org.hibernate.annotations.SQLInsert",
	"org.hibernate.annotations.SQLUpdate",
	"org.hibernate.annotations.SQLDelete",
	"org.hibernate.annotations.SQLDeleteAll",
}

// MigrateResultCheckStyleToExpectation rewrites `check = ResultCheckStyle.X`
// on custom SQL annotations to `verify = Expectation.Y.class`.
type MigrateResultCheckStyleToExpectation struct {
	recipe.Info

	sqlAnn match.AnnotationMatcher
}

// NewMigrateResultCheckStyleToExpectation creates the rule.
func NewMigrateResultCheckStyleToExpectation() *MigrateResultCheckStyleToExpectation {
	return &MigrateResultCheckStyleToExpectation{
		Info: recipe.Info{
			ID:      Prefix + "MigrateResultCheckStyleToExpectation",
			Display: "Migration of ResultCheckStyle to Expectation",
			Summary: "Migrates the usage of `org.hibernate.annotations.ResultCheckStyle` to " +
				"`org.hibernate.jdbc.Expectation` in the `@SQLInsert`, `@SQLUpdate`, `@SQLDelete` and " +
				"`@SQLDeleteAll` annotations.",
		},
		sqlAnn: match.NewAnnotationMatcher(customSQLAnnotations...),
	}
}

// Gate implements recipe.Rule.
func (r *MigrateResultCheckStyleToExpectation) Gate() match.Gate {
	gates := make([]match.Gate, 0, len(customSQLAnnotations))
	for _, fqn := range customSQLAnnotations {
		gates = append(gates, match.UsesType(fqn))
	}

	return match.Or(gates...)
}

// Visit implements recipe.Rule.
func (r *MigrateResultCheckStyleToExpectation) Visit(c *recipe.Context) error {
	for _, ann := range c.File.Root.FindAll(jast.KindAnnotation) {
		if !r.sqlAnn.Matches(c.Scope, ann) {
			continue
		}

		pair := c.File.AnnotationPair(ann, "check")
		if pair == nil {
			continue
		}

		nested, ok := expectations[r.checkStyle(c, pair.Child("value"))]
		if !ok {
			continue
		}

		c.Splice(pair, template.Assign("verify", template.ClassLiteral(template.NestedType(expectation, nested))))

		for _, fqn := range resultCheckStyles {
			c.RemoveImport(fqn)
		}
	}

	return nil
}

// checkStyle returns the ResultCheckStyle constant named by value, written
// either qualified or through a static import.
func (r *MigrateResultCheckStyleToExpectation) checkStyle(c *recipe.Context, value *jast.Node) string {
	switch {
	case value.Is(jast.KindFieldAccess):
		owner := c.Text(value.Child("object"))
		if owner == "ResultCheckStyle" || strings.HasSuffix(owner, ".ResultCheckStyle") {
			return c.Text(value.Child("field"))
		}
	case value.Is(jast.KindIdentifier):
		name := c.Text(value)

		for _, imp := range c.File.Imports() {
			if !imp.Static {
				continue
			}

			for _, fqn := range resultCheckStyles {
				if imp.Name == fqn+"."+name || (imp.Wildcard && imp.Name == fqn) {
					return name
				}
			}
		}
	}

	return ""
}
