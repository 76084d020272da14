package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

const (
	jpaGeneratedValue = "jakarta.persistence.GeneratedValue"
	jpaID             = "jakarta.persistence.Id"
)

// RemoveInvalidHibernateGeneratedValueAnnotation drops @GeneratedValue from
// members that are not identifiers.
type RemoveInvalidHibernateGeneratedValueAnnotation struct {
	recipe.Info

	generated match.AnnotationMatcher
	id        match.AnnotationMatcher
}

// NewRemoveInvalidHibernateGeneratedValueAnnotation creates the rule.
func NewRemoveInvalidHibernateGeneratedValueAnnotation() *RemoveInvalidHibernateGeneratedValueAnnotation {
	return &RemoveInvalidHibernateGeneratedValueAnnotation{
		Info: recipe.Info{
			ID:      Prefix + "RemoveInvalidHibernateGeneratedValueAnnotation",
			Display: "Remove invalid `@GeneratedValue` annotation",
			Summary: "Removes `@GeneratedValue` annotation from fields that are not also annotated with `@Id`.",
		},
		generated: match.NewAnnotationMatcher(jpaGeneratedValue),
		id:        match.NewAnnotationMatcher(jpaID),
	}
}

// Gate implements recipe.Rule.
func (r *RemoveInvalidHibernateGeneratedValueAnnotation) Gate() match.Gate {
	return match.UsesType(jpaGeneratedValue)
}

// Visit implements recipe.Rule.
func (r *RemoveInvalidHibernateGeneratedValueAnnotation) Visit(c *recipe.Context) error {
	for _, ann := range c.File.Root.FindAll(jast.KindAnnotation, jast.KindMarkerAnnotation) {
		if !r.generated.Matches(c.Scope, ann) {
			continue
		}

		member := jast.AnnotatedMember(ann)
		if member == nil || len(r.id.FindOn(c.Scope, member)) > 0 {
			continue
		}

		c.DeleteAnnotation(ann)
		c.RemoveImport(jpaGeneratedValue)
	}

	return nil
}
