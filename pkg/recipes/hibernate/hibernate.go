// Package hibernate holds the rules that migrate Java sources from the
// Hibernate 5 API to Hibernate 6.
package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

// Prefix namespaces every rule in this package.
const Prefix = "hibmigrate.hibernate."

// Common fully qualified names.
const (
	typeAnnotation     = "org.hibernate.annotations.Type"
	typeDefAnnotation  = "org.hibernate.annotations.TypeDef"
	typeDefsAnnotation = "org.hibernate.annotations.TypeDefs"
	overrideAnnotation = "java.lang.Override"
)

// Rules returns a fresh instance of every rule, in registration order.
func Rules() []recipe.Rule {
	return []recipe.Rule{
		NewAddScalarPreferStandardBasicTypes(),
		NewAddScalarPreferStandardBasicTypesForHibernate5(),
		NewEmptyInterceptorToInterface(),
		NewMigrateBooleanMappings(),
		NewMigrateResultCheckStyleToExpectation(),
		NewReplaceLazyCollectionAnnotation(),
		NewMigrateUserType(),
		NewTypeAnnotationParameter(),
		NewRemoveInvalidHibernateGeneratedValueAnnotation(),
		NewMigrateHypersistenceUtils61Types(),
	}
}

// Register adds every rule to reg.
func Register(reg *recipe.Registry) error {
	for _, rule := range Rules() {
		err := reg.Register(rule)
		if err != nil {
			return err
		}
	}

	return nil
}
