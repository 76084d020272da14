package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg, err := recipe.NewRegistry(
		renameType("test.B", "a.X", "b.X"),
		renameType("test.A", "a.Y", "b.Y"),
	)
	require.NoError(t, err)

	err = reg.Register(renameType("test.A", "a.Z", "b.Z"))
	require.ErrorIs(t, err, recipe.ErrDuplicateRecipe)

	_, err = reg.Lookup("test.a")
	require.ErrorIs(t, err, recipe.ErrUnknownRecipe)

	found, err := reg.Lookup("test.A")
	require.NoError(t, err)
	assert.Equal(t, "test.A", found.Name())

	names := make([]string, 0, 2)
	for _, r := range reg.All() {
		names = append(names, r.Name())
	}

	assert.Equal(t, []string{"test.A", "test.B"}, names)
}

func TestRegistry_LookupSuggests(t *testing.T) {
	t.Parallel()

	reg, err := recipe.NewRegistry(
		renameType("test.pkg.MigrateUserType", "a.X", "b.X"),
		renameType("test.pkg.MigrateBooleanMappings", "a.Y", "b.Y"),
	)
	require.NoError(t, err)

	_, err = reg.Lookup("MigrateUserType")
	require.ErrorIs(t, err, recipe.ErrUnknownRecipe)
	assert.Contains(t, err.Error(), "did you mean test.pkg.MigrateUserType?")

	_, err = reg.Lookup("test.pkg.MigrateBoolenMappings")
	require.ErrorIs(t, err, recipe.ErrUnknownRecipe)
	assert.Contains(t, err.Error(), "did you mean test.pkg.MigrateBooleanMappings?")

	_, err = reg.Lookup("other.Thing")
	require.ErrorIs(t, err, recipe.ErrUnknownRecipe)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestRegistry_LoadDefinitions(t *testing.T) {
	t.Parallel()

	reg, err := recipe.NewRegistry(renameType("test.Leaf", "a.X", "b.X"))
	require.NoError(t, err)

	err = reg.LoadDefinitions([]byte(`recipes:
  - name: test.Outer
    displayName: Outer
    recipeList:
      - test.Inner
      - upgradeDependencyVersion:
          groupId: org.hibernate.orm
          artifactId: "*"
          newVersion: 6.2.x
  - name: test.Inner
    description: Inner group
    recipeList:
      - test.Leaf
`))
	require.NoError(t, err)

	outer, err := reg.Lookup("test.Outer")
	require.NoError(t, err)

	composite, ok := outer.(*recipe.Composite)
	require.True(t, ok)
	require.Len(t, composite.Steps, 2)
	assert.Equal(t, "test.Inner", composite.Steps[0].Name())
	assert.Equal(t, "upgradeDependencyVersion(artifactId=*, groupId=org.hibernate.orm, newVersion=6.2.x)",
		composite.Steps[1].Name())

	ext, ok := composite.Steps[1].(*recipe.External)
	require.True(t, ok)
	assert.Equal(t, "org.hibernate.orm", ext.Options["groupId"])
}

func TestRegistry_LoadDefinitionsErrors(t *testing.T) {
	t.Parallel()

	reg, err := recipe.NewRegistry()
	require.NoError(t, err)

	err = reg.LoadDefinitions([]byte("recipes:\n  - name: test.Missing\n    recipeList: [test.Nowhere]\n"))
	require.ErrorIs(t, err, recipe.ErrUnknownRecipe)

	err = reg.LoadDefinitions([]byte("recipes:\n  - name: NoDots\n    recipeList: [x.Y]\n"))
	require.ErrorIs(t, err, recipe.ErrInvalidDefinition)

	err = reg.LoadDefinitions([]byte("recipes:\n  - name: test.Empty\n    recipeList: []\n"))
	require.ErrorIs(t, err, recipe.ErrInvalidDefinition)

	err = reg.LoadDefinitions([]byte("recipes: [\n"))
	require.ErrorIs(t, err, recipe.ErrInvalidDefinition)
}
