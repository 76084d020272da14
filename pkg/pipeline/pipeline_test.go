package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/pipeline"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/hibernate"
)

const generatedValueBefore = `package com.example;

import jakarta.persistence.GeneratedValue;

public class Order {
    @GeneratedValue
    private Long sequence;
}
`

const generatedValueAfter = `package com.example;

public class Order {
    private Long sequence;
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func rels(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))

	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func TestDiscover_FiltersFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/main/java/com/example/Order.java":   "class Order {}\n",
		"src/main/java/com/example/Book.java":    "class Book {}\n",
		"src/main/resources/application.yaml":    "spring: {}\n",
		"vendor/com/acme/Lib.java":               "class Lib {}\n",
		"node_modules/pkg/Gen.java":              "class Gen {}\n",
		"build/generated/Stub.java":              "class Stub {}\n",
		"src/test/java/com/example/OrderIT.java": "class OrderIT {}\n",
	})

	files, err := pipeline.Discover([]string{root}, pipeline.Filter{Exclude: []string{"build/**"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src/main/java/com/example/Book.java",
		"src/main/java/com/example/Order.java",
		"src/test/java/com/example/OrderIT.java",
	}, rels(t, root, files))

	files, err = pipeline.Discover([]string{root}, pipeline.Filter{Include: []string{"src/main/**"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src/main/java/com/example/Book.java",
		"src/main/java/com/example/Order.java",
	}, rels(t, root, files))
}

func TestDiscover_FileArgumentsAndDuplicates(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"Order.java": "class Order {}\n", "notes.txt": "x"})
	order := filepath.Join(root, "Order.java")

	files, err := pipeline.Discover([]string{order, root, filepath.Join(root, "notes.txt")}, pipeline.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{order}, files)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Discover([]string{filepath.Join(t.TempDir(), "missing")}, pipeline.Filter{})
	require.Error(t, err)

	_, err = pipeline.Discover([]string{t.TempDir()}, pipeline.Filter{Include: []string{"src/["}})
	require.ErrorIs(t, err, pipeline.ErrInvalidPattern)
}

func TestRunner_RewritesAndSummarizes(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a/Order.java":  generatedValueBefore,
		"b/Plain.java":  "class Plain {\n}\n",
		"c/Broken.java": "class Broken {\n",
	})

	runner := &pipeline.Runner{}

	summary, err := runner.Run(context.Background(), hibernate.NewRemoveInvalidHibernateGeneratedValueAnnotation(),
		pipeline.Options{Paths: []string{root}, Workers: 2})
	require.NoError(t, err)

	require.Len(t, summary.Files, 3)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, map[string]int{hibernate.Prefix + "RemoveInvalidHibernateGeneratedValueAnnotation": 1}, summary.RecipeChanges)
	assert.Equal(t, int64(len(generatedValueBefore)+len("class Plain {\n}\n")+len("class Broken {\n")), summary.BytesScanned)

	assert.Equal(t, int64(8+2+1), summary.LinesScanned)

	failures := summary.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, filepath.Join(root, "c", "Broken.java"), failures[0].Path)
	require.ErrorIs(t, failures[0].Err, recipe.ErrSyntax)
	assert.NotEmpty(t, failures[0].Error)

	data, err := os.ReadFile(filepath.Join(root, "a", "Order.java"))
	require.NoError(t, err)
	assert.Equal(t, generatedValueAfter, string(data))
}

func TestRunner_BinaryContentFails(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"Blob.java": "\xca\xfe\xba\xbe\x00\x00"})

	summary, err := (&pipeline.Runner{}).Run(context.Background(), hibernate.NewMigrateUserType(),
		pipeline.Options{Paths: []string{root}})
	require.NoError(t, err)

	require.Len(t, summary.Files, 1)
	require.ErrorIs(t, summary.Files[0].Err, pipeline.ErrBinaryContent)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunner_DryRunLeavesFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"Order.java": generatedValueBefore})

	summary, err := (&pipeline.Runner{}).Run(context.Background(),
		hibernate.NewRemoveInvalidHibernateGeneratedValueAnnotation(),
		pipeline.Options{Paths: []string{root}, DryRun: true})
	require.NoError(t, err)

	require.Len(t, summary.Files, 1)
	assert.True(t, summary.Files[0].Changed)
	assert.Equal(t, generatedValueAfter, string(summary.Files[0].After))

	data, err := os.ReadFile(filepath.Join(root, "Order.java"))
	require.NoError(t, err)
	assert.Equal(t, generatedValueBefore, string(data))
}

func TestRunner_ReportsSkippedExternalSteps(t *testing.T) {
	t.Parallel()

	bump := &recipe.External{Info: recipe.Info{ID: "upgradeDependencyVersion(newVersion=6.2.x)"}, Kind: "upgradeDependencyVersion"}
	composite := &recipe.Composite{
		Info:  recipe.Info{ID: "test.Migrate"},
		Steps: []recipe.Recipe{bump, hibernate.NewMigrateBooleanMappings(), bump},
	}

	summary, err := (&pipeline.Runner{}).Run(context.Background(), composite,
		pipeline.Options{Paths: []string{writeTree(t, map[string]string{"A.java": "class A {\n}\n"})}})
	require.NoError(t, err)

	assert.Equal(t, []string{"upgradeDependencyVersion(newVersion=6.2.x)"}, summary.Skipped)
	assert.Zero(t, summary.Changed)
}

func TestRunner_InvalidWorkers(t *testing.T) {
	t.Parallel()

	_, err := (&pipeline.Runner{}).Run(context.Background(), hibernate.NewMigrateUserType(),
		pipeline.Options{Paths: []string{t.TempDir()}, Workers: -1})
	require.ErrorIs(t, err, pipeline.ErrInvalidWorkers)
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := writeTree(t, map[string]string{"Order.java": generatedValueBefore})

	_, err := (&pipeline.Runner{}).Run(ctx, hibernate.NewRemoveInvalidHibernateGeneratedValueAnnotation(),
		pipeline.Options{Paths: []string{root}})
	require.ErrorIs(t, err, context.Canceled)
}
