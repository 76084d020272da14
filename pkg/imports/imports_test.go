package imports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/imports"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

func reconcile(t *testing.T, src string, plan imports.Plan) string {
	t.Helper()

	file, err := jast.NewParser().Parse(context.Background(), "A.java", []byte(src))
	require.NoError(t, err)

	out, err := imports.Reconcile(file, nil, plan)
	require.NoError(t, err)

	return string(out)
}

func TestPlan_AddImport(t *testing.T) {
	t.Parallel()

	var plan imports.Plan

	assert.True(t, plan.Empty())

	plan.AddImport("com.acme.Foo", true)
	plan.AddImport("com.acme.Foo", false)
	plan.AddImport("com.acme.Foo", true)
	plan.RemoveImport("com.acme.Bar")
	plan.RemoveImport("com.acme.Bar")

	require.Len(t, plan.Add, 1)
	assert.False(t, plan.Add[0].OnlyIfReferenced)
	assert.Equal(t, []string{"com.acme.Bar"}, plan.Remove)
	assert.False(t, plan.Empty())
}

func TestReconcile_AddSortedAndRemoveUnused(t *testing.T) {
	t.Parallel()

	src := `package com.example;

import jakarta.persistence.Column;
import org.hibernate.annotations.Type;

class A {
    @Column
    @Convert(converter = TrueFalseConverter.class)
    boolean b;
}
`

	var plan imports.Plan

	plan.AddImport("org.hibernate.type.TrueFalseConverter", false)
	plan.AddImport("jakarta.persistence.Convert", false)
	plan.RemoveImport("org.hibernate.annotations.Type")

	assert.Equal(t, `package com.example;

import jakarta.persistence.Column;
import jakarta.persistence.Convert;
import org.hibernate.type.TrueFalseConverter;

class A {
    @Column
    @Convert(converter = TrueFalseConverter.class)
    boolean b;
}
`, reconcile(t, src, plan))
}

func TestReconcile_NoExistingImports(t *testing.T) {
	t.Parallel()

	var plan imports.Plan

	plan.AddImport("com.acme.Foo", false)

	assert.Equal(t, "package com.example;\n\nimport com.acme.Foo;\n\nclass A {\n    Foo f;\n}\n",
		reconcile(t, "package com.example;\n\nclass A {\n    Foo f;\n}\n", plan))

	assert.Equal(t, "import com.acme.Foo;\n\nclass A {\n    Foo f;\n}\n",
		reconcile(t, "class A {\n    Foo f;\n}\n", plan))
}

func TestReconcile_SkippedAdditions(t *testing.T) {
	t.Parallel()

	src := `package com.example;

import com.acme.Foo;
import org.other.Bar;

class A {
    Foo f;
    Bar b;
    class Inner {}
}
`

	var plan imports.Plan

	plan.AddImport("java.lang.String", false)
	plan.AddImport("com.example.Sibling", false)
	plan.AddImport("com.acme.Foo", false)
	plan.AddImport("com.acme.Unused", true)
	plan.AddImport("com.acme.Bar", false)
	plan.AddImport("com.acme.Inner", false)

	assert.Equal(t, src, reconcile(t, src, plan))
}

func TestReconcile_KeepsReferencedImport(t *testing.T) {
	t.Parallel()

	src := `import org.hibernate.annotations.Type;

class A {
    @Type(type = "x")
    String s;
}
`

	var plan imports.Plan

	plan.RemoveImport("org.hibernate.annotations.Type")

	assert.Equal(t, src, reconcile(t, src, plan))
}

func TestReconcile_RemovesEmptiedBlock(t *testing.T) {
	t.Parallel()

	src := `package p;

import java.util.List;

import org.hibernate.annotations.LazyCollection;

class A {
    List<String> l;
}
`

	var plan imports.Plan

	plan.RemoveImport("org.hibernate.annotations.LazyCollection")

	assert.Equal(t, `package p;

import java.util.List;

class A {
    List<String> l;
}
`, reconcile(t, src, plan))

	topOfFile := "import org.hibernate.annotations.LazyCollection;\n\nclass A {\n}\n"
	assert.Equal(t, "class A {\n}\n", reconcile(t, topOfFile, plan))
}

func TestReconcile_Wildcards(t *testing.T) {
	t.Parallel()

	var plan imports.Plan

	plan.RemoveImport("org.hibernate.annotations.LazyCollection")

	unused := "package p;\n\nimport org.hibernate.annotations.*;\n\nclass A {\n    String s;\n}\n"
	assert.Equal(t, "package p;\n\nclass A {\n    String s;\n}\n", reconcile(t, unused, plan))

	used := "package p;\n\nimport org.hibernate.annotations.*;\n\nclass A {\n    @Cascade\n    String s;\n}\n"
	assert.Equal(t, used, reconcile(t, used, plan))

	var add imports.Plan

	add.AddImport("org.hibernate.annotations.Type", false)
	assert.Equal(t, used, reconcile(t, used, add))
}

func TestReconcile_StaticMemberImport(t *testing.T) {
	t.Parallel()

	src := `import java.util.List;
import static org.hibernate.annotations.LazyCollectionOption.FALSE;

class A {
    List<String> l;
}
`

	var plan imports.Plan

	plan.RemoveImport("org.hibernate.annotations.LazyCollectionOption")

	assert.Equal(t, "import java.util.List;\n\nclass A {\n    List<String> l;\n}\n", reconcile(t, src, plan))
}

func TestReconcile_BestBlock(t *testing.T) {
	t.Parallel()

	src := `import jakarta.persistence.Entity;

import org.hibernate.annotations.Cascade;
import org.hibernate.annotations.Where;

class A {
    @JdbcTypeCode(1)
    String s;
}
`

	var plan imports.Plan

	plan.AddImport("org.hibernate.annotations.JdbcTypeCode", true)

	assert.Equal(t, `import jakarta.persistence.Entity;

import org.hibernate.annotations.Cascade;
import org.hibernate.annotations.JdbcTypeCode;
import org.hibernate.annotations.Where;

class A {
    @JdbcTypeCode(1)
    String s;
}
`, reconcile(t, src, plan))
}

func TestReferencedNames(t *testing.T) {
	t.Parallel()

	file, err := jast.NewParser().Parse(context.Background(), "A.java", []byte(`import com.acme.Unused;

class A extends Base {
    @Column(name = "x")
    private java.util.List<Item> items;

    String run(Query query) {
        return StandardBasicTypes.STRING.getName() + helper(query);
    }
}
`))
	require.NoError(t, err)

	refs := imports.ReferencedNames(file)

	for _, name := range []string{"Base", "Column", "java", "Item", "String", "Query", "StandardBasicTypes", "query"} {
		assert.True(t, refs[name], name)
	}

	for _, name := range []string{"Unused", "A", "items", "run", "name", "STRING", "getName", "helper"} {
		assert.False(t, refs[name], name)
	}
}
