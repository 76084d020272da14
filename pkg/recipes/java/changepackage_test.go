package java_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/java"
)

func run(t *testing.T, r recipe.Recipe, src string) string {
	t.Helper()

	res, err := recipe.NewEngine(nil, nil).Run(context.Background(), r, "Book.java", []byte(src))
	require.NoError(t, err)

	return string(res.After)
}

func TestJavaxPersistenceToJakarta(t *testing.T) {
	t.Parallel()

	before := `package com.example;

import javax.persistence.Entity;
import javax.persistence.criteria.*;

import static javax.persistence.FetchType.LAZY;

@Entity
public class Book {
    @javax.persistence.Id
    private Long id;

    private javax.persistence.criteria.Order order;

    private Object fetch = javax.persistence.FetchType.EAGER;

    private String javaxName = "javax.persistence.Entity";
}
`
	after := `package com.example;

import jakarta.persistence.Entity;
import jakarta.persistence.criteria.*;

import static jakarta.persistence.FetchType.LAZY;

@Entity
public class Book {
    @jakarta.persistence.Id
    private Long id;

    private jakarta.persistence.criteria.Order order;

    private Object fetch = jakarta.persistence.FetchType.EAGER;

    private String javaxName = "javax.persistence.Entity";
}
`

	rule := java.JavaxPersistenceToJakarta()

	assert.Equal(t, after, run(t, rule, before))
	assert.Equal(t, after, run(t, rule, after))
}

func TestChangePackage_NonRecursive(t *testing.T) {
	t.Parallel()

	rule := java.NewChangePackage("test.Move", "javax.persistence", "jakarta.persistence", false)

	assert.Equal(t, `import jakarta.persistence.Entity;
import javax.persistence.criteria.Order;

class Book {
}
`, run(t, rule, `import javax.persistence.Entity;
import javax.persistence.criteria.Order;

class Book {
}
`))
}

func TestChangePackage_MovesOwnPackage(t *testing.T) {
	t.Parallel()

	rule := java.VladmihalceaToHypersistence()

	assert.Equal(t, `package io.hypersistence.utils.hibernate.type.custom;

class MoneyType {
}
`, run(t, rule, `package com.vladmihalcea.hibernate.type.custom;

class MoneyType {
}
`))
}

func TestChangePackage_Untouched(t *testing.T) {
	t.Parallel()

	src := `import javax.persistencex.Entity;
import jakarta.persistence.Id;

class Book {
}
`

	res, err := recipe.NewEngine(nil, nil).Run(context.Background(), java.JavaxPersistenceToJakarta(), "Book.java", []byte(src))
	require.NoError(t, err)
	assert.False(t, res.Changed())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	reg, err := recipe.NewRegistry()
	require.NoError(t, err)
	require.NoError(t, java.Register(reg))

	_, err = reg.Lookup(java.Prefix + "JavaxPersistenceToJakarta")
	require.NoError(t, err)
	_, err = reg.Lookup(java.Prefix + "VladmihalceaToHypersistence")
	require.NoError(t, err)
}
