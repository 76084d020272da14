package jast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

func TestCursor_Messages(t *testing.T) {
	t.Parallel()

	root := jast.NewCursor(&jast.Node{Kind: jast.KindProgram})
	class := root.Push(&jast.Node{Kind: jast.KindClassDeclaration})
	method := class.Push(&jast.Node{Kind: jast.KindMethodDeclaration})

	require.True(t, method.PutMessageOnFirstEnclosing(jast.KindClassDeclaration, "type", "Money"))

	got, ok := jast.NearestMessageAs[string](method, "type")
	require.True(t, ok)
	assert.Equal(t, "Money", got)

	_, ok = method.Message("type")
	assert.False(t, ok)

	_, ok = root.NearestMessage("type")
	assert.False(t, ok)

	polled, ok := class.PollMessage("type")
	require.True(t, ok)
	assert.Equal(t, "Money", polled)

	_, ok = method.NearestMessage("type")
	assert.False(t, ok)

	assert.False(t, method.PutMessageOnFirstEnclosing(jast.KindFieldDeclaration, "k", 1))
}

func TestCursor_MessageAsWrongType(t *testing.T) {
	t.Parallel()

	c := jast.NewCursor(&jast.Node{Kind: jast.KindProgram})
	c.PutMessage("n", 3)

	_, ok := jast.MessageAs[string](c, "n")
	assert.False(t, ok)

	n, ok := jast.MessageAs[int](c, "n")
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestInspect_VisitsAnnotationsInSourceOrder(t *testing.T) {
	t.Parallel()

	file := parse(t, `class A {
    @OneToMany @ManyToOne @ElementCollection
    java.util.List<String> items;
}`)

	var names []string

	jast.Inspect(file.Root, func(c *jast.Cursor) bool {
		if jast.IsAnnotation(c.Node()) {
			names = append(names, file.AnnotationName(c.Node()))
		}

		return true
	}, nil)

	assert.Equal(t, []string{"OneToMany", "ManyToOne", "ElementCollection"}, names)
}

func TestInspect_LeaveAndSkip(t *testing.T) {
	t.Parallel()

	file := parse(t, "class A { void m() { int x = 1; } }")

	var entered, left int

	jast.Inspect(file.Root, func(c *jast.Cursor) bool {
		entered++

		return !c.Node().Is(jast.KindMethodDeclaration)
	}, func(c *jast.Cursor) {
		left++

		assert.False(t, c.Node().Is(jast.KindMethodDeclaration))
	})

	assert.Positive(t, entered)
	assert.Equal(t, entered-1, left)
}
