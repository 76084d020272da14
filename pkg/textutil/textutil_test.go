package textutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/textutil"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	assert.False(t, textutil.IsBinary(nil))
	assert.False(t, textutil.IsBinary([]byte("class A {}\n")))
	assert.True(t, textutil.IsBinary([]byte("\xca\xfe\xba\xbe\x00\x00\x00\x34")))

	late := append(bytes.Repeat([]byte("a"), 8000), 0)
	assert.False(t, textutil.IsBinary(late))
	assert.True(t, textutil.IsBinary(late[1:]))
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Zero(t, textutil.CountLines(nil))
	assert.Equal(t, 1, textutil.CountLines([]byte("class A {}")))
	assert.Equal(t, 2, textutil.CountLines([]byte("class A {\n}\n")))
	assert.Equal(t, 3, textutil.CountLines([]byte("\n\nx")))
}
