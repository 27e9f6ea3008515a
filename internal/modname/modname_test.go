package modname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParent(t *testing.T) {
	p, err := Name("foo.bar.baz").Parent()
	require.NoError(t, err)
	assert.Equal(t, Name("foo.bar"), p)

	_, err = Name("foo").Parent()
	require.Error(t, err)
	var single ErrSingleComponent
	assert.ErrorAs(t, err, &single)
}

func TestRoot(t *testing.T) {
	assert.Equal(t, Name("foo"), Name("foo.bar.baz").Root())
	assert.Equal(t, Name("foo"), Name("foo").Root())
}

func TestIsDescendantOf(t *testing.T) {
	assert.True(t, Name("foo.bar.baz").IsDescendantOf("foo"))
	assert.True(t, Name("foo.bar.baz").IsDescendantOf("foo.bar"))
	assert.False(t, Name("foo.bar.baz").IsDescendantOf("foo.bar.baz"))
	assert.False(t, Name("foobar").IsDescendantOf("foo"))
	assert.False(t, Name("foo").IsDescendantOf("foo.bar"))
}

func TestIsChildOf(t *testing.T) {
	assert.True(t, Name("foo.bar").IsChildOf("foo"))
	assert.False(t, Name("foo.bar.baz").IsChildOf("foo"))
	assert.False(t, Name("foo").IsChildOf("foo"))
}

func TestTrimComponents(t *testing.T) {
	assert.Equal(t, Name("foo.bar"), Name("foo.bar.baz").TrimComponents(1))
	assert.Equal(t, Name("foo"), Name("foo.bar.baz").TrimComponents(2))
	assert.Equal(t, Name(""), Name("foo.bar.baz").TrimComponents(3))
	assert.Equal(t, Name(""), Name("foo.bar.baz").TrimComponents(10))
	assert.Equal(t, Name("foo.bar.baz"), Name("foo.bar.baz").TrimComponents(0))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, Name("foo.bar"), Name("foo").Join("bar"))
	assert.Equal(t, Name("bar"), Name("").Join("bar"))
}
