package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Context_SetGet(t *testing.T) {
	assert := assert.New(t)

	var ctx Context
	_, ok := ctx.Get("missing")
	assert.False(ok)

	ctx.Set("key", 42)
	v, ok := ctx.Get("key")
	assert.True(ok)
	assert.Equal(42, v)
}

func Test_Context_AddMarker(t *testing.T) {
	assert := assert.New(t)

	var ctx Context
	m := New(1, 2, Info, "hello")
	ctx.AddMarker(m)
	assert.Equal([]*Marker{m}, ctx.Markers)
}

func Test_Context_Merge(t *testing.T) {
	assert := assert.New(t)

	child := &Context{Abort: true}
	child.AddMarker(New(0, 1, Error, "child error"))
	child.Styles.Add(0, 1, "keyword", 2)

	parent := &Context{}
	parent.AddMarker(New(5, 1, Warning, "parent warning"))
	parent.Merge(child)

	assert.Len(parent.Markers, 2)
	assert.True(parent.Abort)
	assert.Len(parent.Styles.Items(), 1)
}

func Test_Context_Merge_nilOther(t *testing.T) {
	assert := assert.New(t)

	parent := &Context{}
	parent.AddMarker(New(0, 1, Info, "only marker"))
	parent.Merge(nil)

	assert.Len(parent.Markers, 1)
	assert.False(parent.Abort)
}
