package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monkeylang/monkey/objects"
)

// TestScope_BindAndLookUp covers binding, outward lookup, shadowing, and
// rebinding in the current frame.
func TestScope_BindAndLookUp(t *testing.T) {
	global := NewScope(nil)
	global.Bind("a", &objects.Integer{Value: 1})

	obj, ok := global.LookUp("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), obj.(*objects.Integer).Value)

	_, ok = global.LookUp("missing")
	assert.False(t, ok)

	// inner scope reads through to the outer one
	inner := NewScope(global)
	obj, ok = inner.LookUp("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), obj.(*objects.Integer).Value)

	// a binding in the inner scope shadows without touching the outer one
	inner.Bind("a", &objects.Integer{Value: 2})
	obj, _ = inner.LookUp("a")
	assert.Equal(t, int64(2), obj.(*objects.Integer).Value)
	obj, _ = global.LookUp("a")
	assert.Equal(t, int64(1), obj.(*objects.Integer).Value)

	// rebinding replaces in place
	global.Bind("a", &objects.Integer{Value: 3})
	obj, _ = global.LookUp("a")
	assert.Equal(t, int64(3), obj.(*objects.Integer).Value)
}

// TestScope_DeepChain walks lookups across several levels.
func TestScope_DeepChain(t *testing.T) {
	root := NewScope(nil)
	root.Bind("x", &objects.String{Value: "root"})

	s := root
	for i := 0; i < 5; i++ {
		s = NewScope(s)
	}

	obj, ok := s.LookUp("x")
	assert.True(t, ok)
	assert.Equal(t, "root", obj.(*objects.String).Value)
}
