package vexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vexpr "github.com/ForesightMiningSoftwareCorporation/vector-expr"
)

func TestStringInterner(t *testing.T) {
	si := vexpr.NewStringInterner()

	a := si.Intern("alpha")
	b := si.Intern("beta")
	assert.EqualValues(t, 0, a)
	assert.EqualValues(t, 1, b)
	assert.Equal(t, a, si.Intern("alpha"), "ids are stable")
	assert.Equal(t, 2, si.Len())

	s, ok := si.Lookup(b)
	assert.True(t, ok)
	assert.Equal(t, "beta", s)

	_, ok = si.Lookup(vexpr.StringID(99))
	assert.False(t, ok)
}
