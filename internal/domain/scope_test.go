package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/mouse-blink/suspect/internal/model"
)

func TestScope_ChildDoesNotLeak(t *testing.T) {
	root := NewScope()
	root.Add("x", m.IntValue(1))

	child := root.Enter()

	value, ok := child.Value("x")
	assert.True(t, ok)
	assert.Equal(t, m.IntValue(1), value)

	child.Add("x", m.IntValue(2))
	child.Add("y", m.StringValue("local"))

	value, _ = root.Value("x")
	assert.Equal(t, m.IntValue(1), value)

	_, ok = root.Value("y")
	assert.False(t, ok)

	assert.Same(t, root, child.Exit())
}

func TestScope_ExitAtRoot(t *testing.T) {
	root := NewScope()

	assert.Same(t, root, root.Exit())
}

func TestScope_AllVarsSorted(t *testing.T) {
	s := NewScope()
	s.Add("b", m.IntValue(2))
	s.Add("a", m.IntValue(1))
	s.Add("b", m.IntValue(3))

	assert.Equal(t, []Var{
		{Name: "a", Value: m.IntValue(1)},
		{Name: "b", Value: m.IntValue(3)},
	}, s.AllVars())
}

func TestScope_Nil(t *testing.T) {
	var s *Scope

	_, ok := s.Value("x")
	assert.False(t, ok)
	assert.Nil(t, s.AllVars())
}
