package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	base := NewBuilder("c", "op").Session("s").Position(1).Times(1, 2, 3, 3).OK("").Build()

	assert.Empty(t, Diff(base, base.Clone()))
	assert.True(t, base.Equal(base.Clone()))

	other := base.Clone()
	other.Position = 2
	other.Path = "cached"
	other.System.Threads = 4
	assert.Equal(t, []string{"pos", "path", "sys"}, Diff(base, other))

	assert.Nil(t, Diff(nil, nil))
	assert.Equal(t, []string{"*"}, Diff(base, nil))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("cat", "op").Parent("cat").Description("d").Limit(5).Iterations(1, 2)
	first := b.Build()
	b.Put("k", "v")
	second := b.Build()

	assert.Equal(t, "cat/op", first.FullID())
	assert.Equal(t, "cat", first.Parent)
	assert.Equal(t, int64(5), first.TimeLimit)
	assert.Equal(t, int64(2), first.ExpectedIterations)
	assert.True(t, first.Context.IsZero())
	assert.Equal(t, 1, second.Context.Len())
}
