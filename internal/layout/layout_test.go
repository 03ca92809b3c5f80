package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTwoModules(t *testing.T) {
	g := Compute(2, 800, 600)

	assert.Equal(t, 1, g.Cols)
	assert.Equal(t, 2, g.Rows)
	require.Len(t, g.Cells, 2)
	for _, c := range g.Cells {
		assert.Equal(t, 800, c.Width)
		assert.Equal(t, 300, c.Height)
	}
	assert.Equal(t, 0, g.Cells[0].Row)
	assert.Equal(t, 1, g.Cells[1].Row)
	assert.False(t, g.Placeholder)
}

func TestComputeFourModules(t *testing.T) {
	g := Compute(4, 800, 600)

	assert.Equal(t, 2, g.Cols)
	assert.Equal(t, 2, g.Rows)
	require.Len(t, g.Cells, 4)
	for _, c := range g.Cells {
		assert.Equal(t, 400, c.Width)
		assert.Equal(t, 300, c.Height)
	}
}

func TestComputeRowMajorPlacement(t *testing.T) {
	g := Compute(5, 900, 900)

	require.Equal(t, 2, g.Cols)
	require.Equal(t, 3, g.Rows)
	require.Len(t, g.Cells, 5)

	want := []struct{ row, col int }{
		{0, 0}, {0, 1},
		{1, 0}, {1, 1},
		{2, 0},
	}
	for i, w := range want {
		assert.Equal(t, w.row, g.Cells[i].Row, "cell %d row", i)
		assert.Equal(t, w.col, g.Cells[i].Col, "cell %d col", i)
	}
}

func TestComputeSingleModule(t *testing.T) {
	g := Compute(1, 120, 40)

	assert.Equal(t, 1, g.Cols)
	assert.Equal(t, 1, g.Rows)
	require.Len(t, g.Cells, 1)
	assert.Equal(t, 120, g.Cells[0].Width)
	assert.Equal(t, 40, g.Cells[0].Height)
	assert.False(t, g.Placeholder)
}

func TestComputeEmpty(t *testing.T) {
	g := Compute(0, 120, 40)

	assert.True(t, g.Placeholder)
	require.Len(t, g.Cells, 1)
	assert.Equal(t, 120, g.Cells[0].Width)
	assert.Equal(t, 40, g.Cells[0].Height)
}

func TestComputeIntegerDivision(t *testing.T) {
	// 100 does not divide by 3; the remainder is dropped, not rounded.
	g := Compute(3, 101, 100)

	assert.Equal(t, 1, g.Cols)
	assert.Equal(t, 3, g.Rows)
	for _, c := range g.Cells {
		assert.Equal(t, 101, c.Width)
		assert.Equal(t, 33, c.Height)
	}
}

func TestComputeCellIndexes(t *testing.T) {
	g := Compute(6, 600, 600)
	for i, c := range g.Cells {
		assert.Equal(t, i, c.Index)
	}
}
