package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatomesh/goscaffold/mesh"
	"github.com/anatomesh/goscaffold/refine"
	"github.com/anatomesh/goscaffold/scaffold"
)

func refinedBox(t *testing.T) *mesh.Mesh {
	t.Helper()
	source := scaffold.Box(scaffold.DefaultBoxOptions())
	source.AddMarker("centre point", 1, []float64{0.5, 0.5, 0.5}, []string{"centre point"})
	target := mesh.New()
	r := refine.New(refine.NewLinearSource(source), target)
	r.RefineAll(2, 2, 2)
	return target
}

func TestWriteVtk(t *testing.T) {
	m := refinedBox(t)
	var buf bytes.Buffer
	assert.NoError(t, WriteVtk(&buf, m, "refined box"))
	out := buf.String()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "# vtk DataFile Version 2.0", lines[0])
	assert.Equal(t, "refined box", lines[1])
	assert.Equal(t, "ASCII", lines[2])
	assert.Equal(t, "DATASET UNSTRUCTURED_GRID", lines[3])
	assert.Equal(t, "POINTS 27 double", lines[4])
	assert.Contains(t, out, "CELLS 8 72")
	assert.Contains(t, out, "CELL_TYPES 8")
	assert.Contains(t, out, "CELL_DATA 8")
	assert.Contains(t, out, "SCALARS box int 1")
	// marker point group becomes point data with a safe name
	assert.Contains(t, out, "POINT_DATA 27")
	assert.Contains(t, out, "SCALARS centre_point int 1")
	// every element is in group "box"
	assert.Contains(t, out, "1 1 1 1 1 1 1 1 ")
}

func TestWriteVtkMixedGroup(t *testing.T) {
	m := mesh.New()
	var corners [8]int
	c := 0
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				corners[c] = m.CreateNode([]float64{float64(i), float64(j), float64(k)})
				c++
			}
		}
	}
	eid := m.CreateElement(corners)
	g := m.Group("wall")
	g.Elements[eid] = true
	g.Nodes[corners[0]] = true
	var buf bytes.Buffer
	assert.NoError(t, WriteVtk(&buf, m, "mixed group"))
	out := buf.String()
	// a group holding both element and node ids appears in both sections
	assert.Equal(t, 2, strings.Count(out, "SCALARS wall int 1"))
	assert.Contains(t, out, "CELL_DATA 1")
	assert.Contains(t, out, "POINT_DATA 8")
}

func TestWriteVtkCellCorners(t *testing.T) {
	// a single unrefined cube: VTK permutation of the standard ordering
	m := scaffold.Box(scaffold.DefaultBoxOptions())
	var buf bytes.Buffer
	assert.NoError(t, WriteVtk(&buf, m, "box"))
	assert.Contains(t, buf.String(), "8 0 1 3 2 4 5 7 6")
}

func TestWriteMarkersCsv(t *testing.T) {
	m := refinedBox(t)
	var buf bytes.Buffer
	assert.NoError(t, WriteMarkersCsv(&buf, m))
	line := strings.TrimSpace(buf.String())
	assert.Equal(t, fmt.Sprintf("%g,%g,%g,centre point", 0.5, 0.5, 0.5), line)
}
