// Package export writes refined meshes to legacy vtk text format for
// visualisation. Limited to 3-D hexahedral elements.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anatomesh/goscaffold/mesh"
	"github.com/anatomesh/goscaffold/refine"
)

// vtkIndexing permutes the standard hexahedron corner ordering into the
// VTK_HEXAHEDRON ordering.
var vtkIndexing = [8]int{0, 1, 3, 2, 4, 5, 7, 6}

// WriteVtk writes m as an ASCII legacy vtk unstructured grid. description
// is a single line of up to 256 characters. Marker points are excluded;
// groups become 0/1 cell and point scalars.
func WriteVtk(w io.Writer, m *mesh.Mesh, description string) error {
	if _, err := fmt.Fprintf(w, "# vtk DataFile Version 2.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n",
		description); err != nil {
		return err
	}

	// vtk points are zero index based, so map node identifiers to indices
	nodeIDs := m.NodeIDs()
	nodeIndex := make(map[int]int, len(nodeIDs))
	fmt.Fprintf(w, "POINTS %d double\n", len(nodeIDs))
	for index, id := range nodeIDs {
		nodeIndex[id] = index
		x := m.Coordinates[id]
		fmt.Fprintf(w, "%g %g %g\n", x[0], x[1], x[2])
	}

	elementIDs := m.ElementIDs()
	fmt.Fprintf(w, "CELLS %d %d\n", len(elementIDs), 9*len(elementIDs))
	for _, eid := range elementIDs {
		corners := m.Elements[eid]
		fmt.Fprint(w, "8")
		for _, localIndex := range vtkIndexing {
			fmt.Fprintf(w, " %d", nodeIndex[corners[localIndex]])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "CELL_TYPES %d\n", len(elementIDs))
	cellTypes := make([]string, len(elementIDs))
	for i := range cellTypes {
		cellTypes[i] = "12"
	}
	fmt.Fprintln(w, strings.Join(cellTypes, " "))

	// a group may hold both element and node ids; emit it in both sections
	var cellGroups, pointGroups []string
	for name, group := range m.Groups {
		if len(group.Elements) > 0 {
			cellGroups = append(cellGroups, name)
		}
		if len(group.Nodes) > 0 {
			pointGroups = append(pointGroups, name)
		}
	}
	sort.Strings(cellGroups)
	sort.Strings(pointGroups)

	if len(cellGroups) > 0 {
		fmt.Fprintf(w, "CELL_DATA %d\n", len(elementIDs))
		for _, name := range cellGroups {
			group := m.Groups[name]
			fmt.Fprintf(w, "SCALARS %s int 1\nLOOKUP_TABLE default\n", safeName(name))
			for _, eid := range elementIDs {
				if group.Elements[eid] {
					fmt.Fprint(w, "1 ")
				} else {
					fmt.Fprint(w, "0 ")
				}
			}
			fmt.Fprintln(w)
		}
	}
	if len(pointGroups) > 0 {
		fmt.Fprintf(w, "POINT_DATA %d\n", len(nodeIDs))
		for _, name := range pointGroups {
			group := m.Groups[name]
			fmt.Fprintf(w, "SCALARS %s int 1\nLOOKUP_TABLE default\n", safeName(name))
			for _, id := range nodeIDs {
				if group.Nodes[id] {
					fmt.Fprint(w, "1 ")
				} else {
					fmt.Fprint(w, "0 ")
				}
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func safeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// WriteMarkersCsv writes marker names and world coordinates, evaluating
// each marker's location inside its element by trilinear interpolation.
func WriteMarkersCsv(w io.Writer, m *mesh.Mesh) error {
	if len(m.Markers) == 0 {
		return nil
	}
	source := refine.NewLinearSource(m)
	// markers reference element identifiers; map them to source ordinals
	ordinals := make(map[int]int)
	for ordinal, eid := range m.ElementIDs() {
		ordinals[eid] = ordinal + 1
	}
	for _, marker := range m.Markers {
		x := source.Evaluate(ordinals[marker.Element], marker.Xi)
		if _, err := fmt.Fprintf(w, "%g,%g,%g,%s\n", x[0], x[1], x[2], marker.Name); err != nil {
			return err
		}
	}
	return nil
}

// WriteVtkFile writes the mesh to filename, and markers, if any, to a
// companion "_marker.csv" file alongside it.
func WriteVtkFile(filename string, m *mesh.Mesh, description string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = WriteVtk(f, m, description); err != nil {
		return err
	}
	if len(m.Markers) > 0 {
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		mf, err := os.Create(base + "_marker.csv")
		if err != nil {
			return err
		}
		defer mf.Close()
		return WriteMarkersCsv(mf, m)
	}
	return nil
}
