/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/anatomesh/goscaffold/export"
	"github.com/anatomesh/goscaffold/mesh"
	"github.com/anatomesh/goscaffold/refine"
	"github.com/anatomesh/goscaffold/scaffold"
)

// RefineParameters are obtained from the YAML input file.
type RefineParameters struct {
	Title                string                       `yaml:"Title"`
	Scaffold             string                       `yaml:"Scaffold"` // box, sphereshell or tube
	Box                  scaffold.BoxOptions          `yaml:"Box"`
	SphereShell          scaffold.SphereShellOptions  `yaml:"SphereShell"`
	Tube                 scaffold.TubeOptions         `yaml:"Tube"`
	RefineElementsCount1 int                          `yaml:"RefineElementsCount1"`
	RefineElementsCount2 int                          `yaml:"RefineElementsCount2"`
	RefineElementsCount3 int                          `yaml:"RefineElementsCount3"`
}

// DefaultRefineParameters returns parameters for a once-refined unit box.
func DefaultRefineParameters() RefineParameters {
	return RefineParameters{
		Title:                "scaffold refinement",
		Scaffold:             "box",
		Box:                  scaffold.DefaultBoxOptions(),
		SphereShell:          scaffold.DefaultSphereShellOptions(),
		Tube:                 scaffold.DefaultTubeOptions(),
		RefineElementsCount1: 1,
		RefineElementsCount2: 1,
		RefineElementsCount3: 1,
	}
}

func (rp *RefineParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RefineParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t\t= Scaffold\n", rp.Scaffold)
	fmt.Printf("[%d %d %d]\t\t\t= Refine Elements Count\n",
		rp.RefineElementsCount1, rp.RefineElementsCount2, rp.RefineElementsCount3)
}

// BuildScaffold generates the coarse scaffold named by the parameters.
func (rp *RefineParameters) BuildScaffold() (*mesh.Mesh, error) {
	switch strings.ToLower(rp.Scaffold) {
	case "box":
		return scaffold.Box(rp.Box), nil
	case "sphereshell":
		return scaffold.SphereShell(rp.SphereShell), nil
	case "tube":
		return scaffold.Tube(rp.Tube), nil
	default:
		return nil, fmt.Errorf("unknown scaffold type: %s", rp.Scaffold)
	}
}

// refineCmd represents the refine command
var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Generate a scaffold, refine it and write the result as VTK",
	Long: `Generate a parameterised scaffold from a YAML parameters file, refine
it into a conforming fine mesh and write the result in legacy vtk format.`,
	Run: func(cmd *cobra.Command, args []string) {
		paramFile, _ := cmd.Flags().GetString("input")
		outFile, _ := cmd.Flags().GetString("output")
		enableProfile, _ := cmd.Flags().GetBool("profile")
		if enableProfile {
			defer profile.Start().Stop()
		}

		rp := DefaultRefineParameters()
		if len(paramFile) != 0 {
			data, err := ioutil.ReadFile(paramFile)
			if err != nil {
				fmt.Printf("Error '%v' reading parameters file: %s\n", err, paramFile)
				os.Exit(1)
			}
			if err = rp.Parse(data); err != nil {
				fmt.Printf("Error '%v' parsing parameters file: %s\n", err, paramFile)
				os.Exit(1)
			}
		}
		rp.Print()

		if err := runRefine(&rp, outFile); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func runRefine(rp *RefineParameters, outFile string) error {
	source, err := rp.BuildScaffold()
	if err != nil {
		return err
	}
	fmt.Printf("Source mesh: %d nodes, %d elements\n",
		source.NodeCount(), source.ElementCount())

	target := mesh.New()
	r := refine.New(refine.NewLinearSource(source), target)
	r.RefineAll(rp.RefineElementsCount1, rp.RefineElementsCount2, rp.RefineElementsCount3)
	fmt.Printf("Refined mesh: %d nodes, %d elements, %d edges, tolerance %.3g\n",
		target.NodeCount(), target.ElementCount(),
		target.NodeAdjacency().NNZ()/2, r.Tolerance())

	names := make([]string, 0, len(target.Groups))
	for name := range target.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		group := target.Groups[name]
		fmt.Printf("Group[%s] = %d elements, %d nodes\n",
			name, len(group.Elements), len(group.Nodes))
	}
	for _, marker := range target.Markers {
		fmt.Printf("Marker[%s] in element %d at xi %v\n",
			marker.Name, marker.Element, marker.Xi)
	}
	if err = target.CheckConforming(r.Tolerance()); err != nil {
		return fmt.Errorf("refinement aborted: %v", err)
	}
	if len(outFile) != 0 {
		if err = export.WriteVtkFile(outFile, target, rp.Title); err != nil {
			return err
		}
		fmt.Println("Wrote", outFile)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringP("input", "i", "", "YAML parameters file")
	refineCmd.Flags().StringP("output", "o", "", "output VTK file")
	refineCmd.Flags().Bool("profile", false, "write a CPU profile")
}
