package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// countingSurface records draw calls without drawing.
type countingSurface struct {
	calls    int
	vertices int
	indices  int
}

func (s *countingSurface) DrawTriangles32(vertices []ebiten.Vertex, indices []uint32, _ *ebiten.Image, _ *ebiten.DrawTrianglesOptions) {
	s.calls++
	s.vertices += len(vertices)
	s.indices += len(indices)
}

// placeholderTexture stands in for the white texture. The counting surface
// never samples it.
var placeholderTexture = new(ebiten.Image)

func (c *CLI) instructionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instructions <scene.toml>",
		Short: "Print the instruction sets built for each layer group",
		Long: `Build the instruction sets of a scene file and print them per layer group:
batches with their blend mode and geometry, and nested groups with their world
color. The sets are then executed against a counting surface to report draw
calls.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			s.Pipes().Batch.White = placeholderTexture

			var surface countingSurface
			stats := s.Draw(&surface)

			w := cmd.OutOrStdout()
			printGroup(w, s.RootGroup(), 0)
			fmt.Fprintf(w, "%s groups=%d drawCalls=%d vertices=%d\n",
				styleTitle.Render("total"), stats.Groups, stats.DrawCalls, stats.Vertices)
			return nil
		},
	}
}

func printGroup(w io.Writer, g *canopy.LayerGroup, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s\n", indent,
		styleLayer.Render("layer "+g.Root().Name), styleDim.Render(hexColor(g.WorldColor())))
	for _, inst := range g.Instructions().Instructions() {
		switch v := inst.(type) {
		case *canopy.Batch:
			fmt.Fprintf(w, "%s  batch blend=%s vertices=%d triangles=%d\n",
				indent, v.Blend(), len(v.Vertices()), len(v.Indices())/3)
		case *canopy.LayerGroup:
			printGroup(w, v, depth+1)
		default:
			fmt.Fprintf(w, "%s  %s\n", indent, inst.PipeID())
		}
	}
}
