package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

func (c *CLI) uvsCommand() *cobra.Command {
	var frame string

	cmd := &cobra.Command{
		Use:   "uvs <atlas.json|scene.toml>",
		Short: "Print the quad UVs of texture frames",
		Long: `Print, for every frame of a TexturePacker atlas (.json) or of a scene
file's [[frames]] table (.toml), the symmetry and the four source-pixel
corners sampled by the destination quad in TL, TR, BR, BL order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layouts, err := c.loadLayouts(args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(layouts))
			for name := range layouts {
				names = append(names, name)
			}
			slices.Sort(names)
			if frame != "" {
				if _, ok := layouts[frame]; !ok {
					return fmt.Errorf("frame %q not found", frame)
				}
				names = []string{frame}
			}
			for _, name := range names {
				printUVs(cmd.OutOrStdout(), name, layouts[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&frame, "frame", "f", "", "only print this frame")
	return cmd
}

func (c *CLI) loadLayouts(path string) (map[string]*canopy.TextureLayout, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		atlas, err := canopy.LoadAtlas(data, nil)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded atlas", "path", path, "frames", atlas.Len())
		layouts := make(map[string]*canopy.TextureLayout, atlas.Len())
		for _, name := range atlas.Names() {
			layouts[name] = atlas.Layout(name)
		}
		return layouts, nil
	}

	sf, err := canopy.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	return sf.Layouts()
}

func printUVs(w io.Writer, name string, l *canopy.TextureLayout) {
	f := l.Frame()
	fmt.Fprintf(w, "%s %s frame=(%s,%s %sx%s) symmetry=%d\n",
		styleTitle.Render(name), styleDim.Render("›"),
		num(f.X), num(f.Y), num(f.Width), num(f.Height), l.Symmetry())
	uvs := l.UVs()
	for i, label := range []string{"TL", "TR", "BR", "BL"} {
		x, y := uvs.Corner(i)
		fmt.Fprintf(w, "  %s %s,%s\n", styleDim.Render(label), num(x), num(y))
	}
}
