package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

func (c *CLI) treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <scene.toml>",
		Short: "Print the node tree with layer groups and colors",
		Long: `Print the node tree of a scene file after a layer update. Group roots are
marked with their world color; every node shows its alpha and its layer
color, composed up to the enclosing group root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, top, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			s.Update(0)
			printTree(cmd.OutOrStdout(), top, 0)
			return nil
		},
	}
}

func printTree(w io.Writer, n *canopy.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(styleName.Render(n.Name))
	if g := n.LayerGroup(); g != nil {
		b.WriteString(" " + styleLayer.Render("[layer "+hexColor(g.WorldColor())+"]"))
	}
	fmt.Fprintf(&b, " alpha=%s color=%s", num(n.Alpha()), hexColor(n.LayerColor()))
	if !n.Visible {
		b.WriteString(" " + styleDim.Render("hidden"))
	}
	fmt.Fprintln(w, b.String())
	for _, ch := range n.Children() {
		printTree(w, ch, depth+1)
	}
}
