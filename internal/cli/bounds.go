package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

func (c *CLI) boundsCommand() *cobra.Command {
	var (
		node  string
		local bool
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "bounds <scene.toml>",
		Short: "Print the bounds of a node in a scene file",
		Long: `Print the world-space bounds of a node's visible, measurable subtree,
including padding contributed by effects. With --local the subtree is measured
in the node's own coordinate space instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, top, err := c.loadScene(args[0])
			if err != nil {
				return err
			}
			target, err := findNode(top, node)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !all {
				fmt.Fprintln(w, formatBounds(target, local))
				return nil
			}
			var walk func(n *canopy.Node)
			walk = func(n *canopy.Node) {
				fmt.Fprintln(w, formatBounds(n, local))
				for _, ch := range n.Children() {
					walk(ch)
				}
			}
			walk(target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", "", "node to measure (default: scene root)")
	cmd.Flags().BoolVar(&local, "local", false, "measure in the node's local space")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also measure every descendant")
	return cmd
}

func formatBounds(n *canopy.Node, local bool) string {
	var r canopy.Rect
	if local {
		r = n.LocalBounds()
	} else {
		r = n.GlobalBounds(false)
	}
	return fmt.Sprintf("%s x=%s y=%s w=%s h=%s",
		styleName.Render(n.Name), num(r.X), num(r.Y), num(r.Width), num(r.Height))
}
