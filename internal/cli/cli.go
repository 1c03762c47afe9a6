// Package cli implements the canopy command-line interface.
//
// The commands load TOML scene descriptions (and TexturePacker atlases) and
// report what the scene graph core computes for them:
//   - bounds: global or local bounds of a node
//   - uvs: quad UVs of texture frames under their symmetries
//   - tree: the node tree with layer groups and composed colors
//   - instructions: the instruction sets built for each layer group
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
}

// New creates a CLI writing results to out and logs to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(errw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		out: out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "canopy",
		Short:        "Inspect canopy scene graphs",
		Long:         `canopy loads scene descriptions and reports bounds, texture UVs, layer groups and instruction sets computed by the canopy scene graph core.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			canopy.SetLogger(c.Logger)
			return nil
		},
	}
	root.SetOut(c.out)

	root.AddCommand(c.boundsCommand())
	root.AddCommand(c.uvsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.instructionsCommand())
	return root
}

// loadScene reads a scene file and mounts its tree under a fresh scene root.
func (c *CLI) loadScene(path string) (*canopy.Scene, *canopy.Node, error) {
	sf, err := canopy.LoadSceneFile(path)
	if err != nil {
		return nil, nil, err
	}
	top, err := sf.Build()
	if err != nil {
		return nil, nil, err
	}
	s := canopy.NewScene()
	s.Root().AddChild(top)
	c.Logger.Debug("loaded scene", "path", path, "frames", len(sf.Frames), "root", top.Name)
	return s, top, nil
}

// findNode returns the node called name under top (or top itself). An empty
// name selects top.
func findNode(top *canopy.Node, name string) (*canopy.Node, error) {
	if name == "" || top.Name == name {
		return top, nil
	}
	if n := top.FindChild(name); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("node %q not found", name)
}
