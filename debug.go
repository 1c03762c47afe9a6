package canopy

import (
	"fmt"
	"time"
)

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	buildTime        time.Duration
	executeTime      time.Duration
	groupCount       int
	instructionCount int
	drawCallCount    int
	vertexCount      int
}

// debugLog reports frame stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logger.Debug("frame",
		"build", stats.buildTime,
		"execute", stats.executeTime,
		"total", stats.buildTime+stats.executeTime)
	logger.Debug("frame counts",
		"groups", stats.groupCount,
		"instructions", stats.instructionCount,
		"drawCalls", stats.drawCallCount,
		"vertices", stats.vertexCount)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if the tree depth exceeds debugMaxTreeDepth.
func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "depth", depth, "max", debugMaxTreeDepth, "node", n.Name)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns if a node has more than debugMaxChildCount children.
func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "max", debugMaxChildCount)
	}
}

// countInstructions counts instructions in a group and all nested groups.
func countInstructions(g *LayerGroup) (groups, instructions int) {
	groups = 1
	instructions = g.instructions.Len()
	for _, c := range g.children {
		cg, ci := countInstructions(c)
		groups += cg
		instructions += ci
	}
	return groups, instructions
}
