package canopy

import "fmt"

// LayerPipe executes layer-group instructions: it scopes the group's global
// uniforms around the replay of the group's own instruction set.
type LayerPipe struct {
	pipes *Pipes
}

// NewLayerPipe creates a layer pipe dispatching nested instructions through
// pipes.
func NewLayerPipe(pipes *Pipes) *LayerPipe {
	return &LayerPipe{pipes: pipes}
}

// AddLayerGroup appends g to set. The open batch of set is closed first so
// that geometry before and after the group is never merged across it.
func (p *LayerPipe) AddLayerGroup(g *LayerGroup, set *InstructionSet) {
	p.pipes.Batch.Break(set)
	set.Add(g)
}

// Execute pushes the group's uniforms, replays its instructions and pops the
// uniforms again. The pop runs on every exit path, including a panicking
// sub-pipe.
func (p *LayerPipe) Execute(rc *RenderContext, inst Instruction) {
	g, ok := inst.(*LayerGroup)
	if !ok {
		panic(fmt.Sprintf("canopy: layer pipe cannot execute %T", inst))
	}
	rc.Uniforms.Push(GlobalUniforms{
		Projection:     rc.Projection(),
		WorldTransform: g.WorldTransform(),
		WorldColor:     g.WorldColor(),
	})
	defer rc.Uniforms.Pop()

	rc.Stats.Groups++
	executeInstructions(rc, &g.instructions, p.pipes)
}
