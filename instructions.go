package canopy

import "fmt"

// Pipe identifiers used by the built-in instructions.
const (
	PipeBatch = "batch"
	PipeLayer = "layer"
)

// Instruction is an entry of an InstructionSet. PipeID names the pipe that
// executes it.
type Instruction interface {
	PipeID() string
}

// InstructionPipe executes instructions of one kind against a render context.
type InstructionPipe interface {
	Execute(rc *RenderContext, inst Instruction)
}

// InstructionSet is the ordered list of instructions a layer group replays
// each frame.
type InstructionSet struct {
	instructions []Instruction

	// open is the batch still accepting geometry; owned by BatchPipe.
	open *Batch
}

// Add appends inst.
func (s *InstructionSet) Add(inst Instruction) {
	s.instructions = append(s.instructions, inst)
}

// Reset empties the set, keeping its capacity.
func (s *InstructionSet) Reset() {
	clear(s.instructions)
	s.instructions = s.instructions[:0]
	s.open = nil
}

// Len returns the number of instructions.
func (s *InstructionSet) Len() int {
	return len(s.instructions)
}

// At returns the i-th instruction.
func (s *InstructionSet) At(i int) Instruction {
	return s.instructions[i]
}

// Instructions returns the instruction list. The returned slice MUST NOT be
// mutated by the caller.
func (s *InstructionSet) Instructions() []Instruction {
	return s.instructions
}

// --- Pipes ---

// Pipes is the registry of instruction pipes. Batch and Layer are always
// registered; extra pipes can be added with Register.
type Pipes struct {
	Batch *BatchPipe
	Layer *LayerPipe

	byID map[string]InstructionPipe
}

// NewPipes creates a registry holding the built-in batch and layer pipes.
func NewPipes() *Pipes {
	p := &Pipes{byID: make(map[string]InstructionPipe)}
	p.Batch = NewBatchPipe()
	p.Layer = NewLayerPipe(p)
	p.byID[PipeBatch] = p.Batch
	p.byID[PipeLayer] = p.Layer
	return p
}

// Register adds or replaces the pipe for id.
func (p *Pipes) Register(id string, pipe InstructionPipe) {
	if pipe == nil {
		panic("canopy: cannot register nil pipe")
	}
	p.byID[id] = pipe
}

// Lookup returns the pipe registered for id, or nil.
func (p *Pipes) Lookup(id string) InstructionPipe {
	return p.byID[id]
}

// executeInstructions replays set in order, dispatching each instruction to
// its pipe. An instruction with no registered pipe is a programming error.
func executeInstructions(rc *RenderContext, set *InstructionSet, pipes *Pipes) {
	for _, inst := range set.instructions {
		pipe := pipes.byID[inst.PipeID()]
		if pipe == nil {
			panic(fmt.Sprintf("canopy: no pipe registered for %q", inst.PipeID()))
		}
		pipe.Execute(rc, inst)
	}
}
