package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/groupsim/internal/agents"
	"github.com/talgya/groupsim/internal/world"
)

var (
	// ErrRelocationDeadlock is matched by every RelocationDeadlockError.
	ErrRelocationDeadlock = errors.New("relocation deadlock")

	// ErrFinished is returned by Step once the simulation reached a terminal state.
	ErrFinished = errors.New("simulation finished")
)

// RelocationDeadlockError reports a relocating agent whose only candidate
// destination was its own cell.
type RelocationDeadlockError struct {
	Tick    int
	AgentID agents.AgentID
	Cell    world.Coord
}

func (e *RelocationDeadlockError) Error() string {
	return fmt.Sprintf("tick %d: agent %d at %s has no destination but its own cell", e.Tick, e.AgentID, e.Cell)
}

// Is lets errors.Is(err, ErrRelocationDeadlock) match.
func (e *RelocationDeadlockError) Is(target error) bool {
	return target == ErrRelocationDeadlock
}
