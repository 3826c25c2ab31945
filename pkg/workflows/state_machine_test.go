package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	sm := NewStateMachine()

	for _, to := range []string{"completed", "cancelled", "expired"} {
		assert.True(t, sm.CanTransition("pending", to), "pending -> %s", to)
	}

	// Nothing leaves a terminal state.
	terminals := []string{"completed", "cancelled", "expired"}
	for _, from := range terminals {
		for _, to := range append(terminals, "pending") {
			assert.False(t, sm.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, sm.CanTransition("unknown", "completed"))
	assert.False(t, sm.CanTransition("pending", "pending"))
}

func TestIsTerminal(t *testing.T) {
	sm := NewStateMachine()

	assert.False(t, sm.IsTerminal("pending"))
	assert.True(t, sm.IsTerminal("completed"))
	assert.True(t, sm.IsTerminal("cancelled"))
	assert.True(t, sm.IsTerminal("expired"))
	assert.False(t, sm.IsTerminal("unknown"))
}

func TestGetAllowedTransitions(t *testing.T) {
	sm := NewStateMachine()

	assert.ElementsMatch(t, []string{"completed", "cancelled", "expired"}, sm.GetAllowedTransitions("pending"))
	assert.Empty(t, sm.GetAllowedTransitions("completed"))
	assert.Empty(t, sm.GetAllowedTransitions("unknown"))
}
