package agent

import (
	"errors"
	"testing"

	"github.com/craftlabs/designstudio/core"
	"github.com/stretchr/testify/assert"
)

func TestInstruction_Static(t *testing.T) {
	instr := NewInstructionFromText("You route image requests.")
	assert.True(t, instr.IsStatic())

	text, err := instr.Resolve(nil)
	assert.NoError(t, err)
	assert.Equal(t, "You route image requests.", text)
}

func TestInstruction_Provider(t *testing.T) {
	instr := NewInstructionFromFunc(func(runCtx *core.RunContext) (string, error) {
		return "dynamic", nil
	})
	assert.False(t, instr.IsStatic())

	text, err := instr.Resolve(nil)
	assert.NoError(t, err)
	assert.Equal(t, "dynamic", text)
}

func TestInstruction_ProviderError(t *testing.T) {
	instr := NewInstructionFromFunc(func(runCtx *core.RunContext) (string, error) {
		return "", errors.New("state missing")
	})

	_, err := instr.Resolve(nil)
	assert.Error(t, err)
}
