package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskForConfirmationNonInteractiveUsesDefault(t *testing.T) {
	logger := GetLogger(true)

	assert.True(t, logger.AskForConfirmation("commit changes?", true))
	assert.False(t, logger.AskForConfirmation("commit changes?", false))
}

func TestAskForInputNonInteractiveDeclines(t *testing.T) {
	logger := GetLogger(true)

	answer, ok := logger.AskForInput("describe the refactoring:")
	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestGetLoggerIsSingleton(t *testing.T) {
	assert.Same(t, GetLogger(true), GetLogger(true))
}
