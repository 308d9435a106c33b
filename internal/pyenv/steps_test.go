package pyenv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStepsShortCircuitsOnFatalFailure(t *testing.T) {
	var ran []string

	stepErr := errors.New("boom")
	steps := []Step{
		{Name: "first", Run: func() error { ran = append(ran, "first"); return nil }},
		{Name: "second", Run: func() error { ran = append(ran, "second"); return stepErr }},
		{Name: "third", Run: func() error { ran = append(ran, "third"); return nil }},
	}

	err := RunSteps(steps)
	require.ErrorIs(t, err, stepErr)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestRunStepsContinuesPastNonFatalFailure(t *testing.T) {
	var ran []string

	steps := []Step{
		{Name: "first", Run: func() error { ran = append(ran, "first"); return nil }},
		{Name: "second", NonFatal: true, Run: func() error { ran = append(ran, "second"); return errors.New("absorbed") }},
		{Name: "third", Run: func() error { ran = append(ran, "third"); return nil }},
	}

	err := RunSteps(steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestRunStepsEmpty(t *testing.T) {
	require.NoError(t, RunSteps(nil))
}
