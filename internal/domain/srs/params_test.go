package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	assert.Equal(t, 1.3, params.MinEaseFactor)
	assert.Equal(t, 2.5, params.InitialEaseFactor)
	assert.Equal(t, 1, params.FailureInterval)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 6, params.SecondInterval)
	assert.Equal(t, 10, params.XPPerReview)
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("zero config keeps defaults", func(t *testing.T) {
		params := NewParams(ParamsConfig{})
		assert.Equal(t, NewDefaultParams(), params)
	})

	t.Run("partial overrides", func(t *testing.T) {
		params := NewParams(ParamsConfig{
			SecondInterval: 4,
			XPPerReview:    25,
		})

		assert.Equal(t, 4, params.SecondInterval)
		assert.Equal(t, 25, params.XPPerReview)
		assert.Equal(t, 1.3, params.MinEaseFactor)
		assert.Equal(t, 1, params.FirstInterval)
	})
}
