package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafetyLevelOrdering(t *testing.T) {
	// The classifier sorts candidates by this ordering, safest first.
	assert.Greater(t, AbsolutelySafe, VerySafe)
	assert.Greater(t, VerySafe, ProbablySafe)
	assert.Greater(t, ProbablySafe, Risky)
	assert.Greater(t, Risky, Keep)
}

func TestSafetyLevelLabels(t *testing.T) {
	levels := []SafetyLevel{Keep, Risky, ProbablySafe, VerySafe, AbsolutelySafe}

	for _, level := range levels {
		assert.Equal(t, level, ParseSafetyLevel(level.String()), level.String())
	}

	assert.Equal(t, "UNKNOWN", SafetyLevel(42).String())
	assert.Equal(t, Keep, ParseSafetyLevel("NOT_A_LEVEL"))
}
