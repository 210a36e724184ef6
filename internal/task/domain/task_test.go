package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsFor(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{DifficultyEasy, 1},
		{DifficultyMedium, 3},
		{DifficultyHard, 5},
		{"Unknown", 3},
		{"", 3},
		{"easy", 3}, // labels are case-sensitive, as reported by the API
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsFor(tt.difficulty), "difficulty %q", tt.difficulty)
	}
}
