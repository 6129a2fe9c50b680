package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Karachi", "karachi"},
		{"  North   Karachi ", "north karachi"},
		{"LAHORE", "lahore"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLocation(tt.in), tt.in)
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("North Karachi", "karachi"))
	assert.True(t, ContainsFold("North  Karachi", "north karachi"))
	assert.True(t, ContainsFold("Lahore", ""))
	assert.False(t, ContainsFold("Lahore", "Karachi"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%karachi%", LikePattern(" Karachi "))
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_off"))
}
