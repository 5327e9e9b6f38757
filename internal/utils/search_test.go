package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chișinău", "chisinau"},
		{"München", "munchen"},
		{"Bălți", "balti"},
		{"BERLIN", "berlin"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"chisinau", "berlin", "decembrie"}, Keywords("Chișinău → Berlin, decembrie"))
	assert.Empty(t, Keywords("  → , "))
}

func TestMatchAll(t *testing.T) {
	text := "Moldova → Germania Chișinău München 25 decembrie"

	assert.True(t, MatchAll(text, nil))
	assert.True(t, MatchAll(text, Keywords("chisinau munchen")))
	assert.True(t, MatchAll(text, Keywords("DECEMBRIE")))
	assert.False(t, MatchAll(text, Keywords("chisinau berlin")))
}
