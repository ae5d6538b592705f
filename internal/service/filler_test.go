package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFiller(t *testing.T) {
	cases := []struct {
		text   string
		filler bool
	}{
		{"Got it! Logging that now", true},
		{"got it", true},
		{"I've logged your lunch", true},
		{"I have logged that for you", true},
		{"Logging that now", true},
		{"Sure, noted", true},
		{"  sure thing  ", true},
		{"eggs and toast", false},
		{"two sure cookies", false},
		{"chicken curry with rice", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.filler, IsFiller(tc.text), "text: %q", tc.text)
	}
}
