package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"João", "joao"},
		{"  Maria Conceição  ", "maria conceicao"},
		{"ANDRÉ", "andre"},
		{"joao", "joao"},
		{"", ""},
		// decomposed accent (a + combining acute) folds the same as composed
		{"João", "joao"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, foldName(tt.in))
		})
	}
}
