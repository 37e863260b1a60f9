package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReducedPrice(t *testing.T) {
	tests := []struct {
		name      string
		fullPrice int64
		taskCount int
		burden    int
		want      int64
	}{
		{"no tasks pays full price", 200, 0, 4, 200},
		{"half the burden pays half", 200, 2, 4, 100},
		{"full burden is free", 200, 4, 4, 0},
		{"more than the burden is still free", 200, 10, 4, 0},
		{"fraction rounds half up", 999, 3, 4, 250},
		{"fraction rounds down below half", 999, 1, 4, 749},
		{"single task single burden", 150, 1, 1, 0},
		{"zero burden pays full price", 200, 2, 0, 200},
		{"negative burden pays full price", 200, 2, -1, 200},
		{"negative task count pays full price", 200, -3, 4, 200},
		{"free ticket stays free", 0, 2, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReducedPrice(tt.fullPrice, tt.taskCount, tt.burden)
			assert.Equal(t, tt.want, got)
		})
	}
}
