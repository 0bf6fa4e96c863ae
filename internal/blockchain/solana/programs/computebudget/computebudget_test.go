package computebudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInstructions(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   int
	}{
		{"zero config emits nothing", Config{}, 0},
		{"limit only", Config{Units: 200_000}, 1},
		{"price only", Config{UnitPrice: 1_000}, 1},
		{"limit and price", Config{Units: 200_000, UnitPrice: 1_000}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ixs, err := BuildInstructions(tt.config)
			require.NoError(t, err)
			assert.Len(t, ixs, tt.want)
			assert.Equal(t, tt.want == 0, tt.config.IsZero())
			for _, ix := range ixs {
				assert.Equal(t, "ComputeBudget111111111111111111111111111111", ix.ProgramID().String())
			}
		})
	}
}
