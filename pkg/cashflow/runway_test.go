package cashflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunway(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		monthly float64
		want    float64
	}{
		{"zero balance", 0, 1000, 0},
		{"three months", 3000, 1000, 3.0},
		{"no expenses", 1000, 0, 0},
		{"negative balance", -500, 1000, 0},
		{"rounded to one decimal", 1000, 300, 3.3},
		{"rounds half up", 1250, 1000, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Runway(tt.balance, tt.monthly))
		})
	}
}

func TestStressRunway(t *testing.T) {
	impact := StressRunway(3000, 1000, 1000)
	assert.Equal(t, RunwayImpact{Baseline: 3.0, Stressed: 2.0, Impact: 1.0}, impact)

	// the shock cannot push the balance below zero
	impact = StressRunway(3000, 1000, 5000)
	assert.Equal(t, RunwayImpact{Baseline: 3.0, Stressed: 0, Impact: 3.0}, impact)
}
