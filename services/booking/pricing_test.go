package booking

import (
	"testing"

	"dulai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateKnownServices(t *testing.T) {
	svc := &DefaultBookingService{}

	tests := []struct {
		name string
		in   models.EstimateInput
		want int
	}{
		{
			name: "trim scales with tree count, local zip",
			in:   models.EstimateInput{ServiceType: "trim", TreeCount: 3, HeightFt: 20, Zip: "95814"},
			want: 220, // 225 is a tie, rounds to the even ten
		},
		{
			name: "removal floored at minimum",
			in:   models.EstimateInput{ServiceType: "removal", TreeCount: 1, HeightFt: 10, Zip: "95758"},
			want: 300, // 5*10*1=50 floored to 300
		},
		{
			name: "removal above minimum with travel",
			in:   models.EstimateInput{ServiceType: "removal", TreeCount: 2, HeightFt: 40, Zip: "90210"},
			want: 450, // 5*40*2=400 + 50 travel
		},
		{
			name: "stump grind",
			in:   models.EstimateInput{ServiceType: "stump_grind", TreeCount: 2, Zip: "95110"},
			want: 300,
		},
		{
			name: "hedge with travel surcharge",
			in:   models.EstimateInput{ServiceType: "hedge", TreeCount: 1, Zip: "94103"},
			want: 90,
		},
		{
			name: "emergency flat base with multiplier",
			in:   models.EstimateInput{ServiceType: "emergency", TreeCount: 5, Emergency: true, Zip: "95616"},
			want: 140, // 100 * 1.4
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Estimate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateRoundsTiesToEven(t *testing.T) {
	svc := &DefaultBookingService{}

	// 75 + 50 travel = 125, halfway between 120 and 130.
	got, err := svc.Estimate(models.EstimateInput{ServiceType: "trim", TreeCount: 1, Zip: "90210"})
	require.NoError(t, err)
	assert.Equal(t, 120, got)

	// 75*5 = 375, halfway between 370 and 380.
	got, err = svc.Estimate(models.EstimateInput{ServiceType: "trim", TreeCount: 5, Zip: "95814"})
	require.NoError(t, err)
	assert.Equal(t, 380, got)
}

func TestEstimateIsDeterministicAndRounded(t *testing.T) {
	svc := &DefaultBookingService{}
	in := models.EstimateInput{ServiceType: "removal", TreeCount: 3, HeightFt: 37, Emergency: true, Zip: "90001"}

	first, err := svc.Estimate(in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Estimate(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Zero(t, first%10, "estimate must be a multiple of 10")
}

func TestEstimateUnknownServiceType(t *testing.T) {
	svc := &DefaultBookingService{}
	_, err := svc.Estimate(models.EstimateInput{ServiceType: "topiary", TreeCount: 1, Zip: "95814"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service type")
}
