package booking

import (
	"fmt"
	"math"
	"strings"

	"dulai/models"
)

const (
	trimRatePerTree       = 75
	removalRatePerFoot    = 5
	removalMinimum        = 300
	stumpGrindRatePerTree = 150
	hedgeRatePerTree      = 40
	emergencyBase         = 100
	emergencyMultiplier   = 1.4
	travelSurcharge       = 50
	localZipPrefix        = "95"
)

// Estimate returns a rough dollar estimate for the service, rounded to the
// nearest 10.
func (s *DefaultBookingService) Estimate(in models.EstimateInput) (int, error) {
	var base float64
	switch in.ServiceType {
	case "trim":
		base = float64(trimRatePerTree * in.TreeCount)
	case "removal":
		base = float64(removalRatePerFoot * in.HeightFt * in.TreeCount)
		base = math.Max(base, removalMinimum)
	case "stump_grind":
		base = float64(stumpGrindRatePerTree * in.TreeCount)
	case "hedge":
		base = float64(hedgeRatePerTree * in.TreeCount)
	case "emergency":
		base = emergencyBase
	default:
		return 0, fmt.Errorf("unknown service type %q", in.ServiceType)
	}
	if in.Emergency {
		base *= emergencyMultiplier
	}
	travel := float64(travelSurcharge)
	if strings.HasPrefix(in.Zip, localZipPrefix) {
		travel = 0
	}
	// Round to the nearest 10, ties to even.
	return int(math.RoundToEven((base+travel)/10) * 10), nil
}
