package weather

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// CompassDirection maps wind degrees onto one of 16 compass labels.
// Each label owns a 22.5° sector centered on it; a value exactly on a sector
// boundary rounds half away from zero, so 11.25° is "NNE" and 348.75° is "N".
func CompassDirection(degrees float64) string {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	idx := int(math.Round(degrees/22.5)) % 16
	return compassPoints[idx]
}
