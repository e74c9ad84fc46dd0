package pricing

import "strings"

// TheaterType selects the screening-room price multiplier.
type TheaterType string

const (
	TheaterStandard   TheaterType = "STANDARD"
	TheaterDolbyAtmos TheaterType = "DOLBY_ATMOS"
	TheaterIMAX       TheaterType = "IMAX"
	TheaterFourDX     TheaterType = "4DX"
	TheaterVIP        TheaterType = "VIP"
)

var theaterMultipliers = map[TheaterType]float64{
	TheaterStandard:   1.0,
	TheaterDolbyAtmos: 1.5,
	TheaterIMAX:       1.8,
	TheaterFourDX:     2.0,
	TheaterVIP:        2.5,
}

// Multiplier returns the price multiplier for the theater type. Unknown
// types price as a standard room.
func (t TheaterType) Multiplier() float64 {
	if m, ok := theaterMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// ParseTheaterType normalizes a request tag to a theater type, falling back
// to the standard room.
func ParseTheaterType(tag string) TheaterType {
	switch TheaterType(strings.ToUpper(strings.TrimSpace(tag))) {
	case TheaterDolbyAtmos:
		return TheaterDolbyAtmos
	case TheaterIMAX:
		return TheaterIMAX
	case TheaterFourDX:
		return TheaterFourDX
	case TheaterVIP:
		return TheaterVIP
	default:
		return TheaterStandard
	}
}
