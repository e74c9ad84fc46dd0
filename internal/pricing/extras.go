package pricing

import "strings"

// Extra is a paid add-on. Most extras cost a flat amount per booking;
// premium seating is charged once per seat.
type Extra string

const (
	ExtraPopcornSmall  Extra = "POPCORN_SMALL"
	ExtraPopcornMedium Extra = "POPCORN_MEDIUM"
	ExtraPopcornLarge  Extra = "POPCORN_LARGE"
	ExtraGlasses3D     Extra = "3D_GLASSES"
	ExtraMealSnack     Extra = "MEAL_SNACK"
	ExtraMealDinner    Extra = "MEAL_DINNER"
	ExtraMealDeluxe    Extra = "MEAL_DELUXE"
	ExtraInsurance     Extra = "INSURANCE"
	ExtraVIPLounge     Extra = "VIP_LOUNGE"
	ExtraParking       Extra = "PARKING"
	ExtraPremiumSeat   Extra = "PREMIUM_SEAT"
)

var perBookingCosts = map[Extra]float64{
	ExtraPopcornSmall:  5.99,
	ExtraPopcornMedium: 7.99,
	ExtraPopcornLarge:  9.99,
	ExtraGlasses3D:     3.50,
	ExtraMealSnack:     8.99,
	ExtraMealDinner:    15.99,
	ExtraMealDeluxe:    22.99,
	ExtraInsurance:     2.50,
	ExtraVIPLounge:     15.00,
	ExtraParking:       5.00,
}

var perSeatCosts = map[Extra]float64{
	ExtraPremiumSeat: 5.00,
}

// Cost returns the charge an extra adds to a booking with the given seat
// count. Unknown extras cost nothing.
func (e Extra) Cost(seatCount int) float64 {
	if cost, ok := perBookingCosts[e]; ok {
		return cost
	}
	if cost, ok := perSeatCosts[e]; ok {
		return cost * float64(seatCount)
	}
	return 0
}

// Known reports whether the tag names a priced extra.
func (e Extra) Known() bool {
	if _, ok := perBookingCosts[e]; ok {
		return true
	}
	_, ok := perSeatCosts[e]
	return ok
}

// ParseExtra normalizes a request tag. Bare "POPCORN" and "MEAL" select the
// medium size.
func ParseExtra(tag string) (Extra, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(tag))
	switch normalized {
	case "POPCORN":
		return ExtraPopcornMedium, true
	case "MEAL", "MEAL_VOUCHER":
		return ExtraMealDinner, true
	}
	e := Extra(normalized)
	return e, e.Known()
}
