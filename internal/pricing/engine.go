// Package pricing computes booking totals. The engine is pure: it never
// touches storage or validates the request, it only prices the context it
// is handed.
package pricing

import "math"

// Context carries every input the engine needs to price one booking.
type Context struct {
	BasePrice         float64
	SeatCount         int
	DiscountRate      float64
	ServiceFee        float64
	TaxRate           float64
	TheaterMultiplier float64
	Extras            []Extra
}

const (
	DefaultBasePrice  = 10.0
	DefaultServiceFee = 1.5
)

// NewContext returns a context with catalog defaults: base price 10.0,
// service fee 1.5, standard room, no discount, no tax, no extras.
func NewContext(seatCount int) Context {
	return Context{
		BasePrice:         DefaultBasePrice,
		SeatCount:         seatCount,
		ServiceFee:        DefaultServiceFee,
		TheaterMultiplier: 1.0,
	}
}

// Discount rules overwrite each other; the last one applied wins.

func (c *Context) ApplyStudentDiscount() { c.DiscountRate = 0.15 }

func (c *Context) ApplySeniorDiscount() { c.DiscountRate = 0.20 }

func (c *Context) ApplyWeekdayDiscount() { c.DiscountRate = 0.10 }

// ApplyGroupDiscount grants 10% from 5 seats and 15% from 10. Below the
// threshold it is a no-op, so an earlier flat discount survives.
func (c *Context) ApplyGroupDiscount(seatCount int) {
	switch {
	case seatCount >= 10:
		c.DiscountRate = 0.15
	case seatCount >= 5:
		c.DiscountRate = 0.10
	}
}

// SetTheater applies the room's price multiplier.
func (c *Context) SetTheater(t TheaterType) {
	c.TheaterMultiplier = t.Multiplier()
}

// AddExtra appends a paid add-on. The same extra may appear more than once
// and is charged each time.
func (c *Context) AddExtra(e Extra) {
	c.Extras = append(c.Extras, e)
}

// Total prices the context. The discount applies to the seat subtotal only;
// service fee and extras are added after tax, and only the final figure is
// rounded.
func Total(c Context) float64 {
	subtotal := c.BasePrice * float64(c.SeatCount) * c.TheaterMultiplier
	discounted := subtotal * (1 - c.DiscountRate)
	withTax := discounted * (1 + c.TaxRate)

	extras := 0.0
	for _, e := range c.Extras {
		extras += e.Cost(c.SeatCount)
	}

	return round2(withTax + c.ServiceFee + extras)
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
