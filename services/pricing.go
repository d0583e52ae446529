package services

import (
	"time"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// Pricing is pure computation: no I/O, no clock, fully determined by its
// inputs. The stored Reservation.Amount is always the output of
// ComputeQuote, recomputed whenever line items change (which is only
// permitted while the reservation is still Pending).

// Quote breaks a reservation's grand total into its parts.
type Quote struct {
	Nights        int     `json:"nights"`
	RoomTotal     float64 `json:"room_total"`
	ServicesTotal float64 `json:"services_total"`
	GrandTotal    float64 `json:"grand_total"`
}

// Nights counts the calendar nights between check-in and check-out,
// ignoring the time of day on either end: arriving 2024-01-10 14:00 and
// leaving 2024-01-12 11:00 is 2 nights. A stay that starts and ends on the
// same date still bills a minimum of one night.
func Nights(checkIn, checkOut time.Time) int {
	ci := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	co := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	n := int(co.Sub(ci) / (24 * time.Hour))
	if n < 1 {
		n = 1
	}
	return n
}

// ComputeQuote derives the room total from the category's nightly rate and
// the services total from the line items' frozen unit prices.
func ComputeQuote(nightlyRate float64, checkIn, checkOut time.Time, items []models.ServiceLineItem) Quote {
	q := Quote{Nights: Nights(checkIn, checkOut)}
	q.RoomTotal = nightlyRate * float64(q.Nights)
	for _, it := range items {
		q.ServicesTotal += float64(it.Quantity) * it.UnitPrice
	}
	q.GrandTotal = q.RoomTotal + q.ServicesTotal
	return q
}
