package services

import (
	"testing"
	"time"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{"two calendar nights ignoring times", "2024-01-10T14:00:00Z", "2024-01-12T11:00:00Z", 2},
		{"same day bills one night", "2024-01-10T09:00:00Z", "2024-01-10T18:00:00Z", 1},
		{"single night", "2024-01-10T14:00:00Z", "2024-01-11T11:00:00Z", 1},
		{"late checkout does not add a night", "2024-01-10T14:00:00Z", "2024-01-11T23:59:00Z", 1},
		{"month boundary", "2024-01-31T14:00:00Z", "2024-02-02T10:00:00Z", 2},
		{"week-long stay", "2024-03-01T12:00:00Z", "2024-03-08T12:00:00Z", 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ci, _ := time.Parse(time.RFC3339, tc.checkIn)
			co, _ := time.Parse(time.RFC3339, tc.checkOut)
			if got := Nights(ci, co); got != tc.want {
				t.Errorf("Nights(%s, %s) = %d, want %d", tc.checkIn, tc.checkOut, got, tc.want)
			}
		})
	}
}

func TestComputeQuote(t *testing.T) {
	ci, _ := time.Parse(time.RFC3339, "2024-01-10T14:00:00Z")
	co, _ := time.Parse(time.RFC3339, "2024-01-12T11:00:00Z")

	items := []models.ServiceLineItem{
		{ServiceID: 1, Quantity: 2, UnitPrice: 350, Total: 700},
	}
	q := ComputeQuote(1500, ci, co, items)

	if q.Nights != 2 {
		t.Errorf("Nights = %d, want 2", q.Nights)
	}
	if q.RoomTotal != 3000 {
		t.Errorf("RoomTotal = %v, want 3000", q.RoomTotal)
	}
	if q.ServicesTotal != 700 {
		t.Errorf("ServicesTotal = %v, want 700", q.ServicesTotal)
	}
	if q.GrandTotal != 3700 {
		t.Errorf("GrandTotal = %v, want 3700", q.GrandTotal)
	}
}

func TestComputeQuoteNoServices(t *testing.T) {
	ci, _ := time.Parse(time.RFC3339, "2024-01-10T14:00:00Z")
	co, _ := time.Parse(time.RFC3339, "2024-01-11T11:00:00Z")

	q := ComputeQuote(2200, ci, co, nil)
	if q.ServicesTotal != 0 {
		t.Errorf("ServicesTotal = %v, want 0", q.ServicesTotal)
	}
	if q.GrandTotal != 2200 {
		t.Errorf("GrandTotal = %v, want 2200", q.GrandTotal)
	}
}

// Quote uses the unit price frozen in the line item, not the catalog's
// current one, so later catalog edits never reprice existing reservations.
func TestComputeQuoteUsesFrozenPrices(t *testing.T) {
	ci, _ := time.Parse(time.RFC3339, "2024-01-10T14:00:00Z")
	co, _ := time.Parse(time.RFC3339, "2024-01-11T11:00:00Z")

	items := []models.ServiceLineItem{
		{ServiceID: 1, Quantity: 1, UnitPrice: 350},
		{ServiceID: 1, Quantity: 3, UnitPrice: 400},
	}
	q := ComputeQuote(1000, ci, co, items)
	if q.ServicesTotal != 350+1200 {
		t.Errorf("ServicesTotal = %v, want 1550", q.ServicesTotal)
	}
}
