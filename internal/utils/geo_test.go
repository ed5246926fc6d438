package utils_test

import (
	"testing"

	"github.com/USA-RedDragon/routesync-server/internal/utils"
)

type coords struct {
	lat float64
	lng float64
}

var (
	newDelhi  = coords{28.6139, 77.2090}
	mumbai    = coords{19.0760, 72.8777}
	bengaluru = coords{12.9716, 77.5946}
	kolkata   = coords{22.5726, 88.3639}
	chennai   = coords{13.0827, 80.2707}
)

func TestHaversineZero(t *testing.T) {
	t.Parallel()

	for _, c := range []coords{newDelhi, mumbai, bengaluru, kolkata, chennai} {
		if dist := utils.Haversine(c.lat, c.lng, c.lat, c.lng); dist != 0 {
			t.Errorf("expected 0 km between a point and itself, got %f", dist)
		}
		if dist := utils.RoundKm(utils.Haversine(c.lat, c.lng, c.lat, c.lng)); dist != 0 {
			t.Errorf("expected 0.00 km rounded, got %f", dist)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]coords{
		{newDelhi, mumbai},
		{mumbai, bengaluru},
		{kolkata, chennai},
		{newDelhi, kolkata},
	}
	for _, pair := range pairs {
		forward := utils.Haversine(pair[0].lat, pair[0].lng, pair[1].lat, pair[1].lng)
		reverse := utils.Haversine(pair[1].lat, pair[1].lng, pair[0].lat, pair[0].lng)
		if forward != reverse {
			t.Errorf("expected symmetric distance, got %f and %f", forward, reverse)
		}
	}
}

func TestHaversineKnownDistances(t *testing.T) {
	t.Parallel()

	// New Delhi to Mumbai is roughly 1150-1160 km as the crow flies
	dist := utils.Haversine(newDelhi.lat, newDelhi.lng, mumbai.lat, mumbai.lng)
	if dist < 1150 || dist > 1160 {
		t.Errorf("expected 1150-1160 km between New Delhi and Mumbai, got %f", dist)
	}

	// Mumbai to Kolkata is roughly 1650-1660 km
	dist = utils.Haversine(mumbai.lat, mumbai.lng, kolkata.lat, kolkata.lng)
	if dist < 1645 || dist > 1665 {
		t.Errorf("expected ~1655 km between Mumbai and Kolkata, got %f", dist)
	}

	// Bengaluru to Chennai is roughly 290 km
	dist = utils.Haversine(bengaluru.lat, bengaluru.lng, chennai.lat, chennai.lng)
	if dist < 280 || dist > 300 {
		t.Errorf("expected ~290 km between Bengaluru and Chennai, got %f", dist)
	}
}

func TestHaversineAntipodal(t *testing.T) {
	t.Parallel()

	// Antipodal points are half the Earth's circumference apart, ~20015 km
	dist := utils.Haversine(0, 0, 0, 180)
	if dist < 20010 || dist > 20020 {
		t.Errorf("expected ~20015 km between antipodal points, got %f", dist)
	}
}

func TestRoundKm(t *testing.T) {
	t.Parallel()

	if got := utils.RoundKm(1153.7777); got != 1153.78 {
		t.Errorf("expected 1153.78, got %f", got)
	}
	if got := utils.RoundKm(467.004); got != 467.0 {
		t.Errorf("expected 467.00, got %f", got)
	}
}
