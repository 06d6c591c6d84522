package main

import (
	"errors"
	"testing"
)

func TestParseQuadrant(t *testing.T) {
	cases := map[string]Quadrant{
		"TL": TopLeft,
		"TR": TopRight,
		"BL": BottomLeft,
		"BR": BottomRight,
	}
	for tok, want := range cases {
		got, err := ParseQuadrant(tok)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tok, err)
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", tok, want, got)
		}
		if got.String() != tok {
			t.Errorf("%s: String() returned %q", tok, got.String())
		}
	}
}

func TestParseQuadrantRejectsUnknownToken(t *testing.T) {
	for _, tok := range []string{"", "tl", "TT", "UL", "TLX"} {
		if _, err := ParseQuadrant(tok); !errors.Is(err, ErrProtocol) {
			t.Errorf("%q: expected ErrProtocol, got %v", tok, err)
		}
	}
}

func TestProbeOffsets(t *testing.T) {
	p := Point{X: 5000, Y: 3000}
	cases := []struct {
		q      Quadrant
		dx, dy int
	}{
		{TopLeft, -1, -1},
		{TopRight, 1, -1},
		{BottomLeft, -1, 1},
		{BottomRight, 1, 1},
	}
	for _, c := range cases {
		got := Probe(p, c.q, DefaultProbeStep)
		want := Point{X: p.X + c.dx*DefaultProbeStep, Y: p.Y + c.dy*DefaultProbeStep}
		if got != want {
			t.Errorf("%v: expected %v, got %v", c.q, want, got)
		}
	}
}

func TestProbeTopLeftDecreasesBothAxesEqually(t *testing.T) {
	for _, p := range []Point{{0, 0}, {1, 9999}, {-40, 70}, {6000, 6000}} {
		got := Probe(p, TopLeft, 350)
		if p.X-got.X != 350 || p.Y-got.Y != 350 {
			t.Errorf("probe from %v went to %v", p, got)
		}
		if Probe(p, TopLeft, 350) != got {
			t.Error("probe should be deterministic")
		}
	}
}

func TestProbeInvalidQuadrantPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range quadrant")
		}
	}()
	Probe(Point{}, Quadrant(7), DefaultProbeStep)
}
