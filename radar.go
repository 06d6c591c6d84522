package main

import "fmt"

// DefaultProbeStep matches the distance a drone covers in one turn
const DefaultProbeStep = 600

// Quadrant is a radar hint: where a creature lies relative to a drone
type Quadrant uint8

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

var quadrantTokens = [...]string{
	TopLeft:     "TL",
	TopRight:    "TR",
	BottomLeft:  "BL",
	BottomRight: "BR",
}

// ParseQuadrant maps a radar token (TL, TR, BL, BR) to its Quadrant
func ParseQuadrant(tok string) (Quadrant, error) {
	for q, s := range quadrantTokens {
		if s == tok {
			return Quadrant(q), nil
		}
	}
	return 0, protocolf("unknown radar token %q", tok)
}

func (q Quadrant) String() string {
	if int(q) < len(quadrantTokens) {
		return quadrantTokens[q]
	}
	return fmt.Sprintf("Quadrant(%d)", uint8(q))
}

// Probe returns the point one diagonal step from p toward quadrant q.
// Quadrants are closed at the parser, so any other value is a bug.
func Probe(p Point, q Quadrant, step int) Point {
	switch q {
	case TopLeft:
		return p.Add(-step, -step)
	case TopRight:
		return p.Add(step, -step)
	case BottomLeft:
		return p.Add(-step, step)
	case BottomRight:
		return p.Add(step, step)
	}
	panic(fmt.Sprintf("probe: invalid quadrant %d", uint8(q)))
}
