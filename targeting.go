package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// DefaultLightBattery is the battery level a drone must exceed to light up
const DefaultLightBattery = 15

// Strategy selects how a drone picks its destination
type Strategy uint8

const (
	// StrategyDirect chases the nearest unscanned creature by known position
	StrategyDirect Strategy = iota
	// StrategyRadar commits to the first hinted creature and probes toward it
	StrategyRadar
	// StrategyAuto chases visible unscanned creatures, radar otherwise
	StrategyAuto
)

var strategyNames = [...]string{
	StrategyDirect: "direct",
	StrategyRadar:  "radar",
	StrategyAuto:   "auto",
}

// ParseStrategy maps a config value to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	for i, name := range strategyNames {
		if name == s {
			return Strategy(i), nil
		}
	}
	return 0, errors.Errorf("unknown strategy %q (want direct, radar or auto)", s)
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// Targeter turns registry state into one directive per drone
type Targeter struct {
	Strategy     Strategy
	LightBattery int
	ProbeStep    int
	Message      string
}

// NewTargeter returns a Targeter with default tuning
func NewTargeter(s Strategy) Targeter {
	return Targeter{
		Strategy:     s,
		LightBattery: DefaultLightBattery,
		ProbeStep:    DefaultProbeStep,
	}
}

// ObserveHint lets a drone without a target commit to the blip's creature,
// unless the drone already scanned it. Acquisition is final for the game.
func ObserveHint(d *Drone, b RadarBlip) bool {
	if d.HasTarget() || d.Scanned(b.CreatureID) {
		return false
	}
	d.Target = b.CreatureID
	d.Direction = b.Quadrant
	return true
}

// strategyFor resolves StrategyAuto for one drone on the current turn
func (t Targeter) strategyFor(d *Drone, creatures *CreatureRegistry) Strategy {
	if t.Strategy != StrategyAuto {
		return t.Strategy
	}
	if d.HasTarget() {
		return StrategyRadar
	}
	if creatures.HasVisibleUnscanned() {
		return StrategyDirect
	}
	return StrategyRadar
}

// Decide picks the drone's directive for this turn. blips are the radar
// hints addressed to this drone, in input order.
func (t Targeter) Decide(d *Drone, creatures *CreatureRegistry, blips []RadarBlip) (Directive, error) {
	var (
		dir Directive
		err error
	)
	switch t.strategyFor(d, creatures) {
	case StrategyDirect:
		dir = t.direct(d, creatures, t.Strategy == StrategyAuto)
	default:
		for _, b := range blips {
			if ObserveHint(d, b) {
				log.Debug("target acquired", "drone", d.ID, "creature", b.CreatureID, "quadrant", b.Quadrant)
				break
			}
		}
		dir, err = t.radar(d, creatures)
	}
	if err != nil {
		return Directive{}, err
	}
	dir.Message = t.Message
	return dir, nil
}

// direct moves to the nearest unscanned creature. Under auto only creatures
// seen this turn count, since older positions are stale or never known.
func (t Targeter) direct(d *Drone, creatures *CreatureRegistry, visibleOnly bool) Directive {
	pos, ok := creatures.NearestUnscanned(d.Pos)
	if visibleOnly {
		pos, ok = creatures.NearestVisibleUnscanned(d.Pos)
	}
	if !ok {
		return Wait(d.ID, false)
	}
	return MoveTo(d.ID, pos, t.light(d))
}

func (t Targeter) radar(d *Drone, creatures *CreatureRegistry) (Directive, error) {
	if !d.HasTarget() {
		return Wait(d.ID, false), nil
	}
	c, err := creatures.Get(d.Target)
	if err != nil {
		return Directive{}, err
	}
	if creatures.Visible(c.ID) {
		return MoveTo(d.ID, c.Pos, t.light(d)), nil
	}
	return MoveTo(d.ID, Probe(d.Pos, d.Direction, t.ProbeStep), t.light(d)), nil
}

func (t Targeter) light(d *Drone) bool {
	return d.Battery > t.LightBattery
}
