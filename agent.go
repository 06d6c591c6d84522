package main

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// TurnObserver is notified after every decided turn
type TurnObserver interface {
	ObserveTurn(a *Agent, ts TurnSnapshot, dirs []Directive)
}

// Agent holds the registries for one game and runs the per-turn phases
type Agent struct {
	targeter  Targeter
	creatures *CreatureRegistry
	own       *DroneRegistry
	foe       *DroneRegistry
	observers []TurnObserver

	turn     int
	myScore  int
	foeScore int
}

// NewAgent loads the creature population from the initial snapshot
func NewAgent(t Targeter, initial InitialSnapshot) (*Agent, error) {
	creatures, err := LoadCreatures(initial.Creatures)
	if err != nil {
		return nil, errors.Wrap(err, "load creatures")
	}
	log.Debug("creatures loaded", "count", creatures.Len())
	return &Agent{
		targeter:  t,
		creatures: creatures,
		own:       NewDroneRegistry(),
		foe:       NewDroneRegistry(),
	}, nil
}

// AddObserver registers o for every following turn
func (a *Agent) AddObserver(o TurnObserver) {
	a.observers = append(a.observers, o)
}

// Turn applies one snapshot and returns a directive per own drone, in the
// order the drones were listed
func (a *Agent) Turn(ts TurnSnapshot) ([]Directive, error) {
	a.turn++
	a.creatures.BeginTurn()
	a.myScore, a.foeScore = ts.MyScore, ts.FoeScore
	log.Debug("turn", "n", a.turn, "score", a.myScore, "foe", a.foeScore)

	for _, id := range ts.MyScans {
		if err := a.creatures.MarkScanned(id); err != nil {
			return nil, errors.Wrap(err, "my scans")
		}
	}
	if len(ts.FoeScans) > 0 {
		log.Debug("foe scans", "creatures", ts.FoeScans)
	}

	a.own = a.own.Rebuild(ts.MyDrones)
	a.foe = a.foe.Rebuild(ts.FoeDrones)

	// the scan stream carries both fleets; each registry keeps its own
	for _, ev := range ts.DroneScans {
		a.own.RecordScan(ev.DroneID, ev.CreatureID)
		a.foe.RecordScan(ev.DroneID, ev.CreatureID)
	}

	for _, u := range ts.Visible {
		if err := a.creatures.ApplyPositionUpdate(u); err != nil {
			return nil, errors.Wrap(err, "creature update")
		}
	}

	blips := make(map[int][]RadarBlip, a.own.Len())
	for _, b := range ts.Blips {
		if !a.own.Tracks(b.DroneID) {
			continue
		}
		blips[b.DroneID] = append(blips[b.DroneID], b)
	}

	drones := a.own.All()
	dirs := make([]Directive, 0, len(drones))
	for i := range drones {
		d := &drones[i]
		dir, err := a.targeter.Decide(d, a.creatures, blips[d.ID])
		if err != nil {
			return nil, errors.Wrapf(err, "drone %d", d.ID)
		}
		dirs = append(dirs, dir)
	}

	for _, o := range a.observers {
		o.ObserveTurn(a, ts, dirs)
	}
	return dirs, nil
}

// TurnNumber returns how many turns have been played, starting at 1
func (a *Agent) TurnNumber() int {
	return a.turn
}

// Scores returns the last reported scores
func (a *Agent) Scores() (mine, foe int) {
	return a.myScore, a.foeScore
}

// Creatures returns the creature registry
func (a *Agent) Creatures() *CreatureRegistry {
	return a.creatures
}

// OwnDrones returns this turn's own fleet
func (a *Agent) OwnDrones() *DroneRegistry {
	return a.own
}

// FoeDrones returns this turn's opponent fleet
func (a *Agent) FoeDrones() *DroneRegistry {
	return a.foe
}
