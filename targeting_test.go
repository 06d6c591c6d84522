package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneDrone(pos Point, battery int) *Drone {
	r := NewDroneRegistry().Rebuild([]DroneRecord{{ID: 0, Pos: pos, Battery: battery}})
	return &r.All()[0]
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyDirect, StrategyRadar, StrategyAuto} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("greedy")
	assert.EqualError(t, err, `unknown strategy "greedy" (want direct, radar or auto)`)
}

func TestObserveHintFirstAcquireWins(t *testing.T) {
	d := oneDrone(Point{}, 30)

	assert.True(t, ObserveHint(d, RadarBlip{CreatureID: 7, Quadrant: TopLeft}))
	assert.Equal(t, 7, d.Target)
	assert.Equal(t, TopLeft, d.Direction)

	assert.False(t, ObserveHint(d, RadarBlip{CreatureID: 9, Quadrant: BottomRight}))
	assert.Equal(t, 7, d.Target)
	assert.Equal(t, TopLeft, d.Direction)
}

func TestObserveHintSkipsOwnScans(t *testing.T) {
	d := oneDrone(Point{}, 30)
	d.History = []int{7}

	assert.False(t, ObserveHint(d, RadarBlip{CreatureID: 7, Quadrant: TopLeft}))
	assert.False(t, d.HasTarget())
	assert.True(t, ObserveHint(d, RadarBlip{CreatureID: 8, Quadrant: TopRight}))
	assert.Equal(t, 8, d.Target)
}

func TestDirectMovesToNearestUnscanned(t *testing.T) {
	creatures := loadAt(t, 0,
		Point{X: 0, Y: 0},
		Point{X: 5000, Y: 5000},
		Point{X: 200, Y: 200},
		Point{X: 300, Y: 100},
	)
	require.NoError(t, creatures.MarkScanned(2))
	require.NoError(t, creatures.MarkScanned(3))

	tg := NewTargeter(StrategyDirect)
	dir, err := tg.Decide(oneDrone(Point{X: 100, Y: 100}, 30), creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, MoveTo(0, Point{X: 0, Y: 0}, true), dir)

	dir, err = tg.Decide(oneDrone(Point{X: 100, Y: 100}, 15), creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, "MOVE 0 0 0", dir.String())
}

func TestDirectWaitsWhenAllScanned(t *testing.T) {
	creatures := loadAt(t, 0, Point{X: 1, Y: 1})
	require.NoError(t, creatures.MarkScanned(0))

	dir, err := NewTargeter(StrategyDirect).Decide(oneDrone(Point{}, 30), creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, "WAIT 0", dir.String())
}

func TestRadarProbesTowardHint(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(5, 6, 7, 8, 9))
	require.NoError(t, err)
	creatures.BeginTurn()

	tg := NewTargeter(StrategyRadar)
	d := oneDrone(Point{X: 3000, Y: 3000}, 30)
	blips := []RadarBlip{
		{CreatureID: 7, Quadrant: TopLeft},
		{CreatureID: 9, Quadrant: BottomRight},
	}
	dir, err := tg.Decide(d, creatures, blips)
	require.NoError(t, err)
	assert.Equal(t, 7, d.Target)
	assert.Equal(t, Point{X: 2400, Y: 2400}, dir.Dest)

	// next turn: the drone moved, the hint for 9 comes first and is ignored
	creatures.BeginTurn()
	d.Pos = Point{X: 2500, Y: 2450}
	dir, err = tg.Decide(d, creatures, []RadarBlip{
		{CreatureID: 9, Quadrant: BottomRight},
		{CreatureID: 7, Quadrant: TopRight},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, d.Target)
	assert.Equal(t, TopLeft, d.Direction)
	assert.Equal(t, Point{X: 1900, Y: 1850}, dir.Dest)
}

func TestRadarGoesStraightToVisibleTarget(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(0, 1))
	require.NoError(t, err)
	creatures.BeginTurn()
	require.NoError(t, creatures.ApplyPositionUpdate(CreatureUpdate{ID: 1, Pos: Point{X: 4200, Y: 6100}}))

	d := oneDrone(Point{X: 4000, Y: 5000}, 10)
	d.Target = 1
	d.Direction = BottomRight

	dir, err := NewTargeter(StrategyRadar).Decide(d, creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, MoveTo(0, Point{X: 4200, Y: 6100}, false), dir)
}

func TestRadarWaitsWithoutHints(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(0))
	require.NoError(t, err)
	creatures.BeginTurn()

	dir, err := NewTargeter(StrategyRadar).Decide(oneDrone(Point{}, 30), creatures, nil)
	require.NoError(t, err)
	assert.False(t, dir.Move)
}

func TestRadarUnknownTargetIsDesync(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(0, 1))
	require.NoError(t, err)
	creatures.BeginTurn()

	_, err = NewTargeter(StrategyRadar).Decide(oneDrone(Point{}, 30), creatures,
		[]RadarBlip{{CreatureID: 12, Quadrant: TopLeft}})
	assert.True(t, errors.Is(err, ErrDesync))
}

func TestAutoSwitchesOnVisibility(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(0, 1))
	require.NoError(t, err)
	tg := NewTargeter(StrategyAuto)

	// visible creature, no target: direct, and hints are not consumed
	creatures.BeginTurn()
	require.NoError(t, creatures.ApplyPositionUpdate(CreatureUpdate{ID: 0, Pos: Point{X: 800, Y: 900}}))
	d := oneDrone(Point{X: 1000, Y: 1000}, 30)
	dir, err := tg.Decide(d, creatures, []RadarBlip{{CreatureID: 1, Quadrant: TopRight}})
	require.NoError(t, err)
	assert.Equal(t, Point{X: 800, Y: 900}, dir.Dest)
	assert.False(t, d.HasTarget())

	// nothing visible: radar acquires from hints
	creatures.BeginTurn()
	dir, err = tg.Decide(d, creatures, []RadarBlip{{CreatureID: 1, Quadrant: TopRight}})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Target)
	assert.Equal(t, Point{X: 1600, Y: 400}, dir.Dest)

	// acquired drones stay on radar even when something else is visible
	creatures.BeginTurn()
	require.NoError(t, creatures.ApplyPositionUpdate(CreatureUpdate{ID: 0, Pos: Point{X: 990, Y: 990}}))
	dir, err = tg.Decide(d, creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1600, Y: 400}, dir.Dest)
}

func TestAutoIgnoresUnseenCreatures(t *testing.T) {
	creatures, err := LoadCreatures(creatureInfos(0, 1, 2))
	require.NoError(t, err)
	creatures.BeginTurn()
	require.NoError(t, creatures.ApplyPositionUpdate(CreatureUpdate{ID: 2, Pos: Point{X: 1200, Y: 1100}}))

	// creature 1 is seen now and far away; 0 was never seen, 2 only last turn
	creatures.BeginTurn()
	require.NoError(t, creatures.ApplyPositionUpdate(CreatureUpdate{ID: 1, Pos: Point{X: 5000, Y: 5000}}))

	d := oneDrone(Point{X: 1000, Y: 1000}, 30)
	dir, err := NewTargeter(StrategyAuto).Decide(d, creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, "MOVE 5000 5000 1", dir.String())

	// plain direct still uses every last known position
	dir, err = NewTargeter(StrategyDirect).Decide(d, creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, "MOVE 1200 1100 1", dir.String())
}

func TestDecideAppendsMessage(t *testing.T) {
	creatures := loadAt(t, 0, Point{X: 10, Y: 20})
	tg := NewTargeter(StrategyDirect)
	tg.Message = "hello"

	dir, err := tg.Decide(oneDrone(Point{}, 30), creatures, nil)
	require.NoError(t, err)
	assert.Equal(t, "MOVE 10 20 1 hello", dir.String())
}
