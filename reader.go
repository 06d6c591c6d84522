package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reader tokenizes the host's line protocol into snapshots
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// maxCount bounds every list length read from the input
const maxCount = 1024

// fields returns the whitespace-separated tokens of the next non-blank line
func (r *Reader) fields() ([]string, error) {
	for r.sc.Scan() {
		r.line++
		if f := strings.Fields(r.sc.Text()); len(f) > 0 {
			return f, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return nil, io.EOF
}

// ints reads a line of exactly n integers
func (r *Reader) ints(n int) ([]int, error) {
	f, err := r.fields()
	if err != nil {
		return nil, err
	}
	if len(f) != n {
		return nil, protocolf("line %d: want %d fields, got %d", r.line, n, len(f))
	}
	out := make([]int, n)
	for i, s := range f {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, protocolf("line %d: field %d: %q is not an integer", r.line, i+1, s)
		}
		out[i] = v
	}
	return out, nil
}

func (r *Reader) value() (int, error) {
	v, err := r.ints(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (r *Reader) count() (int, error) {
	n, err := r.value()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, protocolf("line %d: negative count %d", r.line, n)
	}
	if n > maxCount {
		return 0, protocolf("line %d: count %d exceeds %d", r.line, n, maxCount)
	}
	return n, nil
}

// ReadInitial reads the creature list sent before the first turn
func (r *Reader) ReadInitial() (InitialSnapshot, error) {
	var snap InitialSnapshot
	n, err := r.count()
	if err != nil {
		return snap, midRecord(err)
	}
	snap.Creatures = make([]CreatureInfo, n)
	for i := range snap.Creatures {
		v, err := r.ints(3)
		if err != nil {
			return snap, midRecord(err)
		}
		snap.Creatures[i] = CreatureInfo{ID: v[0], Color: v[1], Type: v[2]}
	}
	return snap, nil
}

// ReadTurn reads one turn. It returns io.EOF, unwrapped, only when the input
// ends cleanly between turns.
func (r *Reader) ReadTurn() (TurnSnapshot, error) {
	var ts TurnSnapshot
	var err error
	if ts.MyScore, err = r.value(); err != nil {
		return ts, err
	}
	if err := r.readTurnBody(&ts); err != nil {
		return ts, midRecord(err)
	}
	return ts, nil
}

func (r *Reader) readTurnBody(ts *TurnSnapshot) error {
	var err error
	if ts.FoeScore, err = r.value(); err != nil {
		return err
	}
	if ts.MyScans, err = r.idList(); err != nil {
		return err
	}
	if ts.FoeScans, err = r.idList(); err != nil {
		return err
	}
	if ts.MyDrones, err = r.fleet(); err != nil {
		return err
	}
	if ts.FoeDrones, err = r.fleet(); err != nil {
		return err
	}

	n, err := r.count()
	if err != nil {
		return err
	}
	ts.DroneScans = make([]ScanEvent, n)
	for i := range ts.DroneScans {
		v, err := r.ints(2)
		if err != nil {
			return err
		}
		ts.DroneScans[i] = ScanEvent{DroneID: v[0], CreatureID: v[1]}
	}

	if n, err = r.count(); err != nil {
		return err
	}
	ts.Visible = make([]CreatureUpdate, n)
	for i := range ts.Visible {
		v, err := r.ints(5)
		if err != nil {
			return err
		}
		ts.Visible[i] = CreatureUpdate{
			ID:  v[0],
			Pos: Point{X: v[1], Y: v[2]},
			Vel: Point{X: v[3], Y: v[4]},
		}
	}

	if n, err = r.count(); err != nil {
		return err
	}
	ts.Blips = make([]RadarBlip, n)
	for i := range ts.Blips {
		b, err := r.blip()
		if err != nil {
			return err
		}
		ts.Blips[i] = b
	}
	return nil
}

func (r *Reader) idList() ([]int, error) {
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	ids := make([]int, n)
	for i := range ids {
		if ids[i], err = r.value(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (r *Reader) fleet() ([]DroneRecord, error) {
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	drones := make([]DroneRecord, n)
	for i := range drones {
		v, err := r.ints(5)
		if err != nil {
			return nil, err
		}
		drones[i] = DroneRecord{
			ID:        v[0],
			Pos:       Point{X: v[1], Y: v[2]},
			Emergency: v[3] != 0,
			Battery:   v[4],
		}
	}
	return drones, nil
}

// blip parses "droneId creatureId TL|TR|BL|BR"
func (r *Reader) blip() (RadarBlip, error) {
	f, err := r.fields()
	if err != nil {
		return RadarBlip{}, err
	}
	if len(f) != 3 {
		return RadarBlip{}, protocolf("line %d: want 3 fields, got %d", r.line, len(f))
	}
	droneID, err1 := strconv.Atoi(f[0])
	creatureID, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil {
		return RadarBlip{}, protocolf("line %d: bad radar ids %q %q", r.line, f[0], f[1])
	}
	q, err := ParseQuadrant(f[2])
	if err != nil {
		return RadarBlip{}, errors.Wrapf(err, "line %d", r.line)
	}
	return RadarBlip{DroneID: droneID, CreatureID: creatureID, Quadrant: q}, nil
}

// midRecord turns an EOF inside a record into a protocol error
func midRecord(err error) error {
	if err == io.EOF {
		return protocolf("unexpected end of input")
	}
	return err
}
