package main

import (
	"strconv"
	"strings"
)

// Directive command words
const (
	CmdMove = "MOVE"
	CmdWait = "WAIT"
)

// CreatureInfo is one creature line of the initial snapshot
type CreatureInfo struct {
	ID    int `msgpack:"id"`
	Color int `msgpack:"c"`
	Type  int `msgpack:"t"`
}

// InitialSnapshot is read once before the first turn
type InitialSnapshot struct {
	Creatures []CreatureInfo `msgpack:"cr"`
}

// DroneRecord is one drone line of a fleet snapshot
type DroneRecord struct {
	ID        int   `msgpack:"id"`
	Pos       Point `msgpack:"p"`
	Emergency bool  `msgpack:"e"`
	Battery   int   `msgpack:"b"`
}

// ScanEvent reports that a drone holds an unsaved scan of a creature
type ScanEvent struct {
	DroneID    int `msgpack:"d"`
	CreatureID int `msgpack:"c"`
}

// CreatureUpdate is a visible creature's position and velocity
type CreatureUpdate struct {
	ID  int   `msgpack:"id"`
	Pos Point `msgpack:"p"`
	Vel Point `msgpack:"v"`
}

// RadarBlip is a coarse direction from a drone to a creature
type RadarBlip struct {
	DroneID    int      `msgpack:"d"`
	CreatureID int      `msgpack:"c"`
	Quadrant   Quadrant `msgpack:"q"`
}

// TurnSnapshot holds every section of one turn's input, in protocol order
type TurnSnapshot struct {
	MyScore    int              `msgpack:"ms"`
	FoeScore   int              `msgpack:"fs"`
	MyScans    []int            `msgpack:"msc"`
	FoeScans   []int            `msgpack:"fsc"`
	MyDrones   []DroneRecord    `msgpack:"md"`
	FoeDrones  []DroneRecord    `msgpack:"fd"`
	DroneScans []ScanEvent      `msgpack:"ds"`
	Visible    []CreatureUpdate `msgpack:"vis"`
	Blips      []RadarBlip      `msgpack:"rb"`
}

// Directive is the single command issued for one own drone
type Directive struct {
	DroneID int    `msgpack:"d"`
	Move    bool   `msgpack:"m"` // false = WAIT
	Dest    Point  `msgpack:"p"`
	Light   bool   `msgpack:"l"`
	Message string `msgpack:"msg,omitempty"`
}

// Wait builds a WAIT directive
func Wait(droneID int, light bool) Directive {
	return Directive{DroneID: droneID, Light: light}
}

// MoveTo builds a MOVE directive
func MoveTo(droneID int, dest Point, light bool) Directive {
	return Directive{DroneID: droneID, Move: true, Dest: dest, Light: light}
}

// String renders the directive as one output line (without newline)
func (d Directive) String() string {
	var sb strings.Builder
	if d.Move {
		sb.WriteString(CmdMove)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(d.Dest.X))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(d.Dest.Y))
	} else {
		sb.WriteString(CmdWait)
	}
	if d.Light {
		sb.WriteString(" 1")
	} else {
		sb.WriteString(" 0")
	}
	if d.Message != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Message)
	}
	return sb.String()
}
