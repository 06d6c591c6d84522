package main

// NoTarget marks a drone that has not acquired a creature yet
const NoTarget = -1

// Drone is one unit of a fleet. Pos, Emergency and Battery are replaced every
// turn; Target, Direction and History survive Rebuild.
type Drone struct {
	ID        int
	Pos       Point
	Emergency bool
	Battery   int

	Target    int      // creature id or NoTarget
	Direction Quadrant // radar quadrant of Target when acquired
	History   []int    // creatures this drone has scanned, in order
}

// HasTarget reports whether the drone has committed to a creature
func (d *Drone) HasTarget() bool {
	return d.Target != NoTarget
}

// Scanned reports whether the drone itself has scanned the creature
func (d *Drone) Scanned(creatureID int) bool {
	for _, id := range d.History {
		if id == creatureID {
			return true
		}
	}
	return false
}

// DroneRegistry is one fleet, indexed by id - first id
type DroneRegistry struct {
	drones []Drone
	base   int
}

// NewDroneRegistry returns an empty fleet
func NewDroneRegistry() *DroneRegistry {
	return &DroneRegistry{}
}

// Rebuild returns a fleet built from this turn's records. Persistent state is
// migrated from r for every id present in both.
func (r *DroneRegistry) Rebuild(records []DroneRecord) *DroneRegistry {
	next := &DroneRegistry{drones: make([]Drone, len(records))}
	if len(records) > 0 {
		next.base = records[0].ID
	}
	for i, rec := range records {
		next.drones[i] = Drone{
			ID:        rec.ID,
			Pos:       rec.Pos,
			Emergency: rec.Emergency,
			Battery:   rec.Battery,
			Target:    NoTarget,
		}
	}
	if r == nil {
		return next
	}
	for i := range next.drones {
		d := &next.drones[i]
		prev := r.lookup(d.ID)
		if prev == nil {
			continue
		}
		d.Target = prev.Target
		d.Direction = prev.Direction
		d.History = prev.History
	}
	return next
}

// lookup is the non-failing offset lookup; nil when id is not in this fleet
func (r *DroneRegistry) lookup(id int) *Drone {
	idx := id - r.base
	if idx < 0 || idx >= len(r.drones) || r.drones[idx].ID != id {
		return nil
	}
	return &r.drones[idx]
}

// Get returns the drone with the given id
func (r *DroneRegistry) Get(id int) (*Drone, error) {
	idx := id - r.base
	if idx < 0 || idx >= len(r.drones) {
		return nil, desyncf("drone %d outside [%d, %d)", id, r.base, r.base+len(r.drones))
	}
	d := &r.drones[idx]
	if d.ID != id {
		return nil, desyncf("drone %d found at offset of %d", d.ID, id)
	}
	return d, nil
}

// Tracks reports whether id belongs to this fleet
func (r *DroneRegistry) Tracks(id int) bool {
	return r.lookup(id) != nil
}

// RecordScan appends creatureID to the drone's history. Ids of drones outside
// this fleet (the scan stream is shared by both players) are ignored.
func (r *DroneRegistry) RecordScan(droneID, creatureID int) {
	d := r.lookup(droneID)
	if d == nil || d.Scanned(creatureID) {
		return
	}
	d.History = append(d.History, creatureID)
}

// Len returns the fleet size
func (r *DroneRegistry) Len() int {
	return len(r.drones)
}

// All returns the drones in id order
func (r *DroneRegistry) All() []Drone {
	return r.drones
}
