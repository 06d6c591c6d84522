package main

// Creature is a scan target. Scanned only ever goes false -> true.
type Creature struct {
	ID       int
	Color    int
	Type     int
	Pos      Point
	Vel      Point
	Scanned  bool
	LastSeen int // turn of the last position update, 0 = never
}

// CreatureRegistry owns every creature of the game, indexed by id - base.
// Ids are validated contiguous at load and the set never changes afterwards.
type CreatureRegistry struct {
	creatures []Creature
	base      int
	turn      int
}

// LoadCreatures builds the registry from the initial snapshot. Ids must be
// ascending and contiguous from any base.
func LoadCreatures(infos []CreatureInfo) (*CreatureRegistry, error) {
	for i := 1; i < len(infos); i++ {
		if infos[i].ID != infos[i-1].ID+1 {
			return nil, desyncf("creature ids not contiguous at index %d: %d after %d",
				i, infos[i].ID, infos[i-1].ID)
		}
	}
	r := &CreatureRegistry{creatures: make([]Creature, len(infos))}
	for i, info := range infos {
		r.creatures[i] = Creature{ID: info.ID, Color: info.Color, Type: info.Type}
	}
	if len(infos) > 0 {
		r.base = infos[0].ID
	}
	return r, nil
}

// Len returns the number of creatures
func (r *CreatureRegistry) Len() int {
	return len(r.creatures)
}

// All returns the backing slice in id order. Callers must not append to it.
func (r *CreatureRegistry) All() []Creature {
	return r.creatures
}

// Get returns the creature with the given id
func (r *CreatureRegistry) Get(id int) (*Creature, error) {
	idx := id - r.base
	if idx < 0 || idx >= len(r.creatures) {
		return nil, desyncf("creature %d outside [%d, %d)", id, r.base, r.base+len(r.creatures))
	}
	c := &r.creatures[idx]
	if c.ID != id {
		return nil, desyncf("creature %d found at offset of %d", c.ID, id)
	}
	return c, nil
}

// BeginTurn starts a new turn; updates applied after it count as visible
func (r *CreatureRegistry) BeginTurn() {
	r.turn++
}

// ApplyPositionUpdate stores a visible creature's position and velocity
func (r *CreatureRegistry) ApplyPositionUpdate(u CreatureUpdate) error {
	c, err := r.Get(u.ID)
	if err != nil {
		return err
	}
	c.Pos = u.Pos
	c.Vel = u.Vel
	c.LastSeen = r.turn
	return nil
}

// MarkScanned flags a creature as scanned. Calling it twice is harmless.
func (r *CreatureRegistry) MarkScanned(id int) error {
	c, err := r.Get(id)
	if err != nil {
		return err
	}
	c.Scanned = true
	return nil
}

// Visible reports whether the creature's position was updated this turn
func (r *CreatureRegistry) Visible(id int) bool {
	c, err := r.Get(id)
	return err == nil && r.turn > 0 && c.LastSeen == r.turn
}

// HasVisibleUnscanned reports whether any unscanned creature was updated this turn
func (r *CreatureRegistry) HasVisibleUnscanned() bool {
	if r.turn == 0 {
		return false
	}
	for i := range r.creatures {
		c := &r.creatures[i]
		if !c.Scanned && c.LastSeen == r.turn {
			return true
		}
	}
	return false
}

// NearestUnscanned returns the position of the unscanned creature closest to
// from. On equal distance the lowest id wins. ok is false when every creature
// has been scanned.
func (r *CreatureRegistry) NearestUnscanned(from Point) (pos Point, ok bool) {
	return r.nearest(from, false)
}

// NearestVisibleUnscanned is NearestUnscanned restricted to creatures seen
// this turn
func (r *CreatureRegistry) NearestVisibleUnscanned(from Point) (pos Point, ok bool) {
	return r.nearest(from, true)
}

func (r *CreatureRegistry) nearest(from Point, visibleOnly bool) (pos Point, ok bool) {
	if visibleOnly && r.turn == 0 {
		return pos, false
	}
	best := 0
	for i := range r.creatures {
		c := &r.creatures[i]
		if c.Scanned || (visibleOnly && c.LastSeen != r.turn) {
			continue
		}
		d := c.Pos.DistSq(from)
		if !ok || d < best {
			best = d
			pos = c.Pos
			ok = true
		}
	}
	return pos, ok
}
