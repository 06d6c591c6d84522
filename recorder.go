package main

import (
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// Recorder journals a match to SQLite: the initial snapshot, every turn
// snapshot (msgpack) and the directives issued for it
type Recorder struct {
	conn    *sql.DB
	matchID string
	broken  bool
}

// OpenRecorder opens (or creates) the journal at path
func OpenRecorder(path string) (*Recorder, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	r := &Recorder{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection
func (r *Recorder) Close() error {
	return r.conn.Close()
}

func (r *Recorder) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		initial BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		match_id TEXT NOT NULL REFERENCES matches(id),
		turn INTEGER NOT NULL,
		my_score INTEGER NOT NULL DEFAULT 0,
		foe_score INTEGER NOT NULL DEFAULT 0,
		snapshot BLOB NOT NULL,
		PRIMARY KEY (match_id, turn)
	);

	CREATE TABLE IF NOT EXISTS directives (
		match_id TEXT NOT NULL REFERENCES matches(id),
		turn INTEGER NOT NULL,
		drone_id INTEGER NOT NULL,
		move INTEGER NOT NULL,
		x INTEGER NOT NULL DEFAULT 0,
		y INTEGER NOT NULL DEFAULT 0,
		light INTEGER NOT NULL,
		PRIMARY KEY (match_id, turn, drone_id)
	);
	`
	_, err := r.conn.Exec(schema)
	return errors.Wrap(err, "migrate journal")
}

// StartMatch stores the initial snapshot under a fresh match id
func (r *Recorder) StartMatch(initial InitialSnapshot) (string, error) {
	blob, err := msgpack.Marshal(&initial)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := r.conn.Exec("INSERT INTO matches (id, initial) VALUES (?, ?)", id, blob); err != nil {
		return "", errors.Wrap(err, "insert match")
	}
	r.matchID = id
	return id, nil
}

// MatchID returns the id of the match being recorded
func (r *Recorder) MatchID() string {
	return r.matchID
}

// ObserveTurn records the turn. A failing journal is logged once and then
// left alone so the game keeps running.
func (r *Recorder) ObserveTurn(a *Agent, ts TurnSnapshot, dirs []Directive) {
	if r.broken || r.matchID == "" {
		return
	}
	if err := r.RecordTurn(a.TurnNumber(), ts, dirs); err != nil {
		log.Warn("recorder disabled", "err", err)
		r.broken = true
	}
}

// RecordTurn writes one turn in a single transaction
func (r *Recorder) RecordTurn(turn int, ts TurnSnapshot, dirs []Directive) error {
	blob, err := msgpack.Marshal(&ts)
	if err != nil {
		return err
	}
	tx, err := r.conn.Begin()
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO turns (match_id, turn, my_score, foe_score, snapshot) VALUES (?, ?, ?, ?, ?)",
		r.matchID, turn, ts.MyScore, ts.FoeScore, blob,
	); err != nil {
		return errors.Wrap(err, "insert turn")
	}

	stmt, err := tx.Prepare(`INSERT INTO directives (match_id, turn, drone_id, move, x, y, light) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare directive")
	}
	defer stmt.Close()
	for _, d := range dirs {
		if _, err := stmt.Exec(r.matchID, turn, d.DroneID, d.Move, d.Dest.X, d.Dest.Y, d.Light); err != nil {
			return errors.Wrap(err, "insert directive")
		}
	}
	return tx.Commit()
}

// LatestMatch returns the id of the most recently started match
func (r *Recorder) LatestMatch() (string, error) {
	var id string
	err := r.conn.QueryRow("SELECT id FROM matches ORDER BY rowid DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", errors.New("journal has no matches")
	}
	return id, err
}

// LoadMatch returns the initial snapshot and every turn of a match, in order
func (r *Recorder) LoadMatch(id string) (InitialSnapshot, []TurnSnapshot, error) {
	var initial InitialSnapshot
	var blob []byte
	err := r.conn.QueryRow("SELECT initial FROM matches WHERE id = ?", id).Scan(&blob)
	if err == sql.ErrNoRows {
		return initial, nil, errors.Errorf("match %s not found", id)
	}
	if err != nil {
		return initial, nil, err
	}
	if err := msgpack.Unmarshal(blob, &initial); err != nil {
		return initial, nil, errors.Wrap(err, "decode initial snapshot")
	}

	rows, err := r.conn.Query("SELECT snapshot FROM turns WHERE match_id = ? ORDER BY turn", id)
	if err != nil {
		return initial, nil, err
	}
	defer rows.Close()

	var turns []TurnSnapshot
	for rows.Next() {
		var ts TurnSnapshot
		if err := rows.Scan(&blob); err != nil {
			return initial, nil, err
		}
		if err := msgpack.Unmarshal(blob, &ts); err != nil {
			return initial, nil, errors.Wrapf(err, "decode turn %d", len(turns)+1)
		}
		turns = append(turns, ts)
	}
	return initial, turns, rows.Err()
}

// Directives returns the recorded directives of one turn, by drone id
func (r *Recorder) Directives(matchID string, turn int) ([]Directive, error) {
	rows, err := r.conn.Query(`
		SELECT drone_id, move, x, y, light FROM directives
		WHERE match_id = ? AND turn = ? ORDER BY drone_id
	`, matchID, turn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dirs []Directive
	for rows.Next() {
		var d Directive
		if err := rows.Scan(&d.DroneID, &d.Move, &d.Dest.X, &d.Dest.Y, &d.Light); err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, rows.Err()
}
