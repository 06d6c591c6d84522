package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

func main() {
	// stdout belongs to the game host; everything else goes to stderr
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	log.SetPrefix("seabot")

	cfg, err := LoadConfig(os.Args[1:], ".env")
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		log.Fatal("bad configuration", "err", err)
	}
	log.SetLevel(cfg.LogLevel)

	if cfg.ReplayPath != "" {
		if err := runReplay(cfg, os.Stdout); err != nil {
			log.Fatal("replay failed", "err", err)
		}
		return
	}
	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal("aborting", "err", err)
	}
}

// run plays one game: initial snapshot, then one turn per loop until the
// host closes the input
func run(cfg Config, in io.Reader, out io.Writer) error {
	r := NewReader(in)
	initial, err := r.ReadInitial()
	if err != nil {
		return errors.Wrap(err, "initial snapshot")
	}
	agent, err := NewAgent(cfg.Targeter(), initial)
	if err != nil {
		return err
	}
	log.Info("game started", "creatures", len(initial.Creatures), "strategy", cfg.Strategy)

	if cfg.RecordPath != "" {
		if rec := startRecorder(cfg.RecordPath, initial); rec != nil {
			defer rec.Close()
			agent.AddObserver(rec)
		}
	}
	if cfg.VizAddr != "" {
		feed := NewFeed()
		auth := NewFeedAuth(cfg.VizSecret)
		srv, err := ServeFeed(cfg.VizAddr, feed, auth)
		if err != nil {
			log.Warn("spectator feed disabled", "err", err)
		} else {
			defer srv.Close()
			agent.AddObserver(feed)
			announceFeed(srv.Addr, auth)
		}
	}

	w := bufio.NewWriter(out)
	for {
		ts, err := r.ReadTurn()
		if err == io.EOF {
			log.Info("input closed", "turns", agent.TurnNumber())
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "turn %d", agent.TurnNumber()+1)
		}
		dirs, err := agent.Turn(ts)
		if err != nil {
			return errors.Wrapf(err, "turn %d", agent.TurnNumber())
		}
		for _, d := range dirs {
			fmt.Fprintln(w, d)
		}
		if err := w.Flush(); err != nil {
			return errors.Wrap(err, "write directives")
		}
	}
}

// startRecorder opens the journal; failures only disable recording
func startRecorder(path string, initial InitialSnapshot) *Recorder {
	rec, err := OpenRecorder(path)
	if err != nil {
		log.Warn("recorder disabled", "path", path, "err", err)
		return nil
	}
	id, err := rec.StartMatch(initial)
	if err != nil {
		log.Warn("recorder disabled", "path", path, "err", err)
		rec.Close()
		return nil
	}
	log.Info("recording match", "path", path, "match", id)
	return rec
}

func announceFeed(addr string, auth *FeedAuth) {
	if auth.Open() {
		log.Info("spectate", "url", spectatorURL(addr, ""))
		return
	}
	tok, err := auth.Issue()
	if err != nil {
		log.Warn("could not issue spectator token", "err", err)
		return
	}
	log.Info("spectate", "url", spectatorURL(addr, tok))
}

func runReplay(cfg Config, out io.Writer) error {
	rec, err := OpenRecorder(cfg.ReplayPath)
	if err != nil {
		return err
	}
	defer rec.Close()

	id := cfg.ReplayMatch
	if id == "" {
		if id, err = rec.LatestMatch(); err != nil {
			return err
		}
	}
	diverged, err := Replay(rec, id, cfg.Targeter(), out)
	if err != nil {
		return err
	}
	log.Info("replay finished", "match", id, "diverged_turns", diverged)
	return nil
}
