package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Replay feeds a recorded match through a fresh Agent and writes its
// directives to w, one turn after another. It returns the number of turns
// whose directives differ from the ones recorded.
func Replay(rec *Recorder, matchID string, t Targeter, w io.Writer) (int, error) {
	initial, turns, err := rec.LoadMatch(matchID)
	if err != nil {
		return 0, err
	}
	agent, err := NewAgent(t, initial)
	if err != nil {
		return 0, err
	}

	out := bufio.NewWriter(w)
	defer out.Flush()

	diverged := 0
	for i, ts := range turns {
		dirs, err := agent.Turn(ts)
		if err != nil {
			return diverged, errors.Wrapf(err, "turn %d", i+1)
		}
		want, err := rec.Directives(matchID, i+1)
		if err != nil {
			return diverged, err
		}
		if !sameDirectives(dirs, want) {
			diverged++
			log.Warn("replay diverged", "turn", i+1, "got", dirs, "recorded", want)
		}
		for _, d := range dirs {
			fmt.Fprintln(out, d)
		}
	}
	return diverged, nil
}

// sameDirectives compares the commands, ignoring the free-text message
func sameDirectives(a, b []Directive) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		x.Message, y.Message = "", ""
		if !x.Move {
			x.Dest = Point{}
		}
		if !y.Move {
			y.Dest = Point{}
		}
		if x != y {
			return false
		}
	}
	return true
}
