package main

import (
	"flag"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the bot's runtime configuration. Flags win over environment
// variables, which win over the built-in defaults.
type Config struct {
	Strategy     Strategy
	LightBattery int
	ProbeStep    int
	Message      string
	LogLevel     log.Level

	RecordPath string // sqlite match journal, empty = off
	VizAddr    string // spectator feed listen address, empty = off
	VizSecret  string // HS256 key for spectator tokens, empty = open feed

	ReplayPath  string // replay a recorded match instead of playing
	ReplayMatch string // match id to replay, empty = latest
}

// LoadConfig reads .env (if present), the environment and args
func LoadConfig(args []string, envFile string) (Config, error) {
	var cfg Config
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Wrapf(err, "load %s", envFile)
		}
	}

	lightDefault, err := envInt("SEABOT_LIGHT_BATTERY", DefaultLightBattery)
	if err != nil {
		return cfg, err
	}
	stepDefault, err := envInt("SEABOT_PROBE_STEP", DefaultProbeStep)
	if err != nil {
		return cfg, err
	}

	f := flag.NewFlagSet("seabot", flag.ContinueOnError)
	strategy := f.String("strategy", envString("SEABOT_STRATEGY", "direct"), "targeting strategy: direct, radar or auto")
	f.IntVar(&cfg.LightBattery, "light-battery", lightDefault, "light is switched on above this battery level")
	f.IntVar(&cfg.ProbeStep, "probe-step", stepDefault, "diagonal step toward a radar quadrant")
	f.StringVar(&cfg.Message, "message", envString("SEABOT_MESSAGE", ""), "message appended to every directive")
	level := f.String("log-level", envString("SEABOT_LOG_LEVEL", "info"), "debug, info, warn or error")
	f.StringVar(&cfg.RecordPath, "record", envString("SEABOT_RECORD", ""), "record the match to this sqlite file")
	f.StringVar(&cfg.VizAddr, "viz", envString("SEABOT_VIZ_ADDR", ""), "serve a spectator feed on this address")
	f.StringVar(&cfg.VizSecret, "viz-secret", envString("SEABOT_VIZ_SECRET", ""), "require tokens signed with this secret on the feed")
	f.StringVar(&cfg.ReplayPath, "replay", "", "replay a match from this sqlite file and exit")
	f.StringVar(&cfg.ReplayMatch, "match", "", "match id for -replay (default: latest)")
	if err := f.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.Strategy, err = ParseStrategy(*strategy); err != nil {
		return cfg, err
	}
	if cfg.LogLevel, err = log.ParseLevel(*level); err != nil {
		return cfg, errors.Wrap(err, "log-level")
	}
	if cfg.ProbeStep <= 0 {
		return cfg, errors.Errorf("probe-step must be positive, got %d", cfg.ProbeStep)
	}
	return cfg, nil
}

// Targeter builds the targeting settings described by cfg
func (cfg Config) Targeter() Targeter {
	t := NewTargeter(cfg.Strategy)
	t.LightBattery = cfg.LightBattery
	t.ProbeStep = cfg.ProbeStep
	t.Message = cfg.Message
	return t
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return n, nil
}
