package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/restartfu/gophig"

	"github.com/ivlev/scrollscene/internal/actors"
	"github.com/ivlev/scrollscene/internal/camera"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/text"
)

// Config holds every tuning constant of the engine and the CLI.
type Config struct {
	Scene struct {
		ScenarioPath string // empty = built-in default scenario
		ScenarioDir  string
		LogLevel     string // Can be "debug", "info", "warn", "error"
	}
	Momentum struct {
		Friction       float64
		Responsiveness float64
		InputGain      float64
		MaxVelocity    float64
		MinStepMillis  int
		MaxStepMillis  int
	}
	Camera struct {
		WideFOV           float64
		EndFOV            float64
		EndSequenceStart  float64
		LevelUntil        float64
		RotationOvershoot float64
		OrbitRadius       float64
		SnapFrom          float64
		SnapTo            float64
	}
	Actors struct {
		Smoothing float64
		FadeFrom  float64
	}
	Text struct {
		FadeWindow    float64
		CameraPeak    float64
		RiseRate      float64
		FallRate      float64
		HideThreshold float64
	}
	Search struct {
		Samples int // closest-parameter resolution, 800..2000
	}
	Idle struct {
		LoopSeconds    float64
		TransitionLift float64
	}
	Render struct {
		Viewport    float64 // synthetic viewport height in pixels
		FPS         int
		Frames      int // frames per sweep direction
		PreviewSize int
		Output      string
	}
}

// DefaultConfig returns a config with prefilled default values.
func DefaultConfig() Config {
	c := Config{}

	c.Scene.ScenarioPath = ""
	c.Scene.ScenarioDir = "scenarios"
	c.Scene.LogLevel = "info"

	m := motion.DefaultMomentumConfig()
	c.Momentum.Friction = m.Friction
	c.Momentum.Responsiveness = m.Responsiveness
	c.Momentum.InputGain = m.InputGain
	c.Momentum.MaxVelocity = m.MaxVelocity
	c.Momentum.MinStepMillis = int(m.MinStep / time.Millisecond)
	c.Momentum.MaxStepMillis = int(m.MaxStep / time.Millisecond)

	cs := camera.DefaultSettings()
	c.Camera.WideFOV = cs.WideFOV
	c.Camera.EndFOV = cs.EndFOV
	c.Camera.EndSequenceStart = cs.EndSequenceStart
	c.Camera.LevelUntil = cs.LevelUntil
	c.Camera.RotationOvershoot = cs.RotationOvershoot
	c.Camera.OrbitRadius = cs.OrbitRadius
	c.Camera.SnapFrom = cs.SnapFrom
	c.Camera.SnapTo = cs.SnapTo

	as := actors.DefaultSettings()
	c.Actors.Smoothing = as.Smoothing
	c.Actors.FadeFrom = as.FadeFrom

	ts := text.DefaultSettings()
	c.Text.FadeWindow = ts.FadeWindow
	c.Text.CameraPeak = ts.CameraPeak
	c.Text.RiseRate = ts.RiseRate
	c.Text.FallRate = ts.FallRate
	c.Text.HideThreshold = ts.HideThreshold

	c.Search.Samples = as.Samples

	c.Idle.LoopSeconds = 12
	c.Idle.TransitionLift = 1.5

	c.Render.Viewport = 900
	c.Render.FPS = 60
	c.Render.Frames = 600
	c.Render.PreviewSize = 1024
	c.Render.Output = "out"

	return c
}

func (c Config) MomentumConfig() motion.MomentumConfig {
	return motion.MomentumConfig{
		Friction:       c.Momentum.Friction,
		Responsiveness: c.Momentum.Responsiveness,
		InputGain:      c.Momentum.InputGain,
		MaxVelocity:    c.Momentum.MaxVelocity,
		MinStep:        time.Duration(c.Momentum.MinStepMillis) * time.Millisecond,
		MaxStep:        time.Duration(c.Momentum.MaxStepMillis) * time.Millisecond,
	}
}

func (c Config) CameraSettings() camera.Settings {
	return camera.Settings{
		WideFOV:           c.Camera.WideFOV,
		EndFOV:            c.Camera.EndFOV,
		EndSequenceStart:  c.Camera.EndSequenceStart,
		LevelUntil:        c.Camera.LevelUntil,
		RotationOvershoot: c.Camera.RotationOvershoot,
		OrbitRadius:       c.Camera.OrbitRadius,
		SnapFrom:          c.Camera.SnapFrom,
		SnapTo:            c.Camera.SnapTo,
		Samples:           c.Search.Samples,
	}
}

func (c Config) ActorSettings() actors.Settings {
	return actors.Settings{
		Smoothing: c.Actors.Smoothing,
		Samples:   c.Search.Samples,
		FadeFrom:  c.Actors.FadeFrom,
	}
}

func (c Config) TextSettings() text.Settings {
	return text.Settings{
		FadeWindow:    c.Text.FadeWindow,
		CameraPeak:    c.Text.CameraPeak,
		RiseRate:      c.Text.RiseRate,
		FallRate:      c.Text.FallRate,
		HideThreshold: c.Text.HideThreshold,
	}
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	unit := func(v float64) bool { return v >= 0 && v <= 1 }

	check(c.Momentum.Friction >= 0 && c.Momentum.Friction < 1, "Momentum.Friction %v outside [0,1)", c.Momentum.Friction)
	check(c.Momentum.MaxVelocity > 0, "Momentum.MaxVelocity must be positive")
	check(c.Momentum.MinStepMillis > 0 && c.Momentum.MinStepMillis <= c.Momentum.MaxStepMillis,
		"Momentum step range [%d,%d] ms invalid", c.Momentum.MinStepMillis, c.Momentum.MaxStepMillis)
	check(c.Search.Samples >= 800 && c.Search.Samples <= 2000, "Search.Samples %d outside [800,2000]", c.Search.Samples)
	check(unit(c.Actors.Smoothing) && c.Actors.Smoothing > 0, "Actors.Smoothing %v outside (0,1]", c.Actors.Smoothing)
	check(unit(c.Actors.FadeFrom), "Actors.FadeFrom %v outside [0,1]", c.Actors.FadeFrom)
	check(unit(c.Text.RiseRate) && unit(c.Text.FallRate), "Text rates must be in [0,1]")
	check(unit(c.Text.CameraPeak), "Text.CameraPeak %v outside [0,1]", c.Text.CameraPeak)
	check(unit(c.Camera.EndSequenceStart), "Camera.EndSequenceStart %v outside [0,1]", c.Camera.EndSequenceStart)
	check(c.Camera.WideFOV > 0 && c.Camera.EndFOV > 0, "Camera FOVs must be positive")
	check(c.Idle.LoopSeconds > 0, "Idle.LoopSeconds must be positive")
	check(c.Render.FPS > 0 && c.Render.Frames > 0, "Render.FPS and Render.Frames must be positive")
	check(c.Render.Viewport > 0, "Render.Viewport must be positive")

	if _, err := ParseLogLevel(c.Scene.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel returns the appropriate slog.Level based on string configuration.
// Returns an error if the provided log level string is not recognized.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unrecognized log level: %q", level)
	}
}

// ReadConfig loads the configuration from path.
// If the file doesn't exist, it creates a new one with default values.
func ReadConfig(path string) (Config, error) {
	g := gophig.NewGophig[Config](path, gophig.TOMLMarshaler{}, os.ModePerm)
	_, err := g.LoadConf()
	if os.IsNotExist(err) {
		err = g.SaveConf(DefaultConfig())
		if err != nil {
			return Config{}, err
		}
	}
	c, err := g.LoadConf()
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}
