package renderer

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/scrollscene/internal/camera"
	"github.com/ivlev/scrollscene/internal/text"
)

// ActorState is what the renderer needs to place one mesh.
type ActorState struct {
	ID       string     `yaml:"id"`
	Position mgl64.Vec3 `yaml:"position"`
	Rotation mgl64.Quat `yaml:"rotation"`
	Opacity  float64    `yaml:"opacity"`
	Visible  bool       `yaml:"visible"`
	LocalT   float64    `yaml:"local_t,omitempty"`
}

// Frame is the complete engine output of one tick.
type Frame struct {
	Index     int          `yaml:"index"`
	Mode      string       `yaml:"mode"`
	Direction string       `yaml:"direction"`
	Progress  float64      `yaml:"progress"`
	Smoothed  float64      `yaml:"smoothed"`
	Camera    camera.Pose  `yaml:"camera"`
	Ghosts    []ActorState `yaml:"ghosts,omitempty"`
	Actors    []ActorState `yaml:"actors,omitempty"`
	Labels    []text.State `yaml:"labels,omitempty"`
}

// Track is a baked sequence of frames.
type Track struct {
	Scenario string  `yaml:"scenario"`
	FPS      int     `yaml:"fps"`
	Frames   []Frame `yaml:"frames"`
}

// WriteTrack writes a track to a YAML file
func WriteTrack(track *Track, path string) error {
	data, err := yaml.Marshal(track)
	if err != nil {
		return fmt.Errorf("marshal track: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Visible returns the actors that should be drawn this frame.
func (f *Frame) Visible() []ActorState {
	var out []ActorState
	for _, a := range f.Ghosts {
		if a.Visible {
			out = append(out, a)
		}
	}
	for _, a := range f.Actors {
		if a.Visible {
			out = append(out, a)
		}
	}
	return out
}
