package director

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteScenario stores an authored scene as YAML: the camera waypoint table
// with its rig reference points and home shot, the idle ghosts, the POV
// actors with their trigger windows and label fades, and the section list.
// Segment and arc kinds are written as their names ("arc", "upper").
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScenario loads a scene written by WriteScenario or by hand. Unknown
// keys are rejected so a misspelt field does not silently fall back to its
// zero value; an empty file is an invalid scenario. The result still has to
// go through Build before it can drive an engine.
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var scenario Scenario
	if err := dec.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidScenario, path)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &scenario, nil
}
