package director

import "github.com/go-gl/mathgl/mgl64"

// Scenario is the authored description of one scroll-driven scene
type Scenario struct {
	Version  string    `yaml:"version"`
	Name     string    `yaml:"name"`
	Camera   Camera    `yaml:"camera"`
	Ghosts   []Ghost   `yaml:"ghosts"`
	Actors   []Actor   `yaml:"actors"`
	Sections []Section `yaml:"sections"`
}

// Point is a position in scene space
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p Point) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Waypoint is a path vertex; Kind and Arc shape the segment that starts here
type Waypoint struct {
	Point `yaml:",inline"`
	Kind  string `yaml:"kind,omitempty"` // straight | arc
	Arc   string `yaml:"arc,omitempty"`  // upper | lower | forward-down
}

// Camera holds the camera path, the static home shot and the rig points
type Camera struct {
	Waypoints []Waypoint `yaml:"waypoints"`
	Home      Shot       `yaml:"home"`
	Rig       Rig        `yaml:"rig"`
}

// Shot is a fixed camera placement
type Shot struct {
	Position Point `yaml:"position"`
	LookAt   Point `yaml:"look_at"`
}

// Rig points are projected onto the camera path to find phase ranges
type Rig struct {
	HomeTransitionFrom Point `yaml:"home_transition_from"`
	HomeTransitionTo   Point `yaml:"home_transition_to"`
	RotationStart      Point `yaml:"rotation_start"`
	RotationEnd        Point `yaml:"rotation_end"`
	RotationTarget     Point `yaml:"rotation_target"`
	FinalLookAt        Point `yaml:"final_look_at"`
	ReverseLook        Point `yaml:"reverse_look"`
}

// Ghost loops its idle path while the page sits on the home section
type Ghost struct {
	ID        string     `yaml:"id"`
	Waypoints []Waypoint `yaml:"waypoints"`
	Phase     float64    `yaml:"phase"` // starting offset on the loop, 0..1
}

// Actor travels its own path while the camera crosses its trigger window
type Actor struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"` // parent element of the ghost/camera texts
	Waypoints []Waypoint `yaml:"waypoints"`
	Trigger   Point      `yaml:"trigger"`
	End       Point      `yaml:"end"`
	TextFades []Point    `yaml:"text_fades,omitempty"`
}

// Section is one named page section; Height is in viewport heights
type Section struct {
	Name   string  `yaml:"name"`
	Mode   string  `yaml:"mode"`
	Height float64 `yaml:"height"`
}
