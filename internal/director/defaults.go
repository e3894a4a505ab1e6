package director

func wp(x, y, z float64, kind, arc string) Waypoint {
	return Waypoint{Point: Point{X: x, Y: y, Z: z}, Kind: kind, Arc: arc}
}

// loop is a closed four-arc idle loop of radius r around (cx, y, cz).
func loop(cx, y, cz, r float64) []Waypoint {
	return []Waypoint{
		wp(cx-r, y, cz, "arc", "upper"),
		wp(cx, y, cz-r, "arc", "lower"),
		wp(cx+r, y, cz, "arc", "upper"),
		wp(cx, y, cz+r, "arc", "lower"),
		wp(cx-r, y, cz, "", ""),
	}
}

// DefaultScenario is the built-in scene used when no scenario file is given
// and as the template written by the scenario mode.
func DefaultScenario() *Scenario {
	return &Scenario{
		Version: "1.0",
		Name:    "default",
		Camera: Camera{
			Waypoints: []Waypoint{
				wp(0, 1.6, 10, "straight", ""),
				wp(0, 1.6, 4, "arc", "upper"),
				wp(3, 1.6, 0, "arc", "lower"),
				wp(6, 2.4, -4, "arc", "forward-down"),
				wp(6, 1.2, -9, "straight", ""),
				wp(2, 1.2, -14, "straight", ""),
				wp(0, 1.4, -18, "", ""),
			},
			Home: Shot{
				Position: Point{X: 0, Y: 1.6, Z: 10},
				LookAt:   Point{X: 0, Y: 1.2, Z: 0},
			},
			Rig: Rig{
				HomeTransitionFrom: Point{X: 0, Y: 1.6, Z: 10},
				HomeTransitionTo:   Point{X: 0, Y: 1.6, Z: 4},
				RotationStart:      Point{X: 6, Y: 2.4, Z: -4},
				RotationEnd:        Point{X: 6, Y: 1.2, Z: -9},
				RotationTarget:     Point{X: 12, Y: 1.5, Z: -6},
				FinalLookAt:        Point{X: 0, Y: 1.2, Z: -30},
				ReverseLook:        Point{X: 2, Y: 1.2, Z: -24},
			},
		},
		Ghosts: []Ghost{
			{ID: "wisp", Waypoints: loop(-2, 0.8, 0, 1.5), Phase: 0},
			{ID: "shade", Waypoints: loop(0, 1.2, -2, 1), Phase: 0.33},
			{ID: "glimmer", Waypoints: loop(2, 0.6, 1, 1.2), Phase: 0.66},
		},
		Actors: []Actor{
			{
				ID:    "runner",
				Label: "#ghost-runner",
				Waypoints: []Waypoint{
					wp(-3, 0, 2, "straight", ""),
					wp(-3, 0, -4, "arc", "upper"),
					wp(1, 0, -8, "", ""),
				},
				Trigger:   Point{X: 3, Y: 1.6, Z: 0},
				End:       Point{X: 6, Y: 1.2, Z: -9},
				TextFades: []Point{{X: 6, Y: 2.4, Z: -4}, {X: 6, Y: 1.4, Z: -8}},
			},
			{
				ID:    "drifter",
				Label: "#ghost-drifter",
				Waypoints: []Waypoint{
					wp(9, 1, -2, "arc", "lower"),
					wp(7, 1, -7, "arc", "upper"),
					wp(4, 0.5, -12, "", ""),
				},
				Trigger: Point{X: 6, Y: 2.4, Z: -4},
				End:     Point{X: 2, Y: 1.2, Z: -14},
			},
			{
				ID:    "watcher",
				Label: "#ghost-watcher",
				Waypoints: []Waypoint{
					wp(-1, 0, -10, "arc", "forward-down"),
					wp(-2, 1.5, -15, "straight", ""),
					wp(-1, 1.5, -20, "", ""),
				},
				Trigger:   Point{X: 6, Y: 1.2, Z: -9},
				End:       Point{X: 0, Y: 1.4, Z: -18},
				TextFades: []Point{{X: 4, Y: 1.2, Z: -11.5}},
			},
		},
		Sections: []Section{
			{Name: "home", Mode: "home", Height: 1},
			{Name: "intro", Mode: "section-scroll", Height: 2},
			{Name: "journey", Mode: "pov", Height: 8},
			{Name: "outro", Mode: "end", Height: 1},
		},
	}
}
