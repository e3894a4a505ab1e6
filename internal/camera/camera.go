package camera

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollscene/internal/curve"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/scroll"
)

// Phase is the orientation rule that produced a pose.
type Phase int

const (
	PhaseDefault Phase = iota
	PhaseHomeTransition
	PhaseRotation
	PhaseEndSequence
)

func (p Phase) String() string {
	switch p {
	case PhaseHomeTransition:
		return "home-transition"
	case PhaseRotation:
		return "rotation"
	case PhaseEndSequence:
		return "end-sequence"
	default:
		return "default"
	}
}

// Rig holds the fixed reference points of the camera choreography. Phase
// ranges are found by projecting the points onto the camera path once.
type Rig struct {
	HomeTransitionFrom mgl64.Vec3 // point1
	HomeTransitionTo   mgl64.Vec3 // point2
	RotationStart      mgl64.Vec3
	RotationEnd        mgl64.Vec3
	RotationTarget     mgl64.Vec3 // yaw reference during the rotation phase
	FinalLookAt        mgl64.Vec3
	ReverseLook        mgl64.Vec3 // end-sequence origin when scrolling backward
}

// Settings are the tunable constants of the controller.
type Settings struct {
	WideFOV           float64
	EndFOV            float64
	EndSequenceStart  float64
	LevelUntil        float64 // tangent pitch is flattened below this progress
	RotationOvershoot float64
	OrbitRadius       float64
	SnapFrom          float64 // sampled progress that triggers the origin snap
	SnapTo            float64
	Samples           int
}

func DefaultSettings() Settings {
	return Settings{
		WideFOV:           80,
		EndFOV:            20,
		EndSequenceStart:  0.8,
		LevelUntil:        0.15,
		RotationOvershoot: -1.75,
		OrbitRadius:       1,
		SnapFrom:          0.99,
		SnapTo:            0.973,
		Samples:           curve.DefaultSamples,
	}
}

// Pose is the controller output consumed by the renderer.
type Pose struct {
	Position      mgl64.Vec3 `yaml:"position"`
	LookAt        mgl64.Vec3 `yaml:"look_at"`
	Orientation   mgl64.Quat `yaml:"orientation"`
	FOV           float64    `yaml:"fov"`
	Phase         Phase      `yaml:"phase"`
	TargetVisible bool       `yaml:"target_visible"`
}

// Ranges are the rig points resolved to camera progress.
type Ranges struct {
	HomeFrom, HomeTo           float64
	RotationStart, RotationEnd float64
}

// Controller turns camera progress into a pose. It is not safe for
// concurrent use; the engine drives it once per tick.
type Controller struct {
	log      *slog.Logger
	rig      Rig
	settings Settings

	resolved bool
	ranges   Ranges

	homeRotation    mgl64.Quat
	hasHomeRotation bool

	rotationActive bool
	startYaw       float64

	endScreen bool
	endActive bool
	endOrigin float64
	endFrom   mgl64.Vec3
	havePose  bool
	last      Pose
}

func NewController(log *slog.Logger, rig Rig, settings Settings) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{log: log, rig: rig, settings: settings}
}

// Ranges resolves (once) and returns the phase ranges on path.
func (c *Controller) Ranges(path *curve.Path) (Ranges, error) {
	if c.resolved {
		return c.ranges, nil
	}
	var (
		r   Ranges
		err error
	)
	points := []struct {
		dst *float64
		pt  mgl64.Vec3
	}{
		{&r.HomeFrom, c.rig.HomeTransitionFrom},
		{&r.HomeTo, c.rig.HomeTransitionTo},
		{&r.RotationStart, c.rig.RotationStart},
		{&r.RotationEnd, c.rig.RotationEnd},
	}
	for _, p := range points {
		if *p.dst, err = path.ClosestParameter(p.pt, c.settings.Samples); err != nil {
			return Ranges{}, fmt.Errorf("resolve camera rig: %w", err)
		}
	}
	c.SetRanges(r)
	c.log.Debug("camera ranges resolved",
		"home_from", r.HomeFrom, "home_to", r.HomeTo,
		"rotation_start", r.RotationStart, "rotation_end", r.RotationEnd)
	return r, nil
}

// SetRanges overrides the resolved phase ranges.
func (c *Controller) SetRanges(r Ranges) {
	c.ranges = r
	c.resolved = true
}

// CacheHomeRotation stores the orientation the camera had when the home
// scroll section ended; it enables the home-transition phase.
func (c *Controller) CacheHomeRotation(q mgl64.Quat) {
	c.homeRotation = q
	c.hasHomeRotation = true
}

// ClearHomeRotation disables the home-transition phase.
func (c *Controller) ClearHomeRotation() {
	c.hasHomeRotation = false
}

// SetEndScreen toggles the end-screen flag gating the end sequence.
func (c *Controller) SetEndScreen(on bool) {
	c.endScreen = on
}

// Reset clears the per-phase runtime flags.
func (c *Controller) Reset() {
	c.rotationActive = false
	c.endActive = false
	c.last.FOV = c.settings.WideFOV
	c.last.Phase = PhaseDefault
}

// Last returns the most recent pose.
func (c *Controller) Last() Pose {
	return c.last
}

// Update computes the pose at smoothed progress p. A path that cannot be
// evaluated leaves the previous pose in place and returns the error.
func (c *Controller) Update(path *curve.Path, p float64, dir scroll.Direction) (Pose, error) {
	p = motion.Clamp01(p)
	r, err := c.Ranges(path)
	if err != nil {
		return c.last, err
	}
	pos, err := path.PointAt(p)
	if err != nil {
		return c.last, err
	}

	pose := Pose{Position: pos, FOV: c.settings.WideFOV, Phase: PhaseDefault}
	look, rot, ok := c.defaultLook(path, p, pos)
	if !ok {
		// No usable tangent: keep the previous orientation.
		rot = c.last.Orientation
		if !c.havePose {
			rot = mgl64.QuatIdent()
		}
		look = pos.Add(rot.Rotate(motion.Forward))
	}
	pose.LookAt, pose.Orientation = look, rot

	switch {
	case c.hasHomeRotation && p <= r.HomeTo:
		s := motion.Smoothstep(motion.Fraction(p, r.HomeFrom, r.HomeTo))
		pose.Orientation = motion.Slerp(c.homeRotation, rot, s)
		pose.LookAt = pos.Add(pose.Orientation.Rotate(motion.Forward))
		pose.Phase = PhaseHomeTransition

	case p >= r.RotationStart && p <= r.RotationEnd:
		c.rotate(&pose, p, r)

	case p > c.settings.EndSequenceStart && c.endScreen:
		c.endSequence(&pose, p, dir)
	}

	if pose.Phase != PhaseRotation {
		c.rotationActive = false
	}
	if pose.Phase != PhaseEndSequence {
		c.endActive = false
	}
	c.last, c.havePose = pose, true
	return pose, nil
}

// defaultLook looks along the tangent; pitch is flattened early on so the
// camera does not tilt before it has started moving.
func (c *Controller) defaultLook(path *curve.Path, p float64, pos mgl64.Vec3) (mgl64.Vec3, mgl64.Quat, bool) {
	tan, err := path.TangentAt(p)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Quat{}, false
	}
	if p < c.settings.LevelUntil {
		tan = mgl64.Vec3{tan.X(), 0, tan.Z()}
	}
	look := pos.Add(tan)
	rot, ok := motion.LookAtRotation(pos, look)
	return look, rot, ok
}

func (c *Controller) rotate(pose *Pose, p float64, r Ranges) {
	if !c.rotationActive {
		c.startYaw = motion.Yaw(pose.LookAt.Sub(pose.Position))
		c.rotationActive = true
	}
	targetYaw := motion.Yaw(c.rig.RotationTarget.Sub(pose.Position))
	diff := motion.ShortestAngle(targetYaw-c.startYaw) * c.settings.RotationOvershoot

	s := motion.Smoothstep(motion.Fraction(p, r.RotationStart, r.RotationEnd))
	yaw := c.startYaw + diff*s

	pose.LookAt = pose.Position.Add(motion.YawDirection(yaw).Mul(c.settings.OrbitRadius))
	if rot, ok := motion.LookAtRotation(pose.Position, pose.LookAt); ok {
		pose.Orientation = rot
	}
	pose.Phase = PhaseRotation
}

// endSequence narrows the FOV and swings the look towards FinalLookAt. The
// origin is fixed on entry: scrolling forward it starts at the current
// progress (0.99 snaps back to 0.973) and the captured lookAt; scrolling
// backward it starts at EndSequenceStart and ReverseLook, so the blend eases
// back down as progress falls.
func (c *Controller) endSequence(pose *Pose, p float64, dir scroll.Direction) {
	if !c.endActive {
		switch {
		case dir == scroll.Backward:
			c.endOrigin = c.settings.EndSequenceStart
			c.endFrom = c.rig.ReverseLook
		default:
			c.endOrigin = p
			if math.Abs(p-c.settings.SnapFrom) < 1e-9 {
				c.endOrigin = c.settings.SnapTo
			}
			c.endFrom = pose.LookAt
			if c.havePose {
				c.endFrom = c.last.LookAt
			}
		}
		c.endActive = true
	}

	s := motion.Smoothstep(motion.Fraction(p, c.endOrigin, 1))
	pose.LookAt = motion.LerpVec3(c.endFrom, c.rig.FinalLookAt, s)
	pose.FOV = motion.Lerp(c.settings.WideFOV, c.settings.EndFOV, s)
	if rot, ok := motion.LookAtRotation(pose.Position, pose.LookAt); ok {
		pose.Orientation = rot
	}
	pose.Phase = PhaseEndSequence
}

func (p Phase) MarshalYAML() (any, error) {
	return p.String(), nil
}
