package motion

import (
	"math"
	"time"

	"github.com/samber/lo"
)

// MomentumConfig tunes the scroll momentum filter.
type MomentumConfig struct {
	Friction       float64 // velocity kept per update, ≈0.88
	Responsiveness float64 // pull toward the target, 1/s
	InputGain      float64 // share of the raw input velocity fed back, ≈0.15
	MaxVelocity    float64 // progress units per second
	MinStep        time.Duration
	MaxStep        time.Duration
}

// DefaultMomentumConfig returns the tuning used on the live page.
func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		Friction:       0.88,
		Responsiveness: 8,
		InputGain:      0.15,
		MaxVelocity:    3,
		MinStep:        time.Millisecond,
		MaxStep:        100 * time.Millisecond,
	}
}

// Momentum smooths a raw progress signal in [0,1] into a velocity-damped one.
type Momentum struct {
	cfg MomentumConfig

	smoothed   float64
	velocity   float64
	lastTarget float64
	lastTime   time.Time
	primed     bool
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	if cfg.MinStep <= 0 {
		cfg.MinStep = time.Millisecond
	}
	if cfg.MaxStep < cfg.MinStep {
		cfg.MaxStep = cfg.MinStep
	}
	return &Momentum{cfg: cfg}
}

// Update feeds a new target sampled at now and returns the smoothed value.
// The first call after construction or Reset snaps to the target.
func (m *Momentum) Update(target float64, now time.Time) float64 {
	if math.IsNaN(target) {
		target = m.lastTarget
	}
	target = Clamp01(target)

	if !m.primed {
		m.smoothed, m.lastTarget, m.velocity = target, target, 0
		m.lastTime = now
		m.primed = true
		return m.smoothed
	}

	step := now.Sub(m.lastTime)
	step = lo.Clamp(step, m.cfg.MinStep, m.cfg.MaxStep)
	dt := step.Seconds()

	inputVelocity := (target - m.lastTarget) / dt

	m.velocity = Approach(m.velocity, 0, 1-m.cfg.Friction)
	m.velocity += (target-m.smoothed)*m.cfg.Responsiveness + inputVelocity*m.cfg.InputGain
	if m.cfg.MaxVelocity > 0 {
		m.velocity = lo.Clamp(m.velocity, -m.cfg.MaxVelocity, m.cfg.MaxVelocity)
	}

	m.smoothed += m.velocity * dt
	if m.smoothed < 0 || m.smoothed > 1 {
		m.smoothed = Clamp01(m.smoothed)
		m.velocity = 0
	}

	m.lastTarget = target
	m.lastTime = now
	return m.smoothed
}

// Reset forgets all state; the next Update snaps.
func (m *Momentum) Reset() {
	m.smoothed, m.velocity, m.lastTarget = 0, 0, 0
	m.lastTime = time.Time{}
	m.primed = false
}

func (m *Momentum) Value() float64    { return m.smoothed }
func (m *Momentum) Velocity() float64 { return m.velocity }
