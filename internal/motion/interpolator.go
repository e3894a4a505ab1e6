package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates two points component-wise
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp01 clamps x into [0,1]; NaN maps to 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return lo.Clamp(x, 0, 1)
}

// Smoothstep is x²(3−2x) on a clamped input.
func Smoothstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// Fraction returns where v sits between a and b, clamped to [0,1].
// An empty range reports 1 once v has reached it.
func Fraction(v, a, b float64) float64 {
	if b <= a {
		if v >= a {
			return 1
		}
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// Approach moves current toward target by rate (0 = hold, 1 = snap).
// Every exponential smoother in the engine goes through here.
func Approach(current, target, rate float64) float64 {
	return current + (target-current)*rate
}

// ApproachAsymmetric uses rise when target is above current and fall otherwise.
func ApproachAsymmetric(current, target, rise, fall float64) float64 {
	if target > current {
		return Approach(current, target, rise)
	}
	return Approach(current, target, fall)
}

// ShortestAngle wraps an angle difference into (-π, π].
func ShortestAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
