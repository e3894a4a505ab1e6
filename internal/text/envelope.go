package text

import (
	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/actors"
)

// Envelope is a trapezoid over camera progress: linear rise from
// FadeInStart to FadeInEnd, Peak until FadeOutStart, linear fall to 0 at End.
type Envelope struct {
	FadeInStart  float64
	FadeInEnd    float64
	FadeOutStart float64
	End          float64
	Peak         float64
}

// At evaluates the envelope at camera progress p.
func (e Envelope) At(p float64) float64 {
	switch {
	case p < e.FadeInStart || p > e.End:
		return 0
	case p < e.FadeInEnd:
		return e.Peak * (p - e.FadeInStart) / (e.FadeInEnd - e.FadeInStart)
	case p <= e.FadeOutStart:
		return e.Peak
	case e.End > e.FadeOutStart:
		return e.Peak * (e.End - p) / (e.End - e.FadeOutStart)
	default:
		return 0
	}
}

// Envelopes derives the ghost and camera label envelopes from a resolved
// trigger window. The ghost label fades out over the same range the camera
// label fades in. TextFades[0] is the hand-off point and TextFades[1] the
// start of the camera label fade-out; missing values fall back to the
// window midpoint and End-window.
func Envelopes(b actors.Bounds, s Settings) (ghost, camera Envelope) {
	w := s.FadeWindow
	handoff := (b.Trigger + b.End) / 2
	if len(b.TextFades) > 0 {
		handoff = b.TextFades[0]
	}
	handoff = lo.Clamp(handoff, b.Trigger, b.End)

	cameraOut := b.End - w
	if len(b.TextFades) > 1 {
		cameraOut = b.TextFades[1]
	}
	handoffEnd := min(handoff+w, b.End)
	cameraOut = lo.Clamp(cameraOut, handoffEnd, b.End)

	ghost = Envelope{
		FadeInStart:  b.Trigger,
		FadeInEnd:    min(b.Trigger+w, handoff),
		FadeOutStart: handoff,
		End:          handoffEnd,
		Peak:         1,
	}
	camera = Envelope{
		FadeInStart:  handoff,
		FadeInEnd:    handoffEnd,
		FadeOutStart: cameraOut,
		End:          b.End,
		Peak:         s.CameraPeak,
	}
	return ghost, camera
}
