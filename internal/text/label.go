package text

import "fmt"

type LabelKind int

const (
	GhostLabel LabelKind = iota
	CameraLabel
)

func (k LabelKind) String() string {
	if k == CameraLabel {
		return "camera"
	}
	return "ghost"
}

// Label addresses one of the two text elements under an actor's parent
// element.
type Label struct {
	Parent string
	Kind   LabelKind
}

// Selector is the query the page uses to find the element.
func (l Label) Selector() string {
	return fmt.Sprintf("%s .%s-text", l.Parent, l.Kind)
}

// Sink receives label writes. Only opacity and the hidden toggle are ever
// written.
type Sink interface {
	SetOpacity(l Label, opacity float64)
	SetHidden(l Label, hidden bool)
}

// NopSink discards every write.
type NopSink struct{}

func (NopSink) SetOpacity(Label, float64) {}
func (NopSink) SetHidden(Label, bool)     {}

// Recorder keeps the last written values and counts writes.
type Recorder struct {
	Opacity map[Label]float64
	Hidden  map[Label]bool
	Writes  int
}

func NewRecorder() *Recorder {
	return &Recorder{
		Opacity: make(map[Label]float64),
		Hidden:  make(map[Label]bool),
	}
}

func (r *Recorder) SetOpacity(l Label, opacity float64) {
	r.Opacity[l] = opacity
	r.Writes++
}

func (r *Recorder) SetHidden(l Label, hidden bool) {
	r.Hidden[l] = hidden
	r.Writes++
}
