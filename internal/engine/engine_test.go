package engine

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/scrollscene/internal/config"
	"github.com/ivlev/scrollscene/internal/director"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/scroll"
	"github.com/ivlev/scrollscene/internal/system"
)

const frameStep = 16 * time.Millisecond

func newTestEngine(t *testing.T) (*Engine, *director.Production) {
	t.Helper()
	prod, err := director.Build(director.DefaultScenario())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return NewEngine(nil, config.DefaultConfig(), prod, nil), prod
}

type actorFlags struct {
	visible   bool
	opacity   float64
	local     float64
	target    float64
	triggered bool
}

func flags(e *Engine) map[string]actorFlags {
	out := make(map[string]actorFlags)
	for _, a := range e.actors.Actors() {
		out[a.ID] = actorFlags{a.Visible, a.Opacity, a.LocalT, a.Target, a.Triggered()}
	}
	return out
}

func sameFlags(t *testing.T, label string, got, want map[string]actorFlags) {
	t.Helper()
	for id, w := range want {
		if got[id] != w {
			t.Errorf("%s: actor %s = %+v, fresh %+v", label, id, got[id], w)
		}
	}
}

func TestHomeRestoreIsBitIdentical(t *testing.T) {
	e, _ := newTestEngine(t)
	now := time.Unix(1000, 0)

	for i := 0; i < 45; i++ {
		e.Tick(0, scroll.Forward, now)
		now = now.Add(frameStep)
	}
	before := e.idle.states()
	clock := e.idle.clock
	if clock == 0 {
		t.Fatal("idle clock did not advance in Home")
	}

	e.SetMode(scroll.SectionScroll, scroll.Forward)
	for _, p := range []float64{0.2, 0.5, 0.8, 0.6} {
		e.Tick(p, scroll.Forward, now)
		now = now.Add(frameStep)
	}
	moved := e.idle.states()
	if moved[0].Position == before[0].Position {
		t.Fatal("ghost did not move during the section transition")
	}

	e.SetMode(scroll.Home, scroll.Backward)
	after := e.idle.states()
	for i := range before {
		if after[i].Position != before[i].Position || after[i].Rotation != before[i].Rotation || after[i].Opacity != before[i].Opacity {
			t.Errorf("ghost %s: restored %+v, captured %+v", before[i].ID, after[i], before[i])
		}
	}
	if e.idle.clock != clock {
		t.Errorf("clock = %v, want captured %v", e.idle.clock, clock)
	}

	e.Tick(0, scroll.Backward, now)
	want := clock + frameStep.Seconds()/config.DefaultConfig().Idle.LoopSeconds
	if math.Abs(e.idle.clock-want) > 1e-12 {
		t.Errorf("clock resumed at %v, want %v", e.idle.clock, want)
	}
}

func TestTransitionArcLifts(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Tick(0, scroll.Forward, time.Unix(0, 0))
	start := e.idle.states()

	e.idle.capture()
	for i, g := range e.idle.ghosts {
		target, err := g.path.SegmentEnd(e.idle.at(g))
		if err != nil {
			t.Fatal(err)
		}

		e.idle.transition(0)
		if g.pose.position != start[i].Position {
			t.Errorf("%s: s=0 at %v, want %v", g.id, g.pose.position, start[i].Position)
		}
		e.idle.transition(0.5)
		top := math.Max(start[i].Position.Y(), target.Y())
		if g.pose.position.Y() < top+0.5 {
			t.Errorf("%s: mid-arc y = %v, endpoints top %v", g.id, g.pose.position.Y(), top)
		}
		e.idle.transition(1)
		if !g.pose.position.ApproxEqualThreshold(target, 1e-9) {
			t.Errorf("%s: s=1 at %v, want %v", g.id, g.pose.position, target)
		}
	}
}

func TestTransitionWithoutLiftIsStraight(t *testing.T) {
	prod, err := director.Build(director.DefaultScenario())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Idle.TransitionLift = 0
	e := NewEngine(nil, cfg, prod, nil)
	e.Tick(0, scroll.Forward, time.Unix(0, 0))

	e.idle.capture()
	for _, g := range e.idle.ghosts {
		segs := g.transition.Segments()
		if len(segs) != 1 || segs[0].Quadratic {
			t.Fatalf("%s: transition segments %+v, want one straight line", g.id, segs)
		}
		e.idle.transition(0.5)
		mid := motion.LerpVec3(segs[0].Start, segs[0].End, 0.5)
		if !g.pose.position.ApproxEqualThreshold(mid, 1e-9) {
			t.Errorf("%s: s=0.5 at %v, want %v", g.id, g.pose.position, mid)
		}
	}
}

func TestPovHidesAndRestores(t *testing.T) {
	e, _ := newTestEngine(t)
	now := time.Unix(0, 0)

	e.SetMode(scroll.Pov, scroll.Forward)
	f := e.Tick(0.1, scroll.Forward, now)
	if f.Camera.TargetVisible {
		t.Error("camera target visible in Pov")
	}
	for _, g := range f.Ghosts {
		if g.Visible {
			t.Errorf("ghost %s visible in Pov", g.ID)
		}
	}

	e.SetMode(scroll.SectionScroll, scroll.Backward)
	f = e.Tick(0.9, scroll.Backward, now.Add(frameStep))
	if !f.Camera.TargetVisible || f.Camera.FOV != 80 {
		t.Errorf("camera after Pov: %+v", f.Camera)
	}
	for _, g := range f.Ghosts {
		if !g.Visible {
			t.Errorf("ghost %s hidden after Pov", g.ID)
		}
	}
}

func TestPovResetIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	fresh := flags(e)

	run := func(from, to float64, dir scroll.Direction, now time.Time) time.Time {
		for i := 0; i <= 100; i++ {
			p := from + (to-from)*float64(i)/100
			e.Tick(p, dir, now)
			now = now.Add(frameStep)
		}
		return now
	}

	now := time.Unix(0, 0)
	e.SetMode(scroll.Pov, scroll.Forward)
	now = run(0, 1, scroll.Forward, now)

	e.SetMode(scroll.End, scroll.Forward)
	sameFlags(t, "forward exit", flags(e), fresh)

	e.SetMode(scroll.Pov, scroll.Backward)
	now = run(1, 0.5, scroll.Backward, now)
	e.SetMode(scroll.SectionScroll, scroll.Backward)
	sameFlags(t, "backward exit", flags(e), fresh)

	for _, st := range e.text.States() {
		if !st.GhostHidden || !st.CameraHidden {
			t.Errorf("labels of %s still shown after reset", st.ActorID)
		}
	}

	e.SetMode(scroll.Pov, scroll.Forward)
	sameFlags(t, "re-entry", flags(e), fresh)
	run(0, 0.05, scroll.Forward, now)
}

func TestBakeSweep(t *testing.T) {
	e, prod := newTestEngine(t)
	page := prod.Page(100)

	frames, err := Bake(context.Background(), e, page, BakeOptions{Frames: 400, FPS: 60, Start: time.Unix(0, 0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 800 {
		t.Fatalf("frames = %d", len(frames))
	}

	rank := func(m string) scroll.Mode {
		mode, err := scroll.ParseMode(m)
		if err != nil {
			t.Fatal(err)
		}
		return mode
	}
	for i := 1; i < len(frames); i++ {
		prev, cur := rank(frames[i-1].Mode), rank(frames[i].Mode)
		if i < 400 && cur < prev {
			t.Fatalf("frame %d: mode went back %v -> %v on the way down", i, prev, cur)
		}
		if i > 400 && cur > prev {
			t.Fatalf("frame %d: mode went forward %v -> %v on the way up", i, prev, cur)
		}
	}
	if frames[399].Mode != "end" || frames[len(frames)-1].Mode != "home" {
		t.Errorf("sweep ends: %s / %s", frames[399].Mode, frames[len(frames)-1].Mode)
	}

	seen := map[string]bool{}
	for _, f := range frames {
		if f.Mode != "pov" {
			continue
		}
		if f.Camera.Phase.String() != "end-sequence" && f.Camera.FOV != 80 {
			t.Fatalf("frame %d: fov %v outside end sequence", f.Index, f.Camera.FOV)
		}
		for _, a := range f.Actors {
			b, ok := e.Actors().Bounds(a.ID)
			if !ok {
				t.Fatalf("actor %s unresolved in Pov", a.ID)
			}
			if a.Visible != b.Contains(f.Smoothed) {
				t.Fatalf("frame %d: actor %s visible=%v at %v, window [%v,%v]",
					f.Index, a.ID, a.Visible, f.Smoothed, b.Trigger, b.End)
			}
			if a.Visible {
				seen[a.ID] = true
			}
		}
	}
	for _, a := range prod.Actors {
		if !seen[a.ID] {
			t.Errorf("actor %s never became visible", a.ID)
		}
	}
}

func TestEndSequenceBlendsBothWays(t *testing.T) {
	e, prod := newTestEngine(t)
	frames, err := Bake(context.Background(), e, prod.Page(100), BakeOptions{Frames: 400, FPS: 60, Start: time.Unix(0, 0)})
	if err != nil {
		t.Fatal(err)
	}

	span := prod.Rig.FinalLookAt.Sub(prod.Rig.ReverseLook).Len()
	tests := []struct {
		name     string
		from, to int
	}{
		{"forward", 1, 400},
		{"backward", 401, len(frames)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var worstFOV, worstLook float64
			narrowed := false
			for i := tt.from; i < tt.to; i++ {
				prev, cur := frames[i-1], frames[i]
				if prev.Mode != "pov" || cur.Mode != "pov" {
					continue
				}
				if d := math.Abs(cur.Camera.FOV - prev.Camera.FOV); d > worstFOV {
					worstFOV = d
				}
				if prev.Camera.Phase.String() == "end-sequence" && cur.Camera.Phase.String() == "end-sequence" {
					worstLook = math.Max(worstLook, cur.Camera.LookAt.Sub(prev.Camera.LookAt).Len())
				}
				if cur.Camera.FOV > 20.5 && cur.Camera.FOV < 79.5 {
					narrowed = true
				}
			}
			t.Logf("worst fov step %.2f, worst end-sequence lookAt step %.3f", worstFOV, worstLook)
			if worstFOV > 5 {
				t.Errorf("fov jumped %.2f degrees between frames", worstFOV)
			}
			if worstLook > span/4 {
				t.Errorf("end-sequence lookAt jumped %.3f (span %.3f)", worstLook, span)
			}
			if !narrowed {
				t.Error("no frame passed through the middle of the fov blend")
			}
		})
	}
}

func TestBakeCancelled(t *testing.T) {
	e, prod := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Bake(ctx, e, prod.Page(100), BakeOptions{Frames: 10}); err == nil {
		t.Error("expected context error")
	}
}

func TestCallbacks(t *testing.T) {
	e, _ := newTestEngine(t)
	cb := e.Callbacks(scroll.Pov)

	steps := []struct {
		name string
		fire func()
		mode scroll.Mode
		dir  scroll.Direction
	}{
		{"enter", cb.OnEnter, scroll.Pov, scroll.Forward},
		{"leave", cb.OnLeave, scroll.End, scroll.Forward},
		{"enter back", cb.OnEnterBack, scroll.Pov, scroll.Backward},
		{"leave back", cb.OnLeaveBack, scroll.SectionScroll, scroll.Backward},
	}
	for _, s := range steps {
		s.fire()
		st := e.State()
		if st.Mode != s.mode || st.Direction != s.dir {
			t.Errorf("%s: state %+v, want %v/%v", s.name, st, s.mode, s.dir)
		}
	}
}

func TestSkippedModesRunSideEffects(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Tick(0, scroll.Forward, time.Unix(0, 0))
	clock := e.idle.clock

	e.SetMode(scroll.End, scroll.Forward)
	if !e.idle.captured {
		t.Error("jumping past Home did not capture the idle loop")
	}
	e.SetMode(scroll.Home, scroll.Backward)
	if e.idle.captured || e.idle.clock != clock {
		t.Errorf("jumping back did not restore: captured=%v clock=%v", e.idle.captured, e.idle.clock)
	}
}

func TestOffsets(t *testing.T) {
	page := scroll.Page{
		Viewport: scroll.Viewport{Height: 100},
		Sections: []scroll.PageSection{{Name: "a", Height: 300}},
	}
	got := Offsets(page, 3)
	want := []float64{0, 100, 200, 200, 100, 0}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReport(t *testing.T) {
	r := Report{Build: "test", Scenes: 2, Frames: 1200, Elapsed: 2 * time.Second, Process: system.ProcessStats{RSS: 32 << 20}}
	if r.FPS() != 600 {
		t.Errorf("fps = %v", r.FPS())
	}
	if !strings.Contains(r.String(), "PERFORMANCE REPORT") {
		t.Errorf("report:\n%s", r)
	}

	path := filepath.Join(t.TempDir(), "benchmark.log")
	for i := 0; i < 2; i++ {
		if err := r.AppendLog(path); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("log lines = %d", n)
	}
}
