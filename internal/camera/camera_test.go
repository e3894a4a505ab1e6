package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollscene/internal/curve"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/scroll"
)

const eps = 1e-6

func straightPath() *curve.Path {
	return curve.MustBuild([]curve.Waypoint{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{0, 0, -10}},
	})
}

func testRig() Rig {
	return Rig{
		RotationTarget: mgl64.Vec3{10, 0, -5},
		FinalLookAt:    mgl64.Vec3{0, 3, -20},
		ReverseLook:    mgl64.Vec3{5, 0, -8},
	}
}

func testRanges() Ranges {
	return Ranges{HomeFrom: 0, HomeTo: 0.2, RotationStart: 0.4, RotationEnd: 0.6}
}

func newTestController() *Controller {
	c := NewController(nil, testRig(), DefaultSettings())
	c.SetRanges(testRanges())
	return c
}

func TestDefaultPhaseLooksAlongTangent(t *testing.T) {
	c := newTestController()
	pose, err := c.Update(straightPath(), 0.3, scroll.Forward)
	if err != nil {
		t.Fatal(err)
	}
	if pose.Phase != PhaseDefault {
		t.Fatalf("phase = %v", pose.Phase)
	}
	if !pose.Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, -3}, eps) {
		t.Errorf("position = %v", pose.Position)
	}
	if !pose.LookAt.ApproxEqualThreshold(mgl64.Vec3{0, 0, -4}, eps) {
		t.Errorf("lookAt = %v", pose.LookAt)
	}
	if pose.FOV != 80 {
		t.Errorf("fov = %v", pose.FOV)
	}
	fwd := pose.Orientation.Rotate(motion.Forward)
	if !fwd.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, eps) {
		t.Errorf("orientation forward = %v", fwd)
	}
}

func TestEarlyProgressIsLevel(t *testing.T) {
	climb := curve.MustBuild([]curve.Waypoint{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{0, 5, -10}},
	})
	c := newTestController()

	early, _ := c.Update(climb, 0.1, scroll.Forward)
	if math.Abs(early.LookAt.Y()-early.Position.Y()) > eps {
		t.Errorf("p=0.1 should look level, got pos %v look %v", early.Position, early.LookAt)
	}
	later, _ := c.Update(climb, 0.3, scroll.Forward)
	if later.LookAt.Y() <= later.Position.Y() {
		t.Errorf("p=0.3 should pitch up, got pos %v look %v", later.Position, later.LookAt)
	}
}

func TestHomeTransitionBlendsFromCachedRotation(t *testing.T) {
	c := newTestController()
	cached, _ := motion.LookRotation(mgl64.Vec3{1, 0, 0})
	c.CacheHomeRotation(cached)
	path := straightPath()

	start, _ := c.Update(path, 0, scroll.Forward)
	if start.Phase != PhaseHomeTransition {
		t.Fatalf("phase = %v", start.Phase)
	}
	if math.Abs(math.Abs(start.Orientation.Dot(cached))-1) > eps {
		t.Errorf("p=0 orientation %v, want cached %v", start.Orientation, cached)
	}

	end, _ := c.Update(path, 0.2, scroll.Forward)
	fwd := end.Orientation.Rotate(motion.Forward)
	if !fwd.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("p=0.2 forward = %v, want tangent", fwd)
	}

	mid, _ := c.Update(path, 0.1, scroll.Forward)
	fwd = mid.Orientation.Rotate(motion.Forward)
	if fwd.X() <= 0.1 || fwd.Z() >= -0.1 {
		t.Errorf("p=0.1 forward = %v, want a blend", fwd)
	}

	c.ClearHomeRotation()
	after, _ := c.Update(path, 0.1, scroll.Forward)
	if after.Phase != PhaseDefault {
		t.Errorf("cleared cache still blends: %v", after.Phase)
	}
}

func TestRotationPhaseOvershoots(t *testing.T) {
	c := newTestController()
	path := straightPath()

	start, _ := c.Update(path, 0.4, scroll.Forward)
	if start.Phase != PhaseRotation {
		t.Fatalf("phase = %v", start.Phase)
	}
	startYaw := motion.Yaw(mgl64.Vec3{0, 0, -1})
	if got := motion.Yaw(start.LookAt.Sub(start.Position)); math.Abs(motion.ShortestAngle(got-startYaw)) > eps {
		t.Errorf("start yaw = %v, want %v", got, startYaw)
	}

	end, _ := c.Update(path, 0.6, scroll.Forward)
	targetYaw := motion.Yaw(testRig().RotationTarget.Sub(end.Position))
	want := startYaw + motion.ShortestAngle(targetYaw-startYaw)*-1.75
	got := motion.Yaw(end.LookAt.Sub(end.Position))
	if math.Abs(motion.ShortestAngle(got-want)) > 1e-9 {
		t.Errorf("end yaw = %v, want %v", got, want)
	}
	if d := end.LookAt.Sub(end.Position).Len(); math.Abs(d-1) > eps {
		t.Errorf("orbit radius = %v", d)
	}
	t.Logf("start yaw %.3f, target %.3f, end %.3f", startYaw, targetYaw, got)
}

func TestEndSequenceRequiresEndScreen(t *testing.T) {
	c := newTestController()
	pose, _ := c.Update(straightPath(), 0.9, scroll.Forward)
	if pose.Phase != PhaseDefault || pose.FOV != 80 {
		t.Fatalf("without end screen: phase %v fov %v", pose.Phase, pose.FOV)
	}
}

func TestEndSequenceForward(t *testing.T) {
	c := newTestController()
	c.SetEndScreen(true)
	path := straightPath()

	prev, _ := c.Update(path, 0.8, scroll.Forward)
	entry, _ := c.Update(path, 0.85, scroll.Forward)
	if entry.Phase != PhaseEndSequence {
		t.Fatalf("phase = %v", entry.Phase)
	}
	if entry.FOV != 80 {
		t.Errorf("entry fov = %v", entry.FOV)
	}
	if !entry.LookAt.ApproxEqualThreshold(prev.LookAt, eps) {
		t.Errorf("entry lookAt %v, want captured %v", entry.LookAt, prev.LookAt)
	}

	last, _ := c.Update(path, 1, scroll.Forward)
	if !last.LookAt.ApproxEqualThreshold(testRig().FinalLookAt, eps) {
		t.Errorf("final lookAt = %v", last.LookAt)
	}
	if math.Abs(last.FOV-20) > eps {
		t.Errorf("final fov = %v", last.FOV)
	}
}

func TestEndSequenceOriginSnap(t *testing.T) {
	snapped := newTestController()
	snapped.SetEndScreen(true)
	pose, _ := snapped.Update(straightPath(), 0.99, scroll.Forward)
	if pose.FOV >= 80 {
		t.Errorf("entry at 0.99 should start from 0.973, fov = %v", pose.FOV)
	}

	plain := newTestController()
	plain.SetEndScreen(true)
	pose, _ = plain.Update(straightPath(), 0.95, scroll.Forward)
	if pose.FOV != 80 {
		t.Errorf("entry at 0.95 fov = %v", pose.FOV)
	}
}

func TestEndSequenceBackwardBlendsFromReverseLook(t *testing.T) {
	c := newTestController()
	c.SetEndScreen(true)
	path := straightPath()
	rig := testRig()

	// Entered at the bottom, as after scrolling back out of the end section.
	entry, _ := c.Update(path, 1, scroll.Backward)
	if entry.Phase != PhaseEndSequence {
		t.Fatalf("phase = %v", entry.Phase)
	}
	if math.Abs(entry.FOV-20) > eps || !entry.LookAt.ApproxEqualThreshold(rig.FinalLookAt, eps) {
		t.Fatalf("entry fov %v lookAt %v, want 20 and %v", entry.FOV, entry.LookAt, rig.FinalLookAt)
	}

	const steps = 60
	prev := entry
	var worstFOV, worstLook float64
	for i := steps - 1; i >= 1; i-- {
		p := 0.8 + 0.2*float64(i)/steps
		pose, err := c.Update(path, p, scroll.Backward)
		if err != nil {
			t.Fatal(err)
		}
		if pose.Phase != PhaseEndSequence {
			t.Fatalf("p=%.3f phase = %v", p, pose.Phase)
		}
		worstFOV = math.Max(worstFOV, math.Abs(pose.FOV-prev.FOV))
		worstLook = math.Max(worstLook, pose.LookAt.Sub(prev.LookAt).Len())
		prev = pose
	}
	t.Logf("worst fov step %.3f, worst lookAt step %.3f", worstFOV, worstLook)

	if worstFOV > 5 {
		t.Errorf("fov jumped %.2f degrees in one step", worstFOV)
	}
	total := rig.FinalLookAt.Sub(rig.ReverseLook).Len()
	if worstLook > total/4 {
		t.Errorf("lookAt jumped %.3f of %.3f in one step", worstLook, total)
	}
	if prev.FOV < 79 {
		t.Errorf("near the start fov = %v, want close to 80", prev.FOV)
	}
	if prev.LookAt.Sub(rig.ReverseLook).Len() > total*0.01 {
		t.Errorf("near the start lookAt = %v, want close to %v", prev.LookAt, rig.ReverseLook)
	}

	mid, _ := c.Update(path, 0.9, scroll.Backward)
	want := motion.LerpVec3(rig.ReverseLook, rig.FinalLookAt, 0.5)
	if !mid.LookAt.ApproxEqualThreshold(want, eps) || math.Abs(mid.FOV-50) > eps {
		t.Errorf("p=0.9 fov %v lookAt %v, want 50 and %v", mid.FOV, mid.LookAt, want)
	}
}

func TestEndSequenceDirectionFlipKeepsOrigin(t *testing.T) {
	c := newTestController()
	c.SetEndScreen(true)
	path := straightPath()

	c.Update(path, 0.8, scroll.Forward)
	c.Update(path, 0.85, scroll.Forward)
	fwd, _ := c.Update(path, 0.95, scroll.Forward)
	back, _ := c.Update(path, 0.95, scroll.Backward)
	if !back.LookAt.ApproxEqualThreshold(fwd.LookAt, eps) || back.FOV != fwd.FOV {
		t.Errorf("reversing mid-sequence moved the camera: %v/%v -> %v/%v",
			fwd.LookAt, fwd.FOV, back.LookAt, back.FOV)
	}
}

func TestResetRestoresWideFOV(t *testing.T) {
	c := newTestController()
	c.SetEndScreen(true)
	if pose, _ := c.Update(straightPath(), 1, scroll.Backward); math.Abs(pose.FOV-20) > eps {
		t.Fatalf("fov = %v", pose.FOV)
	}
	c.Reset()
	if last := c.Last(); last.FOV != 80 || last.Phase != PhaseDefault {
		t.Errorf("after reset: fov %v phase %v", last.FOV, last.Phase)
	}
}

func TestRangesResolveFromRig(t *testing.T) {
	rig := testRig()
	rig.HomeTransitionFrom = mgl64.Vec3{0, 0, -1}
	rig.HomeTransitionTo = mgl64.Vec3{0.5, 0, -2.5}
	rig.RotationStart = mgl64.Vec3{0, 0, -5}
	rig.RotationEnd = mgl64.Vec3{0, 0, -7}
	c := NewController(nil, rig, DefaultSettings())

	r, err := c.Ranges(straightPath())
	if err != nil {
		t.Fatal(err)
	}
	want := Ranges{HomeFrom: 0.1, HomeTo: 0.25, RotationStart: 0.5, RotationEnd: 0.7}
	for name, pair := range map[string][2]float64{
		"home_from":      {r.HomeFrom, want.HomeFrom},
		"home_to":        {r.HomeTo, want.HomeTo},
		"rotation_start": {r.RotationStart, want.RotationStart},
		"rotation_end":   {r.RotationEnd, want.RotationEnd},
	} {
		if math.Abs(pair[0]-pair[1]) > 1.0/1000 {
			t.Errorf("%s = %v, want %v", name, pair[0], pair[1])
		}
	}
}

func TestEmptyPathKeepsLastPose(t *testing.T) {
	c := newTestController()
	good, _ := c.Update(straightPath(), 0.3, scroll.Forward)
	pose, err := c.Update(curve.Empty(), 0.5, scroll.Forward)
	if err == nil {
		t.Fatal("expected error")
	}
	if pose.Position != good.Position {
		t.Errorf("pose changed: %v", pose.Position)
	}
}
