package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/ivlev/scrollscene/internal/system"
)

// Report summarises a bake run.
type Report struct {
	Build   string
	Scenes  int
	Frames  int
	Elapsed time.Duration
	Process system.ProcessStats
}

func (r Report) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Scenes: %d\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"%s\n"+
			"----------------------------\n",
		r.Build, r.Scenes, r.Frames, r.Elapsed.Seconds(), r.FPS(), r.Process,
	)
}

// AppendLog appends a one-line entry to the benchmark log at path.
func (r Report) AppendLog(path string) error {
	entry := fmt.Sprintf("[%s] Build: %s | Scenes: %d | Frames: %d | Total: %.2fs | FPS: %.2f | RSS: %.1f MiB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Build,
		r.Scenes,
		r.Frames,
		r.Elapsed.Seconds(),
		r.FPS(),
		float64(r.Process.RSS)/(1<<20),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
