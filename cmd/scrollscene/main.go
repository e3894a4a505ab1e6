package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollscene/internal/config"
	"github.com/ivlev/scrollscene/internal/director"
	"github.com/ivlev/scrollscene/internal/engine"
	"github.com/ivlev/scrollscene/internal/renderer"
	"github.com/ivlev/scrollscene/internal/system"
)

var buildVersion = "dev"

type scene struct {
	name string
	path string
	prod *director.Production
}

func main() {
	configPtr := flag.String("config", "config.toml", "Путь к файлу настроек (создается, если его нет)")
	scenarioPtr := flag.String("scenario", "", "Сценарии через запятую (по умолчанию: из настроек, самый свежий в папке сценариев или встроенный)")
	modePtr := flag.String("mode", "bake", "Режим: bake, preview, scrub, scenario")
	framesPtr := flag.Int("frames", 0, "Кадров на проход в одну сторону (0 - из настроек)")
	fpsPtr := flag.Int("fps", 0, "FPS синтетической прокрутки (0 - из настроек)")
	outputPtr := flag.String("output", "", "Папка для результатов (по умолчанию: из настроек)")
	logLevelPtr := flag.String("log-level", "", "Уровень логов: debug, info, warn, error")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")

	flag.Parse()

	cfg, err := config.ReadConfig(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка настроек: %v", err)
	}
	if *framesPtr > 0 {
		cfg.Render.Frames = *framesPtr
	}
	if *fpsPtr > 0 {
		cfg.Render.FPS = *fpsPtr
	}
	if *outputPtr != "" {
		cfg.Render.Output = *outputPtr
	}
	if *logLevelPtr != "" {
		cfg.Scene.LogLevel = *logLevelPtr
	}

	level, err := config.ParseLogLevel(cfg.Scene.LogLevel)
	if err != nil {
		log.Printf("[!] %v, используется info", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Render.Output, 0755); err != nil {
		log.Fatalf("[-] Не удалось создать папку %s: %v", cfg.Render.Output, err)
	}

	if *modePtr == "scenario" {
		if err := os.MkdirAll(cfg.Scene.ScenarioDir, 0755); err != nil {
			log.Fatalf("[-] Не удалось создать папку %s: %v", cfg.Scene.ScenarioDir, err)
		}
		path := director.GenerateScenarioPath(cfg.Scene.ScenarioDir)
		if err := director.WriteScenario(director.DefaultScenario(), path); err != nil {
			log.Fatalf("[-] Ошибка записи сценария: %v", err)
		}
		fmt.Printf("[+++] Сценарий сохранен: %s\n", path)
		return
	}

	scenes, err := loadScenes(cfg, *scenarioPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка сценария: %v", err)
	}

	switch *modePtr {
	case "bake":
		start := time.Now()
		frames, err := bake(logger, cfg, scenes)
		if err != nil {
			log.Fatalf("[-] Ошибка запекания: %v", err)
		}
		if *statsPtr {
			showStats(len(scenes), frames, time.Since(start))
		}
		fmt.Printf("[+++] Успех! Треки сохранены в %s\n", cfg.Render.Output)

	case "preview":
		for _, sc := range scenes {
			out, err := preview(logger, cfg, sc)
			if err != nil {
				log.Fatalf("[-] Ошибка превью %s: %v", sc.name, err)
			}
			fmt.Printf("[+++] Превью: %s\n", out)
		}

	case "scrub":
		if len(scenes) > 1 {
			log.Printf("[!] Интерактивный режим открывает только первый сценарий: %s", scenes[0].name)
		}
		if err := scrub(cfg, scenes[0]); err != nil {
			log.Fatalf("[-] Ошибка интерактивного режима: %v", err)
		}

	default:
		log.Fatalf("[-] Неизвестный режим: %s", *modePtr)
	}
}

// loadScenes resolves the scenario list: explicit flag, config, newest file
// in the scenario folder, or the built-in default.
func loadScenes(cfg config.Config, flagValue string) ([]scene, error) {
	var paths []string
	for _, p := range strings.Split(flagValue, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 && cfg.Scene.ScenarioPath != "" {
		paths = append(paths, cfg.Scene.ScenarioPath)
	}
	if len(paths) == 0 {
		if latest, err := director.FindLatestScenario(cfg.Scene.ScenarioDir); err == nil {
			fmt.Printf("[*] Выбран сценарий: %s\n", latest)
			paths = append(paths, latest)
		}
	}

	if len(paths) == 0 {
		fmt.Println("[*] Используется встроенный сценарий")
		prod, err := director.Build(director.DefaultScenario())
		if err != nil {
			return nil, err
		}
		return []scene{{name: "default", prod: prod}}, nil
	}

	var scenes []scene
	for _, p := range paths {
		sc, err := director.ReadScenario(p)
		if err != nil {
			return nil, err
		}
		prod, err := director.Build(sc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		scenes = append(scenes, scene{name: name, path: p, prod: prod})
	}
	return scenes, nil
}

// bake sweeps every scene down and back up, one engine per scene, and
// writes a frame track per scene.
func bake(logger *slog.Logger, cfg config.Config, scenes []scene) (int, error) {
	fmt.Println("--- [SCROLLSCENE: BAKE] ---")
	fmt.Printf("[*] Сцен: %d | Кадров на проход: %d @ %d FPS | Вьюпорт: %.0fpx\n",
		len(scenes), cfg.Render.Frames, cfg.Render.FPS, cfg.Render.Viewport)
	fmt.Println("-----------------------------")

	total := len(scenes) * 2 * cfg.Render.Frames
	bar := progressbar.Default(int64(total), "Запекание")
	var baked atomic.Int64

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	g, ctx := errgroup.WithContext(context.Background())
	for _, sc := range scenes {
		sc := sc
		g.Go(func() error {
			e := engine.NewEngine(logger, cfg, sc.prod, nil)
			frames, err := engine.Bake(ctx, e, sc.prod.Page(cfg.Render.Viewport), engine.BakeOptions{
				Frames: cfg.Render.Frames,
				FPS:    cfg.Render.FPS,
				OnFrame: func(renderer.Frame) {
					bar.Add(1)
				},
			})
			if err != nil {
				return fmt.Errorf("%s: %w", sc.name, err)
			}
			baked.Add(int64(len(frames)))

			out := filepath.Join(cfg.Render.Output, fmt.Sprintf("%s_%s.track.yaml", sc.name, timestamp))
			track := &renderer.Track{Scenario: sc.name, FPS: cfg.Render.FPS, Frames: frames}
			if err := renderer.WriteTrack(track, out); err != nil {
				return fmt.Errorf("%s: %w", sc.name, err)
			}
			return nil
		})
	}
	err := g.Wait()
	bar.Finish()
	return int(baked.Load()), err
}

// preview draws the scene paths and every tenth baked frame.
func preview(logger *slog.Logger, cfg config.Config, sc scene) (string, error) {
	p := renderer.NewPreview(renderer.PreviewOptions{
		Width:     cfg.Render.PreviewSize,
		Height:    cfg.Render.PreviewSize,
		Margin:    48,
		LineWidth: 2,
	})
	for _, key := range sc.prod.Paths.Keys() {
		path, err := sc.prod.Paths.Lookup(key)
		if err != nil {
			continue
		}
		p.AddPath(key, path.Sample(200))
	}

	e := engine.NewEngine(logger, cfg, sc.prod, nil)
	frames, err := engine.Bake(context.Background(), e, sc.prod.Page(cfg.Render.Viewport), engine.BakeOptions{
		Frames: cfg.Render.Frames,
		FPS:    cfg.Render.FPS,
	})
	if err != nil {
		return "", err
	}
	for i := 0; i < len(frames)/2; i += 10 {
		p.AddFrames(frames[i])
	}

	out := filepath.Join(cfg.Render.Output, fmt.Sprintf("%s_preview.png", sc.name))
	return out, p.Save(out)
}

func showStats(scenes, frames int, elapsed time.Duration) {
	stats, err := system.ReadProcessStats()
	if err != nil {
		log.Printf("[!] Не удалось получить статистику процесса: %v", err)
	}
	report := engine.Report{
		Build:   buildVersion,
		Scenes:  scenes,
		Frames:  frames,
		Elapsed: elapsed,
		Process: stats,
	}
	fmt.Print(report)

	if err := report.AppendLog("benchmark.log"); err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
