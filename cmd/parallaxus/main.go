package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ivlev/parallaxus/internal/config"
	"github.com/ivlev/parallaxus/internal/engine"
	"github.com/ivlev/parallaxus/internal/preview"
	"github.com/ivlev/parallaxus/internal/scene"
	"github.com/ivlev/parallaxus/internal/system"
)

var buildVersion = "dev"

func main() {
	// working directories
	dirs := []string{"input/scenes", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()

	scenePtr := flag.String("scene", "", "Scene YAML (default: newest file in input/scenes/)")
	outputPtr := flag.String("output", "", "Frame log path (default: output/<scene>_<timestamp>.yaml)")
	initPtr := flag.Bool("init", false, "Write a sample scene to input/scenes/ and exit")
	livePtr := flag.Bool("live", false, "Read scroll/resize commands from stdin and animate in real time")
	tuningPtr := flag.String("tuning", "", "TOML file with scheduler/throttle/render tuning")
	widthPtr := flag.Int("width", 0, "Viewport width override")
	heightPtr := flag.Int("height", 0, "Viewport height override")
	presetPtr := flag.String("preset", "", "Viewport preset: desktop, tablet, mobile")
	fpsPtr := flag.Int("fps", def.FPS, "Frames per second of the timeline")
	framesPtr := flag.Int("frames", 0, "Frames to replay (0: until the timeline settles)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Preview render workers")
	easePtr := flag.Float64("ease", def.Ease, "Share of the remaining distance covered per frame")
	epsilonPtr := flag.Float64("epsilon", def.Epsilon, "Distance at which scrolling snaps to the target")
	precisionPtr := flag.Int("precision", def.Precision, "Decimal digits of the smoothed scroll position")
	thresholdPtr := flag.Float64("trigger-threshold", def.TriggerThreshold, "Scroll distance in px between trigger checks")
	reducedPtr := flag.Bool("reduced-motion", false, "Disable all scroll animation")
	statsPtr := flag.Bool("stats", false, "Print a replay report with resource usage")
	previewPtr := flag.String("preview", "", "Directory for PNG frames of the replay")
	videoPtr := flag.String("video", "", "Encode the replay to this video file with ffmpeg")
	scalePtr := flag.Float64("scale", 1, "Preview scale relative to the viewport")
	labelsPtr := flag.Bool("labels", true, "Draw node ids on preview frames")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 - auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")

	flag.Parse()

	if *initPtr {
		path := scene.GeneratePath("input/scenes", "sample")
		if err := scene.Write(scene.Sample(), path); err != nil {
			log.Fatalf("[-] Error writing sample scene: %v", err)
		}
		fmt.Printf("[+++] Sample scene written: %s\n", path)
		return
	}

	cfg := config.Default()
	cfg.BuildVersion = buildVersion
	cfg.Workers = *workersPtr
	if *tuningPtr != "" {
		if err := config.LoadTuning(*tuningPtr, cfg); err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		cfg.TuningPath = *tuningPtr
		fmt.Printf("[*] Tuning loaded: %s\n", cfg.TuningPath)
	}

	// explicit flags win over the tuning file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.FPS = *fpsPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "ease":
			cfg.Ease = *easePtr
		case "epsilon":
			cfg.Epsilon = *epsilonPtr
		case "precision":
			cfg.Precision = *precisionPtr
		case "trigger-threshold":
			cfg.TriggerThreshold = *thresholdPtr
		case "reduced-motion":
			cfg.ReducedMotion = *reducedPtr
		case "quality":
			cfg.Quality = *qualityPtr
		}
	})

	cfg.Width, cfg.Height = *widthPtr, *heightPtr
	switch *presetPtr {
	case "desktop":
		cfg.Width, cfg.Height = 1280, 720
	case "tablet":
		cfg.Width, cfg.Height = 768, 1024
	case "mobile":
		cfg.Width, cfg.Height = 390, 844
	}
	cfg.Frames = *framesPtr
	cfg.ShowStats = *statsPtr
	cfg.Live = *livePtr
	cfg.PreviewDir = *previewPtr
	cfg.PreviewVideo = *videoPtr

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Error: %v", err)
	}

	scenePath := *scenePtr
	if scenePath == "" {
		latest, err := scene.FindLatest("input/scenes")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scene into input/scenes/ or run with -init", err)
		}
		scenePath = latest
		fmt.Printf("[*] Scene selected: %s\n", scenePath)
	}
	cfg.ScenePath = scenePath

	sc, err := scene.Read(scenePath)
	if err != nil {
		log.Fatalf("[-] Error reading scene: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, sc, log.Default())

	if cfg.Live {
		fmt.Println("[*] Live mode: scroll <px>, resize <w> <h>, quit")
		if err := project.Live(ctx, os.Stdin, os.Stdout); err != nil {
			log.Fatalf("[-] Live error: %v", err)
		}
		return
	}

	report, err := project.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Replay error: %v", err)
	}
	fmt.Printf("[>] Replayed %d frames, %d trigger events\n", len(report.Frames), len(report.Events))

	cfg.OutputLog = *outputPtr
	if cfg.OutputLog == "" {
		baseName := filepath.Base(scenePath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputLog = filepath.Join("output", fmt.Sprintf("%s_%s.yaml", cleanName, timestamp))
	}
	if err := engine.WriteLog(report, cfg.OutputLog); err != nil {
		log.Fatalf("[-] Error writing frame log: %v", err)
	}

	opts := preview.Options{Scale: *scalePtr, Labels: *labelsPtr, Workers: cfg.Workers}
	if cfg.PreviewDir != "" {
		fmt.Printf("[*] Rendering %d preview frames...\n", len(report.Frames))
		if err := preview.WriteFrames(ctx, cfg.PreviewDir, report.PreviewFrames(), opts); err != nil {
			log.Fatalf("[-] Preview error: %v", err)
		}
	}

	if cfg.PreviewVideo != "" {
		if cfg.VideoEncoder == "" {
			encoderName := system.GetBestH264Encoder()
			if encoderName != "libx264" {
				fmt.Printf("[*] Hardware acceleration detected: %s\n", encoderName)
			}
			cfg.VideoEncoder = encoderName
		}
		if cfg.Quality == 0 {
			switch cfg.VideoEncoder {
			case "h264_videotoolbox":
				cfg.Quality = 75
			case "h264_nvenc":
				cfg.Quality = 28
			default:
				cfg.Quality = 23
			}
		}
		if err := preview.EncodeVideo(ctx, report.PreviewFrames(), cfg.PreviewVideo, cfg.FPS, cfg.VideoEncoder, cfg.Quality, opts); err != nil {
			log.Fatalf("[-] Video error: %v", err)
		}
		fmt.Printf("[*] Video written: %s\n", cfg.PreviewVideo)
	}

	if cfg.ShowStats {
		fmt.Print(report.Summary())
	}

	fmt.Printf("[+++] Success! Frame log: %s\n", cfg.OutputLog)
}
