package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/lenses/internal/app"
	"github.com/irfansharif/lenses/internal/figure"
	"github.com/irfansharif/lenses/internal/memory"
	"github.com/irfansharif/lenses/internal/render"
)

const logFlags = log.Ltime | log.Lshortfile

// Scene size of the built-in figures.
const (
	defaultSceneWidth  = 650
	defaultSceneHeight = 300
)

var (
	configPath = flag.String("config", "", "figures YAML file (built-in figures if empty)")
	svgPath    = flag.String("svg", "", "write the selected figure as SVG to this path (- for stdout) and exit")
	figureName = flag.String("figure", "", "name of the figure to show first")
)

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("LENSES_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(name string, fps float64, avgFrameTime float64, renderStats render.Stats, memStats memory.Stats) string {
	return fmt.Sprintf("Lenses: %s (%.1f FPS, %.2fms/frame, %d triangles, %.2fµs/draw, %.2fms/prepare, %.1fMiB GPU)",
		name,
		fps,
		avgFrameTime,
		memStats.TotalVertices/3,
		renderStats.LastDrawTimeUs,
		renderStats.LastPrepareTimeMs,
		float64(memStats.TotalGPUBytes)/(1024.0*1024.0),
	)
}

func main() {
	flag.Parse()

	configs, err := loadConfigs(*configPath)
	if err != nil {
		log.Fatalf("Failed to load figures: %v", err)
	}

	if *svgPath != "" {
		if err := snapshot(configs, *svgPath); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		return
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(
		1300, // width
		600,  // height
		"Lenses",
		nil, nil,
	)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	gl.Enable(gl.MULTISAMPLE)

	cw, ch := window.GetFramebufferSize()
	application, err := newApp(configs, cw, ch)
	if err != nil {
		log.Fatalf("Failed to build figures: %v", err)
	}

	memController := memory.NewController()
	defer memController.Cleanup()
	renderer, err := render.NewRenderer(memController)
	if err != nil {
		log.Fatalf("Failed to set up renderer: %v", err)
	}
	defer renderer.Cleanup()

	// Initialize event handlers.
	eventHandlers := NewEventHandlers(application, window)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate, lastFrame := time.Now(), time.Now()

	// Main loop.
	for !window.ShouldClose() {
		frameStart := time.Now()
		dt := frameStart.Sub(lastFrame)
		lastFrame = frameStart

		eventHandlers.handleContinuousRegeneration()
		application.Tick(dt)

		w, h := window.GetFramebufferSize()
		current := application.Current()
		renderer.Prepare(application.Figures.Canvases())
		renderer.SetView(w, h, application.View.SceneToView())
		renderer.Draw(memory.SlotID(current.ID), current.Canvas)

		window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			memStats := memController.Stats()
			renderStats := renderer.Stats()

			window.SetTitle(makeTitle(current.Config.Name, fps, avgFrameTime, renderStats, memStats))

			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame, %d draw calls/frame)", fps, avgFrameTime, memStats.DrawCallsPerFrame)
			runtimeLogger.Printf("Figure:         %s (seed %d, %d objects)", current.Config.Name, current.Seed, len(current.Figure.Objects))
			runtimeLogger.Printf("Shapes:         %d slots, %d triangles, %d vertices", memStats.TotalSlots, memStats.TotalVertices/3, memStats.TotalVertices)
			runtimeLogger.Printf("GPU memory:     %.2f MiB (%.1f%% fragmented)", float64(memStats.TotalGPUBytes)/(1024.0*1024.0), memStats.Fragmentation*100)
			runtimeLogger.Printf("Render time:    %.2f µs (last draw), %.2f ms (last prepare, %d canvases)", renderStats.LastDrawTimeUs, renderStats.LastPrepareTimeMs, renderStats.Tessellations)
			runtimeLogger.Println("==============================")

			memController.PrintStats()
		}

		if frameCount%60 == 0 { // Periodic compaction.
			memController.TryCompaction()
		}
	}
}

// loadConfigs reads figure configs from path, or returns the built-in
// rectilinear, panoramic and stereo figures if path is empty.
func loadConfigs(path string) ([]figure.Config, error) {
	if path != "" {
		return figure.LoadConfigs(path)
	}
	var configs []figure.Config
	for _, kind := range []figure.Kind{figure.KindRectilinear, figure.KindPanoramic, figure.KindStereo} {
		configs = append(configs, figure.DefaultConfig(kind, defaultSceneWidth, defaultSceneHeight))
	}
	return configs, nil
}

// newApp builds the application, showing the figure named by -figure.
func newApp(configs []figure.Config, w, h int) (*app.App, error) {
	application, err := app.NewApp(configs, seed(), w, h)
	if err != nil {
		return nil, err
	}
	if *figureName != "" {
		id, err := application.Figures.Find(*figureName)
		if err != nil {
			return nil, err
		}
		if err := application.Show(id); err != nil {
			return nil, err
		}
	}
	return application, nil
}

// snapshot writes the selected figure as SVG without opening a window.
func snapshot(configs []figure.Config, path string) error {
	application, err := newApp(configs, 0, 0)
	if err != nil {
		return err
	}
	if path == "-" {
		return application.WriteSVG(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := application.WriteSVG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func seed() int64 {
	seedStr := os.Getenv("LENSES_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid LENSES_SEED value '%s': %v", seedStr, err)
	}
	return seed
}
