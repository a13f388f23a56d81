// horizontool is a CLI utility for rendering, serving and probing terrain
// presets without opening a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/procedural-horizon/internal/bake"
	"github.com/Faultbox/procedural-horizon/internal/config"
	"github.com/Faultbox/procedural-horizon/internal/engine/capture"
	"github.com/Faultbox/procedural-horizon/internal/engine/raster"
	"github.com/Faultbox/procedural-horizon/internal/engine/scene"
	"github.com/Faultbox/procedural-horizon/internal/logger"
	"github.com/Faultbox/procedural-horizon/internal/preview"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
	"github.com/Faultbox/procedural-horizon/pkg/noise"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render", "r":
		cmdRender(args)
	case "serve":
		cmdServe(args)
	case "sample", "s":
		cmdSample(args)
	case "modes", "ls":
		cmdModes()
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`horizontool - procedural terrain utility

Usage:
  horizontool <command> [options]

Commands:
  render [-t 0,1.5] [-mode m] [-o dir]  Render frames to PNG/BMP with the software rasterizer
  serve [-addr host:port]               Stream frames to a browser over websockets
  sample [-mode m] [-t time] <x> <y>    Print elevation, normal, slope and color at a point
  modes                                 List terrain presets
  config [file.yaml]                    Write the default configuration (default: user config dir)

Common options:
  -config <file>   Config file (defaults: ./horizon.yaml, then the user config dir)
  -mode <name>     water | mountain | ripple
  -noise <kind>    simplex | perlin
  -seed <n>        Noise seed
  -debug           Debug logging

Examples:
  horizontool render -mode mountain -o shots
  horizontool render -mode water -t 0,0.5,1,1.5 -format bmp
  horizontool serve -addr :8080
  horizontool sample -mode water -t 2 0 0`)
}

// common holds the options every command shares.
type common struct {
	config *string
	mode   *string
	noise  *string
	seed   *int64
	debug  *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		config: fs.String("config", "", "Path to config file"),
		mode:   fs.String("mode", "", "Terrain mode (water, mountain, ripple)"),
		noise:  fs.String("noise", "", "Noise source (simplex, perlin)"),
		seed:   fs.Int64("seed", 0, "Noise seed (0 keeps the configured seed)"),
		debug:  fs.Bool("debug", false, "Enable debug logging"),
	}
}

// load builds the config and starts the logger.
func (c common) load(override func(*config.Config)) *config.Config {
	cfg, err := c.loadConfig(override)
	if err != nil {
		fatalf("Config error: %v", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatalf("Logger error: %v", err)
	}
	return cfg
}

// loadConfig reads the file, applies the shared flags and then override, and
// validates the result once.
func (c common) loadConfig(override func(*config.Config)) (*config.Config, error) {
	path := *c.config
	if path == "" {
		path = config.FindConfigFile()
	}
	return config.LoadFileWith(path, func(cfg *config.Config) {
		if *c.mode != "" {
			cfg.Terrain.Mode = *c.mode
		}
		if *c.noise != "" {
			cfg.Terrain.Noise = *c.noise
		}
		if *c.seed != 0 {
			cfg.Terrain.Seed = *c.seed
		}
		if *c.debug {
			cfg.Logging.Level = "debug"
		}
		if override != nil {
			override(cfg)
		}
	})
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	opts := commonFlags(fs)
	times := fs.String("t", "0", "Comma-separated clock times to render")
	width := fs.Int("width", 0, "Image width")
	height := fs.Int("height", 0, "Image height")
	format := fs.String("format", "", "Output format (png, bmp)")
	out := fs.String("o", "", "Output directory")
	workers := fs.Int("workers", 0, "Worker count (0 = one per CPU)")
	gouraud := fs.Bool("gouraud", false, "Interpolate per-vertex colors instead of shading per pixel")
	fs.Parse(args)

	at, err := parseTimes(*times)
	if err != nil {
		fatalf("Error: %v", err)
	}

	cfg := opts.load(func(cfg *config.Config) {
		if *width > 0 {
			cfg.Render.Width = *width
		}
		if *height > 0 {
			cfg.Render.Height = *height
		}
		if *format != "" {
			cfg.Render.Format = *format
		}
		if *out != "" {
			cfg.Render.OutputDir = *out
		}
		if *workers > 0 {
			cfg.Render.Workers = *workers
		}
	})
	defer logger.Sync()

	sc, err := scene.New(cfg)
	if err != nil {
		fatalf("Error: %v", err)
	}
	mode := sc.InitialMode()
	cam := sc.NewCamera()

	baker := bake.New(cfg.Render.Workers)
	defer baker.Close()
	r, err := raster.New(cfg.Render.Width, cfg.Render.Height, cfg.Render.Workers)
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer r.Close()
	r.Gouraud = *gouraud

	shots := capture.New(cfg.Render.OutputDir, mode.Name, cfg.Render.Format)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, t := range at {
		mesh, err := baker.Bake(ctx, sc.Grid, mode, t, cam.Position())
		if err != nil {
			fatalf("Bake failed: %v", err)
		}
		img, err := r.RenderView(ctx, mesh, mode, cam)
		if err != nil {
			fatalf("Render failed: %v", err)
		}
		path, err := shots.SaveFrame(img, i)
		if err != nil {
			fatalf("Save failed: %v", err)
		}
		logger.Info("frame written",
			zap.String("path", path),
			zap.String("mode", mode.Name),
			zap.Float64("time", t),
		)
		fmt.Println(path)
	}
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	opts := commonFlags(fs)
	addr := fs.String("addr", "", "Listen address")
	fps := fs.Int("fps", 0, "Frames per second")
	segments := fs.Int("segments", 0, "Grid segments per side")
	fs.Parse(args)

	cfg := opts.load(func(cfg *config.Config) {
		if *addr != "" {
			cfg.Preview.Addr = *addr
		}
		if *fps > 0 {
			cfg.Preview.FPS = *fps
		}
		if *segments > 0 {
			cfg.Preview.Segments = *segments
		}
	})
	defer logger.Sync()

	sc, err := scene.New(cfg)
	if err != nil {
		fatalf("Error: %v", err)
	}
	srv, err := preview.New(sc, cfg.Preview, sc.NewCamera().Position(), cfg.Render.Workers)
	if err != nil {
		fatalf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Preview at http://%s\n", cfg.Preview.Addr)
	if err := srv.Run(ctx); err != nil {
		logger.Error("preview server failed", zap.Error(err))
		os.Exit(1)
	}
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	opts := commonFlags(fs)
	t := fs.Float64("t", 0, "Clock time")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: horizontool sample [options] <x> <y>")
		os.Exit(1)
	}
	x, errX := strconv.ParseFloat(fs.Arg(0), 64)
	y, errY := strconv.ParseFloat(fs.Arg(1), 64)
	if errX != nil || errY != nil {
		fatalf("Error: coordinates must be numbers, got %q %q", fs.Arg(0), fs.Arg(1))
	}

	cfg := opts.load(nil)
	defer logger.Sync()

	sc, err := scene.New(cfg)
	if err != nil {
		fatalf("Error: %v", err)
	}
	mode := sc.InitialMode()
	eye := sc.NewCamera().Position()

	s := mode.Sample(x, y, *t)
	col := mode.Shader.Shade(mode.Fragment(s, x, y, *t, eye))
	printSample(mode.Name, x, y, *t, s, col)
}

func printSample(mode string, x, y, t float64, s terrain.HeightSample, col mgl64.Vec3) {
	fmt.Printf("Mode:      %s\n", mode)
	fmt.Printf("Point:     (%g, %g) at t=%g\n", x, y, t)
	fmt.Printf("Elevation: %.6f\n", s.Elevation)
	fmt.Printf("Normal:    (%.6f, %.6f, %.6f)\n", s.Normal[0], s.Normal[1], s.Normal[2])
	fmt.Printf("Slope:     %.6f\n", s.Slope)
	fmt.Printf("Color:     (%.4f, %.4f, %.4f)\n", col[0], col[1], col[2])
}

func cmdModes() {
	for _, name := range terrain.ModeNames() {
		m, err := terrain.NewMode(name, noise.Constant(0))
		if err != nil {
			fatalf("Error: %v", err)
		}
		state := "static"
		if m.Animated {
			state = "animated"
		}
		fmt.Printf("  %-10s %s\n", name, state)
	}
}

func cmdConfig(args []string) {
	cfg := config.Default()
	if len(args) < 1 {
		path, err := cfg.Save()
		if err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Printf("Wrote %s\n", args[0])
}

// parseTimes parses a comma-separated list of clock times.
func parseTimes(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q", part)
		}
		if v < 0 {
			return nil, fmt.Errorf("time must not be negative, got %g", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no times given")
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
