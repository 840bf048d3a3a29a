//go:build !nogpu

// Command vvgdemo renders a few shapes through the vvg GPU backend and
// writes the frame to a PNG file.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/vvg/gpu"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "demo.png", "output file, empty to skip")
		backend = flag.String("backend", "vulkan", "GPU backend: vulkan or noop")
		edgeAA  = flag.Bool("edgeaa", true, "fringe antialiasing")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	vvg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	variant := gputypes.BackendVulkan
	if *backend == "noop" {
		variant = gputypes.BackendEmpty
	}
	dev, err := gpu.OpenDevice(variant)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Destroy()

	r, err := gpu.NewOffscreen(dev.Device, dev.Queue, *width, *height,
		vvg.WithEdgeAA(*edgeAA),
		vvg.WithClearColor(vvg.RGB(0.12, 0.14, 0.18)),
		vvg.WithLabel("vvgdemo"),
	)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Destroy()

	if err := drawFrame(r, *width, *height); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}
	stats := r.Stats()
	vvg.Logger().Info("frame flushed",
		"entries", stats.Entries, "draws", stats.Draws,
		"pipelineSwitches", stats.PipelineSwitches, "vertices", stats.Vertices,
		"uniformBytes", stats.UniformBytes, "vertexBytes", stats.VertexBytes)

	if *output == "" {
		return
	}
	img, err := gpu.ReadImage(r)
	if err != nil {
		log.Fatalf("Failed to read frame: %v", err)
	}
	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func drawFrame(b vvg.Backend, w, h int) error {
	if err := b.Start(w, h); err != nil {
		return err
	}
	full := vvg.NoScissor()

	// Solid circles.
	colors := []vvg.Color{
		vvg.RGBA(1, 0.3, 0.3, 0.8),
		vvg.RGBA(0.3, 1, 0.3, 0.8),
		vvg.RGBA(0.3, 0.3, 1, 0.8),
	}
	centers := [][2]float32{{150, 150}, {200, 150}, {175, 200}}
	for i, c := range centers {
		if err := b.Fill(vvg.ColorPaint(colors[i]), full, 1, vvg.Bounds{}, []vvg.Path{polygon(c[0], c[1], 60, 48)}); err != nil {
			return err
		}
	}

	// Gradient box, clipped to its lower half.
	grad := vvg.LinearGradient(350, 100, 470, 180, vvg.RGB(1, 0.8, 0), vvg.RGB(1, 0.2, 0.4))
	clip := vvg.RectScissor(vvg.Identity(), 340, 140, 140, 60)
	if err := b.Fill(grad, clip, 1, vvg.Bounds{}, []vvg.Path{rect(350, 100, 120, 80)}); err != nil {
		return err
	}

	// Radial glow.
	glow := vvg.RadialGradient(600, 150, 10, 70, vvg.RGBA(1, 1, 1, 1), vvg.RGBA(1, 1, 1, 0))
	if err := b.Fill(glow, full, 1, vvg.Bounds{}, []vvg.Path{polygon(600, 150, 70, 64)}); err != nil {
		return err
	}

	// Outline.
	if err := b.Stroke(vvg.ColorPaint(vvg.RGB(1, 1, 1)), full, 1, 4, []vvg.Path{outline(350, 100, 120, 80, 4)}); err != nil {
		return err
	}

	// Checker texture on a triangle list.
	img, err := b.CreateTexture(vvg.TextureRGBA, 2, 2, []byte{
		255, 255, 255, 255, 40, 40, 40, 255,
		40, 40, 40, 255, 255, 255, 255, 255,
	})
	if err != nil {
		return err
	}
	defer b.DeleteTexture(img)
	pattern := vvg.ImagePattern(100, 350, 32, 32, 0, img, 1)
	quad := []vvg.Vertex{
		vvg.V(100, 350, 0.5, 1), vvg.V(300, 350, 0.5, 1), vvg.V(300, 550, 0.5, 1),
		vvg.V(100, 350, 0.5, 1), vvg.V(300, 550, 0.5, 1), vvg.V(100, 550, 0.5, 1),
	}
	if err := b.Triangles(pattern, full, quad); err != nil {
		return err
	}

	return b.Flush()
}

// polygon approximates a circle with a fan and a one pixel fringe strip.
func polygon(cx, cy, r float32, n int) vvg.Path {
	var p vvg.Path
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		x, y := float32(math.Cos(a)), float32(math.Sin(a))
		p.Fill = append(p.Fill, vvg.V(cx+x*(r-0.5), cy+y*(r-0.5), 0.5, 1))
	}
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i%n) / float64(n)
		x, y := float32(math.Cos(a)), float32(math.Sin(a))
		p.Stroke = append(p.Stroke,
			vvg.V(cx+x*(r-0.5), cy+y*(r-0.5), 0.5, 1),
			vvg.V(cx+x*(r+0.5), cy+y*(r+0.5), 0, 1),
		)
	}
	return p
}

func rect(x, y, w, h float32) vvg.Path {
	return vvg.Path{Fill: []vvg.Vertex{
		vvg.V(x, y, 0.5, 1), vvg.V(x+w, y, 0.5, 1),
		vvg.V(x+w, y+h, 0.5, 1), vvg.V(x, y+h, 0.5, 1),
	}}
}

// outline builds a closed stroke strip of width sw around a rectangle.
func outline(x, y, w, h, sw float32) vvg.Path {
	d := sw * 0.5
	corners := [][2]float32{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	signs := [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
	var p vvg.Path
	for i, c := range corners {
		s := signs[i]
		p.Stroke = append(p.Stroke,
			vvg.V(c[0]-s[0]*d, c[1]-s[1]*d, 0, 1),
			vvg.V(c[0]+s[0]*d, c[1]+s[1]*d, 1, 1),
		)
	}
	return p
}
