// Command glrenderer is an OpenGL window onto a running world, adapted
// from the teacher's NES PPU-frame blitter: instead of swapping in a
// freshly decoded PPU frame every tick, it keeps a persistent RGBA image
// of the world and repaints only the cells the core's SET_DOT/MOVE_DOT
// events report changed.
package main

import (
	"flag"
	"image"
	"image/color"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/latticevm/latticevm/internal/chem"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON world config")
	flag.Parse()

	cfg := chem.DefaultConfig()
	if *configPath != "" {
		cfg = chem.LoadConfig(*configPath)
	}
	core := chem.NewCore(cfg)
	run(core)
}

// atomColor maps an atom's type field to a flat display color. Empty cells
// render black; each operator type gets a distinct color so a running
// world's activity is visible at a glance.
func atomColor(a chem.Atom) color.RGBA {
	switch chem.GetType(a) {
	case chem.TypeMov:
		return color.RGBA{220, 60, 60, 255}
	case chem.TypeFix:
		return color.RGBA{60, 200, 80, 255}
	case chem.TypeSpl:
		return color.RGBA{70, 120, 220, 255}
	case chem.TypeIf:
		return color.RGBA{230, 200, 40, 255}
	case chem.TypeJob:
		return color.RGBA{230, 230, 230, 255}
	default:
		return color.RGBA{0, 0, 0, 255}
	}
}

func run(core *chem.Core) {
	w, h := core.World().Width(), core.World().Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	paint := func(offs chem.Offs, a chem.Atom) {
		x := int(offs) % w
		y := int(offs) / w
		img.SetRGBA(x, y, atomColor(a))
	}
	for offs := chem.Offs(0); offs < core.World().Size(); offs++ {
		paint(offs, core.World().GetAtom(offs))
	}

	core.Subscribe(chem.EventSetDot, func(p chem.EventParam) { paint(p.Offs0, p.Atom) })
	core.Subscribe(chem.EventMoveDot, func(p chem.EventParam) {
		paint(p.Offs0, chem.TypeEmpty)
		paint(p.Offs1, p.Atom)
	})

	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()
	window, err := glfw.CreateWindow(w, h, "latticevm", nil, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}
	program, err := newProgram()
	if err != nil {
		glog.Fatalln(err)
	}
	gl.UseProgram(program)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)

	core.OnTick(func(*chem.Core) {
		if window.ShouldClose() {
			core.FireQuit()
		}
	})
	for core.Step() {
		updateTexture(program, img)
		window.SwapBuffers()
		glfw.PollEvents()
	}
}
