package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"floornav"
)

var colorStyles = map[string]tcell.Style{
	"red":     tcell.StyleDefault.Foreground(tcell.ColorRed),
	"green":   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	"blue":    tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"yellow":  tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"magenta": tcell.StyleDefault.Foreground(tcell.ColorPurple),
	"cyan":    tcell.StyleDefault.Foreground(tcell.ColorTeal),
	"orange":  tcell.StyleDefault.Foreground(tcell.ColorOrange),
	"white":   tcell.StyleDefault.Foreground(tcell.ColorWhite),
}

func styleFor(color string) tcell.Style {
	if s, ok := colorStyles[color]; ok {
		return s
	}
	return tcell.StyleDefault
}

type marker struct {
	pos   floornav.Point
	color string
}

type pathVisual struct {
	points []floornav.Point
	color  string
}

// termRenderer implements floornav.Renderer by recording markers and
// path visuals for the draw pass. Calls arrive from the tick loop only,
// so no locking is needed.
type termRenderer struct {
	next    floornav.Handle
	markers map[floornav.Handle]marker
	paths   map[floornav.Handle]pathVisual
}

func newTermRenderer() *termRenderer {
	return &termRenderer{
		markers: make(map[floornav.Handle]marker),
		paths:   make(map[floornav.Handle]pathVisual),
	}
}

func (r *termRenderer) CreateMarker(pos floornav.Point, color string, owner int) floornav.Handle {
	r.next++
	r.markers[r.next] = marker{pos: pos, color: color}
	return r.next
}

func (r *termRenderer) DestroyMarker(h floornav.Handle) {
	delete(r.markers, h)
}

func (r *termRenderer) CreatePathVisual(points []floornav.Point, color string) floornav.Handle {
	r.next++
	r.paths[r.next] = pathVisual{points: points, color: color}
	return r.next
}

func (r *termRenderer) DestroyPathVisual(h floornav.Handle) {
	delete(r.paths, h)
}

type viewer struct {
	screen    tcell.Screen
	sim       *floornav.Simulation
	renderer  *termRenderer
	height    int
	showEdges bool
}

// toScreen maps a world position to a terminal cell. X doubles to
// compensate for the terminal cell aspect ratio; Y flips so up is up.
func (v *viewer) toScreen(p floornav.Point) (int, int) {
	return int(p.X * 2), v.height - 1 - int(p.Y)
}

func (v *viewer) draw() {
	v.screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for cy := 0; cy < v.sim.Floor.Height; cy++ {
		for cx := 0; cx < v.sim.Floor.Width; cx++ {
			if !v.sim.Floor.Blocked(cx, cy) {
				continue
			}
			sx, sy := v.toScreen(floornav.Point{X: float64(cx), Y: float64(cy) + 0.5})
			v.screen.SetContent(sx, sy, '█', nil, wallStyle)
			v.screen.SetContent(sx+1, sy, '█', nil, wallStyle)
		}
	}

	if v.showEdges {
		edgeStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
		for _, e := range v.sim.Graph.Edges {
			v.drawLine(v.sim.Graph.Vertices[e.A], v.sim.Graph.Vertices[e.B], '·', edgeStyle)
		}
		vertexStyle := tcell.StyleDefault.Foreground(tcell.ColorSilver)
		for _, p := range v.sim.Graph.Vertices {
			sx, sy := v.toScreen(p)
			v.screen.SetContent(sx, sy, '+', nil, vertexStyle)
		}
	}

	for _, pv := range v.renderer.paths {
		style := styleFor(pv.color)
		for i := 0; i+1 < len(pv.points); i++ {
			v.drawLine(pv.points[i], pv.points[i+1], '•', style)
		}
	}

	for _, m := range v.renderer.markers {
		sx, sy := v.toScreen(m.pos)
		v.screen.SetContent(sx, sy, '×', nil, styleFor(m.color).Bold(true))
	}

	for _, agent := range v.sim.Agents {
		sx, sy := v.toScreen(agent.Pos())
		v.screen.SetContent(sx, sy, '@', nil, styleFor(agent.Color).Bold(true))
	}

	v.drawStatus()
	v.screen.Show()
}

func (v *viewer) drawStatus() {
	msg := fmt.Sprintf(" t=%6.1fs  agents=%d  [e]dges  [q]uit ",
		v.sim.Clock(), len(v.sim.Agents))
	style := tcell.StyleDefault.Reverse(true)
	_, sh := v.screen.Size()
	for i, r := range msg {
		v.screen.SetContent(i, sh-1, r, nil, style)
	}
}

// drawLine rasterizes a world-space segment with a simple DDA walk.
func (v *viewer) drawLine(a, b floornav.Point, ch rune, style tcell.Style) {
	x0, y0 := v.toScreen(a)
	x1, y1 := v.toScreen(b)
	dx, dy := x1-x0, y1-y0
	steps := absInt(dx)
	if absInt(dy) > steps {
		steps = absInt(dy)
	}
	if steps == 0 {
		v.screen.SetContent(x0, y0, ch, nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		v.screen.SetContent(x, y, ch, nil, style)
	}
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func main() {
	width := flag.Int("width", 40, "floor width in cells")
	height := flag.Int("height", 24, "floor height in cells")
	obstacles := flag.Int("obstacles", 6, "number of obstacles to place")
	agents := flag.Int("agents", 4, "number of agents")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	tick := flag.Duration("tick", 20*time.Millisecond, "update interval")
	flag.Parse()

	cfg := floornav.DefaultConfig()
	cfg.Seed = *seed
	cfg.TickInterval = tick.Seconds()

	renderer := newTermRenderer()
	sim, err := floornav.NewSimulation(*width, *height, *obstacles, *agents, cfg, renderer)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()
	screen.HideCursor()

	v := &viewer{
		screen:    screen,
		sim:       sim,
		renderer:  renderer,
		height:    *height,
		showEdges: true,
	}

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(*tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					sim.Teardown()
					screen.Fini()
					os.Exit(0)
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'e' {
					v.showEdges = !v.showEdges
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			now := time.Now()
			sim.Step(now.Sub(last).Seconds())
			last = now
			v.draw()
		}
	}
}
