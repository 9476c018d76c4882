// Package main is a desktop viewer for the home page's scroll choreography.
// It runs a headless stage and draws the process stack cards as the page
// scrolls.
//
// Usage:
//
//	go run ./cmd/preview [flags]
//
// Flags:
//
//	--path <route>    Route to mount (default /)
//
// Controls:
//
//	Mouse wheel       - Scroll the page
//	Up/Down Arrow     - Scroll by 40px
//	Page Up/Down      - Scroll by one viewport
//	Home/End          - Jump to the top/bottom
//	M                 - Toggle a mobile-width viewport
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Zachkp/folio/internal/choreo"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/stage"
)

const (
	screenW = 1024
	screenH = 640
)

var errQuit = errors.New("quit")

var cardColors = []color.RGBA{
	{R: 38, G: 38, B: 52, A: 255},
	{R: 52, G: 44, B: 66, A: 255},
	{R: 36, G: 56, B: 70, A: 255},
	{R: 60, G: 46, B: 40, A: 255},
}

var accent = color.RGBA{R: 255, G: 107, B: 0, A: 255}

type viewer struct {
	st     *stage.Stage
	pixel  *ebiten.Image
	scroll float64
	mobile bool
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	vh := float64(screenH)
	_, wy := ebiten.Wheel()
	v.scroll -= wy * 60
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		v.scroll += 40
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		v.scroll -= 40
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		v.scroll += vh
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		v.scroll -= vh
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		v.scroll = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		v.scroll = math.Inf(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		v.mobile = !v.mobile
		w := float64(screenW)
		if v.mobile {
			w = 600
		}
		v.st.Resize(w, vh)
	}

	v.st.Scroll(v.scroll)
	f := v.st.Frame()
	v.scroll = f.ScrollY
	v.st.Advance(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 11, G: 11, B: 15, A: 255})
	f := v.st.Frame()

	cards := f.Cards()
	w, h := float64(screenW)*0.7, float64(screenH)*0.6
	for _, c := range cards {
		if c.Opacity <= 0 {
			continue
		}
		fill := accent
		if !c.Final {
			fill = cardColors[c.Index%len(cardColors)]
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(w, h)
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(c.Scale, c.Scale)
		op.GeoM.Rotate(c.Rotation * math.Pi / 180)
		op.GeoM.Translate(float64(screenW)/2+c.X/100*w, float64(screenH)/2+c.Y/100*h)
		op.ColorScale.ScaleWithColor(fill)
		op.ColorScale.ScaleAlpha(float32(c.Opacity))
		screen.DrawImage(v.pixel, op)

		label := fmt.Sprintf("step %d", c.Index+1)
		if c.Final {
			label = "ready to build?"
		}
		ebitenutil.DebugPrintAt(screen, label, screenW/2+int(c.X/100*w)-40, screenH/2+int(c.Y/100*h))
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  scroll %.0f / %.0f  %s", f.Path, f.ScrollY, f.Height, f.Variant), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("triggers %d  players %d  stale %d  front %d",
		f.Triggers, f.Players, f.Stale, choreo.Front(cards)), 10, 30)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	path := flag.String("path", "/", "route to mount")
	flag.Parse()

	catalog, err := content.Load()
	if err != nil {
		log.Fatal(err)
	}
	st := stage.New(&stage.Builder{Catalog: catalog}, motion.Viewport{Width: screenW, Height: screenH})
	defer st.Close()
	if _, err := st.Navigate(*path); err != nil {
		log.Fatal(err)
	}

	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("folio - choreography preview")
	if err := ebiten.RunGame(&viewer{st: st, pixel: pixel}); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
