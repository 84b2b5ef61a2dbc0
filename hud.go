package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"attitude-indicator/indicator"
)

// rollMarks are the roll scale ticks in degrees.
var rollMarks = []int{-60, -45, -30, -20, -10, 0, 10, 20, 30, 45, 60}

// HUD draws the screen-space furniture around the instrument: bezel, roll
// scale, heading compass and numeric readouts.
type HUD struct {
	lineColor   color.RGBA
	bezelColor  color.RGBA
	accentColor color.RGBA
	bgColor     color.RGBA
}

// NewHUD creates a HUD with the default palette.
func NewHUD() *HUD {
	return &HUD{
		lineColor:   color.RGBA{255, 255, 255, 255},
		bezelColor:  color.RGBA{40, 40, 40, 255},
		accentColor: color.RGBA{255, 200, 0, 255},
		bgColor:     color.RGBA{0, 0, 0, 180},
	}
}

// DrawBezel draws the ring behind the instrument face.
func (h *HUD) DrawBezel(screen *ebiten.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	cx, cy, radius := circleOf(r)
	vector.DrawFilledCircle(screen, cx, cy, radius+10, h.bezelColor, true)
}

// Draw renders the overlays that sit on top of the instrument.
func (h *HUD) Draw(screen *ebiten.Image, r image.Rectangle, att indicator.Attitude, heading float64) {
	if r.Empty() {
		return
	}
	cx, cy, radius := circleOf(r)

	vector.StrokeCircle(screen, cx, cy, radius+4, 3, h.lineColor, true)
	h.drawRollScale(screen, cx, cy, radius, att.Roll)

	// Readouts under the instrument
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("P %+.1f°", att.Pitch), int(cx)-70, int(cy+radius)+14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("R %+.1f°", att.Roll), int(cx)+20, int(cy+radius)+14)

	compassR := float32(40)
	if sw := screen.Bounds().Dx(); float32(sw)-(cx+radius) > 2*compassR+30 {
		h.drawCompass(screen, cx+radius+compassR+30, cy, compassR, heading)
	}
}

// drawRollScale draws the tick arc above the instrument and the pointer
// that turns with the horizon.
func (h *HUD) drawRollScale(screen *ebiten.Image, cx, cy, radius float32, roll float64) {
	for _, ang := range rollMarks {
		rad := float64(ang-90) * math.Pi / 180
		inner := radius + 6
		outer := radius + 14
		if ang%30 == 0 {
			outer = radius + 20
		}

		x1 := cx + inner*float32(math.Cos(rad))
		y1 := cy + inner*float32(math.Sin(rad))
		x2 := cx + outer*float32(math.Cos(rad))
		y2 := cy + outer*float32(math.Sin(rad))
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, h.lineColor, true)
	}

	px, py := rollPointer(cx, cy, radius-12, roll)
	vector.DrawFilledCircle(screen, px, py, 5, h.accentColor, true)
}

// rollPointer places the pointer at the top of the face rotated by roll,
// clockwise for a left roll like the horizon itself.
func rollPointer(cx, cy, r float32, roll float64) (float32, float32) {
	rad := (roll - 90) * math.Pi / 180
	return cx + r*float32(math.Cos(rad)), cy + r*float32(math.Sin(rad))
}

func (h *HUD) drawCompass(screen *ebiten.Image, cx, cy, radius float32, heading float64) {
	vector.DrawFilledCircle(screen, cx, cy, radius+2, h.bgColor, true)

	for deg := 0; deg < 360; deg += 30 {
		rad := (float64(deg) - heading - 90) * math.Pi / 180
		inner := radius - 8
		if deg%90 == 0 {
			inner = radius - 12
		}
		cos, sin := float32(math.Cos(rad)), float32(math.Sin(rad))
		vector.StrokeLine(screen, cx+inner*cos, cy+inner*sin, cx+(radius-2)*cos, cy+(radius-2)*sin, 1, h.lineColor, true)

		if deg%90 == 0 {
			label := [...]string{"N", "E", "S", "W"}[deg/90]
			lr := radius - 22
			ebitenutil.DebugPrintAt(screen, label, int(cx+lr*cos)-3, int(cy+lr*sin)-8)
		}
	}

	vector.DrawFilledRect(screen, cx-2, cy-radius+2, 4, 10, h.accentColor, true)
	vector.StrokeCircle(screen, cx, cy, radius, 2, h.lineColor, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%03.0f°", heading), int(cx)-12, int(cy+radius)+5)
}

func circleOf(r image.Rectangle) (cx, cy, radius float32) {
	cx = float32(r.Min.X) + float32(r.Dx())/2
	cy = float32(r.Min.Y) + float32(r.Dy())/2
	radius = float32(min(r.Dx(), r.Dy())) / 2
	return cx, cy, radius
}
