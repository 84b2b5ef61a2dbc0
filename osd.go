package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// staleAfter marks the feed as stale when no sample arrived for this long.
const staleAfter = 2 * time.Second

// OSDInfo is what the status overlay shows.
type OSDInfo struct {
	Feed    FeedStatus
	FPS     float64
	FPSLog  bool
	Trimmed bool
	Now     time.Time
}

// OSD renders the status text in the top-left corner.
type OSD struct {
	textColor    color.RGBA
	warningColor color.RGBA
	bgColor      color.RGBA
}

// NewOSD creates a new OSD overlay
func NewOSD() *OSD {
	return &OSD{
		textColor:    color.RGBA{255, 255, 255, 255},
		warningColor: color.RGBA{255, 80, 80, 200},
		bgColor:      color.RGBA{0, 0, 0, 160},
	}
}

// Draw renders the OSD overlay
func (o *OSD) Draw(screen *ebiten.Image, info OSDInfo) {
	y := 5
	feedStr, warn := feedLine(info.Feed, info.Now)
	if warn {
		o.drawTextBoxColored(screen, feedStr, 5, y, o.warningColor)
	} else {
		o.drawTextBox(screen, feedStr, 5, y)
	}
	y += 17

	fpsStr := fmt.Sprintf("FPS %.0f", info.FPS)
	if info.FPSLog {
		fpsStr += " (log)"
	}
	o.drawTextBox(screen, fpsStr, 5, y)
	y += 17

	if info.Trimmed {
		o.drawTextBox(screen, "TRIM", 5, y)
	}
}

// feedLine formats the feed status and reports whether it needs a warning.
func feedLine(st FeedStatus, now time.Time) (string, bool) {
	if st.Source == "demo" {
		return "DEMO", false
	}
	if !st.Connected {
		return fmt.Sprintf("GRPC %s: no link", st.Addr), true
	}
	age := now.Sub(st.LastUpdate)
	if age > staleAfter {
		return fmt.Sprintf("GRPC %s: stale %.0fs", st.Addr, age.Seconds()), true
	}
	return fmt.Sprintf("GRPC %s: %dms", st.Addr, age.Milliseconds()), false
}

// drawTextBox draws text with semi-transparent background
func (o *OSD) drawTextBox(screen *ebiten.Image, text string, x, y int) {
	o.drawTextBoxColored(screen, text, x, y, o.bgColor)
}

// drawTextBoxColored draws text with colored background for warnings
func (o *OSD) drawTextBoxColored(screen *ebiten.Image, text string, x, y int, bgColor color.RGBA) {
	w := len(text)*7 + 6
	h := 16
	vector.DrawFilledRect(screen, float32(x-2), float32(y-1), float32(w), float32(h), bgColor, true)
	ebitenutil.DebugPrintAt(screen, text, x, y)
}
