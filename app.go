package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"attitude-indicator/indicator"
)

const (
	statusBarHeight  = 24
	instrumentMargin = 40
)

// Action is a user command that can come from the keyboard, a touch button
// or a GPIO button.
type Action int

const (
	ActionToggleDemo Action = iota
	ActionToggleTrim
	ActionSnapshot
	ActionToggleFPSLog
	ActionToggleHelp
	ActionQuit
)

// App is the main application
type App struct {
	ind            *indicator.Indicator
	link           *FeedLink
	trim           *Trim
	hud            *HUD
	osd            *OSD
	touchControls  *TouchControls
	gpioController *GPIOController
	snapshots      *SnapshotWriter

	width      int
	height     int
	fullscreen bool
	startDemo  bool
	instrument image.Rectangle

	// frame holds the last successfully rendered image.
	frame     *ebiten.Image
	lastFrame *image.RGBA
	upload    func(*image.RGBA)

	showHelp      bool
	showTouchBtns bool

	// actions carries presses from GPIO and signal goroutines.
	actions chan Action
	quit    atomic.Bool
}

// NewApp creates a new application
func NewApp(ind *indicator.Indicator, link *FeedLink, trim *Trim, s Settings) *App {
	app := &App{
		ind:           ind,
		link:          link,
		trim:          trim,
		hud:           NewHUD(),
		osd:           NewOSD(),
		snapshots:     NewSnapshotWriter(s.SnapshotDir, "webp"),
		width:         s.Width,
		height:        s.Height,
		fullscreen:    s.Fullscreen,
		startDemo:     s.Demo,
		showTouchBtns: s.Touch,
		actions:       make(chan Action, 16),
	}
	app.upload = app.uploadFrame
	app.touchControls = NewTouchControls(app.perform)
	app.touchControls.SetupDefaultButtons()
	app.gpioController = NewGPIOController(s.GPIORoot, app.Post)
	app.gpioController.SetupDefaultButtons()
	return app
}

// Run starts the application
func (a *App) Run() error {
	ebiten.SetWindowSize(a.width, a.height)
	ebiten.SetWindowTitle("Attitude Indicator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if a.fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := a.link.Start(a.startDemo); err != nil {
		log.Printf("Warning: Could not start attitude feed: %v", err)
	}

	if err := a.gpioController.Start(); err != nil {
		log.Printf("GPIO controller error: %v", err)
	}

	err := ebiten.RunGame(a)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Shutdown cleans up resources
func (a *App) Shutdown() {
	a.gpioController.Stop()
	a.link.Stop()
	if err := a.ind.Close(); err != nil {
		log.Printf("Indicator close error: %v", err)
	}
}

// Post queues an action for the game loop. Safe from any goroutine; presses
// are dropped when the queue is full.
func (a *App) Post(act Action) {
	select {
	case a.actions <- act:
	default:
	}
}

// RequestQuit ends the game loop at the next update.
func (a *App) RequestQuit() {
	a.quit.Store(true)
}

// perform runs an action on the game goroutine.
func (a *App) perform(act Action) {
	switch act {
	case ActionToggleDemo:
		a.link.ToggleDemo()
	case ActionToggleTrim:
		if a.trim.Toggle() {
			off, _ := a.trim.Offset()
			log.Printf("Level reference set: %s", off)
		} else {
			log.Println("Level reference cleared")
		}
	case ActionSnapshot:
		a.saveSnapshot()
	case ActionToggleFPSLog:
		on := !a.ind.FPSLogging()
		a.ind.SetFPSLogging(on)
		log.Printf("FPS logging: %v", on)
	case ActionToggleHelp:
		a.showHelp = !a.showHelp
	case ActionQuit:
		a.RequestQuit()
	}
}

// active reports toggle state for touch buttons.
func (a *App) active(act Action) bool {
	switch act {
	case ActionToggleDemo:
		return a.link.Demo()
	case ActionToggleTrim:
		_, ok := a.trim.Offset()
		return ok
	case ActionToggleFPSLog:
		return a.ind.FPSLogging()
	}
	return false
}

func (a *App) saveSnapshot() {
	if a.lastFrame == nil {
		log.Println("Snapshot skipped: no frame rendered yet")
		return
	}
	path, err := a.snapshots.Save(a.lastFrame)
	if err != nil {
		log.Printf("Snapshot failed: %v", err)
		return
	}
	log.Printf("Snapshot saved to %s", path)
}

// Update handles input and logic updates
func (a *App) Update() error {
drain:
	for {
		select {
		case act := <-a.actions:
			a.perform(act)
		default:
			break drain
		}
	}

	if a.showTouchBtns {
		a.touchControls.UpdateLayout(a.width, a.height)
		a.touchControls.Update()
		a.touchControls.UpdateButtonStates(a.active)
	}

	a.handleKeyboard()

	if a.quit.Load() {
		return ebiten.Termination
	}
	return nil
}

func (a *App) handleKeyboard() {
	keys := []struct {
		keys []ebiten.Key
		act  Action
	}{
		{[]ebiten.Key{ebiten.KeyD}, ActionToggleDemo},
		{[]ebiten.Key{ebiten.KeyZ}, ActionToggleTrim},
		{[]ebiten.Key{ebiten.KeyS}, ActionSnapshot},
		{[]ebiten.Key{ebiten.KeyF}, ActionToggleFPSLog},
		{[]ebiten.Key{ebiten.KeyH, ebiten.KeyF1}, ActionToggleHelp},
		{[]ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape}, ActionQuit},
	}
	for _, k := range keys {
		for _, key := range k.keys {
			if inpututil.IsKeyJustPressed(key) {
				a.perform(k.act)
				break
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.showTouchBtns = !a.showTouchBtns
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

// Draw renders the application
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	select {
	case <-a.ind.Redraw():
		a.refreshFrame()
	default:
	}

	a.hud.DrawBezel(screen, a.instrument)
	if a.frame != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(a.instrument.Min.X), float64(a.instrument.Min.Y))
		screen.DrawImage(a.frame, op)
	}

	status := a.link.Status()
	a.hud.Draw(screen, a.instrument, a.ind.Attitude(), status.Heading)

	_, trimmed := a.trim.Offset()
	a.osd.Draw(screen, OSDInfo{
		Feed:    status,
		FPS:     a.ind.FPS(),
		FPSLog:  a.ind.FPSLogging(),
		Trimmed: trimmed,
		Now:     time.Now(),
	})

	if a.showHelp {
		a.drawHelp(screen)
	}
	if a.showTouchBtns {
		a.touchControls.Draw(screen)
	}
	a.drawStatusBar(screen, status)
}

// refreshFrame renders the instrument and uploads it. On failure the
// previous frame stays on screen.
func (a *App) refreshFrame() {
	img, err := a.ind.Render()
	if err != nil {
		if !errors.Is(err, indicator.ErrDegenerateViewport) {
			log.Printf("Frame dropped: %v", err)
		}
		return
	}
	a.upload(img)
	a.lastFrame = img
}

// uploadFrame copies img into the cached ebiten image, reallocating it
// when the size changes.
func (a *App) uploadFrame(img *image.RGBA) {
	b := img.Bounds()
	if a.frame != nil && a.frame.Bounds().Size() != b.Size() {
		a.frame.Deallocate()
		a.frame = nil
	}
	if a.frame == nil {
		a.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	a.frame.WritePixels(img.Pix)
}

// Layout returns the screen dimensions and sizes the instrument to fit.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	r := instrumentRect(outsideWidth, outsideHeight)
	if r != a.instrument {
		a.instrument = r
		a.ind.OnViewportResized(r.Dx(), r.Dy())
	}
	return outsideWidth, outsideHeight
}

// instrumentRect centres the largest square that leaves room for the roll
// scale and readouts.
func instrumentRect(w, h int) image.Rectangle {
	size := min(w, h-statusBarHeight) - 2*instrumentMargin
	if size <= 0 {
		return image.Rectangle{}
	}
	x := (w - size) / 2
	y := (h - statusBarHeight - size) / 2
	return image.Rect(x, y, x+size, y+size)
}

func (a *App) drawStatusBar(screen *ebiten.Image, st FeedStatus) {
	barY := a.height - statusBarHeight
	vector.DrawFilledRect(screen, 0, float32(barY), float32(a.width), float32(statusBarHeight), color.RGBA{0, 0, 0, 200}, false)

	conn := "Disconnected"
	if st.Connected {
		conn = "Connected"
	}
	src := "GRPC " + st.Addr
	if st.Source == "demo" {
		src = "DEMO"
	}
	vp := a.ind.Viewport()
	status := fmt.Sprintf(" %s | %s | Samples: %d | %dx%d | H=Help", src, conn, st.Samples, vp.Width, vp.Height)
	ebitenutil.DebugPrintAt(screen, status, 5, barY+5)
}

func (a *App) drawHelp(screen *ebiten.Image) {
	help := []string{
		"=== Attitude Indicator ===",
		"",
		"D       Toggle demo source",
		"Z       Set/clear level reference",
		"S       Save snapshot",
		"F       Toggle FPS logging",
		"T       Toggle touch buttons",
		"F11     Toggle fullscreen",
		"H/F1    Toggle this help",
		"Q/Esc   Quit",
	}

	panelW := 250
	panelH := len(help)*16 + 20
	panelX := 10
	panelY := 60

	vector.DrawFilledRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), color.RGBA{0, 0, 0, 200}, false)

	y := panelY + 10
	for _, line := range help {
		ebitenutil.DebugPrintAt(screen, line, panelX+10, y)
		y += 16
	}
}
