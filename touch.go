package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TouchButton represents an on-screen touch button
type TouchButton struct {
	X, Y, W, H int
	Label      string
	Action     Action
	Active     bool // toggle state
	Visible    bool
}

// Contains reports whether (x, y) is on the button.
func (b *TouchButton) Contains(x, y int) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// TouchControls manages touch UI elements
type TouchControls struct {
	buttons  []*TouchButton
	screenW  int
	screenH  int
	onPress  func(Action)
	btnColor color.RGBA
	actColor color.RGBA
	txtColor color.RGBA
}

// NewTouchControls creates touch control manager. onPress receives the
// action of every pressed button.
func NewTouchControls(onPress func(Action)) *TouchControls {
	return &TouchControls{
		onPress:  onPress,
		btnColor: color.RGBA{60, 60, 60, 200},
		actColor: color.RGBA{0, 150, 0, 200},
		txtColor: color.RGBA{255, 255, 255, 255},
	}
}

// AddButton adds a touch button
func (tc *TouchControls) AddButton(label string, action Action) *TouchButton {
	btn := &TouchButton{
		W:       60,
		H:       45,
		Label:   label,
		Action:  action,
		Visible: true,
	}
	tc.buttons = append(tc.buttons, btn)
	return btn
}

// SetupDefaultButtons creates the standard control buttons
func (tc *TouchControls) SetupDefaultButtons() {
	tc.AddButton("DEMO", ActionToggleDemo)
	tc.AddButton("ZERO", ActionToggleTrim)
	tc.AddButton("SNAP", ActionSnapshot)
}

// Update checks for touch/click events
func (tc *TouchControls) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		tc.handlePress(mx, my)
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		tc.handlePress(tx, ty)
	}
}

func (tc *TouchControls) handlePress(x, y int) bool {
	for _, btn := range tc.buttons {
		if !btn.Visible || !btn.Contains(x, y) {
			continue
		}
		if tc.onPress != nil {
			tc.onPress(btn.Action)
		}
		return true
	}
	return false
}

// Draw renders all touch buttons
func (tc *TouchControls) Draw(screen *ebiten.Image) {
	for _, btn := range tc.buttons {
		if !btn.Visible {
			continue
		}

		bgColor := tc.btnColor
		if btn.Active {
			bgColor = tc.actColor
		}
		vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, true)
		vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 2, tc.txtColor, true)

		labelX := btn.X + btn.W/2 - len(btn.Label)*3
		labelY := btn.Y + btn.H/2 - 6
		ebitenutil.DebugPrintAt(screen, btn.Label, labelX, labelY)
	}
}

// UpdateLayout stacks the buttons along the right edge, above the status
// bar.
func (tc *TouchControls) UpdateLayout(screenW, screenH int) {
	if tc.screenW == screenW && tc.screenH == screenH {
		return
	}
	tc.screenW = screenW
	tc.screenH = screenH

	const margin = 5
	y := screenH - statusBarHeight - margin
	for i := len(tc.buttons) - 1; i >= 0; i-- {
		btn := tc.buttons[i]
		y -= btn.H
		btn.X = screenW - btn.W - margin
		btn.Y = y
		y -= margin
	}
}

// UpdateButtonStates mirrors toggle state onto the buttons.
func (tc *TouchControls) UpdateButtonStates(active func(Action) bool) {
	for _, btn := range tc.buttons {
		btn.Active = active(btn.Action)
	}
}
