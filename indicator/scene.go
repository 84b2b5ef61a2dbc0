package indicator

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

const (
	pitchRungs  = 4
	groundRungs = 3

	// Chevron arms reach this many ground-ladder steps from the centre.
	chevronSteps = 3.5
)

// SceneRenderer draws the unmasked instrument face onto a scene surface.
type SceneRenderer struct {
	cfg Config

	sky    gg.RGBA
	earth  gg.RGBA
	ladder gg.RGBA
	ground gg.RGBA
	plane  gg.RGBA
}

// NewSceneRenderer returns a renderer for cfg. cfg must already be valid.
func NewSceneRenderer(cfg Config) *SceneRenderer {
	return &SceneRenderer{
		cfg:    cfg,
		sky:    toRGBA(cfg.SkyColor),
		earth:  toRGBA(cfg.EarthColor),
		ladder: toRGBA(cfg.PitchLadderColor),
		ground: toRGBA(cfg.GroundLadderColor),
		plane:  toRGBA(cfg.AircraftColor),
	}
}

// Render paints the full scene for att. Every pixel of s is overwritten.
func (r *SceneRenderer) Render(s *Surface, att Attitude) error {
	vp := s.Size()
	dc := s.Ctx
	dc.Identity()
	dc.ClearPath()
	dc.ClearWithColor(r.sky)

	if err := r.drawWorld(dc, vp, att); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if err := r.drawGroundLadder(dc, vp); err != nil {
		return fmt.Errorf("ground ladder: %w", err)
	}
	if err := r.drawAircraft(dc, vp); err != nil {
		return fmt.Errorf("aircraft: %w", err)
	}
	return nil
}

// PitchOffset is the vertical shift in pixels of the horizon for pitch
// degrees on a viewport of the given height. Nose-up moves it down.
func (r *SceneRenderer) PitchOffset(pitch float64, height int) float64 {
	return pitch / r.cfg.TotalVisiblePitchDegrees * float64(height)
}

// drawWorld draws the earth, horizon and climb rungs under the roll and
// pitch transform.
func (r *SceneRenderer) drawWorld(dc *gg.Context, vp Viewport, att Attitude) error {
	w, h := float64(vp.Width), float64(vp.Height)
	cx, cy := vp.Center()
	offset := r.PitchOffset(att.Pitch, vp.Height)

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(att.Roll*math.Pi/180, cx, cy)
	dc.Translate(0, offset)

	// The earth has to cover the viewport for any rotation, and for pitch
	// values that push the horizon off screen.
	margin := w + h + math.Abs(offset)
	setColor(dc, r.earth)
	dc.DrawRectangle(-margin, cy, w+2*margin, h+margin)
	if err := dc.Fill(); err != nil {
		return err
	}

	setColor(dc, r.ladder)
	dc.SetLineWidth(r.cfg.PitchLadderWidth)
	dc.SetLineCap(gg.LineCapButt)
	dc.DrawLine(-margin, cy, w+margin, cy)
	if err := dc.Stroke(); err != nil {
		return err
	}

	half := w / 16
	for i := 1; i <= pitchRungs; i++ {
		y := cy - float64(i)*h/12
		dc.DrawLine(cx-half, y, cx+half, y)
	}
	return dc.Stroke()
}

func (r *SceneRenderer) drawGroundLadder(dc *gg.Context, vp Viewport) error {
	cx, cy := vp.Center()
	step := float64(vp.Width) / 12

	setColor(dc, r.ground)
	dc.SetLineWidth(r.cfg.GroundLadderWidth)
	dc.SetLineCap(gg.LineCapButt)

	reach := chevronSteps * step
	dc.DrawLine(cx, cy, cx-reach, cy+reach)
	dc.DrawLine(cx, cy, cx+reach, cy+reach)
	for i := 1; i <= groundRungs; i++ {
		d := float64(i) * step
		dc.DrawLine(cx-d, cy+d, cx+d, cy+d)
	}
	return dc.Stroke()
}

func (r *SceneRenderer) drawAircraft(dc *gg.Context, vp Viewport) error {
	w, h := float64(vp.Width), float64(vp.Height)
	cx, cy := vp.Center()
	rx, ry := w/6, h/6

	setColor(dc, r.plane)
	dc.DrawCircle(cx, cy, r.cfg.AircraftWidth/2)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetLineWidth(r.cfg.AircraftWidth)
	dc.SetLineCap(gg.LineCapRound)
	ellipticalArc(dc, cx, cy, rx, ry, 0, math.Pi)
	dc.DrawLine(cx-rx-rx, cy, cx-rx, cy)
	dc.DrawLine(cx+rx, cy, cx+rx+rx, cy)
	dc.DrawLine(cx, cy+ry, cx, cy+ry+h/3)
	return dc.Stroke()
}

// ellipticalArc appends an arc of the axis-aligned ellipse centred on
// (cx, cy) from angle a0 to a1, in radians, clockwise on screen. The arc is
// built from cubic segments of at most a quarter turn so that it follows the
// current transform.
func ellipticalArc(dc *gg.Context, cx, cy, rx, ry, a0, a1 float64) {
	n := int(math.Ceil(math.Abs(a1-a0) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	seg := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(seg/4)

	dc.MoveTo(cx+rx*math.Cos(a0), cy+ry*math.Sin(a0))
	for i := 0; i < n; i++ {
		s := a0 + float64(i)*seg
		e := s + seg
		sx, sy := cx+rx*math.Cos(s), cy+ry*math.Sin(s)
		ex, ey := cx+rx*math.Cos(e), cy+ry*math.Sin(e)
		dc.CubicTo(
			sx-k*rx*math.Sin(s), sy+k*ry*math.Cos(s),
			ex+k*rx*math.Sin(e), ey-k*ry*math.Cos(e),
			ex, ey,
		)
	}
}

func toRGBA(c color.Color) gg.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gg.RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

func setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}
