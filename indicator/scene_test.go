package indicator

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

const testSize = 200

func newTestIndicator(t *testing.T, size int) *Indicator {
	t.Helper()
	ind, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = ind.Close() })
	ind.OnViewportResized(size, size)
	return ind
}

func renderAt(t *testing.T, ind *Indicator, pitch, roll float64) *image.RGBA {
	t.Helper()
	ind.SetAttitude(pitch, roll)
	img, err := ind.Render()
	if err != nil {
		t.Fatalf("Render(pitch=%v, roll=%v) error = %v", pitch, roll, err)
	}
	return img
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func near(got color.Color, want color.Color, tol int) bool {
	g, w := nrgba(got), nrgba(want)
	d := func(a, b uint8) bool {
		diff := int(a) - int(b)
		return diff <= tol && diff >= -tol
	}
	return d(g.R, w.R) && d(g.G, w.G) && d(g.B, w.B) && d(g.A, w.A)
}

func expectPixel(t *testing.T, img image.Image, x, y int, want color.Color, what string) {
	t.Helper()
	got := img.At(x, y)
	if !near(got, want, 3) {
		t.Errorf("%s at (%d,%d) = %v, want %v", what, x, y, nrgba(got), nrgba(want))
	}
}

func TestHorizonLevel(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)
	img := renderAt(t, ind, 0, 0)

	expectPixel(t, img, 20, 100, cfg.PitchLadderColor, "horizon")
	expectPixel(t, img, 20, 90, cfg.SkyColor, "sky")
	expectPixel(t, img, 20, 110, cfg.EarthColor, "earth")
	expectPixel(t, img, 180, 100, cfg.PitchLadderColor, "horizon")
}

func TestHorizonFollowsPitch(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)

	tests := []struct {
		pitch   float64
		horizon int
	}{
		{18, 140},
		{-18, 60},
		{9, 120},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("pitch=%v", tt.pitch), func(t *testing.T) {
			img := renderAt(t, ind, tt.pitch, 0)
			expectPixel(t, img, 20, tt.horizon, cfg.PitchLadderColor, "horizon")
			expectPixel(t, img, 20, tt.horizon-10, cfg.SkyColor, "sky")
			expectPixel(t, img, 20, tt.horizon+10, cfg.EarthColor, "earth")
		})
	}
}

func TestPitchOffset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalVisiblePitchDegrees = 60
	r := NewSceneRenderer(cfg)

	if got := r.PitchOffset(30, 300); got != 150 {
		t.Errorf("PitchOffset(30, 300) = %v, want 150", got)
	}
	if got := r.PitchOffset(-15, 300); got != -75 {
		t.Errorf("PitchOffset(-15, 300) = %v, want -75", got)
	}
}

func TestClimbRungs(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)
	img := renderAt(t, ind, 0, 0)

	for i := 1; i <= pitchRungs; i++ {
		y := int(math.Floor(100 - float64(i)*testSize/12))
		expectPixel(t, img, 100, y, cfg.PitchLadderColor, fmt.Sprintf("rung %d", i))
		// Rungs are w/8 wide, so 20px off centre is open sky.
		expectPixel(t, img, 120, y, cfg.SkyColor, fmt.Sprintf("beside rung %d", i))
	}
}

func nearPremul(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		diff := int(x) - int(y)
		return diff <= tol && diff >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestLevelSceneIsSymmetric(t *testing.T) {
	ind := newTestIndicator(t, testSize)
	img := renderAt(t, ind, 0, 0)

	// Premultiplied values inside the face; the anti-aliased rim is not
	// pixel-symmetric.
	for y := 0; y < testSize; y++ {
		for x := 0; x < testSize/2; x++ {
			dx := (float64(x) + 0.5 - 100) / 100
			dy := (float64(y) + 0.5 - 100) / 100
			if math.Hypot(dx, dy) >= 0.96 {
				continue
			}
			l, r := img.RGBAAt(x, y), img.RGBAAt(testSize-1-x, y)
			if !nearPremul(l, r, 10) {
				t.Fatalf("pixel (%d,%d) = %v, mirror (%d,%d) = %v", x, y, l, testSize-1-x, y, r)
			}
		}
	}
}

// screenFixed reports whether (x, y) may be covered by the aircraft symbol
// or the ground ladder on a testSize viewport.
func screenFixed(x, y float64) bool {
	return math.Abs(x-100) < 8 && y > 100
}

func TestRollRotatesWorld(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)

	for _, roll := range []float64{30, -45, 90, 170, 400} {
		t.Run(fmt.Sprintf("roll=%v", roll), func(t *testing.T) {
			img := renderAt(t, ind, 0, roll)
			unrotate := gg.Rotate(-roll * math.Pi / 180)

			checked := 0
			for deg := 0.0; deg < 360; deg += 7 {
				a := deg * math.Pi / 180
				px := int(math.Floor(100 + 0.45*testSize*math.Cos(a)))
				py := int(math.Floor(100 + 0.45*testSize*math.Sin(a)))
				sx, sy := float64(px)+0.5, float64(py)+0.5
				if screenFixed(sx, sy) {
					continue
				}
				world := unrotate.TransformVector(gg.Pt(sx-100, sy-100))
				if math.Abs(world.Y) < 4 {
					continue
				}
				want := cfg.SkyColor
				if world.Y > 0 {
					want = cfg.EarthColor
				}
				expectPixel(t, img, px, py, want, "world")
				checked++
			}
			if checked < 30 {
				t.Fatalf("only %d samples checked", checked)
			}
		})
	}
}

func TestAircraftIsScreenFixed(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)

	rx, ry := float64(testSize)/6, float64(testSize)/6
	points := []struct {
		name string
		x, y int
	}{
		{"dot", 100, 100},
		{"tail", 100, int(100 + ry + testSize/6)},
		{"left wing", int(100 - rx - rx/2), 100},
		{"right wing", int(100 + rx + rx/2), 100},
		{"arc bottom", 100, int(math.Floor(100 + ry))},
	}
	for _, att := range []Attitude{{0, 0}, {0, 60}, {30, -120}, {-40, 15}, {80, 180}} {
		img := renderAt(t, ind, att.Pitch, att.Roll)
		for _, p := range points {
			expectPixel(t, img, p.x, p.y, cfg.AircraftColor, fmt.Sprintf("%s (%v)", p.name, att))
		}
	}
}

func TestGroundLadderIsScreenFixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroundLadderColor = color.NRGBA{0xFF, 0x00, 0xFF, 0xFF}
	ind, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ind.Close() })
	ind.OnViewportResized(testSize, testSize)
	step := float64(testSize) / 12

	for _, att := range []Attitude{{0, 0}, {-30, 75}, {44, -170}} {
		img := renderAt(t, ind, att.Pitch, att.Roll)
		for i := 1; i <= groundRungs; i++ {
			y := int(math.Floor(100 + float64(i)*step))
			x := int(100 + 0.6*float64(i)*step)
			expectPixel(t, img, x, y, cfg.GroundLadderColor, fmt.Sprintf("ground rung %d (%v)", i, att))
		}
	}
}

// over blends src onto an opaque dst.
func over(src, dst color.NRGBA) color.NRGBA {
	a := float64(src.A) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	return color.NRGBA{mix(src.R, dst.R), mix(src.G, dst.G), mix(src.B, dst.B), 0xFF}
}

func TestGroundLadderIsTranslucent(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)
	img := renderAt(t, ind, 0, 0)

	// Level, the ground rungs sit over earth and let it show through.
	step := float64(testSize) / 12
	want := over(nrgba(cfg.GroundLadderColor), nrgba(cfg.EarthColor))
	for i := 1; i <= groundRungs; i++ {
		y := int(math.Floor(100 + float64(i)*step))
		x := int(100 + 0.6*float64(i)*step)
		expectPixel(t, img, x, y, want, fmt.Sprintf("ground rung %d", i))
	}
}

func TestAircraftDotSize(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)
	img := renderAt(t, ind, 0, 0)

	// The dot is AircraftWidth across: 4px from the centre is the horizon
	// line on one side and earth on the other.
	expectPixel(t, img, 100, 100, cfg.AircraftColor, "dot centre")
	expectPixel(t, img, 96, 100, cfg.PitchLadderColor, "horizon beside dot")
	expectPixel(t, img, 99, 104, cfg.EarthColor, "earth below dot")
}

func TestEarthCoversExtremeAttitudes(t *testing.T) {
	cfg := DefaultConfig()
	ind := newTestIndicator(t, testSize)

	// Far nose-down the horizon leaves the top of the viewport: all earth.
	img := renderAt(t, ind, -500, 37)
	expectPixel(t, img, 100, 20, cfg.EarthColor, "nose-down top")
	expectPixel(t, img, 30, 130, cfg.EarthColor, "nose-down left")

	// Far nose-up: all sky.
	img = renderAt(t, ind, 500, -37)
	expectPixel(t, img, 100, 20, cfg.SkyColor, "nose-up top")
	expectPixel(t, img, 30, 130, cfg.SkyColor, "nose-up left")
}

func TestEllipticalArcEndpoints(t *testing.T) {
	pm := gg.NewPixmap(100, 60)
	dc := gg.NewContext(100, 60, gg.WithPixmap(pm))
	defer dc.Close()

	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(4)
	ellipticalArc(dc, 50, 20, 40, 30, 0, math.Pi)
	if err := dc.Stroke(); err != nil {
		t.Fatalf("Stroke() error = %v", err)
	}

	// Lowest point of the half ellipse.
	if a := pm.GetPixel(50, 49).A; a < 0.99 {
		t.Errorf("arc bottom alpha = %v, want opaque", a)
	}
	// The upper half is never drawn.
	if a := pm.GetPixel(50, 0).A; a != 0 {
		t.Errorf("upper half alpha = %v, want 0", a)
	}
}
