package indicator

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Bounds returns the viewport rectangle anchored at the origin.
func (v Viewport) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// Center returns the viewport centre in pixel coordinates.
func (v Viewport) Center() (float64, float64) {
	return float64(v.Width) / 2, float64(v.Height) / 2
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Surface is an offscreen drawing target. The gg context and the image view
// share one pixel slice, so anything drawn through Ctx is visible in Img.
type Surface struct {
	Ctx *gg.Context
	Img *image.NRGBA

	pm *gg.Pixmap
}

func newSurface(vp Viewport) *Surface {
	pm := gg.NewPixmap(vp.Width, vp.Height)
	return &Surface{
		Ctx: gg.NewContext(vp.Width, vp.Height, gg.WithPixmap(pm)),
		Img: &image.NRGBA{
			Pix:    pm.Data(),
			Stride: 4 * vp.Width,
			Rect:   vp.Bounds(),
		},
		pm: pm,
	}
}

// Size returns the surface dimensions.
func (s *Surface) Size() Viewport {
	return Viewport{Width: s.pm.Width(), Height: s.pm.Height()}
}

func (s *Surface) close() {
	if s == nil {
		return
	}
	_ = s.Ctx.Close()
}

// BufferCache owns the scene and mask surfaces. Both always share one size;
// a request for any other size discards both.
type BufferCache struct {
	size      Viewport
	scene     *Surface
	mask      *Surface
	maxPixels int
	allocs    int
}

// NewBufferCache returns an empty cache. maxPixels caps each surface;
// zero means unlimited.
func NewBufferCache(maxPixels int) *BufferCache {
	return &BufferCache{maxPixels: maxPixels}
}

// Scene returns the scene surface for vp, allocating it if needed.
func (c *BufferCache) Scene(vp Viewport) (*Surface, error) {
	c.fit(vp)
	if c.scene == nil {
		s, err := c.alloc(vp, "scene")
		if err != nil {
			return nil, err
		}
		c.scene = s
	}
	return c.scene, nil
}

// Mask returns the mask surface for vp. fresh is true when the surface was
// just allocated and its contents must be drawn.
func (c *BufferCache) Mask(vp Viewport) (s *Surface, fresh bool, err error) {
	c.fit(vp)
	if c.mask != nil {
		return c.mask, false, nil
	}
	s, err = c.alloc(vp, "mask")
	if err != nil {
		return nil, false, err
	}
	c.mask = s
	return s, true, nil
}

// Invalidate drops both surfaces. The next request reallocates.
func (c *BufferCache) Invalidate() {
	if c.scene == nil && c.mask == nil {
		return
	}
	Logger().Debug("indicator: buffers invalidated", "size", c.size.String())
	c.scene.close()
	c.mask.close()
	c.scene, c.mask = nil, nil
	c.size = Viewport{}
}

// Allocs returns the number of surfaces allocated so far.
func (c *BufferCache) Allocs() int {
	return c.allocs
}

func (c *BufferCache) fit(vp Viewport) {
	if vp != c.size {
		c.Invalidate()
		c.size = vp
	}
}

func (c *BufferCache) alloc(vp Viewport, name string) (s *Surface, err error) {
	if vp.Empty() {
		return nil, fmt.Errorf("%w: %s surface %s", ErrDegenerateViewport, name, vp)
	}
	if c.maxPixels > 0 && vp.Width*vp.Height > c.maxPixels {
		return nil, fmt.Errorf("%w: %s surface %s exceeds %d pixels", ErrAllocation, name, vp, c.maxPixels)
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %s surface %s: %v", ErrAllocation, name, vp, r)
		}
	}()

	s = newSurface(vp)
	c.allocs++
	Logger().Debug("indicator: surface allocated", "surface", name, "size", vp.String())
	return s, nil
}
