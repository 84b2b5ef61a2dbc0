package indicator

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// CompositeRule selects how a drawn source combines with the layer.
type CompositeRule int

const (
	// SourceOver paints the source on top of the layer.
	SourceOver CompositeRule = iota
	// SourceIn keeps the source only where the layer is already covered,
	// scaled by the layer's coverage. The layer's own colour is discarded.
	SourceIn
)

func (r CompositeRule) String() string {
	switch r {
	case SourceOver:
		return "source-over"
	case SourceIn:
		return "source-in"
	default:
		return fmt.Sprintf("CompositeRule(%d)", int(r))
	}
}

// BuildMask paints the ellipse inscribed in s, opaque white on transparent.
func BuildMask(s *Surface) error {
	vp := s.Size()
	cx, cy := vp.Center()
	dc := s.Ctx
	dc.Identity()
	dc.ClearPath()
	dc.Clear()
	dc.SetRGBA(1, 1, 1, 1)
	dc.DrawEllipse(cx, cy, cx, cy)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	return nil
}

// MaskCompositor clips a scene to a mask on an isolated layer. The layer is
// reused across frames and reallocated only when the size changes.
type MaskCompositor struct {
	layer    *image.RGBA
	coverage *image.Alpha
	rule     CompositeRule
}

// Composite returns the scene clipped to the mask. The mask goes onto a
// cleared layer first, then the scene is drawn with SourceIn. The returned
// image is owned by the compositor and overwritten by the next call.
func (c *MaskCompositor) Composite(scene, mask *Surface) (*image.RGBA, error) {
	vp := scene.Size()
	if mask.Size() != vp {
		return nil, fmt.Errorf("composite: scene %s and mask %s differ", vp, mask.Size())
	}
	if err := c.ensure(vp); err != nil {
		return nil, err
	}

	draw.Draw(c.layer, c.layer.Bounds(), image.Transparent, image.Point{}, draw.Src)
	c.rule = SourceOver
	c.draw(mask.Img)
	c.rule = SourceIn
	c.draw(scene.Img)
	c.rule = SourceOver
	return c.layer, nil
}

func (c *MaskCompositor) draw(src image.Image) {
	r := c.layer.Bounds()
	switch c.rule {
	case SourceIn:
		draw.Draw(c.coverage, r, c.layer, image.Point{}, draw.Src)
		draw.Copy(c.layer, image.Point{}, src, r, draw.Src, &draw.Options{
			SrcMask:  c.coverage,
			SrcMaskP: image.Point{},
		})
	default:
		draw.Copy(c.layer, image.Point{}, src, r, draw.Over, nil)
	}
}

func (c *MaskCompositor) ensure(vp Viewport) (err error) {
	if c.layer != nil && c.layer.Rect == vp.Bounds() {
		return nil
	}
	c.Release()
	defer func() {
		if r := recover(); r != nil {
			c.Release()
			err = fmt.Errorf("%w: layer %s: %v", ErrAllocation, vp, r)
		}
	}()
	c.layer = image.NewRGBA(vp.Bounds())
	c.coverage = image.NewAlpha(vp.Bounds())
	return nil
}

// Release drops the layer.
func (c *MaskCompositor) Release() {
	c.layer, c.coverage = nil, nil
}

