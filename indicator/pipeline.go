package indicator

import (
	"errors"
	"fmt"
	"image"
)

// Pipeline turns an attitude and a viewport into a masked frame.
type Pipeline struct {
	buffers    *BufferCache
	scene      *SceneRenderer
	compositor MaskCompositor
	frames     *FrameCounter
}

// NewPipeline wires the stages for cfg.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		buffers: NewBufferCache(cfg.MaxPixels),
		scene:   NewSceneRenderer(cfg),
		frames:  NewFrameCounter(),
	}
}

// RenderFrame draws one frame. An empty viewport is skipped without touching
// the buffers. Any allocation failure drops the frame and leaves the cache
// empty so the next call retries.
func (p *Pipeline) RenderFrame(vp Viewport, att Attitude) (*image.RGBA, error) {
	if vp.Empty() {
		Logger().Debug("indicator: frame skipped", "size", vp.String())
		return nil, fmt.Errorf("%w: %s", ErrDegenerateViewport, vp)
	}

	mask, fresh, err := p.buffers.Mask(vp)
	if err != nil {
		return nil, p.drop(err)
	}
	if fresh {
		if err := BuildMask(mask); err != nil {
			p.buffers.Invalidate()
			return nil, p.drop(err)
		}
	}

	scene, err := p.buffers.Scene(vp)
	if err != nil {
		return nil, p.drop(err)
	}
	if err := p.scene.Render(scene, att); err != nil {
		return nil, p.drop(err)
	}

	out, err := p.compositor.Composite(scene, mask)
	if err != nil {
		return nil, p.drop(err)
	}
	p.frames.Tick()
	return out, nil
}

func (p *Pipeline) drop(err error) error {
	if errors.Is(err, ErrAllocation) {
		p.buffers.Invalidate()
		p.compositor.Release()
	}
	Logger().Warn("indicator: frame dropped", "err", err)
	return err
}

// Invalidate discards every cached buffer.
func (p *Pipeline) Invalidate() {
	p.buffers.Invalidate()
	p.compositor.Release()
}

// Buffers exposes the surface cache.
func (p *Pipeline) Buffers() *BufferCache {
	return p.buffers
}

// Frames exposes the frame counter.
func (p *Pipeline) Frames() *FrameCounter {
	return p.frames
}
