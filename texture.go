package glpipe

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
)

// Texture is a sampled RGBA8 texture.
//
// A texture holds a texture unit only while active. Activations nest:
// several sampler uniforms may share one texture during a pass and the
// unit is released when the last of them deactivates.
type Texture struct {
	ctx         *Context
	id          device.TextureID
	dim         gputypes.TextureViewDimension
	width       int
	height      int
	mipmap      bool
	filtered    bool
	unit        *TextureUnit
	activations int
	destroyed   bool
}

func textureTarget(dim gputypes.TextureViewDimension) device.TextureTarget {
	switch dim {
	case gputypes.TextureViewDimension1D:
		return device.Target1D
	case gputypes.TextureViewDimension2D:
		return device.Target2D
	case gputypes.TextureViewDimension3D:
		return device.Target3D
	case gputypes.TextureViewDimensionCube:
		return device.TargetCube
	default:
		return device.TargetNone
	}
}

// NewTexture creates a texture of the given dimension: 1D, 2D, 3D or cube.
func (c *Context) NewTexture(dim gputypes.TextureViewDimension) (*Texture, error) {
	target := textureTarget(dim)
	if target == device.TargetNone {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimension, dim)
	}
	id, err := c.dev.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("glpipe: create texture: %w", err)
	}
	t := &Texture{ctx: c, id: id, dim: dim}
	// The first bind fixes the texture target.
	if err := t.withBound(func() error { return nil }); err != nil {
		c.dev.DeleteTexture(id)
		return nil, err
	}
	return t, nil
}

// ID returns the device handle.
func (t *Texture) ID() device.TextureID { return t.id }

// Dimension returns the view dimension.
func (t *Texture) Dimension() gputypes.TextureViewDimension { return t.dim }

// Size returns the size of the last upload.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Mipmapping reports whether mipmaps are generated.
func (t *Texture) Mipmapping() bool { return t.mipmap }

// Active reports whether the texture holds a unit.
func (t *Texture) Active() bool { return t.activations > 0 }

// UnitIndex returns the unit the active texture is bound to.
func (t *Texture) UnitIndex() (int, error) {
	if t.activations == 0 {
		return 0, ErrTextureNotActive
	}
	return t.unit.Index(), nil
}

func (t *Texture) isDestroyed() bool { return t.destroyed }

func (t *Texture) samplerDim() gltype.SamplerDim { return samplerDimOf(t.dim) }

// withBound runs fn with the texture bound, borrowing a unit if the
// texture is not active.
func (t *Texture) withBound(fn func() error) error {
	dev := t.ctx.dev
	target := textureTarget(t.dim)
	if t.activations > 0 {
		if err := t.unit.MakeActive(); err != nil {
			return err
		}
		return fn()
	}
	unit, err := t.ctx.units.Lock()
	if err != nil {
		return err
	}
	defer unit.Release()
	if err := unit.MakeActive(); err != nil {
		return err
	}
	dev.BindTexture(target, t.id)
	err = fn()
	dev.BindTexture(target, device.InvalidID)
	return err
}

// SetPixels uploads tightly packed RGBA8 pixels. 1D textures take a
// height of 1.
func (t *Texture) SetPixels(width, height int, rgba []byte) error {
	if t.destroyed {
		return ErrDestroyed
	}
	switch t.dim {
	case gputypes.TextureViewDimension1D:
		if height != 1 {
			return fmt.Errorf("%w: 1D texture with height %d", ErrPixelData, height)
		}
	case gputypes.TextureViewDimension2D:
	default:
		return fmt.Errorf("%w: pixel upload to %v texture", ErrInvalidDimension, t.dim)
	}
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrPixelData, width, height, width*height*4, len(rgba))
	}
	if limit := t.ctx.dev.MaxTextureSize(); width > limit || height > limit {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrPixelData, width, height, limit)
	}

	target := textureTarget(t.dim)
	err := t.withBound(func() error {
		t.ctx.dev.TexImage(target, width, height, rgba)
		return t.ctx.checkError("TexImage")
	})
	if err != nil {
		return err
	}
	t.width, t.height = width, height
	t.filtered = false
	return nil
}

// SetImage uploads img as non-premultiplied RGBA8. Images larger than
// the device texture size are scaled down, keeping their aspect ratio.
func (t *Texture) SetImage(img image.Image) error {
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), t.ctx.dev.MaxTextureSize())
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		slogger().Debug("glpipe: texture image scaled", "from", b.Size(), "to", dst.Bounds().Size())
	}
	return t.SetPixels(w, h, dst.Pix)
}

func fitSize(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(h*limit/w, 1)
	}
	return max(w*limit/h, 1), limit
}

// SetMipmapping sets whether mipmaps are generated and sampled.
func (t *Texture) SetMipmapping(on bool) {
	if t.mipmap == on {
		return
	}
	t.mipmap = on
	t.filtered = false
}

// activate binds the texture to a locked unit and returns the unit.
func (t *Texture) activate() (int, error) {
	if t.destroyed {
		return 0, ErrDestroyed
	}
	if t.activations == 0 {
		unit, err := t.ctx.units.Lock()
		if err != nil {
			return 0, err
		}
		if err := unit.MakeActive(); err != nil {
			unit.Release()
			return 0, err
		}
		target := textureTarget(t.dim)
		t.ctx.dev.BindTexture(target, t.id)
		if !t.filtered {
			t.ctx.dev.SetTextureFilter(target, t.mipmap)
			if t.mipmap {
				t.ctx.dev.GenerateMipmap(target)
			}
			t.filtered = true
		}
		t.unit = unit
	}
	t.activations++
	return t.unit.Index(), nil
}

// deactivate undoes one activate. The last one unbinds the texture and
// releases its unit.
func (t *Texture) deactivate() error {
	if t.activations == 0 {
		return ErrTextureNotActive
	}
	t.activations--
	if t.activations > 0 {
		return nil
	}
	if err := t.unit.MakeActive(); err == nil {
		t.ctx.dev.BindTexture(textureTarget(t.dim), device.InvalidID)
	}
	t.unit.Release()
	t.unit = nil
	return nil
}

// Destroy releases the texture. Uniforms referring to it fail afterwards.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	if t.activations > 0 {
		t.activations = 1
		_ = t.deactivate()
	}
	t.ctx.dev.DeleteTexture(t.id)
	t.id = device.InvalidID
	t.destroyed = true
}
