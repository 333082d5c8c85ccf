package glpipe

import "slices"

// TextureUnitPool hands out the texture image units of a context.
// A unit must be locked before it is made active and released after.
type TextureUnitPool struct {
	ctx  *Context
	free []int
	size int
}

func newTextureUnitPool(c *Context, n int) *TextureUnitPool {
	p := &TextureUnitPool{ctx: c, size: n, free: make([]int, n)}
	for i := range p.free {
		p.free[i] = i
	}
	return p
}

// Size returns the number of units in the pool.
func (p *TextureUnitPool) Size() int { return p.size }

// Free returns the number of unlocked units.
func (p *TextureUnitPool) Free() int { return len(p.free) }

// Lock takes a free unit. It fails with ErrNoTextureUnits, leaving the
// pool unchanged, when every unit is locked.
func (p *TextureUnitPool) Lock() (*TextureUnit, error) {
	if len(p.free) == 0 {
		return nil, ErrNoTextureUnits
	}
	idx := p.free[0]
	p.free = slices.Delete(p.free, 0, 1)
	return &TextureUnit{pool: p, index: idx, locked: true}, nil
}

// TextureUnit is one locked texture image unit.
type TextureUnit struct {
	pool   *TextureUnitPool
	index  int
	locked bool
}

// Index returns the unit number uploaded to sampler uniforms.
func (u *TextureUnit) Index() int { return u.index }

// Locked reports whether the unit is still held.
func (u *TextureUnit) Locked() bool { return u.locked }

// MakeActive selects the unit for subsequent texture binds.
func (u *TextureUnit) MakeActive() error {
	if !u.locked {
		return ErrTextureUnitNotLocked
	}
	u.pool.ctx.dev.ActiveTextureUnit(u.index)
	return nil
}

// Release returns the unit to the pool. Releasing twice has no effect.
func (u *TextureUnit) Release() {
	if !u.locked {
		return
	}
	u.locked = false
	u.pool.free = slices.Insert(u.pool.free, 0, u.index)
}
