package view

// Pointer turns absolute cursor positions into drag deltas while the
// primary button is held.
type Pointer struct {
	down bool
	x, y float64
}

func (p *Pointer) Press(x, y float64) {
	p.down = true
	p.x, p.y = x, y
}

func (p *Pointer) Release() {
	p.down = false
}

func (p *Pointer) Down() bool {
	return p.down
}

// Move returns the movement since the last call, and false when the button
// is not held.
func (p *Pointer) Move(x, y float64) (dx, dy float64, ok bool) {
	if !p.down {
		return 0, 0, false
	}
	dx, dy = x-p.x, y-p.y
	p.x, p.y = x, y
	return dx, dy, true
}
