package ui

// Pane is the scroll state of one display region. The tree pane and the
// preview pane each own an independent Pane; nothing couples their
// offsets.
type Pane struct {
	Top    int // first visible row
	Height int // rows the pane can show
}

// Clamp forces Top back into [0, max(0, content-Height)].
func (p *Pane) Clamp(content int) {
	max := content - p.Height
	if max < 0 {
		max = 0
	}
	if p.Top > max {
		p.Top = max
	}
	if p.Top < 0 {
		p.Top = 0
	}
}

// Scroll moves the window by delta rows, clamped.
func (p *Pane) Scroll(delta, content int) {
	p.Top += delta
	p.Clamp(content)
}

// EnsureVisible adjusts Top minimally so row lies within the window.
func (p *Pane) EnsureVisible(row, content int) {
	if row < p.Top {
		p.Top = row
	}
	if p.Height > 0 && row >= p.Top+p.Height {
		p.Top = row - p.Height + 1
	}
	p.Clamp(content)
}

// Reset scrolls back to the top.
func (p *Pane) Reset() {
	p.Top = 0
}

// HalfPage returns the half-page scroll delta, at least one row.
func (p Pane) HalfPage() int {
	half := p.Height / 2
	if half < 1 {
		half = 1
	}
	return half
}
