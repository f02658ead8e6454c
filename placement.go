package fastoverlay

// Anchor names the point of the viewport an overlay is aligned to.
type Anchor string

const (
	AnchorCenter       Anchor = "center"
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopRight     Anchor = "top-right"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomRight  Anchor = "bottom-right"
	AnchorTopCenter    Anchor = "top-center"
	AnchorBottomCenter Anchor = "bottom-center"
	AnchorLeftCenter   Anchor = "left-center"
	AnchorRightCenter  Anchor = "right-center"
)

// Margin is the space kept free around the viewport edge.
type Margin struct {
	Top, Right, Bottom, Left int
}

func UniformMargin(n int) Margin {
	return Margin{Top: n, Right: n, Bottom: n, Left: n}
}

// Placement describes where an overlay wants to sit.
type Placement struct {
	Width     int
	MinWidth  int
	MaxHeight int
	Anchor    Anchor
	OffsetX   int
	OffsetY   int
	Margin    Margin
}

// Layout is a resolved placement in viewport cells.
type Layout struct {
	Row       int
	Col       int
	Width     int
	MaxHeight int
}

// Resolve places an overlay of the given height in a width x height viewport.
func (p Placement) Resolve(overlayHeight, width, height int) Layout {
	m := p.Margin
	availWidth := max(1, width-m.Left-m.Right)
	availHeight := max(1, height-m.Top-m.Bottom)

	w := p.Width
	if w <= 0 {
		w = min(80, availWidth)
	}
	if p.MinWidth > 0 {
		w = max(w, p.MinWidth)
	}
	w = max(1, min(w, availWidth))

	maxHeight := 0
	effective := overlayHeight
	if p.MaxHeight > 0 {
		maxHeight = max(1, min(p.MaxHeight, availHeight))
		effective = min(overlayHeight, maxHeight)
	}

	anchor := p.Anchor
	if anchor == "" {
		anchor = AnchorCenter
	}
	row := anchorRow(anchor, effective, availHeight, m.Top) + p.OffsetY
	col := anchorCol(anchor, w, availWidth, m.Left) + p.OffsetX

	row = max(m.Top, min(row, height-m.Bottom-effective))
	col = max(m.Left, min(col, width-m.Right-w))

	return Layout{Row: row, Col: col, Width: w, MaxHeight: maxHeight}
}

func anchorRow(anchor Anchor, h, avail, top int) int {
	switch anchor {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		return top
	case AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return top + max(0, avail-h)
	default:
		return top + max(0, avail-h)/2
	}
}

func anchorCol(anchor Anchor, w, avail, left int) int {
	switch anchor {
	case AnchorTopLeft, AnchorBottomLeft, AnchorLeftCenter:
		return left
	case AnchorTopRight, AnchorBottomRight, AnchorRightCenter:
		return left + max(0, avail-w)
	default:
		return left + max(0, avail-w)/2
	}
}

// Interactive is anything that can say whether it is currently on screen.
type Interactive interface {
	Interactive() bool
}

// Positioner keeps a layout current while its subject is interactive and
// freezes it otherwise.
type Positioner struct {
	Placement Placement

	last  Layout
	valid bool
}

// Update returns the layout and whether it was recomputed.
func (p *Positioner) Update(subject Interactive, overlayHeight, width, height int) (Layout, bool) {
	if !subject.Interactive() {
		return p.last, false
	}
	p.last = p.Placement.Resolve(overlayHeight, width, height)
	p.valid = true
	return p.last, true
}

// Last returns the most recent layout and whether one was ever computed.
func (p *Positioner) Last() (Layout, bool) {
	return p.last, p.valid
}
