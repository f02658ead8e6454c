package fastoverlay

// Platform measures the host surface for the stack manager.
type Platform interface {
	// ScrollbarWidth is the width, in columns, a vertical scrollbar occupies.
	ScrollbarWidth() int
	// IsOverflowing reports whether the container's content exceeds its viewport.
	IsOverflowing(container *Element) bool
}

// ExtentPlatform answers from the extents recorded on each element.
type ExtentPlatform struct {
	Scrollbar int
}

func (p ExtentPlatform) ScrollbarWidth() int {
	return p.Scrollbar
}

func (p ExtentPlatform) IsOverflowing(container *Element) bool {
	return container.ScrollHeight() > container.ClientHeight()
}

// Portal attaches an overlay's visual nodes to its background container.
type Portal interface {
	Attach(container *Element, nodes ...*Element)
	Detach(container *Element, nodes ...*Element)
}

// ElementPortal mounts nodes as the last children of the container.
type ElementPortal struct{}

func (ElementPortal) Attach(container *Element, nodes ...*Element) {
	for _, n := range nodes {
		if n != nil && n.Parent() != container {
			container.AppendChild(n)
		}
	}
}

func (ElementPortal) Detach(container *Element, nodes ...*Element) {
	for _, n := range nodes {
		if n != nil && n.Parent() == container {
			container.RemoveChild(n)
		}
	}
}
