package element

// Rect is a bounding box relative to the viewport at the host's raw scroll offset
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Node is the host-side element an animation or trigger is bound to
type Node interface {
	Bounds() Rect
	SetProperty(name, value string)
}

// Viewport is the read-only scroll snapshot handed to elements each frame.
// Scroll is the host's live offset that Node bounds are measured against.
// Target is the last offset accepted by the scheduler and may lag Scroll
// while a throttled scroll event is pending. Current is the smoothed
// offset elements are positioned with.
type Viewport struct {
	Width   float64
	Height  float64
	Current float64
	Target  float64
	Scroll  float64
}

// offset returns the node top relative to the viewport at the smoothed
// scroll position, and its top within the document
func (vp Viewport) offset(r Rect) (offsetY, docTop float64) {
	docTop = r.Top + vp.Scroll
	return docTop - vp.Current, docTop
}

// intersects reports whether a box at offsetY with the given height overlaps the viewport
func (vp Viewport) intersects(offsetY, height float64) bool {
	return offsetY < vp.Height && offsetY+height > 0
}
