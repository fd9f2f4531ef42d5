package element

// Direction of the scroll movement a trigger is evaluated with
const (
	Down = 1
	Up   = -1
)

// Callback receives the scroll direction (+1 down, -1 up)
type Callback func(direction int)

// Trigger fires enter/leave callbacks when its node enters or leaves the viewport
type Trigger struct {
	node      Node
	enter     Callback
	leave     Callback
	once      bool
	height    float64
	triggered bool
	spent     bool
}

// BindTrigger attaches enter/leave callbacks to node. A once-trigger enters
// a single time; after its first leave it ignores the viewport for good.
func BindTrigger(node Node, enter, leave Callback, once bool) *Trigger {
	return &Trigger{
		node:   node,
		enter:  enter,
		leave:  leave,
		once:   once,
		height: node.Bounds().Height,
	}
}

// Node returns the bound node
func (t *Trigger) Node() Node { return t.node }

// Triggered reports whether the trigger is in the entered state
func (t *Trigger) Triggered() bool { return t.triggered }

// Update evaluates visibility. While visible, enter fires on every update
// unless the trigger is once-only and already entered.
func (t *Trigger) Update(vp Viewport, direction int) {
	if t.spent {
		return
	}

	offsetY, _ := vp.offset(t.node.Bounds())
	if vp.intersects(offsetY, t.height) {
		if !t.once || !t.triggered {
			t.triggered = true
			if t.enter != nil {
				t.enter(direction)
			}
		}
		return
	}

	if t.triggered {
		if t.leave != nil {
			t.leave(direction)
		}
		t.triggered = false
		t.spent = t.once
	}
}
