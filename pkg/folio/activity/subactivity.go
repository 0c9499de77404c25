package activity

// host is implemented by activities that embed *WithSubactivity.
type host interface {
	activeSubactivity() Activity
	detachSubactivity() Activity
}

// WithSubactivity is an activity that can host one nested child, used for
// modal overlays such as pickers and menus.
//
// While a child is present the manager sends Loop and Render to the child
// instead of the host, and RequestUpdate on the host is forwarded to the
// child. The host is suspended, not exited. A child reports back to its host
// through callbacks and never calls Finish, which would pop the host.
type WithSubactivity struct {
	*Base

	// Written on the main loop under the render lock, read by the render task
	// under the same lock.
	sub Activity
}

// NewWithSubactivity creates a host bound to m.
func NewWithSubactivity(name string, m *Manager) *WithSubactivity {
	return &WithSubactivity{Base: NewBase(name, m)}
}

// Subactivity returns the active child, or nil.
func (w *WithSubactivity) Subactivity() Activity {
	return w.sub
}

// EnterSubactivity makes child the active overlay, exiting any previous
// child first. The child's OnEnter runs outside the render lock, and the
// child is not rendered until it returns.
func (w *WithSubactivity) EnterSubactivity(child Activity) {
	lock := w.manager.LockRender()
	prev := w.sub
	w.sub = child
	if prev != nil {
		w.logger.Debug("Replacing subactivity", "activity", w.name, "subactivity", prev.Name())
		w.manager.teardown(prev)
	}
	lock.Unlock()

	w.logger.Debug("Entering subactivity", "activity", w.name, "subactivity", child.Name())
	w.manager.enter(child)
}

// ExitSubactivity exits and drops the active child, if any, and repaints
// the host.
func (w *WithSubactivity) ExitSubactivity() {
	if w.sub == nil {
		return
	}
	lock := w.manager.LockRender()
	child := w.detachSubactivity()
	if child != nil {
		w.logger.Debug("Exiting subactivity", "activity", w.name, "subactivity", child.Name())
		w.manager.teardown(child)
	}
	lock.Unlock()

	w.Base.RequestUpdate()
}

// RequestUpdate forwards to the child while one is active.
func (w *WithSubactivity) RequestUpdate() {
	if w.sub != nil {
		w.sub.RequestUpdate()
		return
	}
	w.Base.RequestUpdate()
}

// SkipLoopDelay and PreventAutoSleep answer for the child while one is
// active.
func (w *WithSubactivity) SkipLoopDelay() bool {
	return w.sub != nil && w.sub.SkipLoopDelay()
}

func (w *WithSubactivity) PreventAutoSleep() bool {
	return w.sub != nil && w.sub.PreventAutoSleep()
}

func (w *WithSubactivity) activeSubactivity() Activity {
	return w.sub
}

func (w *WithSubactivity) detachSubactivity() Activity {
	child := w.sub
	w.sub = nil
	return child
}

// target follows the chain of active subactivities down to the activity
// that should receive Loop and Render.
func target(a Activity) Activity {
	for {
		h, ok := a.(host)
		if !ok {
			return a
		}
		child := h.activeSubactivity()
		if child == nil {
			return a
		}
		a = child
	}
}
