// Package activity provides the screen lifecycle and concurrency core of the
// reader.
//
// An Activity owns the display and the buttons while it is current. The
// Manager holds the current activity and a stack of suspended ones, and moves
// control between them in response to navigation requests. Rendering happens
// on a separate goroutine, the render task, which is woken with
// RequestUpdate and serialized with navigation through the RenderLock.
//
// # Basic Usage
//
//	m := activity.NewManager(renderer, input)
//
//	m.Register(activity.ScreenHome, func(m *activity.Manager, _ activity.Intent) (activity.Activity, error) {
//	    return newHome(m), nil
//	})
//	m.Register(activity.ScreenReader, func(m *activity.Manager, in activity.Intent) (activity.Activity, error) {
//	    return newReader(m, in.Path)
//	})
//
//	if err := m.Begin(); err != nil {
//	    // no display: nothing sensible left to do
//	}
//	m.GoHome()
//
//	for {
//	    input.Update()
//	    m.Loop()
//	}
//
// # Writing an activity
//
// Activities embed *activity.Base, which supplies every method of the
// interface, and override what they need:
//
//	type home struct {
//	    *activity.Base
//	    selected int
//	}
//
//	func (h *home) Loop() {
//	    if h.Released(constants.ButtonDown) {
//	        h.selected++
//	        h.RequestUpdate()
//	    }
//	}
//
//	func (h *home) Render(lock *activity.RenderLock) {
//	    r := h.Renderer()
//	    r.ClearScreen()
//	    r.DrawCenteredText(40, "Home", activity.StyleBold)
//	    r.DisplayBuffer(constants.FastRefresh)
//	}
//
// Loop runs on the main loop and Render on the render task. State shared by
// the two must be written under the RenderLock, or kept in atomics.
//
// # Navigation and results
//
// ReplaceActivity, PushActivity, PopActivity and the GoTo helpers only queue
// a request; it is applied by the next Manager.Loop, after the requesting
// activity's Loop has returned. At most one request is pending at a time.
//
// An activity launched with StartActivityForResult hands a Result back to
// its launcher when it finishes:
//
//	h.StartActivityForResult(newLibraryPicker(m), func(r activity.Result) {
//	    if f, ok := r.File(); ok {
//	        h.GoToReader(f.Path)
//	    }
//	})
//
// The handler runs once, on the main loop, after the picker has exited and
// with the launcher current again.
//
// # Subactivities
//
// Modal overlays such as menus run as a subactivity of a WithSubactivity
// host. The host stays current; the child receives Loop, Render and
// RequestUpdate until ExitSubactivity. Children report to their host through
// callbacks rather than Finish.
package activity
