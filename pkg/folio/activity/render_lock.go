package activity

import "sync"

// RenderLock is proof of exclusive access to the display and to the
// manager's current activity. It is handed to Render by pointer and the
// callee owns it from then on.
//
// Unlock may be called early to release the display before the scope ends;
// any later Unlock, including a deferred one, does nothing. A RenderLock is
// not re-entrant: at most one may be live on a code path.
type RenderLock struct {
	mu     sync.Locker
	locked bool
}

func acquireRenderLock(mu sync.Locker) *RenderLock {
	mu.Lock()
	return &RenderLock{mu: mu, locked: true}
}

// Unlock releases the lock if it is still held.
func (l *RenderLock) Unlock() {
	if l == nil || !l.locked {
		return
	}
	l.locked = false
	l.mu.Unlock()
}

// Held reports whether the lock has not been released yet.
func (l *RenderLock) Held() bool {
	return l != nil && l.locked
}
