package internal

import (
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// CPUScaler switches the processor between normal and low-power clocks.
type CPUScaler interface {
	SetPowerSaving(enabled bool) error
}

// PowerManager drops the device into low-power mode after a short idle
// period and decides when auto sleep is due. Any live inhibit token keeps
// the device at full speed; the render task holds one per frame.
type PowerManager struct {
	scaler CPUScaler
	logger *slog.Logger
	now    func() time.Time

	savingAfter time.Duration
	sleepAfter  time.Duration

	inhibitors   atomic.Int32
	lastActivity atomic.Time

	mu       sync.Mutex
	lowPower bool
}

// NewPowerManager creates a power manager. A nil scaler only tracks state.
// A zero sleepAfter disables auto sleep.
func NewPowerManager(scaler CPUScaler, sleepAfter time.Duration, logger *slog.Logger) *PowerManager {
	return NewPowerManagerWithClock(scaler, sleepAfter, logger, time.Now)
}

// NewPowerManagerWithClock creates a power manager that reads time from now.
func NewPowerManagerWithClock(scaler CPUScaler, sleepAfter time.Duration, logger *slog.Logger, now func() time.Time) *PowerManager {
	if logger == nil {
		logger = GetInternalLogger()
	}
	p := &PowerManager{
		scaler:      scaler,
		logger:      logger,
		now:         now,
		savingAfter: constants.PowerSavingIdle,
		sleepAfter:  sleepAfter,
	}
	p.lastActivity.Store(p.now())
	return p
}

// SetPowerSavingAfter changes the idle time before low-power mode.
func (p *PowerManager) SetPowerSavingAfter(d time.Duration) {
	p.savingAfter = d
}

// Inhibit leaves low-power mode and keeps it off until the token is released.
func (p *PowerManager) Inhibit() activity.PowerToken {
	p.inhibitors.Inc()
	p.setPowerSaving(false)
	return &powerToken{p: p}
}

// Tick runs once per main loop iteration. userActive reports input during
// this iteration; preventAutoSleep comes from the current activity. It
// returns true when the device should go to sleep.
func (p *PowerManager) Tick(userActive, preventAutoSleep bool) bool {
	now := p.now()
	if userActive || preventAutoSleep {
		p.lastActivity.Store(now)
	}
	if userActive {
		p.setPowerSaving(false)
	}

	idle := now.Sub(p.lastActivity.Load())
	if p.inhibitors.Load() == 0 && idle >= p.savingAfter {
		p.setPowerSaving(true)
	}

	return p.sleepAfter > 0 && idle >= p.sleepAfter
}

// Touch resets the idle timer, for example after waking up.
func (p *PowerManager) Touch() {
	p.lastActivity.Store(p.now())
}

func (p *PowerManager) LowPower() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lowPower
}

func (p *PowerManager) Inhibitors() int {
	return int(p.inhibitors.Load())
}

func (p *PowerManager) setPowerSaving(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if enabled == p.lowPower {
		return
	}
	if enabled && p.inhibitors.Load() > 0 {
		return
	}

	if enabled {
		p.logger.Debug("Going to low-power mode")
	} else {
		p.logger.Debug("Restoring normal CPU frequency")
	}
	if p.scaler != nil {
		if err := p.scaler.SetPowerSaving(enabled); err != nil {
			p.logger.Error("Failed to change CPU frequency", "low_power", enabled, "error", err)
			return
		}
	}
	p.lowPower = enabled
}

type powerToken struct {
	p        *PowerManager
	released atomic.Bool
}

// Release is safe to call more than once.
func (t *powerToken) Release() {
	if t.released.CompareAndSwap(false, true) {
		t.p.inhibitors.Dec()
	}
}
