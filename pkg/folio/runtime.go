package folio

import (
	"context"
	"errors"
	"time"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Run boots the reader and drives the main loop until ctx is done. Each
// tick reads the buttons, runs the current activity and applies the power
// policy. Holding the power button, or staying idle past the sleep timeout,
// puts the device to sleep.
func (rt *Runtime) Run(ctx context.Context) error {
	rt.manager.GoToBoot()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := rt.Tick(ctx); err != nil {
			return err
		}

		if rt.manager.SkipLoopDelay() {
			continue
		}
		timer.Reset(constants.LoopDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tick runs one iteration of the main loop.
func (rt *Runtime) Tick(ctx context.Context) error {
	rt.readInput()

	if rt.awaitRelease {
		// The press that sent the device to sleep, including its release,
		// must not wake it.
		if !rt.anyPressed() {
			rt.awaitRelease = false
		}
		return nil
	}

	rt.manager.Loop()
	rt.trackActivity()

	userActive := rt.input.WasAnyPressed() || rt.input.WasAnyReleased()
	sleepDue := rt.power.Tick(userActive, rt.manager.PreventAutoSleep())

	longPower := rt.input.IsPressed(constants.ButtonPower) && rt.input.HeldTime() >= constants.LongPressDuration
	if longPower {
		rt.logger.Info("Power button held, going to sleep")
		return rt.sleep(ctx)
	}
	if sleepDue {
		rt.logger.Info("Idle timeout reached, going to sleep")
		return rt.sleep(ctx)
	}
	return nil
}

func (rt *Runtime) readInput() {
	err := rt.input.Update()
	switch {
	case err != nil && !rt.inputFailing:
		rt.inputFailing = true
		rt.logger.Error("Failed to read buttons", "error", err)
	case err == nil && rt.inputFailing:
		rt.inputFailing = false
		rt.logger.Info("Button input recovered")
	}
}

func (rt *Runtime) anyPressed() bool {
	for b := constants.Button(0); b < constants.ButtonCount; b++ {
		if rt.input.IsPressed(b) {
			return true
		}
	}
	return false
}

func (rt *Runtime) trackActivity() {
	current := rt.manager.Current()
	if current == nil || current.Name() == rt.lastActivity {
		return
	}
	rt.lastActivity = current.Name()
	rt.logger.Debug("Activity changed",
		"activity", current.Name(),
		"depth", rt.manager.Depth(),
		"reading", rt.manager.IsReaderActivity(),
	)
}

// sleep shows the sleep screen, waits for it to reach the panel and hands
// over to the platform suspend hook. Sleep screen failures are logged; only
// context cancellation ends the loop.
func (rt *Runtime) sleep(ctx context.Context) error {
	rt.awaitRelease = true

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := rt.manager.GoToSleep(waitCtx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		rt.logger.Error("Sleep screen was not displayed", "error", err)
	}

	if rt.suspend != nil {
		if err := rt.suspend(); err != nil && !errors.Is(err, context.Canceled) {
			rt.logger.Error("Suspend failed", "error", err)
		}
	}
	rt.power.Touch()
	return nil
}
