package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// System holds the sysfs paths and commands of the device's power controls.
type System struct {
	GovernorPath   string // cpufreq scaling_governor
	PowerSaving    string // Governor while idle
	Performance    string // Governor while busy
	PowerStatePath string
	RebootCommand  []string
}

// DefaultSystem is the layout of a stock Linux kernel.
var DefaultSystem = System{
	GovernorPath:   "/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor",
	PowerSaving:    "powersave",
	Performance:    "ondemand",
	PowerStatePath: "/sys/power/state",
	RebootCommand:  []string{"/sbin/reboot"},
}

// SetPowerSaving implements folio.CPUScaler by switching the governor.
func (s System) SetPowerSaving(enabled bool) error {
	governor := s.Performance
	if enabled {
		governor = s.PowerSaving
	}
	if err := os.WriteFile(s.GovernorPath, []byte(governor), 0644); err != nil {
		return fmt.Errorf("set governor %s: %w", governor, err)
	}
	return nil
}

// Suspend puts the device to sleep. The write returns after wake-up.
func (s System) Suspend() error {
	if err := os.WriteFile(s.PowerStatePath, []byte("mem"), 0644); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	return nil
}

// Reboot runs the reboot command.
func (s System) Reboot() error {
	if len(s.RebootCommand) == 0 {
		return errors.New("no reboot command")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, s.RebootCommand[0], s.RebootCommand[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reboot: %w: %s", err, out)
	}
	return nil
}
