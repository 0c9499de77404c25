package device

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

func TestButtonsHandle(t *testing.T) {
	b := newButtons(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	events := []evdev.InputEvent{
		{Type: evdev.EV_KEY, Code: evdev.KEY_ENTER, Value: keyDown},
		{Type: evdev.EV_KEY, Code: evdev.KEY_POWER, Value: keyDown},
		{Type: evdev.EV_KEY, Code: evdev.KEY_ENTER, Value: keyRepeat},
		{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: keyDown},
		{Type: evdev.EV_SYN, Code: 0, Value: 0},
		{Type: evdev.EV_KEY, Code: evdev.KEY_ENTER, Value: keyUp},
	}
	for i := range events {
		b.handle(&events[i])
	}

	got, err := b.ReadButtons()
	if err != nil {
		t.Fatalf("ReadButtons() = %v", err)
	}
	if want := constants.ButtonPower.Mask(); got != want {
		t.Errorf("mask = %08b, want %08b", got, want)
	}
}

func TestEncode(t *testing.T) {
	frame := image.NewGray(image.Rect(0, 0, 2, 1))
	frame.Pix = []byte{0x00, 0xff}

	tests := []struct {
		bpp  int
		want []byte
	}{
		{bpp: 8, want: []byte{0x00, 0xff}},
		{bpp: 16, want: []byte{0x00, 0x00, 0xff, 0xff}},
		{bpp: 32, want: []byte{0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		dst := make([]byte, len(tt.want))
		encode(dst, len(tt.want), tt.bpp, frame)
		if diff := cmp.Diff(tt.want, dst); diff != "" {
			t.Errorf("encode(bpp=%d) mismatch (-want +got):\n%s", tt.bpp, diff)
		}
	}
}

func writeSysfs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadGeometry(t *testing.T) {
	dir := t.TempDir()
	writeSysfs(t, dir, map[string]string{
		"virtual_size":   "800,480",
		"bits_per_pixel": "16",
		"stride":         "1664",
	})

	w, h, bpp, stride, err := readGeometry(dir)
	if err != nil {
		t.Fatalf("readGeometry() = %v", err)
	}
	if diff := cmp.Diff([]int{800, 480, 16, 1664}, []int{w, h, bpp, stride}); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}

	writeSysfs(t, dir, map[string]string{"bits_per_pixel": "24"})
	if _, _, _, _, err := readGeometry(dir); err == nil {
		t.Error("readGeometry() accepted 24 bpp")
	}
}

func TestSystemPowerControls(t *testing.T) {
	dir := t.TempDir()
	s := DefaultSystem
	s.GovernorPath = filepath.Join(dir, "scaling_governor")
	s.PowerStatePath = filepath.Join(dir, "state")

	if err := s.SetPowerSaving(true); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(s.GovernorPath); string(got) != "powersave" {
		t.Errorf("governor = %q, want powersave", got)
	}
	if err := s.SetPowerSaving(false); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(s.GovernorPath); string(got) != "ondemand" {
		t.Errorf("governor = %q, want ondemand", got)
	}

	if err := s.Suspend(); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(s.PowerStatePath); string(got) != "mem" {
		t.Errorf("power state = %q, want mem", got)
	}

	s.RebootCommand = nil
	if err := s.Reboot(); err == nil {
		t.Error("Reboot() without a command succeeded")
	}
}
