package device

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

// Framebuffer is a panel backed by a Linux framebuffer device such as
// /dev/fb0. The geometry is read from sysfs.
type Framebuffer struct {
	file   *os.File
	width  int
	height int
	bpp    int
	stride int
	logger *slog.Logger

	mu  sync.Mutex
	buf []byte
}

// OpenFramebuffer opens the framebuffer device at path.
func OpenFramebuffer(path string, logger *slog.Logger) (*Framebuffer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sysfs := filepath.Join("/sys/class/graphics", filepath.Base(path))
	width, height, bpp, stride, err := readGeometry(sysfs)
	if err != nil {
		return nil, err
	}
	if width < constants.DisplayWidth || height < constants.DisplayHeight {
		return nil, fmt.Errorf("framebuffer %s is %dx%d, need %dx%d",
			path, width, height, constants.DisplayWidth, constants.DisplayHeight)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	logger.Debug("Opened framebuffer", "path", path, "width", width, "height", height, "bpp", bpp)
	return &Framebuffer{
		file:   f,
		width:  width,
		height: height,
		bpp:    bpp,
		stride: stride,
		logger: logger,
		buf:    make([]byte, stride*height),
	}, nil
}

func readGeometry(sysfs string) (width, height, bpp, stride int, err error) {
	size, err := readSysfs(sysfs, "virtual_size")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	w, h, ok := strings.Cut(size, ",")
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("framebuffer virtual_size %q", size)
	}
	if width, err = strconv.Atoi(w); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("framebuffer width: %w", err)
	}
	if height, err = strconv.Atoi(h); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("framebuffer height: %w", err)
	}

	raw, err := readSysfs(sysfs, "bits_per_pixel")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if bpp, err = strconv.Atoi(raw); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("framebuffer bits_per_pixel: %w", err)
	}
	switch bpp {
	case 8, 16, 32:
	default:
		return 0, 0, 0, 0, fmt.Errorf("unsupported framebuffer depth %d", bpp)
	}

	stride = width * bpp / 8
	if raw, err := readSysfs(sysfs, "stride"); err == nil {
		if s, err := strconv.Atoi(raw); err == nil && s >= stride {
			stride = s
		}
	}
	return width, height, bpp, stride, nil
}

func readSysfs(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Present implements folio.Panel. The refresh mode is left to the panel
// driver.
func (fb *Framebuffer) Present(frame *image.Gray, mode constants.RefreshMode) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	encode(fb.buf, fb.stride, fb.bpp, frame)
	if _, err := fb.file.WriteAt(fb.buf, 0); err != nil {
		return fmt.Errorf("write framebuffer: %w", err)
	}
	fb.logger.Debug("Presented frame", "mode", mode)
	return nil
}

// encode converts frame into the framebuffer pixel format.
func encode(dst []byte, stride, bpp int, frame *image.Gray) {
	b := frame.Bounds()
	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+b.Dx()]
		row := dst[y*stride:]
		for x, v := range src {
			switch bpp {
			case 8:
				row[x] = v
			case 16:
				// RGB565, little endian.
				p := uint16(v>>3)<<11 | uint16(v>>2)<<5 | uint16(v>>3)
				row[2*x] = byte(p)
				row[2*x+1] = byte(p >> 8)
			case 32:
				row[4*x] = v
				row[4*x+1] = v
				row[4*x+2] = v
				row[4*x+3] = 0xff
			}
		}
	}
}

func (fb *Framebuffer) Close() error {
	return fb.file.Close()
}
