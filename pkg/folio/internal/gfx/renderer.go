package gfx

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

var (
	white = color.Gray{Y: 0xFF}
	black = color.Gray{Y: 0x00}
)

// Renderer draws into an 8-bit grey framebuffer laid out in the current
// orientation and hands rotated copies to a Panel.
//
// Renderer is not safe for concurrent use. The activity runtime only calls
// it while holding the render lock.
type Renderer struct {
	panel       Panel
	orientation constants.Orientation
	canvas      *image.Gray
	face        font.Face
	scale       int
	logger      *slog.Logger
}

// NewRenderer creates a renderer for a DisplayWidth x DisplayHeight panel.
func NewRenderer(panel Panel, orientation constants.Orientation, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		panel:  panel,
		face:   basicfont.Face7x13,
		scale:  2,
		logger: logger,
	}
	r.SetOrientation(orientation)
	return r
}

// SetOrientation changes the logical layout and clears the canvas.
func (r *Renderer) SetOrientation(o constants.Orientation) {
	r.orientation = o
	w, h := constants.DisplayWidth, constants.DisplayHeight
	if o.IsPortrait() {
		w, h = h, w
	}
	r.canvas = image.NewGray(image.Rect(0, 0, w, h))
	r.ClearScreen()
}

func (r *Renderer) Orientation() constants.Orientation { return r.orientation }
func (r *Renderer) ScreenWidth() int                   { return r.canvas.Rect.Dx() }
func (r *Renderer) ScreenHeight() int                  { return r.canvas.Rect.Dy() }

// Canvas exposes the logical framebuffer.
func (r *Renderer) Canvas() *image.Gray {
	return r.canvas
}

func (r *Renderer) ClearScreen() {
	for i := range r.canvas.Pix {
		r.canvas.Pix[i] = white.Y
	}
}

// DrawImage scales img into the w x h box at x, y.
func (r *Renderer) DrawImage(img image.Image, x, y, w, h int) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	dst := image.Rect(x, y, x+w, y+h)
	draw.CatmullRom.Scale(r.canvas, dst, img, img.Bounds(), draw.Over, nil)
}

// DrawRect draws a one pixel outline.
func (r *Renderer) DrawRect(x, y, w, h int) {
	r.FillRect(x, y, w, 1)
	r.FillRect(x, y+h-1, w, 1)
	r.FillRect(x, y, 1, h)
	r.FillRect(x+w-1, y, 1, h)
}

func (r *Renderer) FillRect(x, y, w, h int) {
	rect := image.Rect(x, y, x+w, y+h).Intersect(r.canvas.Rect)
	draw.Draw(r.canvas, rect, image.NewUniform(black), image.Point{}, draw.Src)
}

// DrawText draws text with its top-left corner at x, y.
func (r *Renderer) DrawText(x, y int, text string, style activity.Style) {
	if text == "" {
		return
	}
	mask := r.rasterizeText(text, style)
	b := mask.Bounds()
	dst := image.Rect(x, y, x+b.Dx()*r.scale, y+b.Dy()*r.scale)
	draw.NearestNeighbor.Scale(r.canvas, dst, mask, b, draw.Over, nil)
}

// DrawCenteredText draws text horizontally centred with its top at y.
func (r *Renderer) DrawCenteredText(y int, text string, style activity.Style) {
	x := (r.ScreenWidth() - r.TextWidth(text, style)) / 2
	if x < 0 {
		x = 0
	}
	r.DrawText(x, y, text, style)
}

func (r *Renderer) TextWidth(text string, style activity.Style) int {
	return r.unscaledWidth(text, style) * r.scale
}

func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil() * r.scale
}

// DisplayBuffer rotates the canvas to the panel layout and presents it.
func (r *Renderer) DisplayBuffer(mode constants.RefreshMode) error {
	frame := rotateToPanel(r.canvas, r.orientation)
	if err := r.panel.Present(frame, mode); err != nil {
		r.logger.Error("Failed to present frame", "mode", mode, "error", err)
		return err
	}
	return nil
}

func (r *Renderer) unscaledWidth(text string, style activity.Style) int {
	w := font.MeasureString(r.face, text).Ceil()
	switch style {
	case activity.StyleBold:
		w++
	case activity.StyleItalic:
		w += r.face.Metrics().Height.Ceil() / italicSlant
	}
	return w
}

// italicSlant is the number of rows per pixel of horizontal shear.
const italicSlant = 4

// rasterizeText draws text in black on a transparent image at the font's
// native size.
func (r *Renderer) rasterizeText(text string, style activity.Style) *image.RGBA {
	m := r.face.Metrics()
	w := r.unscaledWidth(text, style)
	h := m.Height.Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	d := &font.Drawer{Dst: img, Src: image.Black, Face: r.face}
	d.Dot = fixed.Point26_6{Y: m.Ascent}
	d.DrawString(text)
	if style == activity.StyleBold {
		d.Dot = fixed.Point26_6{X: fixed.I(1), Y: m.Ascent}
		d.DrawString(text)
	}
	if style == activity.StyleItalic {
		return shear(img)
	}
	return img
}

// shear slants an image to the right, top rows moving furthest.
func shear(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		shift := (b.Max.Y - 1 - y) / italicSlant
		for x := b.Min.X; x+shift < b.Max.X; x++ {
			dst.SetRGBA(x+shift, y, src.RGBAAt(x, y))
		}
	}
	return dst
}

// rotateToPanel returns a copy of canvas in the native panel layout.
func rotateToPanel(canvas *image.Gray, o constants.Orientation) *image.Gray {
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	frame := image.NewGray(image.Rect(0, 0, constants.DisplayWidth, constants.DisplayHeight))
	if o == constants.Landscape {
		copy(frame.Pix, canvas.Pix)
		return frame
	}

	nw, nh := constants.DisplayWidth, constants.DisplayHeight
	for y := 0; y < h; y++ {
		row := canvas.Pix[y*canvas.Stride : y*canvas.Stride+w]
		for x, v := range row {
			var nx, ny int
			switch o {
			case constants.Portrait:
				nx, ny = y, nh-1-x
			case constants.LandscapeInverted:
				nx, ny = nw-1-x, nh-1-y
			case constants.PortraitInverted:
				nx, ny = nw-1-y, x
			}
			frame.Pix[ny*frame.Stride+nx] = v
		}
	}
	return frame
}
