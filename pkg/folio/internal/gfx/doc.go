// Package gfx implements the drawing surface used by activities: a grey
// framebuffer with bitmap text, vector artwork and rotation to the panel.
package gfx
