// Package render derives drawing instructions from an adjustment state.
//
// An Instruction is an ordered effect chain plus a geometric transform. It
// carries no pixels; renderers rebuild the pipeline from its records.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"golang.org/x/image/math/f64"
)

// Canvas is the drawing surface size in pixels.
type Canvas struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultCanvas is the surface used before any image is loaded.
var DefaultCanvas = Canvas{Width: 800, Height: 500}

// Effect is one named filter operation.
type Effect struct {
	Name  adjust.Key `json:"name"`
	Value float64    `json:"value"`
	Unit  string     `json:"unit"`
}

// String formats the effect in CSS filter syntax.
func (e Effect) String() string {
	return fmt.Sprintf("%s(%s%s)", cssName(e.Name), strconv.FormatFloat(e.Value, 'f', -1, 64), e.Unit)
}

func cssName(k adjust.Key) string {
	if k == adjust.HueRotate {
		return "hue-rotate"
	}
	return string(k)
}

// Effects is an ordered effect chain.
type Effects []Effect

// CSS renders the chain as a CSS filter value. An empty chain is "none".
func (es Effects) CSS() string {
	if len(es) == 0 {
		return "none"
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Rect is a destination rectangle in transformed canvas space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is applied in order: translate to the canvas centre, rotate,
// scale by the flips, then draw the image into Dest.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Degrees    int     `json:"degrees"`
	Radians    float64 `json:"radians"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	Dest       Rect    `json:"dest"`
}

// Matrix returns translate * rotate * scale as an affine matrix in
// row-major order [a b c; d e f].
func (t Transform) Matrix() f64.Aff3 {
	sin, cos := math.Sincos(t.Radians)
	return f64.Aff3{
		cos * t.ScaleX, -sin * t.ScaleY, t.TranslateX,
		sin * t.ScaleX, cos * t.ScaleY, t.TranslateY,
	}
}

// Apply maps a point through the transform matrix.
func (t Transform) Apply(x, y float64) (float64, float64) {
	m := t.Matrix()
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Instruction is everything a renderer needs to draw the current frame.
type Instruction struct {
	Effects     Effects   `json:"effects"`
	Transform   Transform `json:"transform"`
	Canvas      Canvas    `json:"canvas"`
	Compare     bool      `json:"compare"`
	Placeholder bool      `json:"placeholder"`
}

// PlaceholderText is drawn when no image is loaded.
const PlaceholderText = "Open an image to start"

// Compose derives the render instruction for s on canvas. When compare is
// true the effect chain is empty so the untouched source shows through; the
// geometric transform is kept.
func Compose(s adjust.State, compare bool, canvas Canvas) Instruction {
	return Instruction{
		Effects:   effectChain(s, compare),
		Transform: transform(s, canvas),
		Canvas:    canvas,
		Compare:   compare,
	}
}

// Placeholder returns the instruction drawn when no image is loaded.
func Placeholder(canvas Canvas) Instruction {
	return Instruction{
		Effects:     Effects{},
		Transform:   transform(adjust.Default(), canvas),
		Canvas:      canvas,
		Placeholder: true,
	}
}

func effectChain(s adjust.State, compare bool) Effects {
	if compare {
		return Effects{}
	}
	chain := make(Effects, 0, len(adjust.Keys))
	for _, k := range adjust.Keys {
		v, _ := adjust.Get(s, k)
		p, _ := adjust.ParamFor(k)
		chain = append(chain, Effect{Name: k, Value: v, Unit: p.Unit})
	}
	return chain
}

func transform(s adjust.State, canvas Canvas) Transform {
	w, h := float64(canvas.Width), float64(canvas.Height)
	return Transform{
		TranslateX: w / 2,
		TranslateY: h / 2,
		Degrees:    s.Rotation,
		Radians:    float64(s.Rotation) * math.Pi / 180,
		ScaleX:     float64(s.FlipX),
		ScaleY:     float64(s.FlipY),
		Dest:       Rect{X: -w / 2, Y: -h / 2, Width: w, Height: h},
	}
}

// Fit scales an image of w x h into maxW x maxH keeping the aspect ratio.
// The image is never upscaled and the result is floored.
func Fit(w, h, maxW, maxH int) Canvas {
	if w <= 0 || h <= 0 {
		return Canvas{}
	}
	ratio := math.Min(math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)), 1)
	return Canvas{
		Width:  int(math.Floor(float64(w) * ratio)),
		Height: int(math.Floor(float64(h) * ratio)),
	}
}
