// Package adjust defines the named numeric adjustments applied to an image,
// their defaults and the ranges exposed to input controls.
package adjust

import "math"

// Key names one filter adjustment.
type Key string

// Filter adjustment keys.
const (
	Brightness Key = "brightness"
	Contrast   Key = "contrast"
	Blur       Key = "blur"
	Grayscale  Key = "grayscale"
	Saturate   Key = "saturate"
	HueRotate  Key = "hueRotate"
	Sepia      Key = "sepia"
	Invert     Key = "invert"
)

// Transform field names, used by persisted records and partial updates.
const (
	FieldRotation = "rotation"
	FieldFlipX    = "flipX"
	FieldFlipY    = "flipY"
)

// Keys lists the filter adjustments in canonical render order.
var Keys = []Key{
	Brightness,
	Contrast,
	Blur,
	Grayscale,
	Saturate,
	HueRotate,
	Sepia,
	Invert,
}

// Unit constants.
const (
	UnitPercent = "%"
	UnitPixel   = "px"
	UnitDegree  = "deg"
)

// Param describes one adjustable parameter for an input control.
type Param struct {
	Key     Key
	Label   string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

var params = map[Key]Param{
	Brightness: {Key: Brightness, Label: "Brightness", Unit: UnitPercent, Min: 0, Max: 200, Step: 1, Default: 100},
	Contrast:   {Key: Contrast, Label: "Contrast", Unit: UnitPercent, Min: 0, Max: 200, Step: 1, Default: 100},
	Blur:       {Key: Blur, Label: "Blur", Unit: UnitPixel, Min: 0, Max: 20, Step: 0.5, Default: 0},
	Grayscale:  {Key: Grayscale, Label: "Grayscale", Unit: UnitPercent, Min: 0, Max: 100, Step: 1, Default: 0},
	Saturate:   {Key: Saturate, Label: "Saturation", Unit: UnitPercent, Min: 0, Max: 200, Step: 1, Default: 100},
	HueRotate:  {Key: HueRotate, Label: "Hue", Unit: UnitDegree, Min: 0, Max: 360, Step: 1, Default: 0},
	Sepia:      {Key: Sepia, Label: "Sepia", Unit: UnitPercent, Min: 0, Max: 100, Step: 1, Default: 0},
	Invert:     {Key: Invert, Label: "Invert", Unit: UnitPercent, Min: 0, Max: 100, Step: 1, Default: 0},
}

// ParamFor returns the parameter definition for key.
func ParamFor(key Key) (Param, bool) {
	p, ok := params[key]
	return p, ok
}

// Params returns the parameter definitions in canonical order.
func Params() []Param {
	out := make([]Param, 0, len(Keys))
	for _, k := range Keys {
		out = append(out, params[k])
	}
	return out
}

// IsKey reports whether name is a filter adjustment key.
func IsKey(name string) bool {
	_, ok := params[Key(name)]
	return ok
}

// Clamp limits v to the parameter range.
func (p Param) Clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, v))
}

// StepBy moves v by n steps and clamps the result to the parameter range.
func (p Param) StepBy(v float64, n int) float64 {
	return p.Clamp(v + float64(n)*p.Step)
}

// State holds every adjustment and transform value of an edit session.
// It is a plain value; copies never share memory.
type State struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Blur       float64 `json:"blur"`
	Grayscale  float64 `json:"grayscale"`
	Saturate   float64 `json:"saturate"`
	HueRotate  float64 `json:"hueRotate"`
	Sepia      float64 `json:"sepia"`
	Invert     float64 `json:"invert"`

	// Rotation accumulates in quarter turns and is never wrapped.
	Rotation int `json:"rotation"`
	FlipX    int `json:"flipX"`
	FlipY    int `json:"flipY"`
}

// Default returns the canonical default state.
func Default() State {
	return State{
		Brightness: params[Brightness].Default,
		Contrast:   params[Contrast].Default,
		Blur:       params[Blur].Default,
		Grayscale:  params[Grayscale].Default,
		Saturate:   params[Saturate].Default,
		HueRotate:  params[HueRotate].Default,
		Sepia:      params[Sepia].Default,
		Invert:     params[Invert].Default,
		Rotation:   0,
		FlipX:      1,
		FlipY:      1,
	}
}

// field returns a pointer to the filter value for key inside s.
func (s *State) field(key Key) *float64 {
	switch key {
	case Brightness:
		return &s.Brightness
	case Contrast:
		return &s.Contrast
	case Blur:
		return &s.Blur
	case Grayscale:
		return &s.Grayscale
	case Saturate:
		return &s.Saturate
	case HueRotate:
		return &s.HueRotate
	case Sepia:
		return &s.Sepia
	case Invert:
		return &s.Invert
	}
	return nil
}

// Get returns the value of key.
func Get(s State, key Key) (float64, bool) {
	f := s.field(key)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Set returns a copy of s with key set to raw. Values outside the declared
// range are kept as-is; input controls own the legal range. Unknown keys
// leave the state unchanged.
func Set(s State, key Key, raw float64) State {
	if f := s.field(key); f != nil {
		*f = raw
	}
	return s
}

// RotateLeft turns the image a quarter turn counter-clockwise.
func (s State) RotateLeft() State {
	s.Rotation -= 90
	return s
}

// RotateRight turns the image a quarter turn clockwise.
func (s State) RotateRight() State {
	s.Rotation += 90
	return s
}

// FlipHorizontal mirrors the image across the vertical axis.
func (s State) FlipHorizontal() State {
	s.FlipX *= -1
	return s
}

// FlipVertical mirrors the image across the horizontal axis.
func (s State) FlipVertical() State {
	s.FlipY *= -1
	return s
}

// ResetFilters restores every filter value to its default and keeps the
// geometric transform.
func (s State) ResetFilters() State {
	d := Default()
	d.Rotation, d.FlipX, d.FlipY = s.Rotation, s.FlipX, s.FlipY
	return d
}
