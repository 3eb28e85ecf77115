package adjust

// Partial is a subset of State fields keyed by their persisted names:
// filter keys plus rotation, flipX and flipY.
type Partial map[string]float64

// Merge applies every field of p to s in one step. Unknown names are
// ignored. Rotation is truncated to an integer and flips that are not -1 or
// 1 are skipped.
func Merge(s State, p Partial) State {
	for name, v := range p {
		switch name {
		case FieldRotation:
			s.Rotation = int(v)
		case FieldFlipX:
			if v == 1 || v == -1 {
				s.FlipX = int(v)
			}
		case FieldFlipY:
			if v == 1 || v == -1 {
				s.FlipY = int(v)
			}
		default:
			s = Set(s, Key(name), v)
		}
	}
	return s
}

// ToPartial converts s to its full persisted form.
func ToPartial(s State) Partial {
	p := make(Partial, len(Keys)+3)
	for _, k := range Keys {
		v, _ := Get(s, k)
		p[string(k)] = v
	}
	p[FieldRotation] = float64(s.Rotation)
	p[FieldFlipX] = float64(s.FlipX)
	p[FieldFlipY] = float64(s.FlipY)
	return p
}

// IsField reports whether name is a filter key or transform field.
func IsField(name string) bool {
	switch name {
	case FieldRotation, FieldFlipX, FieldFlipY:
		return true
	}
	return IsKey(name)
}
