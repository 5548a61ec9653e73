package job

// VectorPart is an ordered command list at a fixed raster resolution.
type VectorPart struct {
	Resolution float64 // dots per inch
	Commands   []Command
}

// NewVectorPart creates an empty part at the given resolution.
func NewVectorPart(resolution float64) *VectorPart {
	return &VectorPart{Resolution: resolution}
}

// Rapid appends a beam-off move to the absolute pixel position (x, y).
// It returns the part for chaining.
func (p *VectorPart) Rapid(x, y float64) *VectorPart {
	p.Commands = append(p.Commands, RapidMove{X: x, Y: y})
	return p
}

// Cut appends a beam-on move to the absolute pixel position (x, y) at
// the given power and speed percentages. It returns the part for
// chaining.
func (p *VectorPart) Cut(x, y, power, speed float64) *VectorPart {
	p.Commands = append(p.Commands, CutMove{X: x, Y: y, Power: power, Speed: speed})
	return p
}

// Box is an axis-aligned bounding box in pixels.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.MaxY - b.MinY
}

// Bounds returns the bounding box of all command endpoints. ok is
// false for a part with no commands.
func (p *VectorPart) Bounds() (box Box, ok bool) {
	for _, cmd := range p.Commands {
		var x, y float64
		switch c := cmd.(type) {
		case RapidMove:
			x, y = c.X, c.Y
		case CutMove:
			x, y = c.X, c.Y
		default:
			continue
		}
		if !ok {
			box = Box{MinX: x, MinY: y, MaxX: x, MaxY: y}
			ok = true
			continue
		}
		if x < box.MinX {
			box.MinX = x
		}
		if x > box.MaxX {
			box.MaxX = x
		}
		if y < box.MinY {
			box.MinY = y
		}
		if y > box.MaxY {
			box.MaxY = y
		}
	}
	return box, ok
}
