package ttd

// DiagDirection is a tile side, clockwise from north-east.
type DiagDirection uint8

const (
	DiagDirNE DiagDirection = iota
	DiagDirSE
	DiagDirSW
	DiagDirNW
	DiagDirEnd

	// InvalidDiagDir doubles as the "from the wormhole" and "from inside the depot" side.
	InvalidDiagDir DiagDirection = 0xFF
)

var diagDirOffsets = [DiagDirEnd]struct{ x, y int }{
	{-1, 0},
	{0, 1},
	{1, 0},
	{0, -1},
}

var diagDirNames = [DiagDirEnd]string{"NE", "SE", "SW", "NW"}

func (d DiagDirection) IsValid() bool {
	return d < DiagDirEnd
}

func (d DiagDirection) Reverse() DiagDirection {
	if !d.IsValid() {
		return d
	}
	return d ^ 2
}

func (d DiagDirection) Axis() Axis {
	assert(d.IsValid(), "Axis of invalid direction %d", d)
	return Axis(d & 1)
}

func (d DiagDirection) String() string {
	if !d.IsValid() {
		return "invalid"
	}
	return diagDirNames[d]
}

type Axis uint8

const (
	AxisX Axis = iota // NE-SW
	AxisY             // NW-SE
	AxisEnd

	InvalidAxis Axis = 0xFF
)

func (a Axis) Other() Axis {
	return a ^ 1
}

// Track is the diagonal track running along the axis.
func (a Axis) Track() Track {
	return Track(a)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	}
	return "invalid"
}
