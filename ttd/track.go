package ttd

import (
	"fmt"
	"math/bits"
)

type Track uint8

const (
	TrackX Track = iota
	TrackY
	TrackUpper
	TrackLower
	TrackLeft
	TrackRight
	TrackEnd

	InvalidTrack Track = 0xFF
)

var trackNames = [TrackEnd]string{"X", "Y", "upper", "lower", "left", "right"}

func (t Track) IsValid() bool {
	return t < TrackEnd
}

func (t Track) Bits() TrackBits {
	assert(t.IsValid(), "Bits of invalid track %d", t)
	return 1 << t
}

// Trackdir is the direction of travel along the track that matches its bit order.
func (t Track) Trackdir() Trackdir {
	return Trackdir(t)
}

func (t Track) String() string {
	if !t.IsValid() {
		return "invalid"
	}
	return trackNames[t]
}

type TrackBits uint8

const (
	TrackBitNone  TrackBits = 0
	TrackBitX     TrackBits = 1 << TrackX
	TrackBitY     TrackBits = 1 << TrackY
	TrackBitUpper TrackBits = 1 << TrackUpper
	TrackBitLower TrackBits = 1 << TrackLower
	TrackBitLeft  TrackBits = 1 << TrackLeft
	TrackBitRight TrackBits = 1 << TrackRight

	TrackBitCross = TrackBitX | TrackBitY
	TrackBitHorz  = TrackBitUpper | TrackBitLower
	TrackBitVert  = TrackBitLeft | TrackBitRight

	TrackBit3WayNE = TrackBitX | TrackBitUpper | TrackBitRight
	TrackBit3WaySE = TrackBitY | TrackBitLower | TrackBitRight
	TrackBit3WaySW = TrackBitX | TrackBitLower | TrackBitLeft
	TrackBit3WayNW = TrackBitY | TrackBitUpper | TrackBitLeft

	TrackBitAll TrackBits = 0x3F

	// Vehicle positions only, never stored on a tile.
	TrackBitWormhole TrackBits = 0x40
	TrackBitDepot    TrackBits = 0x80
)

func (b TrackBits) Has(t Track) bool {
	return b&t.Bits() != 0
}

func (b TrackBits) Count() int {
	return bits.OnesCount8(uint8(b & TrackBitAll))
}

// Track returns the only track in b. b must hold exactly one track.
func (b TrackBits) Track() Track {
	assert(b.Count() == 1 && b&^TrackBitAll == 0, "TrackBits %#x is not a single track", uint8(b))
	return Track(bits.TrailingZeros8(uint8(b)))
}

// Tracks lists the tracks in b in bit order.
func (b TrackBits) Tracks() []Track {
	var ts []Track
	for t := TrackX; t < TrackEnd; t++ {
		if b.Has(t) {
			ts = append(ts, t)
		}
	}
	return ts
}

// Trackdirs returns both travel directions of every track in b.
func (b TrackBits) Trackdirs() TrackdirBits {
	v := TrackdirBits(b & TrackBitAll)
	return v | v<<8
}

func (b TrackBits) String() string {
	return fmt.Sprint(b.Tracks())
}

// TracksOverlap reports whether a vehicle on one of the tracks would collide with a vehicle on
// another. Two parallel half tracks do not overlap.
func TracksOverlap(b TrackBits) bool {
	if b&(b-1) == 0 {
		return false
	}
	return b != TrackBitHorz && b != TrackBitVert
}

var enterDirTrackBits = [DiagDirEnd]TrackBits{
	TrackBit3WayNE,
	TrackBit3WaySE,
	TrackBit3WaySW,
	TrackBit3WayNW,
}

// EnterDirTrackBits returns the tracks touching side d.
func EnterDirTrackBits(d DiagDirection) TrackBits {
	if !d.IsValid() {
		return TrackBitNone
	}
	return enterDirTrackBits[d]
}

type Trackdir uint8

const (
	TrackdirXNE    Trackdir = 0
	TrackdirYSE    Trackdir = 1
	TrackdirUpperE Trackdir = 2
	TrackdirLowerE Trackdir = 3
	TrackdirLeftS  Trackdir = 4
	TrackdirRightS Trackdir = 5
	TrackdirXSW    Trackdir = 8
	TrackdirYNW    Trackdir = 9
	TrackdirUpperW Trackdir = 10
	TrackdirLowerW Trackdir = 11
	TrackdirLeftN  Trackdir = 12
	TrackdirRightN Trackdir = 13
	TrackdirEnd    Trackdir = 14

	InvalidTrackdir Trackdir = 0xFF
)

var trackdirExitDirs = [TrackdirEnd]DiagDirection{
	DiagDirNE, DiagDirSE, DiagDirNE, DiagDirSE, DiagDirSW, DiagDirSE, InvalidDiagDir, InvalidDiagDir,
	DiagDirSW, DiagDirNW, DiagDirNW, DiagDirSW, DiagDirNW, DiagDirNE,
}

func (td Trackdir) IsValid() bool {
	return td < TrackdirEnd && td&7 < 6
}

func (td Trackdir) Reverse() Trackdir {
	assert(td.IsValid(), "Reverse of invalid trackdir %d", td)
	return td ^ 8
}

func (td Trackdir) Track() Track {
	assert(td.IsValid(), "Track of invalid trackdir %d", td)
	return Track(td & 7)
}

// ExitDir returns the side a vehicle travelling along td leaves the tile through.
func (td Trackdir) ExitDir() DiagDirection {
	assert(td.IsValid(), "ExitDir of invalid trackdir %d", td)
	return trackdirExitDirs[td]
}

func (td Trackdir) Bit() TrackdirBits {
	return 1 << td
}

func (td Trackdir) String() string {
	if !td.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%v->%v", td.Track(), td.ExitDir())
}

type TrackdirBits uint16

const TrackdirBitNone TrackdirBits = 0

// First returns the lowest trackdir in b, or InvalidTrackdir when b is empty.
func (b TrackdirBits) First() Trackdir {
	if b == 0 {
		return InvalidTrackdir
	}
	return Trackdir(bits.TrailingZeros16(uint16(b)))
}

var enterDirTrackdirBits = [DiagDirEnd]TrackdirBits{
	TrackdirXSW.Bit() | TrackdirUpperW.Bit() | TrackdirRightS.Bit(),
	TrackdirYNW.Bit() | TrackdirLowerW.Bit() | TrackdirRightN.Bit(),
	TrackdirXNE.Bit() | TrackdirLowerE.Bit() | TrackdirLeftN.Bit(),
	TrackdirYSE.Bit() | TrackdirUpperE.Bit() | TrackdirLeftS.Bit(),
}

// EnterDirTrackdirBits returns the trackdirs a vehicle may take after entering through side d.
func EnterDirTrackdirBits(d DiagDirection) TrackdirBits {
	if !d.IsValid() {
		return TrackdirBitNone
	}
	return enterDirTrackdirBits[d]
}

// TrackdirFrom returns the direction along t of a vehicle that entered through side d.
func TrackdirFrom(t Track, d DiagDirection) Trackdir {
	return (t.Bits().Trackdirs() & EnterDirTrackdirBits(d)).First()
}

// TrackBetween returns the track joining two sides of a tile, or InvalidTrack if both are the same.
func TrackBetween(a, b DiagDirection) Track {
	if !a.IsValid() || !b.IsValid() || a == b {
		return InvalidTrack
	}
	if a.Axis() == b.Axis() {
		return a.Axis().Track()
	}
	switch 1<<a | 1<<b {
	case 1<<DiagDirNE | 1<<DiagDirNW:
		return TrackUpper
	case 1<<DiagDirSE | 1<<DiagDirSW:
		return TrackLower
	case 1<<DiagDirSW | 1<<DiagDirNW:
		return TrackLeft
	}
	return TrackRight
}
