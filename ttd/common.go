package ttd

import "fmt"

const (
	fileChecksumAdd = 201100 // same constant TTD adds to its savegame checksum
	maxTitleLength  = 47
	maxMapSize      = 4096
	minMapSize      = 3
	maxHeight       = 15
	tileRecordSize  = 9 // type|height, owner, subtype, 6 payload bytes
	payloadSize     = tileRecordSize - 3
)

// assert panics when a caller breaks an accessor contract. These are bugs, not user errors.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("ttd: "+format, args...))
	}
}

func titleChecksum(title []byte) uint16 {
	// Title checksum
	// This is calculated by adding up all bytes of the title field, rotating the (16-bit) value 1 bit to the left after each addition, then EXORing the resulting value with 0xAAAA.
	var sum uint16 = 0
	for _, b := range title {
		sum += uint16(b)
		sum = (sum << 1) | (sum >> 15) // rotate 1 left
	}
	sum ^= 0xAAAA
	return sum
}

func (s *Savegame) checkBytes(bs []byte) {
	for _, b := range bs {
		s.Checksum += uint32(b)
		s.Checksum = (s.Checksum << 3) | (s.Checksum >> 29)
	}
}
