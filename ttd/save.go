package ttd

import (
	"fmt"
	"slices"
)

// Savegame is a titled dump of a map. Trains and buffered signal updates are not part of it.
type Savegame struct {
	Checksum uint32 // Do not set, this is calculated automatically
	Title    string
	Map      *Map
}

func pad(b []byte, l int) []byte {
	return append(b, slices.Repeat([]byte{0}, l-len(b))...)
}

func w(i uint16) []byte {
	return []byte{byte(i & 0xff), byte((i >> 8) & 0xff)}
}

func l(i uint32) []byte {
	return []byte{byte(i & 0xff), byte((i >> 8) & 0xff), byte((i >> 16) & 0xff), byte((i >> 24) & 0xff)}
}

func putW(b []byte, i uint16) {
	b[0] = byte(i & 0xff)
	b[1] = byte((i >> 8) & 0xff)
}

func boolb(in bool) byte {
	if in {
		return 1
	}
	return 0
}

func (s *Savegame) writeUncompressed(f OutFile, b []byte) error {
	n, err := f.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("writeUncompressed wrote %d bytes, expected %d", n, len(b))
	}
	s.checkBytes(b)
	return nil
}

// writeCompressed emits runs of three or more equal bytes as repeat chunks and everything else
// as literal chunks of at most 128 bytes.
func (s *Savegame) writeCompressed(f OutFile, data []byte) error {
	const maxc = 127 + 1
	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && run < maxc && data[i+run] == data[i] {
			run++
		}
		if run >= 3 {
			if err := s.writeUncompressed(f, []byte{byte(int8(1 - run)), data[i]}); err != nil {
				return err
			}
			i += run
			continue
		}
		j := i
		for j < len(data) && j-i < maxc {
			if j+2 < len(data) && data[j] == data[j+1] && data[j] == data[j+2] {
				break
			}
			j++
		}
		b := append([]byte{byte(j - i - 1)}, data[i:j]...)
		if err := s.writeUncompressed(f, b); err != nil {
			return err
		}
		i = j
	}
	return nil
}

func (s *Savegame) Validate() error {
	if len(s.Title) > maxTitleLength {
		return fmt.Errorf("Title too long (%d), max length %d", len(s.Title), maxTitleLength)
	}
	if s.Map == nil {
		return fmt.Errorf("no map")
	}
	m := s.Map
	if len(m.Tiles) != m.sizeX*m.sizeY {
		return fmt.Errorf("map %dx%d has %d tiles", m.sizeX, m.sizeY, len(m.Tiles))
	}
	for i, t := range m.Tiles {
		if t.Data == nil {
			return fmt.Errorf("tile %s has no payload", m.Coord(TileIndex(i)))
		}
		if t.Height > maxHeight {
			return fmt.Errorf("tile %s height %d above %d", m.Coord(TileIndex(i)), t.Height, maxHeight)
		}
		if r, ok := t.Data.(*RailTrack); ok {
			n := 0
			for _, sp := range r.Signals {
				if sp.Present != 0 {
					n++
				}
			}
			if n > 2 {
				return fmt.Errorf("tile %s has signals on %d tracks, at most 2 can be stored", m.Coord(TileIndex(i)), n)
			}
		}
	}
	return nil
}

func (p *Clear) pack(b []byte) {
	b[0] = byte(p.Ground)
	b[1] = p.Density
}

func (p *Trees) pack(b []byte) {
	b[0] = p.Kind
	b[1] = p.Count
}

func (p *Water) pack(b []byte)    { b[0] = byte(p.Class) }
func (*Void) pack([]byte)         {}
func (p *House) pack(b []byte)    { putW(b, p.ID) }
func (p *Industry) pack(b []byte) { putW(b, p.ID) }
func (p *Object) pack(b []byte)   { putW(b, p.ID) }

// Up to two signalled tracks are stored as 16-bit slots:
// bits 0-2 track+1, 3-4 present, 5-6 state, 7-9 type, 10 variant.
func (p *RailTrack) pack(b []byte) {
	b[0] = byte(p.Tracks)
	b[1] = byte(p.RailType)
	slot := 0
	for tr := TrackX; tr < TrackEnd && slot < 2; tr++ {
		sp := p.Signals[tr]
		if sp.Present == 0 {
			continue
		}
		v := uint16(tr+1) | uint16(sp.Present&SignalBoth)<<3 | uint16(sp.State&SignalBoth)<<5 | uint16(sp.Type&7)<<7 | uint16(sp.Variant&1)<<10
		putW(b[2+2*slot:], v)
		slot++
	}
}

func (p *RailDepot) pack(b []byte) {
	b[0] = byte(p.Dir)
	b[1] = byte(p.RailType)
}

func (p *Road) pack(b []byte) { b[0] = p.Pieces }

func (p *Crossing) pack(b []byte) {
	b[0] = byte(p.RoadAxis)
	b[1] = byte(p.RoadOwner)
	b[2] = byte(p.RailType)
	b[3] = boolb(p.Barred)
}

func (p *RoadDepot) pack(b []byte) { b[0] = byte(p.Dir) }

func (p *Station) pack(b []byte) {
	b[0] = byte(p.Kind)
	b[1] = byte(p.Axis)
	b[2] = boolb(p.Blocked)
	b[3] = byte(p.RailType)
	putW(b[4:], p.ID)
}

func (p *TunnelBridge) pack(b []byte) {
	b[0] = boolb(p.Bridge)
	b[1] = byte(p.Dir)
	b[2] = byte(p.Transport)
	b[3] = byte(p.RailType)
}

// planes lays the tile records out field by field, like TTD's map arrays, so that runs compress.
func (m *Map) planes() []byte {
	n := len(m.Tiles)
	out := make([]byte, tileRecordSize*n)
	var rec [tileRecordSize]byte
	for i, t := range m.Tiles {
		clear(rec[:])
		rec[0] = byte(t.Type())<<4 | t.Height&0x0f
		rec[1] = byte(t.Owner)
		rec[2] = byte(t.Data.subtype())
		t.Data.pack(rec[3:])
		for p := range tileRecordSize {
			out[p*n+i] = rec[p]
		}
	}
	return out
}

func (s *Savegame) Save(f OutFile) error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.Checksum = 0
	title := pad([]byte(s.Title), maxTitleLength)
	err := s.writeUncompressed(f, slices.Concat(title, w(titleChecksum(title))))
	if err != nil {
		return err
	}

	err = s.writeCompressed(f, slices.Concat(
		w(uint16(s.Map.sizeX)),
		w(uint16(s.Map.sizeY)),
		s.Map.planes(),
	))
	if err != nil {
		return err
	}

	s.Checksum += fileChecksumAdd
	n, err := f.Write(l(s.Checksum))
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("wrote %d bytes for the file checksum, expected 4", n)
	}

	return nil
}
