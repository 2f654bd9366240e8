package ttd

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

func (s *Savegame) readUncompressed(f InFile, len int) ([]byte, error) {
	b := make([]byte, len)
	n, err := io.ReadFull(f, b)
	if err != nil {
		return nil, fmt.Errorf("readUncompressed: read %d bytes, expected %d: %w", n, len, err)
	}
	s.checkBytes(b)
	return b, nil
}

func (s *Savegame) readB(f InFile) (byte, error) {
	b, err := s.readUncompressed(f, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Savegame) readW(f InFile) (uint16, error) {
	b, err := s.readUncompressed(f, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[1])<<8 + uint16(b[0]), nil
}

func (s *Savegame) readL(f InFile) (uint32, error) {
	b, err := s.readUncompressed(f, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[3])<<24 + uint32(b[2])<<16 + uint32(b[1])<<8 + uint32(b[0]), nil
}

func getW(b []byte) uint16 {
	return uint16(b[1])<<8 + uint16(b[0])
}

func (s *Savegame) readCompressed(f InFile, l int) ([]byte, error) {
	return s.readCompressedInto(f, make([]byte, 0, l), l)
}

// readCompressedInto appends chunks to out until it holds at least l bytes. The last chunk may
// overshoot l.
func (s *Savegame) readCompressedInto(f InFile, out []byte, l int) ([]byte, error) {
	for len(out) < l {
		cb, err := s.readB(f)
		c := int8(cb)
		if err != nil {
			return nil, err
		}
		if c >= 0 {
			r, err := s.readUncompressed(f, int(cb+1))
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
		} else {
			b, err := s.readB(f)
			if err != nil {
				return nil, err
			}
			r := slices.Repeat([]byte{b}, int(-c+1))
			out = append(out, r...)
		}
	}
	return out, nil
}

type bytesFile struct {
	data  []byte
	index int
}

func (f *bytesFile) Read(b []byte) (int, error) {
	if f.index >= len(f.data) && len(b) > 0 {
		return 0, io.EOF
	}
	n := copy(b, f.data[f.index:])
	f.index += n
	return n, nil
}

func unpack(tt TileType, st Subtype, b []byte) (Payload, error) {
	switch tt {
	case TileClear:
		return &Clear{Ground: Ground(b[0]), Density: b[1]}, nil
	case TileTrees:
		return &Trees{Kind: b[0], Count: b[1]}, nil
	case TileWater:
		return &Water{Class: WaterClass(b[0])}, nil
	case TileVoid:
		return &Void{}, nil
	case TileHouse:
		return &House{ID: getW(b)}, nil
	case TileIndustry:
		return &Industry{ID: getW(b)}, nil
	case TileObject:
		return &Object{ID: getW(b)}, nil
	case TileRailway:
		switch st {
		case SubRailNormal, SubRailSignals:
			r := &RailTrack{Tracks: TrackBits(b[0]) & TrackBitAll, RailType: RailType(b[1])}
			for slot := range 2 {
				v := getW(b[2+2*slot:])
				if v&7 == 0 {
					continue
				}
				tr := Track(v&7) - 1
				if !tr.IsValid() || !r.Tracks.Has(tr) {
					return nil, fmt.Errorf("signal slot %d on missing track %d", slot, tr)
				}
				r.Signals[tr] = SignalPair{
					Present: uint8(v>>3) & SignalBoth,
					State:   uint8(v>>5) & SignalBoth,
					Type:    SignalType(v>>7) & 7,
					Variant: SignalVariant(v>>10) & 1,
				}
				if r.Signals[tr].Type >= SignalTypeEnd {
					return nil, fmt.Errorf("unknown signal type %d", r.Signals[tr].Type)
				}
			}
			return r, nil
		case SubRailDepot:
			return &RailDepot{Dir: DiagDirection(b[0]) & 3, RailType: RailType(b[1])}, nil
		}
	case TileRoad:
		switch st {
		case SubRoadNormal:
			return &Road{Pieces: b[0]}, nil
		case SubRoadCrossing:
			return &Crossing{RoadAxis: Axis(b[0]) & 1, RoadOwner: Owner(b[1]), RailType: RailType(b[2]), Barred: b[3] != 0}, nil
		case SubRoadDepot:
			return &RoadDepot{Dir: DiagDirection(b[0]) & 3}, nil
		}
	case TileStation:
		if b[0] >= byte(StationKindEnd) {
			return nil, fmt.Errorf("unknown station kind %d", b[0])
		}
		return &Station{Kind: StationKind(b[0]), Axis: Axis(b[1]) & 1, Blocked: b[2] != 0, RailType: RailType(b[3]), ID: getW(b[4:])}, nil
	case TileTunnelBridge:
		return &TunnelBridge{Bridge: b[0] != 0, Dir: DiagDirection(b[1]) & 3, Transport: TransportType(b[2]), RailType: RailType(b[3])}, nil
	}
	return nil, fmt.Errorf("unsupported tile type %v subtype %d", tt, st)
}

func (m *Map) fromPlanes(data []byte) error {
	n := len(m.Tiles)
	var rec [tileRecordSize]byte
	for i := range n {
		for p := range tileRecordSize {
			rec[p] = data[p*n+i]
		}
		tt := TileType(rec[0] >> 4)
		st := Subtype(rec[2])
		p, err := unpack(tt, st, rec[3:])
		if err != nil {
			return fmt.Errorf("tile %s: %w", m.Coord(TileIndex(i)), err)
		}
		if p.subtype() != st {
			return fmt.Errorf("tile %s: stored subtype %d, payload decodes as %d", m.Coord(TileIndex(i)), st, p.subtype())
		}
		m.Tiles[i] = Tile{Height: rec[0] & 0x0f, Owner: Owner(rec[1]), Data: p}
	}
	return nil
}

func Load(f InFile) (*Savegame, error) {
	s := Savegame{
		Checksum: 0,
	}
	title, err := s.readUncompressed(f, maxTitleLength)
	if err != nil {
		return nil, err
	}
	s.Title = strings.TrimRight(string(title), "\x00")
	gotTitleChecksum, err := s.readW(f)
	if err != nil {
		return nil, err
	}
	if gotTitleChecksum != titleChecksum(title) {
		return nil, fmt.Errorf("Load: title checksum doesn't match, file had %v, calculated %v", gotTitleChecksum, titleChecksum(title))
	}

	data, err := s.readCompressed(f, 4)
	if err != nil {
		return nil, err
	}
	sizeX, sizeY := int(getW(data)), int(getW(data[2:]))
	if sizeX < minMapSize || sizeY < minMapSize || sizeX > maxMapSize || sizeY > maxMapSize {
		return nil, fmt.Errorf("Load: map size %dx%d out of range", sizeX, sizeY)
	}
	total := 4 + tileRecordSize*sizeX*sizeY
	data, err = s.readCompressedInto(f, data, total)
	if err != nil {
		return nil, err
	}
	if len(data) != total {
		return nil, fmt.Errorf("Load: compressed data overran by %d bytes", len(data)-total)
	}

	calculatedChecksum := s.Checksum + fileChecksumAdd
	gotChecksum, err := s.readL(f)
	if err != nil {
		return nil, err
	}
	if gotChecksum != calculatedChecksum {
		return nil, fmt.Errorf("Load: file checksum doesn't match, read %v, calculated %v", gotChecksum, calculatedChecksum)
	}

	s.Map = &Map{sizeX: sizeX, sizeY: sizeY, Tiles: make([]Tile, sizeX*sizeY)}
	if err := s.Map.fromPlanes(data[4:]); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	s.Checksum = calculatedChecksum
	return &s, nil
}
