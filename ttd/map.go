package ttd

import "fmt"

// Map is a fixed-size grid of tiles. The outermost ring is always void.
type Map struct {
	sizeX, sizeY int
	Tiles        []Tile
}

func NewMap(sizeX, sizeY int) (*Map, error) {
	if sizeX < minMapSize || sizeY < minMapSize || sizeX > maxMapSize || sizeY > maxMapSize {
		return nil, fmt.Errorf("map size %dx%d out of range [%d, %d]", sizeX, sizeY, minMapSize, maxMapSize)
	}
	m := &Map{sizeX: sizeX, sizeY: sizeY, Tiles: make([]Tile, sizeX*sizeY)}
	for i := range m.Tiles {
		t := TileIndex(i)
		if m.IsBorder(t) {
			m.MakeVoid(t)
		} else {
			m.Tiles[i].Height = 1
			m.MakeClear(t, GroundGrass, 3)
		}
	}
	return m, nil
}

func (m *Map) SizeX() int { return m.sizeX }
func (m *Map) SizeY() int { return m.sizeY }
func (m *Map) Size() int  { return len(m.Tiles) }

func (m *Map) TileXY(x, y int) TileIndex {
	assert(x >= 0 && y >= 0 && x < m.sizeX && y < m.sizeY, "tile (%d,%d) outside %dx%d map", x, y, m.sizeX, m.sizeY)
	return TileIndex(y*m.sizeX + x)
}

func (m *Map) X(t TileIndex) int { return int(t) % m.sizeX }
func (m *Map) Y(t TileIndex) int { return int(t) / m.sizeX }

func (m *Map) IsValid(t TileIndex) bool {
	return int(t) < len(m.Tiles)
}

func (m *Map) IsBorder(t TileIndex) bool {
	x, y := m.X(t), m.Y(t)
	return x == 0 || y == 0 || x == m.sizeX-1 || y == m.sizeY-1
}

// AddDiagDir returns the neighbour of t across side d, or InvalidTile off the map.
func (m *Map) AddDiagDir(t TileIndex, d DiagDirection) TileIndex {
	if !m.IsValid(t) || !d.IsValid() {
		return InvalidTile
	}
	x := m.X(t) + diagDirOffsets[d].x
	y := m.Y(t) + diagDirOffsets[d].y
	if x < 0 || y < 0 || x >= m.sizeX || y >= m.sizeY {
		return InvalidTile
	}
	return TileIndex(y*m.sizeX + x)
}

func (m *Map) Coord(t TileIndex) string {
	return fmt.Sprintf("(%d,%d)", m.X(t), m.Y(t))
}

func (m *Map) tile(t TileIndex) *Tile {
	assert(m.IsValid(t), "tile index %d outside map of %d tiles", t, len(m.Tiles))
	return &m.Tiles[t]
}

func (m *Map) Type(t TileIndex) TileType {
	return m.tile(t).Type()
}

func (m *Map) IsType(t TileIndex, tt TileType) bool {
	return m.Type(t) == tt
}

func (m *Map) Subtype(t TileIndex) Subtype {
	return m.tile(t).Data.subtype()
}

func (m *Map) IsSubtype(t TileIndex, tt TileType, st Subtype) bool {
	tl := m.tile(t)
	return tl.Type() == tt && tl.Data.subtype() == st
}

func (m *Map) Height(t TileIndex) uint8 {
	return m.tile(t).Height
}

func (m *Map) SetHeight(t TileIndex, h uint8) {
	assert(h <= maxHeight, "height %d above %d", h, maxHeight)
	m.tile(t).Height = h
}

// Owner is undefined for void, house and industry tiles.
func (m *Map) Owner(t TileIndex) Owner {
	tl := m.tile(t)
	tt := tl.Type()
	assert(tt != TileVoid && tt != TileHouse && tt != TileIndustry, "Owner of %v tile %s", tt, m.Coord(t))
	return tl.Owner
}

func (m *Map) SetOwner(t TileIndex, o Owner) {
	tl := m.tile(t)
	tt := tl.Type()
	assert(tt != TileVoid && tt != TileHouse && tt != TileIndustry, "SetOwner of %v tile %s", tt, m.Coord(t))
	tl.Owner = o
}

// TrackBits returns the rail tracks of any tile that can carry rail.
func (m *Map) TrackBits(t TileIndex) TrackBits {
	switch p := m.tile(t).Data.(type) {
	case *RailTrack:
		return p.Tracks
	case *RailDepot:
		return p.Dir.Axis().Track().Bits()
	case *Crossing:
		return p.RoadAxis.Other().Track().Bits()
	case *Station:
		if p.hasRail() {
			return p.Axis.Track().Bits()
		}
	case *TunnelBridge:
		if p.Transport == TransportRail {
			return p.Dir.Axis().Track().Bits()
		}
	}
	panic(fmt.Sprintf("ttd: TrackBits of %v tile %s without rail", m.Type(t), m.Coord(t)))
}

// RailTrackBits is TrackBits for any tile: no rail, or a blocked platform, gives TrackBitNone.
func (m *Map) RailTrackBits(t TileIndex) TrackBits {
	switch p := m.tile(t).Data.(type) {
	case *RailTrack, *RailDepot, *Crossing:
		return m.TrackBits(t)
	case *Station:
		if p.hasRail() && !p.Blocked {
			return p.Axis.Track().Bits()
		}
	case *TunnelBridge:
		if p.Transport == TransportRail {
			return m.TrackBits(t)
		}
	}
	return TrackBitNone
}

func (m *Map) RailType(t TileIndex) RailType {
	switch p := m.tile(t).Data.(type) {
	case *RailTrack:
		return p.RailType
	case *RailDepot:
		return p.RailType
	case *Crossing:
		return p.RailType
	case *Station:
		return p.RailType
	case *TunnelBridge:
		return p.RailType
	}
	panic(fmt.Sprintf("ttd: RailType of %v tile %s", m.Type(t), m.Coord(t)))
}

func (m *Map) IsRailDepot(t TileIndex) bool {
	_, ok := m.tile(t).Data.(*RailDepot)
	return ok
}

func (m *Map) IsPlainRail(t TileIndex) bool {
	_, ok := m.tile(t).Data.(*RailTrack)
	return ok
}

func (m *Map) IsLevelCrossing(t TileIndex) bool {
	_, ok := m.tile(t).Data.(*Crossing)
	return ok
}

func (m *Map) HasStationRail(t TileIndex) bool {
	s, ok := m.tile(t).Data.(*Station)
	return ok && s.hasRail()
}

func (m *Map) IsTunnel(t TileIndex) bool {
	tb, ok := m.tile(t).Data.(*TunnelBridge)
	return ok && !tb.Bridge
}

func (m *Map) IsBridge(t TileIndex) bool {
	tb, ok := m.tile(t).Data.(*TunnelBridge)
	return ok && tb.Bridge
}

func (m *Map) railTrack(t TileIndex) *RailTrack {
	p, ok := m.tile(t).Data.(*RailTrack)
	assert(ok, "%v tile %s is not plain rail", m.Type(t), m.Coord(t))
	return p
}

func (m *Map) RailDepotDirection(t TileIndex) DiagDirection {
	p, ok := m.tile(t).Data.(*RailDepot)
	assert(ok, "%v tile %s is not a rail depot", m.Type(t), m.Coord(t))
	return p.Dir
}

func (m *Map) CrossingRoadAxis(t TileIndex) Axis {
	p, ok := m.tile(t).Data.(*Crossing)
	assert(ok, "%v tile %s is not a level crossing", m.Type(t), m.Coord(t))
	return p.RoadAxis
}

func (m *Map) RailStationAxis(t TileIndex) Axis {
	p, ok := m.tile(t).Data.(*Station)
	assert(ok && p.hasRail(), "%v tile %s is not a rail station", m.Type(t), m.Coord(t))
	return p.Axis
}

func (m *Map) StationID(t TileIndex) uint16 {
	p, ok := m.tile(t).Data.(*Station)
	assert(ok, "%v tile %s is not a station", m.Type(t), m.Coord(t))
	return p.ID
}

func (m *Map) IsStationTileBlocked(t TileIndex) bool {
	p, ok := m.tile(t).Data.(*Station)
	assert(ok && p.hasRail(), "%v tile %s is not a rail station", m.Type(t), m.Coord(t))
	return p.Blocked
}

func (m *Map) tunnelBridge(t TileIndex) *TunnelBridge {
	p, ok := m.tile(t).Data.(*TunnelBridge)
	assert(ok, "%v tile %s is not a tunnel or bridge head", m.Type(t), m.Coord(t))
	return p
}

func (m *Map) TunnelBridgeDirection(t TileIndex) DiagDirection {
	return m.tunnelBridge(t).Dir
}

func (m *Map) TunnelBridgeTransportType(t TileIndex) TransportType {
	return m.tunnelBridge(t).Transport
}

func (m *Map) set(t TileIndex, h uint8, o Owner, p Payload) {
	assert(h <= maxHeight, "height %d above %d", h, maxHeight)
	*m.tile(t) = Tile{Height: h, Owner: o, Data: p}
}

func (m *Map) MakeVoid(t TileIndex) {
	m.set(t, 0, OwnerNone, &Void{})
}

// MakeClear turns any tile back into bare ground, keeping its height.
func (m *Map) MakeClear(t TileIndex, g Ground, density uint8) {
	m.set(t, m.tile(t).Height, OwnerNone, &Clear{Ground: g, Density: density})
}

func (m *Map) MakeTrees(t TileIndex, kind, count uint8) {
	m.set(t, m.tile(t).Height, OwnerNone, &Trees{Kind: kind, Count: count})
}

func (m *Map) MakeWater(t TileIndex, o Owner, c WaterClass) {
	m.set(t, m.tile(t).Height, o, &Water{Class: c})
}

func (m *Map) MakeHouse(t TileIndex, id uint16) {
	m.set(t, m.tile(t).Height, OwnerTown, &House{ID: id})
}

func (m *Map) MakeIndustry(t TileIndex, id uint16) {
	m.set(t, m.tile(t).Height, OwnerNone, &Industry{ID: id})
}

func (m *Map) MakeObject(t TileIndex, o Owner, id uint16) {
	m.set(t, m.tile(t).Height, o, &Object{ID: id})
}

func (m *Map) MakeRailNormal(t TileIndex, o Owner, tracks TrackBits, rt RailType) {
	assert(tracks&^TrackBitAll == 0, "MakeRailNormal with bits %#x", uint8(tracks))
	m.set(t, m.tile(t).Height, o, &RailTrack{Tracks: tracks, RailType: rt})
}

// SetTrackBits replaces the tracks of a plain rail tile, dropping signals of removed tracks.
func (m *Map) SetTrackBits(t TileIndex, tracks TrackBits) {
	assert(tracks&^TrackBitAll == 0, "SetTrackBits with bits %#x", uint8(tracks))
	r := m.railTrack(t)
	r.Tracks = tracks
	for tr := TrackX; tr < TrackEnd; tr++ {
		if !tracks.Has(tr) {
			r.Signals[tr] = SignalPair{}
		}
	}
}

func (m *Map) MakeRailDepot(t TileIndex, o Owner, d DiagDirection, rt RailType) {
	assert(d.IsValid(), "MakeRailDepot with direction %d", d)
	m.set(t, m.tile(t).Height, o, &RailDepot{Dir: d, RailType: rt})
}

func (m *Map) MakeRoadNormal(t TileIndex, o Owner, pieces uint8) {
	m.set(t, m.tile(t).Height, o, &Road{Pieces: pieces})
}

func (m *Map) MakeLevelCrossing(t TileIndex, railOwner, roadOwner Owner, roadAxis Axis, rt RailType) {
	assert(roadAxis < AxisEnd, "MakeLevelCrossing with axis %d", roadAxis)
	m.set(t, m.tile(t).Height, railOwner, &Crossing{RoadAxis: roadAxis, RoadOwner: roadOwner, RailType: rt})
}

func (m *Map) MakeRoadDepot(t TileIndex, o Owner, d DiagDirection) {
	m.set(t, m.tile(t).Height, o, &RoadDepot{Dir: d})
}

func (m *Map) MakeStation(t TileIndex, o Owner, id uint16, kind StationKind, a Axis) {
	assert(kind < StationKindEnd, "MakeStation with kind %d", kind)
	m.set(t, m.tile(t).Height, o, &Station{Kind: kind, Axis: a, ID: id})
}

func (m *Map) MakeRailStation(t TileIndex, o Owner, id uint16, a Axis, rt RailType) {
	assert(a < AxisEnd, "MakeRailStation with axis %d", a)
	m.set(t, m.tile(t).Height, o, &Station{Kind: StationRail, Axis: a, ID: id, RailType: rt})
}

func (m *Map) SetStationTileBlocked(t TileIndex, blocked bool) {
	p, ok := m.tile(t).Data.(*Station)
	assert(ok && p.hasRail(), "%v tile %s is not a rail station", m.Type(t), m.Coord(t))
	p.Blocked = blocked
}

func (m *Map) MakeRailTunnel(t TileIndex, o Owner, d DiagDirection, rt RailType) {
	assert(d.IsValid(), "MakeRailTunnel with direction %d", d)
	m.set(t, m.tile(t).Height, o, &TunnelBridge{Dir: d, Transport: TransportRail, RailType: rt})
}

func (m *Map) MakeRailBridgeRamp(t TileIndex, o Owner, d DiagDirection, rt RailType) {
	assert(d.IsValid(), "MakeRailBridgeRamp with direction %d", d)
	m.set(t, m.tile(t).Height, o, &TunnelBridge{Bridge: true, Dir: d, Transport: TransportRail, RailType: rt})
}

func (m *Map) MakeRoadTunnel(t TileIndex, o Owner, d DiagDirection) {
	assert(d.IsValid(), "MakeRoadTunnel with direction %d", d)
	m.set(t, m.tile(t).Height, o, &TunnelBridge{Dir: d, Transport: TransportRoad})
}
