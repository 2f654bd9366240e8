package ttd

type TileIndex uint32

const InvalidTile TileIndex = 0xFFFFFFFF

type TileType uint8

const (
	TileClear TileType = iota
	TileRailway
	TileRoad
	TileHouse
	TileTrees
	TileStation
	TileWater
	TileVoid
	TileIndustry
	TileTunnelBridge
	TileObject
	TileTypeEnd
)

var tileTypeNames = [TileTypeEnd]string{
	"clear", "railway", "road", "house", "trees", "station", "water", "void", "industry", "tunnelbridge", "object",
}

func (t TileType) String() string {
	if t >= TileTypeEnd {
		return "invalid"
	}
	return tileTypeNames[t]
}

type Subtype uint8

const (
	SubNone Subtype = iota
	SubRailNormal
	SubRailSignals
	SubRailDepot
	SubRoadNormal
	SubRoadCrossing
	SubRoadDepot
	SubStationRail // one per StationKind, in StationKind order
	SubStationWaypoint
	SubStationBus
	SubStationTruck
	SubStationAirport
	SubStationDock
	SubStationBuoy
	SubStationOilrig
	SubTunnel
	SubBridge
	SubtypeEnd
)

type Owner uint8

const (
	MaxCompanies Owner = 15
	OwnerTown    Owner = 0x0F
	OwnerNone    Owner = 0x10
	OwnerWater   Owner = 0x11
	OwnerDeity   Owner = 0x12
	InvalidOwner Owner = 0xFF
)

func (o Owner) IsCompany() bool {
	return o < MaxCompanies
}

type RailType uint8

const (
	RailTypeRail RailType = iota
	RailTypeElectric
	RailTypeMonorail
	RailTypeMaglev
)

type TransportType uint8

const (
	TransportRail TransportType = iota
	TransportRoad
	TransportWater
)

type StationKind uint8

const (
	StationRail StationKind = iota
	StationWaypoint
	StationBus
	StationTruck
	StationAirport
	StationDock
	StationBuoy
	StationOilrig
	StationKindEnd
)

type Ground uint8

const (
	GroundGrass Ground = iota
	GroundRough
	GroundRocks
	GroundFields
	GroundSnow
	GroundDesert
)

type WaterClass uint8

const (
	WaterSea WaterClass = iota
	WaterCanal
	WaterRiver
)

// Tile is one map cell. Data holds the payload of the tile's type and decides Type().
type Tile struct {
	Height uint8
	Owner  Owner
	Data   Payload
}

func (t Tile) Type() TileType {
	return t.Data.Type()
}

// Payload is implemented by the per-type tile records below and nothing else.
type Payload interface {
	Type() TileType
	subtype() Subtype
	pack(b []byte)
}

type Clear struct {
	Ground  Ground
	Density uint8
}

type Trees struct {
	Kind  uint8
	Count uint8
}

type Water struct {
	Class WaterClass
}

type Void struct{}

type House struct {
	ID uint16
}

type Industry struct {
	ID uint16
}

type Object struct {
	ID uint16
}

// RailTrack is plain track. Signals is indexed by Track; a pair is meaningless unless its
// track is present.
type RailTrack struct {
	Tracks   TrackBits
	RailType RailType
	Signals  [TrackEnd]SignalPair
}

// RailDepot faces Dir: trains leave it through side Dir.
type RailDepot struct {
	Dir      DiagDirection
	RailType RailType
}

type Road struct {
	Pieces uint8
}

// Crossing is a level crossing. Tile.Owner owns the rail, RoadOwner the road.
type Crossing struct {
	RoadAxis  Axis
	RoadOwner Owner
	RailType  RailType
	Barred    bool
}

type RoadDepot struct {
	Dir DiagDirection
}

// Station is any station part. Only rail and waypoint tiles carry track, along Axis; Blocked
// marks platform tiles without a usable track.
type Station struct {
	Kind     StationKind
	Axis     Axis
	Blocked  bool
	ID       uint16
	RailType RailType
}

// TunnelBridge is a tunnel portal or bridge ramp heading into its wormhole along Dir.
type TunnelBridge struct {
	Bridge    bool
	Dir       DiagDirection
	Transport TransportType
	RailType  RailType
}

func (*Clear) Type() TileType        { return TileClear }
func (*Trees) Type() TileType        { return TileTrees }
func (*Water) Type() TileType        { return TileWater }
func (*Void) Type() TileType         { return TileVoid }
func (*House) Type() TileType        { return TileHouse }
func (*Industry) Type() TileType     { return TileIndustry }
func (*Object) Type() TileType       { return TileObject }
func (*RailTrack) Type() TileType    { return TileRailway }
func (*RailDepot) Type() TileType    { return TileRailway }
func (*Road) Type() TileType         { return TileRoad }
func (*Crossing) Type() TileType     { return TileRoad }
func (*RoadDepot) Type() TileType    { return TileRoad }
func (*Station) Type() TileType      { return TileStation }
func (*TunnelBridge) Type() TileType { return TileTunnelBridge }

func (*Clear) subtype() Subtype     { return SubNone }
func (*Trees) subtype() Subtype     { return SubNone }
func (*Water) subtype() Subtype     { return SubNone }
func (*Void) subtype() Subtype      { return SubNone }
func (*House) subtype() Subtype     { return SubNone }
func (*Industry) subtype() Subtype  { return SubNone }
func (*Object) subtype() Subtype    { return SubNone }
func (*RailDepot) subtype() Subtype { return SubRailDepot }
func (*Road) subtype() Subtype      { return SubRoadNormal }
func (*Crossing) subtype() Subtype  { return SubRoadCrossing }
func (*RoadDepot) subtype() Subtype { return SubRoadDepot }
func (s *Station) subtype() Subtype { return SubStationRail + Subtype(s.Kind) }

func (r *RailTrack) subtype() Subtype {
	for _, sp := range r.Signals {
		if sp.Present != 0 {
			return SubRailSignals
		}
	}
	return SubRailNormal
}

func (tb *TunnelBridge) subtype() Subtype {
	if tb.Bridge {
		return SubBridge
	}
	return SubTunnel
}

func (s *Station) hasRail() bool {
	return s.Kind == StationRail || s.Kind == StationWaypoint
}

type InFile interface {
	Read(b []byte) (int, error)
}

type OutFile interface {
	Write(b []byte) (int, error)
}
