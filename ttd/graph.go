package ttd

import "fmt"

// NodeKind is how block exploration treats a tile.
type NodeKind uint8

const (
	NodeNone        NodeKind = iota // no usable rail
	NodeTrack                       // plain track, any track combination, maybe signalled
	NodePassthrough                 // single axis: level crossing or rail station platform
	NodeDepot                       // rail depot, open on side Dir only
	NodePortal                      // rail tunnel portal or bridge ramp heading along Dir
)

func (k NodeKind) String() string {
	switch k {
	case NodeTrack:
		return "track"
	case NodePassthrough:
		return "passthrough"
	case NodeDepot:
		return "depot"
	case NodePortal:
		return "portal"
	}
	return "none"
}

// Node is the rail view of a single tile.
type Node struct {
	Kind   NodeKind
	Owner  Owner
	Tracks TrackBits
	Axis   Axis          // NodePassthrough
	Dir    DiagDirection // NodeDepot, NodePortal
}

func (m *Map) RailNode(t TileIndex) Node {
	tl := m.tile(t)
	switch p := tl.Data.(type) {
	case *RailTrack:
		return Node{Kind: NodeTrack, Owner: tl.Owner, Tracks: p.Tracks}
	case *RailDepot:
		return Node{Kind: NodeDepot, Owner: tl.Owner, Tracks: m.TrackBits(t), Dir: p.Dir}
	case *Crossing:
		a := p.RoadAxis.Other()
		return Node{Kind: NodePassthrough, Owner: tl.Owner, Tracks: a.Track().Bits(), Axis: a}
	case *Station:
		if p.hasRail() && !p.Blocked {
			return Node{Kind: NodePassthrough, Owner: tl.Owner, Tracks: p.Axis.Track().Bits(), Axis: p.Axis}
		}
	case *TunnelBridge:
		if p.Transport == TransportRail {
			return Node{Kind: NodePortal, Owner: tl.Owner, Tracks: m.TrackBits(t), Dir: p.Dir}
		}
	}
	return Node{Kind: NodeNone, Owner: InvalidOwner}
}

// OtherTunnelBridgeEnd finds the head at the far side of the wormhole. A tunnel's far portal
// sits at the same height.
func (m *Map) OtherTunnelBridgeEnd(t TileIndex) TileIndex {
	tb := m.tunnelBridge(t)
	want := tb.Dir.Reverse()
	z := m.Height(t)
	for cur := m.AddDiagDir(t, tb.Dir); cur != InvalidTile; cur = m.AddDiagDir(cur, tb.Dir) {
		o, ok := m.tile(cur).Data.(*TunnelBridge)
		if !ok || o.Bridge != tb.Bridge || o.Dir != want {
			continue
		}
		if !tb.Bridge && m.Height(cur) != z {
			continue
		}
		return cur
	}
	panic(fmt.Sprintf("ttd: %v head %s has no other end", m.Type(t), m.Coord(t)))
}

// ExitTile returns the tile reached by leaving t through side exit and the side it is entered
// from. Leaving a head into its wormhole lands on the far head, entered from InvalidDiagDir.
// Leaving the map gives InvalidTile.
func (m *Map) ExitTile(t TileIndex, exit DiagDirection) (TileIndex, DiagDirection) {
	if tb, ok := m.tile(t).Data.(*TunnelBridge); ok && tb.Dir == exit {
		return m.OtherTunnelBridgeEnd(t), InvalidDiagDir
	}
	n := m.AddDiagDir(t, exit)
	if n == InvalidTile {
		return InvalidTile, InvalidDiagDir
	}
	return n, exit.Reverse()
}

// EnterableTracks returns the tracks of t a train coming through side enter may use, following
// the same rules as block exploration. enter is InvalidDiagDir when coming out of a wormhole or
// depot.
func (m *Map) EnterableTracks(t TileIndex, enter DiagDirection) TrackBits {
	n := m.RailNode(t)
	switch n.Kind {
	case NodeTrack:
		return n.Tracks & EnterDirTrackBits(enter)
	case NodePassthrough:
		if enter.IsValid() && enter.Axis() == n.Axis {
			return n.Tracks
		}
	case NodeDepot:
		if enter == InvalidDiagDir || enter == n.Dir {
			return n.Tracks
		}
	case NodePortal:
		if enter == InvalidDiagDir || enter.Reverse() == n.Dir {
			return n.Tracks
		}
	}
	return TrackBitNone
}
