package ttd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustMap(t *testing.T, x, y int) *Map {
	t.Helper()
	m, err := NewMap(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMap(t *testing.T) {
	m := mustMap(t, 8, 5)
	for i := range m.Tiles {
		tile := TileIndex(i)
		wantVoid := m.IsBorder(tile)
		if got := m.IsType(tile, TileVoid); got != wantVoid {
			t.Errorf("tile %s void = %v, want %v", m.Coord(tile), got, wantVoid)
		}
		if !wantVoid && (m.Height(tile) != 1 || m.Owner(tile) != OwnerNone) {
			t.Errorf("tile %s starts at height %d owned by %d", m.Coord(tile), m.Height(tile), m.Owner(tile))
		}
	}
	if _, err := NewMap(2, 8); err == nil {
		t.Error("NewMap accepted a 2x8 map")
	}
}

func TestAddDiagDir(t *testing.T) {
	m := mustMap(t, 8, 8)
	c := m.TileXY(3, 3)
	want := map[DiagDirection]TileIndex{
		DiagDirNE: m.TileXY(2, 3),
		DiagDirSE: m.TileXY(3, 4),
		DiagDirSW: m.TileXY(4, 3),
		DiagDirNW: m.TileXY(3, 2),
	}
	for d, w := range want {
		if got := m.AddDiagDir(c, d); got != w {
			t.Errorf("AddDiagDir(%s, %v) = %s, want %s", m.Coord(c), d, m.Coord(got), m.Coord(w))
		}
	}
	if got := m.AddDiagDir(m.TileXY(0, 4), DiagDirNE); got != InvalidTile {
		t.Errorf("stepping off the map gave %d", got)
	}
	if got := m.AddDiagDir(m.TileXY(7, 4), DiagDirSW); got != InvalidTile {
		t.Errorf("stepping off the map gave %d", got)
	}
}

func TestTrackBitsByTileType(t *testing.T) {
	m := mustMap(t, 8, 8)
	rail := m.TileXY(1, 1)
	m.MakeRailNormal(rail, 0, TrackBitHorz, 0)
	depot := m.TileXY(2, 1)
	m.MakeRailDepot(depot, 0, DiagDirNW, 0)
	crossing := m.TileXY(3, 1)
	m.MakeLevelCrossing(crossing, 0, OwnerTown, AxisX, 0)
	platform := m.TileXY(4, 1)
	m.MakeRailStation(platform, 0, 1, AxisX, 0)
	blocked := m.TileXY(4, 2)
	m.MakeRailStation(blocked, 0, 1, AxisX, 0)
	m.SetStationTileBlocked(blocked, true)
	bus := m.TileXY(5, 1)
	m.MakeStation(bus, 0, 2, StationBus, AxisX)
	tunnel := m.TileXY(6, 1)
	m.MakeRailTunnel(tunnel, 0, DiagDirSE, 0)

	tests := []struct {
		tile TileIndex
		want TrackBits
	}{
		{rail, TrackBitHorz},
		{depot, TrackBitY},
		{crossing, TrackBitY},
		{platform, TrackBitX},
		{blocked, TrackBitNone},
		{bus, TrackBitNone},
		{tunnel, TrackBitY},
		{m.TileXY(3, 3), TrackBitNone},
	}
	for _, tt := range tests {
		if got := m.RailTrackBits(tt.tile); got != tt.want {
			t.Errorf("RailTrackBits(%s) = %v, want %v", m.Coord(tt.tile), got, tt.want)
		}
	}
}

func TestRailNode(t *testing.T) {
	m := mustMap(t, 8, 8)
	m.MakeRailNormal(m.TileXY(1, 1), 2, TrackBitCross, 0)
	m.MakeLevelCrossing(m.TileXY(2, 1), 2, OwnerTown, AxisY, 0)
	m.MakeRailStation(m.TileXY(3, 1), 2, 1, AxisY, 0)
	m.MakeRailDepot(m.TileXY(4, 1), 2, DiagDirSW, 0)
	m.MakeRailBridgeRamp(m.TileXY(5, 1), 2, DiagDirNE, 0)
	m.MakeRoadTunnel(m.TileXY(6, 1), 2, DiagDirNE)

	got := []Node{
		m.RailNode(m.TileXY(1, 1)),
		m.RailNode(m.TileXY(2, 1)),
		m.RailNode(m.TileXY(3, 1)),
		m.RailNode(m.TileXY(4, 1)),
		m.RailNode(m.TileXY(5, 1)),
		m.RailNode(m.TileXY(6, 1)),
		m.RailNode(m.TileXY(1, 3)),
	}
	want := []Node{
		{Kind: NodeTrack, Owner: 2, Tracks: TrackBitCross},
		{Kind: NodePassthrough, Owner: 2, Tracks: TrackBitX, Axis: AxisX},
		{Kind: NodePassthrough, Owner: 2, Tracks: TrackBitY, Axis: AxisY},
		{Kind: NodeDepot, Owner: 2, Tracks: TrackBitX, Dir: DiagDirSW},
		{Kind: NodePortal, Owner: 2, Tracks: TrackBitX, Dir: DiagDirNE},
		{Kind: NodeNone, Owner: InvalidOwner},
		{Kind: NodeNone, Owner: InvalidOwner},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RailNode (-want +got):\n%s", diff)
	}
}

func TestExitTileThroughWormhole(t *testing.T) {
	m := mustMap(t, 12, 8)
	west := m.TileXY(2, 3)
	east := m.TileXY(8, 3)
	m.MakeRailTunnel(west, 0, DiagDirSW, 0)
	m.MakeRailTunnel(east, 0, DiagDirNE, 0)
	// A tunnel head at another height is not the matching portal.
	decoy := m.TileXY(5, 3)
	m.SetHeight(decoy, 3)
	m.MakeRailTunnel(decoy, 0, DiagDirNE, 0)

	if got := m.OtherTunnelBridgeEnd(west); got != east {
		t.Errorf("OtherTunnelBridgeEnd(west) = %s, want %s", m.Coord(got), m.Coord(east))
	}
	if got := m.OtherTunnelBridgeEnd(east); got != west {
		t.Errorf("OtherTunnelBridgeEnd(east) = %s, want %s", m.Coord(got), m.Coord(west))
	}

	tile, enter := m.ExitTile(west, DiagDirSW)
	if tile != east || enter != InvalidDiagDir {
		t.Errorf("ExitTile into the wormhole = %s, %v", m.Coord(tile), enter)
	}
	tile, enter = m.ExitTile(west, DiagDirNE)
	if tile != m.TileXY(1, 3) || enter != DiagDirSW {
		t.Errorf("ExitTile out of the portal = %s, %v", m.Coord(tile), enter)
	}
	if got := m.EnterableTracks(east, InvalidDiagDir); got != TrackBitX {
		t.Errorf("EnterableTracks from the wormhole = %v", got)
	}
	if got := m.EnterableTracks(east, DiagDirSW); got != TrackBitX {
		t.Errorf("EnterableTracks from the mouth = %v", got)
	}
	if got := m.EnterableTracks(east, DiagDirNE); got != TrackBitNone {
		t.Errorf("EnterableTracks from behind the portal = %v", got)
	}
}

func TestEnterableTracks(t *testing.T) {
	m := mustMap(t, 8, 8)
	rail := m.TileXY(2, 2)
	m.MakeRailNormal(rail, 0, TrackBitX|TrackBitUpper|TrackBitLower, 0)
	crossing := m.TileXY(3, 2)
	m.MakeLevelCrossing(crossing, 0, OwnerTown, AxisY, 0)
	depot := m.TileXY(4, 2)
	m.MakeRailDepot(depot, 0, DiagDirNE, 0)

	tests := []struct {
		tile  TileIndex
		enter DiagDirection
		want  TrackBits
	}{
		{rail, DiagDirNE, TrackBitX | TrackBitUpper},
		{rail, DiagDirSE, TrackBitLower},
		{rail, DiagDirSW, TrackBitX | TrackBitLower},
		{crossing, DiagDirNE, TrackBitX},
		{crossing, DiagDirNW, TrackBitNone},
		{depot, DiagDirNE, TrackBitX},
		{depot, DiagDirSW, TrackBitNone},
		{depot, InvalidDiagDir, TrackBitX},
	}
	for _, tt := range tests {
		if got := m.EnterableTracks(tt.tile, tt.enter); got != tt.want {
			t.Errorf("EnterableTracks(%s, %v) = %v, want %v", m.Coord(tt.tile), tt.enter, got, tt.want)
		}
	}
}

func TestSignals(t *testing.T) {
	m := mustMap(t, 8, 8)
	tile := m.TileXY(3, 3)
	m.MakeRailNormal(tile, 1, TrackBitY, 0)
	if m.HasSignals(tile) {
		t.Fatal("fresh track has signals")
	}

	m.SetSignals(tile, TrackY, SignalAgainst, SignalExit, SignalSemaphore)
	if !m.HasSignals(tile) || !m.HasSignalOnTrackdir(tile, TrackdirYNW) || m.HasSignalOnTrackdir(tile, TrackdirYSE) {
		t.Fatal("signal not placed against the track direction")
	}
	if got := m.SignalStateByTrackdir(tile, TrackdirYNW); got != SignalGreen {
		t.Errorf("new signal is %v", got)
	}
	if !m.IsPresignalExit(tile, TrackY) || m.IsPresignalEntry(tile, TrackY) || m.SignalVariant(tile, TrackY) != SignalSemaphore {
		t.Error("signal type or variant lost")
	}

	m.SetSignalStateByTrackdir(tile, TrackdirYNW, SignalRed)
	m.SetSignals(tile, TrackY, SignalBoth, SignalExit, SignalSemaphore)
	if got := m.SignalStateByTrackdir(tile, TrackdirYNW); got != SignalRed {
		t.Errorf("kept face changed to %v", got)
	}
	if got := m.SignalStateByTrackdir(tile, TrackdirYSE); got != SignalGreen {
		t.Errorf("added face is %v", got)
	}
	if got := m.SignalledTracks(tile); got != TrackBitY {
		t.Errorf("SignalledTracks = %v", got)
	}

	m.SetTrackBits(tile, TrackBitY|TrackBitX)
	m.SetTrackBits(tile, TrackBitX)
	if m.HasSignals(tile) {
		t.Error("signals survived the removal of their track")
	}
}

func TestSignalTypes(t *testing.T) {
	for s := SignalBlock; s < SignalTypeEnd; s++ {
		got, err := ParseSignalType(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSignalType(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSignalType("semaphore"); err == nil {
		t.Error("ParseSignalType accepted a variant name")
	}
	if SignalPBS.IsOneway() || !SignalPBSOneway.IsOneway() || !SignalBlock.IsOneway() {
		t.Error("IsOneway")
	}
	if !SignalCombo.IsPresignalEntry() || !SignalCombo.IsPresignalExit() {
		t.Error("combo is both entry and exit")
	}
}

func TestAccessorContracts(t *testing.T) {
	m := mustMap(t, 8, 8)
	tests := []struct {
		name string
		f    func()
	}{
		{"TrackBits on clear land", func() { m.TrackBits(m.TileXY(2, 2)) }},
		{"signal state without signal", func() {
			m.MakeRailNormal(m.TileXY(3, 3), 0, TrackBitX, 0)
			m.SignalStateByTrackdir(m.TileXY(3, 3), TrackdirXNE)
		}},
		{"owner of void", func() { m.SetOwner(m.TileXY(0, 0), 1) }},
		{"signal on missing track", func() { m.SetSignals(m.TileXY(3, 3), TrackY, SignalAlong, SignalBlock, SignalElectric) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("no panic")
				}
			}()
			tt.f()
		})
	}
}

func TestTrains(t *testing.T) {
	m := mustMap(t, 8, 8)
	tr := NewTrains()
	a, b := m.TileXY(2, 2), m.TileXY(3, 3)
	tr.Enter(a, TrackBitUpper)
	tr.Enter(b, TrackBitDepot)

	if !tr.OnTile(a) || tr.OnTile(b) {
		t.Error("OnTile should count track parts and skip depot parts")
	}
	if tr.OnTrackBits(a, TrackBitLower) {
		t.Error("parallel half tracks reported as occupied")
	}
	if !tr.OnTrackBits(a, TrackBitLeft) || !tr.OnTrackBits(a, TrackBitUpper) {
		t.Error("crossing or same track not reported")
	}
	if !tr.Leave(a, TrackBitUpper) || tr.Leave(a, TrackBitUpper) {
		t.Error("Leave")
	}
	if tr.OnTile(a) || tr.Count() != 1 {
		t.Errorf("%d parts left", tr.Count())
	}
	tr.Clear()
	if tr.Count() != 0 {
		t.Error("Clear")
	}
}
