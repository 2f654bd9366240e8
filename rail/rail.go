// Package rail holds the track and signal building commands. Each command validates the
// request, changes the map, queues the touched track for signal updates and settles them.
package rail

import (
	"errors"
	"fmt"

	"ttdrail/signal"
	"ttdrail/ttd"
)

var (
	ErrNotOwner     = errors.New("tile belongs to another company")
	ErrTileOccupied = errors.New("tile is occupied")
	ErrTrainInWay   = errors.New("train in the way")
	ErrNoTrack      = errors.New("no suitable track")
)

type Builder struct {
	Map     *ttd.Map
	Signals *signal.Engine
	Trains  signal.Occupancy // optional
}

func New(m *ttd.Map, e *signal.Engine, trains signal.Occupancy) *Builder {
	return &Builder{Map: m, Signals: e, Trains: trains}
}

func (b *Builder) checkTile(t ttd.TileIndex, owner ttd.Owner) error {
	if !owner.IsCompany() {
		return fmt.Errorf("owner %d is not a company", owner)
	}
	if !b.Map.IsValid(t) || b.Map.IsBorder(t) {
		return fmt.Errorf("tile %d: outside the buildable map", t)
	}
	return nil
}

func (b *Builder) trainOn(t ttd.TileIndex, bits ttd.TrackBits) bool {
	return b.Trains != nil && b.Trains.OnTrackBits(t, bits)
}

// plainRail returns the tracks of an owned plain rail tile.
func (b *Builder) plainRail(t ttd.TileIndex, owner ttd.Owner) (ttd.TrackBits, error) {
	if !b.Map.IsPlainRail(t) {
		return 0, fmt.Errorf("%s: %w", b.Map.Coord(t), ErrNoTrack)
	}
	if b.Map.Owner(t) != owner {
		return 0, fmt.Errorf("%s: %w", b.Map.Coord(t), ErrNotOwner)
	}
	return b.Map.TrackBits(t), nil
}

func (b *Builder) settle(t ttd.TileIndex, track ttd.Track, owner ttd.Owner) signal.SegmentState {
	b.Signals.AddTrackToBuffer(t, track, owner)
	return b.Signals.UpdateBuffer()
}

func (b *Builder) BuildTrack(t ttd.TileIndex, owner ttd.Owner, track ttd.Track, rt ttd.RailType) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	if !track.IsValid() {
		return fmt.Errorf("invalid track %d", track)
	}
	m := b.Map
	switch m.Type(t) {
	case ttd.TileClear, ttd.TileTrees:
		m.MakeRailNormal(t, owner, track.Bits(), rt)
	case ttd.TileRailway:
		tracks, err := b.plainRail(t, owner)
		if err != nil {
			return err
		}
		if tracks.Has(track) {
			return fmt.Errorf("%s: track %v already built", m.Coord(t), track)
		}
		if m.HasSignals(t) && ttd.TracksOverlap(tracks|track.Bits()) {
			return fmt.Errorf("%s: remove the signals first", m.Coord(t))
		}
		if b.trainOn(t, track.Bits()) {
			return fmt.Errorf("%s: %w", m.Coord(t), ErrTrainInWay)
		}
		m.SetTrackBits(t, tracks|track.Bits())
	default:
		return fmt.Errorf("%s: %w by %v", m.Coord(t), ErrTileOccupied, m.Type(t))
	}
	b.settle(t, track, owner)
	return nil
}

// RemoveTrack removes one track. A track carrying signals is refused until they are removed.
// The tile is cleared with its last track.
func (b *Builder) RemoveTrack(t ttd.TileIndex, owner ttd.Owner, track ttd.Track) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	tracks, err := b.plainRail(t, owner)
	if err != nil {
		return err
	}
	if !track.IsValid() || !tracks.Has(track) {
		return fmt.Errorf("%s: track %v: %w", b.Map.Coord(t), track, ErrNoTrack)
	}
	if b.Map.HasSignalOnTrack(t, track) {
		return fmt.Errorf("%s: remove the signals first", b.Map.Coord(t))
	}
	if b.trainOn(t, track.Bits()) {
		return fmt.Errorf("%s: %w", b.Map.Coord(t), ErrTrainInWay)
	}
	rest := tracks &^ track.Bits()
	if rest == ttd.TrackBitNone {
		b.Map.MakeClear(t, ttd.GroundGrass, 3)
	} else {
		b.Map.SetTrackBits(t, rest)
	}
	b.settle(t, track, owner)
	return nil
}

// BuildSignal places signals facing the directions in present (ttd.SignalAlong,
// ttd.SignalAgainst) on a track, replacing any signals already there. It returns the state of
// the block the new signals lead into.
func (b *Builder) BuildSignal(t ttd.TileIndex, owner ttd.Owner, track ttd.Track, present uint8, typ ttd.SignalType, v ttd.SignalVariant) (signal.SegmentState, error) {
	if err := b.checkTile(t, owner); err != nil {
		return signal.StateNone, err
	}
	tracks, err := b.plainRail(t, owner)
	if err != nil {
		return signal.StateNone, err
	}
	if !track.IsValid() || !tracks.Has(track) {
		return signal.StateNone, fmt.Errorf("%s: track %v: %w", b.Map.Coord(t), track, ErrNoTrack)
	}
	if ttd.TracksOverlap(tracks) {
		return signal.StateNone, fmt.Errorf("%s: signals cannot be built on junctions", b.Map.Coord(t))
	}
	if present == 0 || present&^ttd.SignalBoth != 0 {
		return signal.StateNone, fmt.Errorf("invalid signal directions %#x", present)
	}
	if typ >= ttd.SignalTypeEnd {
		return signal.StateNone, fmt.Errorf("invalid signal type %d", typ)
	}
	b.Map.SetSignals(t, track, present, typ, v)
	if present == ttd.SignalBoth {
		return b.settle(t, track, owner), nil
	}
	td := track.Trackdir()
	if present == ttd.SignalAgainst {
		td = td.Reverse()
	}
	// queued last, the side the signal leads into is drained first
	b.Signals.AddSideToBuffer(t, td.Reverse().ExitDir(), owner)
	b.Signals.AddSideToBuffer(t, td.ExitDir(), owner)
	return b.Signals.UpdateBuffer(), nil
}

func (b *Builder) RemoveSignals(t ttd.TileIndex, owner ttd.Owner, track ttd.Track) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	if _, err := b.plainRail(t, owner); err != nil {
		return err
	}
	if !track.IsValid() || !b.Map.HasSignalOnTrack(t, track) {
		return fmt.Errorf("%s: no signal on track %v", b.Map.Coord(t), track)
	}
	b.Map.SetSignals(t, track, 0, 0, 0)
	b.settle(t, track, owner)
	return nil
}

// ConvertSignal changes the type of the signals on a track, keeping their faces and variant.
func (b *Builder) ConvertSignal(t ttd.TileIndex, owner ttd.Owner, track ttd.Track, typ ttd.SignalType) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	if _, err := b.plainRail(t, owner); err != nil {
		return err
	}
	if !track.IsValid() || !b.Map.HasSignalOnTrack(t, track) {
		return fmt.Errorf("%s: no signal on track %v", b.Map.Coord(t), track)
	}
	if typ >= ttd.SignalTypeEnd {
		return fmt.Errorf("invalid signal type %d", typ)
	}
	b.Map.SetSignalType(t, track, typ)
	b.settle(t, track, owner)
	return nil
}

// singleDiagonal returns the axis of a tile holding exactly one diagonal track and no signals.
func (b *Builder) singleDiagonal(t ttd.TileIndex, owner ttd.Owner) (ttd.Axis, error) {
	tracks, err := b.plainRail(t, owner)
	if err != nil {
		return ttd.InvalidAxis, err
	}
	if b.Map.HasSignals(t) {
		return ttd.InvalidAxis, fmt.Errorf("%s: remove the signals first", b.Map.Coord(t))
	}
	switch tracks {
	case ttd.TrackBitX:
		return ttd.AxisX, nil
	case ttd.TrackBitY:
		return ttd.AxisY, nil
	}
	return ttd.InvalidAxis, fmt.Errorf("%s: needs a single straight track: %w", b.Map.Coord(t), ErrNoTrack)
}

// BuildLevelCrossing lays a road across a straight track.
func (b *Builder) BuildLevelCrossing(t ttd.TileIndex, owner, roadOwner ttd.Owner) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	a, err := b.singleDiagonal(t, owner)
	if err != nil {
		return err
	}
	rt := b.Map.RailType(t)
	b.Map.MakeLevelCrossing(t, owner, roadOwner, a.Other(), rt)
	b.settle(t, a.Track(), owner)
	return nil
}

// BuildStation turns a straight track into a platform tile.
func (b *Builder) BuildStation(t ttd.TileIndex, owner ttd.Owner, id uint16) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	a, err := b.singleDiagonal(t, owner)
	if err != nil {
		return err
	}
	rt := b.Map.RailType(t)
	b.Map.MakeRailStation(t, owner, id, a, rt)
	b.settle(t, a.Track(), owner)
	return nil
}

// BuildDepot places a depot on clear land with its entrance on side d.
func (b *Builder) BuildDepot(t ttd.TileIndex, owner ttd.Owner, d ttd.DiagDirection, rt ttd.RailType) error {
	if err := b.checkTile(t, owner); err != nil {
		return err
	}
	if !d.IsValid() {
		return fmt.Errorf("invalid depot direction %d", d)
	}
	if tt := b.Map.Type(t); tt != ttd.TileClear && tt != ttd.TileTrees {
		return fmt.Errorf("%s: %w by %v", b.Map.Coord(t), ErrTileOccupied, tt)
	}
	b.Map.MakeRailDepot(t, owner, d, rt)
	b.Signals.AddSideToBuffer(t, ttd.InvalidDiagDir, owner)
	b.Signals.UpdateBuffer()
	return nil
}
