// Package signal keeps presignal and block signal states consistent with the rail network.
//
// Track building, train movement and depot code queue the track pieces they touched; a drain
// explores every affected block once, recolours the signals facing into it and queues the
// blocks behind presignal exits that changed.
package signal

import (
	"fmt"
	"io"
	"log"

	"ttdrail/ttd"
)

const (
	entrySetSize  = 64  // signals facing into one block
	todoSetSize   = 256 // open edges of the block being explored
	globalSetSize = 128 // queued edges awaiting a drain
	globalUpdate  = 64  // queued edges that force a drain
)

// SegmentState describes the first block handled by a drain.
type SegmentState uint8

const (
	StateNone SegmentState = iota // nothing was buffered
	StateFree                     // no train, and entering is allowed
	StateFull                     // occupied, all exits red, or too complex to evaluate
	StatePBS                      // bounded by a path signal
)

func (s SegmentState) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateFull:
		return "full"
	case StatePBS:
		return "pbs"
	}
	return "none"
}

// Occupancy answers whether trains stand on a tile.
type Occupancy interface {
	// OnTile reports any train part on the tile outside a depot.
	OnTile(t ttd.TileIndex) bool
	// OnTrackBits reports a train part using the tracks or a track crossing them.
	OnTrackBits(t ttd.TileIndex, b ttd.TrackBits) bool
}

// Engine buffers signal update requests for one company at a time and settles them on demand.
// It is not safe for concurrent use; callers serialise all calls.
type Engine struct {
	m      *ttd.Map
	trains Occupancy
	log    *log.Logger

	tbu  *smallSet[ttd.Trackdir]      // signals to update around the current block
	tbd  *smallSet[ttd.DiagDirection] // open edges of the current block
	glob *smallSet[ttd.DiagDirection] // edges to start later blocks from

	owner ttd.Owner // owner of everything in glob
}

// NewEngine binds an engine to a map. A nil logger discards diagnostics.
func NewEngine(m *ttd.Map, trains Occupancy, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		m:      m,
		trains: trains,
		log:    logger,
		tbu:    newSmallSet[ttd.Trackdir]("tbu", entrySetSize, logger),
		tbd:    newSmallSet[ttd.DiagDirection]("tbd", todoSetSize, logger),
		glob:   newSmallSet[ttd.DiagDirection]("glob", globalSetSize, logger),
		owner:  ttd.InvalidOwner,
	}
}

func (e *Engine) resetSets() {
	e.tbu.Reset()
	e.tbd.Reset()
	e.glob.Reset()
}

// updateSignalsAroundSegment recolours the signals collected in the entry set.
func (e *Engine) updateSignalsAroundSegment(f flags) {
	for {
		tile, td, ok := e.tbu.Get()
		if !ok {
			return
		}
		if !e.m.HasSignalOnTrackdir(tile, td) {
			panic(fmt.Sprintf("signal: no signal along %v on %s", td, e.m.Coord(tile)))
		}

		track := td.Track()
		sig := e.m.SignalType(tile, track)
		newState := ttd.SignalGreen

		switch {
		case f&flagTrain != 0:
			// train in the block
			newState = ttd.SignalRed
		case sig.IsPresignalEntry():
			rev := td.Reverse()
			if sig == ttd.SignalCombo && e.m.HasSignalOnTrackdir(tile, rev) {
				// bidirectional combo: its own reverse face was counted as one of the exits
				if f&flagExit2 != 0 &&
					(f&flagGreen == 0 ||
						f&flagGreen2 == 0 && e.m.SignalStateByTrackdir(tile, rev) == ttd.SignalGreen) {
					newState = ttd.SignalRed
				}
			} else if f&flagExit != 0 && f&flagGreen == 0 {
				// at least one exit, none green
				newState = ttd.SignalRed
			}
		}

		if newState == e.m.SignalStateByTrackdir(tile, td) {
			continue
		}
		if sig.IsPresignalExit() {
			// the block behind this exit sees a different exit colour now
			e.glob.Add(tile, td.Reverse().ExitDir()) // no full check, first update all signals
		}
		e.m.SetSignalStateByTrackdir(tile, td, newState)
	}
}

// seed opens the block next to a buffered edge. It returns false when there is no track to
// explore on either side of the edge.
func (e *Engine) seed(tile ttd.TileIndex, dir ttd.DiagDirection) bool {
	switch e.m.Type(tile) {
	case ttd.TileTunnelBridge:
		if e.m.TunnelBridgeTransportType(tile) != ttd.TransportRail {
			panic(fmt.Sprintf("signal: update queued on non-rail tunnel or bridge %s", e.m.Coord(tile)))
		}
		if dir != ttd.InvalidDiagDir && dir != e.m.TunnelBridgeDirection(tile).Reverse() {
			panic(fmt.Sprintf("signal: update queued on %s towards its wormhole", e.m.Coord(tile)))
		}
		// start from the middle of the wormhole
		e.tbd.Add(tile, ttd.InvalidDiagDir)
		e.tbd.Add(e.m.OtherTunnelBridgeEnd(tile), ttd.InvalidDiagDir)
		return true

	case ttd.TileRailway:
		if e.m.IsRailDepot(tile) {
			if dir != ttd.InvalidDiagDir && dir != e.m.RailDepotDirection(tile) {
				panic(fmt.Sprintf("signal: update queued on depot %s away from its entrance", e.m.Coord(tile)))
			}
			e.tbd.Add(tile, ttd.InvalidDiagDir) // start from inside the depot
			return true
		}
		fallthrough

	case ttd.TileStation, ttd.TileRoad:
		if e.m.RailTrackBits(tile)&ttd.EnterDirTrackBits(dir) != ttd.TrackBitNone {
			next := e.m.AddDiagDir(tile, dir)
			e.tbd.Add(tile, dir)
			if next != ttd.InvalidTile {
				e.tbd.Add(next, dir.Reverse())
				e.glob.Remove(next, dir.Reverse()) // same connection, seen from the other side
			}
			return true
		}
	}

	// no interesting track here, try the tile across the edge
	next := e.m.AddDiagDir(tile, dir)
	if next == ttd.InvalidTile {
		return false
	}
	rev := dir.Reverse()
	if e.m.RailTrackBits(next)&ttd.EnterDirTrackBits(rev) == ttd.TrackBitNone {
		// happens when removing track that wasn't connected at one or both sides
		return false
	}
	e.tbd.Add(next, rev)
	e.glob.Remove(next, rev)
	return true
}

func (e *Engine) updateInBuffer(owner ttd.Owner) SegmentState {
	if !owner.IsCompany() {
		panic(fmt.Sprintf("signal: drain for owner %d, which is not a company", owner))
	}

	first := true
	state := StateFree

	for {
		tile, dir, ok := e.glob.Get()
		if !ok {
			break
		}
		if !e.tbu.IsEmpty() || !e.tbd.IsEmpty() {
			panic("signal: block sets not empty between blocks")
		}

		if !e.seed(tile, dir) {
			continue
		}
		if e.tbd.Overflowed() {
			panic("signal: block set overflowed while seeding")
		}

		f := e.exploreSegment(owner)

		if first {
			first = false
			switch {
			case f&flagPBS != 0:
				state = StatePBS
			case f&flagTrain != 0, f&flagExit != 0 && f&flagGreen == 0, f&flagFull != 0:
				state = StateFull
			}
		}

		if f&flagFull != 0 {
			e.log.Printf("signal: block at %s/%v too complex, %d queued updates dropped", e.m.Coord(tile), dir, e.glob.Items())
			e.resetSets()
			break
		}

		e.updateSignalsAroundSegment(f)
	}

	return state
}

// UpdateBuffer drains every buffered request. The result describes the first block processed,
// or is StateNone when nothing was buffered.
func (e *Engine) UpdateBuffer() SegmentState {
	if e.glob.IsEmpty() {
		return StateNone
	}
	state := e.updateInBuffer(e.owner)
	e.owner = ttd.InvalidOwner
	return state
}

func (e *Engine) IsBufferEmpty() bool {
	return e.glob.IsEmpty()
}

func (e *Engine) claim(owner ttd.Owner) {
	// updates of two companies are never mixed in one drain
	if !e.glob.IsEmpty() && owner != e.owner {
		panic(fmt.Sprintf("signal: update for owner %d queued while owner %d is buffered", owner, e.owner))
	}
	e.owner = owner
}

func (e *Engine) flushIfFull() {
	if e.glob.Items() >= globalUpdate {
		e.updateInBuffer(e.owner)
		e.owner = ttd.InvalidOwner
	}
}

var (
	searchDir1 = [ttd.TrackEnd]ttd.DiagDirection{
		ttd.DiagDirNE, ttd.DiagDirSE, ttd.DiagDirNE, ttd.DiagDirSE, ttd.DiagDirSW, ttd.DiagDirSE,
	}
	searchDir2 = [ttd.TrackEnd]ttd.DiagDirection{
		ttd.DiagDirSW, ttd.DiagDirNW, ttd.DiagDirNW, ttd.DiagDirSW, ttd.DiagDirNW, ttd.DiagDirNE,
	}
)

// AddTrackToBuffer queues both ends of a track piece.
func (e *Engine) AddTrackToBuffer(tile ttd.TileIndex, track ttd.Track, owner ttd.Owner) {
	if !track.IsValid() {
		panic(fmt.Sprintf("signal: track %d queued on %s", track, e.m.Coord(tile)))
	}
	e.claim(owner)
	e.glob.Add(tile, searchDir1[track])
	e.glob.Add(tile, searchDir2[track])
	e.flushIfFull()
}

// AddSideToBuffer queues one side of a tile. InvalidDiagDir stands for the inside of a depot
// or the wormhole of a tunnel or bridge.
func (e *Engine) AddSideToBuffer(tile ttd.TileIndex, side ttd.DiagDirection, owner ttd.Owner) {
	e.claim(owner)
	e.glob.Add(tile, side)
	e.flushIfFull()
}

// UpdateOnSegment settles the block next to one side of a tile right away. The buffer must be
// empty.
func (e *Engine) UpdateOnSegment(tile ttd.TileIndex, side ttd.DiagDirection, owner ttd.Owner) SegmentState {
	if !e.glob.IsEmpty() {
		panic("signal: UpdateOnSegment with buffered updates")
	}
	e.glob.Add(tile, side)
	return e.updateInBuffer(owner)
}

// SetOnBothDir settles the blocks at both ends of a track right away. The buffer must be empty.
func (e *Engine) SetOnBothDir(tile ttd.TileIndex, track ttd.Track, owner ttd.Owner) {
	if !e.glob.IsEmpty() {
		panic("signal: SetOnBothDir with buffered updates")
	}
	e.AddTrackToBuffer(tile, track, owner)
	e.UpdateBuffer()
}
