package signal

import (
	"fmt"

	"ttdrail/ttd"
)

// flags summarise one explored block.
type flags uint8

const (
	flagTrain  flags = 1 << iota // train found in the block
	flagExit                     // presignal exit found
	flagExit2                    // two or more exits found
	flagGreen                    // green exit found
	flagGreen2                   // two or more green exits found
	flagFull                     // a set was full, results are unusable
	flagPBS                      // path signal found

	flagNone flags = 0
)

// Exits returns 0, 1 or 2 (meaning two or more).
func (f flags) Exits() int {
	switch {
	case f&flagExit2 != 0:
		return 2
	case f&flagExit != 0:
		return 1
	}
	return 0
}

// GreenExits counts green exits like Exits. Counting stops at two.
func (f flags) GreenExits() int {
	switch {
	case f&flagGreen2 != 0:
		return 2
	case f&flagGreen != 0:
		return 1
	}
	return 0
}

func (f flags) String() string {
	return fmt.Sprintf("train=%t exits=%d green=%d pbs=%t full=%t",
		f&flagTrain != 0, f.Exits(), f.GreenExits(), f&flagPBS != 0, f&flagFull != 0)
}

// hop is the next frontier edge produced by a single-track node: tile entered from enter,
// reached by leaving the previous tile through exit.
type hop struct {
	tile  ttd.TileIndex
	enter ttd.DiagDirection
	exit  ttd.DiagDirection
}

// checkAddToTodo drops the new edge and its reverse from the global set, since this
// exploration covers them. It returns false when the reverse edge was already open, in which
// case both ends have been reached and the connection is closed instead.
func (e *Engine) checkAddToTodo(t1 ttd.TileIndex, d1 ttd.DiagDirection, t2 ttd.TileIndex, d2 ttd.DiagDirection) bool {
	e.glob.Remove(t1, d1)
	e.glob.Remove(t2, d2)

	if e.tbd.IsIn(t1, d1) {
		panic(fmt.Sprintf("signal: edge %s/%v queued twice", e.m.Coord(t1), d1))
	}

	return !e.tbd.Remove(t2, d2)
}

func (e *Engine) maybeAddToTodo(t1 ttd.TileIndex, d1 ttd.DiagDirection, t2 ttd.TileIndex, d2 ttd.DiagDirection) bool {
	if t1 == ttd.InvalidTile {
		return true
	}
	if !e.checkAddToTodo(t1, d1, t2, d2) {
		return true
	}
	return e.tbd.Add(t1, d1)
}

func (e *Engine) detectTrain(tile ttd.TileIndex, f *flags) {
	if *f&flagTrain == 0 && e.trains.OnTile(tile) {
		*f |= flagTrain
	}
}

// exploreSegment drains the frontier set, walking every track reachable without passing a
// signal. Signals facing into the block are collected in the entry set.
func (e *Engine) exploreSegment(owner ttd.Owner) flags {
	f := flagNone

	for {
		tile, enter, ok := e.tbd.Get()
		if !ok {
			return f
		}

		n := e.m.RailNode(tile)
		if n.Kind == ttd.NodeNone || n.Owner != owner {
			continue // do not propagate signals on others' tiles
		}

		var next hop
		switch n.Kind {
		case ttd.NodeTrack:
			if !e.exploreTrack(tile, enter, n.Tracks, &f) {
				return f | flagFull
			}
			continue
		case ttd.NodeDepot:
			next, ok = e.exploreDepot(tile, enter, n, &f)
		case ttd.NodePassthrough:
			next, ok = e.explorePassthrough(tile, enter, n, &f)
		case ttd.NodePortal:
			next, ok = e.explorePortal(tile, enter, n, &f)
		}
		if !ok {
			continue
		}

		if !e.maybeAddToTodo(next.tile, next.enter, tile, next.exit) {
			return f | flagFull
		}
	}
}

// exploreTrack handles plain track. It returns false when a set overflowed.
func (e *Engine) exploreTrack(tile ttd.TileIndex, enter ttd.DiagDirection, tracks ttd.TrackBits, f *flags) bool {
	if !enter.IsValid() {
		panic(fmt.Sprintf("signal: plain track %s entered from %v", e.m.Coord(tile), enter))
	}

	masked := tracks & ttd.EnterDirTrackBits(enter) // only tracks touching the enter side

	if tracks == ttd.TrackBitHorz || tracks == ttd.TrackBitVert {
		// exactly one track touches the side, a train on the other one is not ours
		tracks = masked
		if *f&flagTrain == 0 && e.trains.OnTrackBits(tile, tracks) {
			*f |= flagTrain
		}
	} else {
		if masked == ttd.TrackBitNone {
			return true
		}
		e.detectTrain(tile, f)
	}

	if e.m.HasSignals(tile) {
		track := masked.Track() // signals are only built where this is a single track
		if e.m.HasSignalOnTrack(tile, track) {
			sig := e.m.SignalType(tile, track)
			td := (tracks.Trackdirs() & ttd.EnterDirTrackdirBits(enter)).First()
			rev := td.Reverse()

			// any signal on the reverse trackdir faces into this block and is re-evaluated,
			// path signals excepted
			if e.m.HasSignalOnTrackdir(tile, rev) {
				if sig.IsPbs() {
					*f |= flagPBS
				} else if !e.tbu.Add(tile, rev) {
					return false
				}
			}
			if e.m.HasSignalOnTrackdir(tile, td) && !sig.IsOneway() {
				*f |= flagPBS
			}

			if *f&flagGreen2 == 0 && sig.IsPresignalExit() && e.m.HasSignalOnTrackdir(tile, td) {
				if *f&flagExit != 0 {
					*f |= flagExit2
				}
				*f |= flagExit
				if e.m.SignalStateByTrackdir(tile, td) == ttd.SignalGreen {
					if *f&flagGreen != 0 {
						*f |= flagGreen2
					}
					*f |= flagGreen
				}
			}

			return true
		}
	}

	for dir := ttd.DiagDirNE; dir < ttd.DiagDirEnd; dir++ {
		if dir != enter && tracks&ttd.EnterDirTrackBits(dir) != 0 {
			next, nextEnter := e.m.ExitTile(tile, dir)
			if !e.maybeAddToTodo(next, nextEnter, tile, dir) {
				return false
			}
		}
	}

	return true
}

func (e *Engine) exploreDepot(tile ttd.TileIndex, enter ttd.DiagDirection, n ttd.Node, f *flags) (hop, bool) {
	switch enter {
	case ttd.InvalidDiagDir:
		// from inside: a train just entered or left the depot
		e.detectTrain(tile, f)
		next, nextEnter := e.m.ExitTile(tile, n.Dir)
		return hop{tile: next, enter: nextEnter, exit: n.Dir}, true
	case n.Dir:
		e.detectTrain(tile, f)
	}
	return hop{}, false
}

func (e *Engine) explorePassthrough(tile ttd.TileIndex, enter ttd.DiagDirection, n ttd.Node, f *flags) (hop, bool) {
	if !enter.IsValid() || enter.Axis() != n.Axis {
		return hop{}, false
	}
	e.detectTrain(tile, f)
	exit := enter.Reverse()
	next, nextEnter := e.m.ExitTile(tile, exit)
	return hop{tile: next, enter: nextEnter, exit: exit}, true
}

func (e *Engine) explorePortal(tile ttd.TileIndex, enter ttd.DiagDirection, n ttd.Node, f *flags) (hop, bool) {
	if enter == ttd.InvalidDiagDir {
		// out of the wormhole, continue on the far side of the head
		e.detectTrain(tile, f)
		exit := n.Dir.Reverse()
		next, nextEnter := e.m.ExitTile(tile, exit)
		return hop{tile: next, enter: nextEnter, exit: exit}, true
	}
	if enter.Reverse() != n.Dir {
		return hop{}, false
	}
	e.detectTrain(tile, f)
	other, _ := e.m.ExitTile(tile, n.Dir)
	return hop{tile: other, enter: ttd.InvalidDiagDir, exit: ttd.InvalidDiagDir}, true
}
