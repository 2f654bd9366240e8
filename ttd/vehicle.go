package ttd

// Trains records where train parts stand: one TrackBits value per part, which may be
// TrackBitDepot or TrackBitWormhole instead of a real track.
type Trains struct {
	parts map[TileIndex][]TrackBits
}

func NewTrains() *Trains {
	return &Trains{parts: make(map[TileIndex][]TrackBits)}
}

func (tr *Trains) Enter(t TileIndex, b TrackBits) {
	tr.parts[t] = append(tr.parts[t], b)
}

// Leave removes one part standing on t with exactly b. It reports whether one was found.
func (tr *Trains) Leave(t TileIndex, b TrackBits) bool {
	ps := tr.parts[t]
	for i, p := range ps {
		if p == b {
			ps[i] = ps[len(ps)-1]
			ps = ps[:len(ps)-1]
			if len(ps) == 0 {
				delete(tr.parts, t)
			} else {
				tr.parts[t] = ps
			}
			return true
		}
	}
	return false
}

func (tr *Trains) Clear() {
	clear(tr.parts)
}

func (tr *Trains) Count() int {
	n := 0
	for _, ps := range tr.parts {
		n += len(ps)
	}
	return n
}

// OnTile reports a train part on t that is not inside a depot.
func (tr *Trains) OnTile(t TileIndex) bool {
	for _, p := range tr.parts[t] {
		if p != TrackBitDepot {
			return true
		}
	}
	return false
}

// OnTrackBits reports a train part on t using the given tracks or a track crossing them.
func (tr *Trains) OnTrackBits(t TileIndex, b TrackBits) bool {
	for _, p := range tr.parts[t] {
		if p == b || TracksOverlap(p|b) {
			return true
		}
	}
	return false
}
