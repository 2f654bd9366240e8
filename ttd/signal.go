package ttd

import "fmt"

type SignalType uint8

const (
	SignalBlock SignalType = iota
	SignalEntry
	SignalExit
	SignalCombo
	SignalPBS
	SignalPBSOneway
	SignalTypeEnd
)

var signalTypeNames = [SignalTypeEnd]string{"block", "entry", "exit", "combo", "pbs", "pbs-oneway"}

func (s SignalType) IsPresignalEntry() bool {
	return s == SignalEntry || s == SignalCombo
}

func (s SignalType) IsPresignalExit() bool {
	return s == SignalExit || s == SignalCombo
}

func (s SignalType) IsPbs() bool {
	return s == SignalPBS || s == SignalPBSOneway
}

// IsOneway is false only for two-way path signals, which trains may pass from behind.
func (s SignalType) IsOneway() bool {
	return s != SignalPBS
}

func ParseSignalType(name string) (SignalType, error) {
	for i, n := range signalTypeNames {
		if n == name {
			return SignalType(i), nil
		}
	}
	return SignalBlock, fmt.Errorf("unknown signal type %q", name)
}

func (s SignalType) String() string {
	if s >= SignalTypeEnd {
		return "invalid"
	}
	return signalTypeNames[s]
}

type SignalState uint8

const (
	SignalRed SignalState = iota
	SignalGreen
)

func (s SignalState) String() string {
	if s == SignalGreen {
		return "green"
	}
	return "red"
}

type SignalVariant uint8

const (
	SignalElectric SignalVariant = iota
	SignalSemaphore
)

// SignalPair holds the signals of one track in both travel directions. Bit 0 of Present and
// State is the direction Track.Trackdir(), bit 1 the reverse. A set State bit is green.
type SignalPair struct {
	Present uint8
	State   uint8
	Type    SignalType
	Variant SignalVariant
}

const (
	SignalAlong   uint8 = 1
	SignalAgainst uint8 = 2
	SignalBoth          = SignalAlong | SignalAgainst
)

// SignalBit returns the SignalPair bit of the signal applying to trains travelling along td.
func SignalBit(td Trackdir) uint8 {
	if td < 8 {
		return SignalAlong
	}
	return SignalAgainst
}

// HasSignals reports whether t is plain rail with at least one signal.
func (m *Map) HasSignals(t TileIndex) bool {
	return m.IsSubtype(t, TileRailway, SubRailSignals)
}

func (m *Map) HasSignalOnTrack(t TileIndex, track Track) bool {
	assert(track.IsValid(), "HasSignalOnTrack with track %d", track)
	return m.railTrack(t).Signals[track].Present != 0
}

func (m *Map) HasSignalOnTrackdir(t TileIndex, td Trackdir) bool {
	assert(td.IsValid(), "HasSignalOnTrackdir with trackdir %d", td)
	return m.railTrack(t).Signals[td.Track()].Present&SignalBit(td) != 0
}

func (m *Map) signalPair(t TileIndex, track Track) *SignalPair {
	assert(track.IsValid(), "signal on track %d", track)
	sp := &m.railTrack(t).Signals[track]
	assert(sp.Present != 0, "no signal on track %v of %s", track, m.Coord(t))
	return sp
}

func (m *Map) SignalType(t TileIndex, track Track) SignalType {
	return m.signalPair(t, track).Type
}

func (m *Map) SetSignalType(t TileIndex, track Track, s SignalType) {
	assert(s < SignalTypeEnd, "SetSignalType with type %d", s)
	m.signalPair(t, track).Type = s
}

func (m *Map) SignalVariant(t TileIndex, track Track) SignalVariant {
	return m.signalPair(t, track).Variant
}

func (m *Map) SetSignalVariant(t TileIndex, track Track, v SignalVariant) {
	m.signalPair(t, track).Variant = v
}

func (m *Map) IsPresignalEntry(t TileIndex, track Track) bool {
	return m.SignalType(t, track).IsPresignalEntry()
}

func (m *Map) IsPresignalExit(t TileIndex, track Track) bool {
	return m.SignalType(t, track).IsPresignalExit()
}

func (m *Map) IsPbsSignal(t TileIndex, track Track) bool {
	return m.SignalType(t, track).IsPbs()
}

func (m *Map) IsOnewaySignal(t TileIndex, track Track) bool {
	return m.SignalType(t, track).IsOneway()
}

// PresentSignals returns the Signal* direction bits present on track.
func (m *Map) PresentSignals(t TileIndex, track Track) uint8 {
	assert(track.IsValid(), "PresentSignals with track %d", track)
	return m.railTrack(t).Signals[track].Present
}

func (m *Map) SignalStateByTrackdir(t TileIndex, td Trackdir) SignalState {
	assert(td.IsValid(), "SignalStateByTrackdir with trackdir %d", td)
	sp := m.signalPair(t, td.Track())
	assert(sp.Present&SignalBit(td) != 0, "no signal along %v on %s", td, m.Coord(t))
	if sp.State&SignalBit(td) != 0 {
		return SignalGreen
	}
	return SignalRed
}

func (m *Map) SetSignalStateByTrackdir(t TileIndex, td Trackdir, s SignalState) {
	assert(td.IsValid(), "SetSignalStateByTrackdir with trackdir %d", td)
	sp := m.signalPair(t, td.Track())
	assert(sp.Present&SignalBit(td) != 0, "no signal along %v on %s", td, m.Coord(t))
	if s == SignalGreen {
		sp.State |= SignalBit(td)
	} else {
		sp.State &^= SignalBit(td)
	}
}

// SetSignals replaces the signals of one track. present is a mask of SignalAlong and
// SignalAgainst; zero removes the signals. New faces start green.
func (m *Map) SetSignals(t TileIndex, track Track, present uint8, s SignalType, v SignalVariant) {
	assert(track.IsValid(), "SetSignals with track %d", track)
	assert(present&^SignalBoth == 0, "SetSignals with present bits %#x", present)
	r := m.railTrack(t)
	assert(present == 0 || r.Tracks.Has(track), "signal on missing track %v of %s", track, m.Coord(t))
	old := r.Signals[track]
	if present == 0 {
		r.Signals[track] = SignalPair{}
		return
	}
	r.Signals[track] = SignalPair{
		Present: present,
		State:   (old.State & old.Present & present) | (present &^ old.Present),
		Type:    s,
		Variant: v,
	}
}

// SignalledTracks lists the tracks of t carrying a signal.
func (m *Map) SignalledTracks(t TileIndex) TrackBits {
	var b TrackBits
	r := m.railTrack(t)
	for tr := TrackX; tr < TrackEnd; tr++ {
		if r.Signals[tr].Present != 0 {
			b |= tr.Bits()
		}
	}
	return b
}
