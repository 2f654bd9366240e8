// Package osmrail lays OpenStreetMap railways onto a map: tracks from railway ways, then
// stations, level crossings and signals from their nodes.
package osmrail

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/zyedidia/generic/mapset"

	"ttdrail/rail"
	"ttdrail/ttd"
)

const (
	tagRailway         = "railway"
	tagSignalDirection = "railway:signal:direction"
	tagSignalFunction  = "railway:signal:main:function"
	tagSignalForm      = "railway:signal:main:form"
)

type Stats struct {
	Ways      int
	Tiles     int
	Signals   int
	Stations  int
	Crossings int
	Skipped   int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d ways over %d tiles, %d signals, %d stations, %d crossings, %d skipped",
		s.Ways, s.Tiles, s.Signals, s.Stations, s.Crossings, s.Skipped)
}

// placement is where a way crosses one of its nodes.
type placement struct {
	tile ttd.TileIndex
	dir  ttd.Trackdir
}

type Importer struct {
	cfg    Config
	build  *rail.Builder
	bound  orb.Bound
	origin orb.Point
	log    *log.Logger

	nodes  map[osm.NodeID]*osm.Node
	ways   []*osm.Way
	placed map[osm.NodeID][]placement
	laid   mapset.Set[ttd.TileIndex]
	stats  Stats
}

// New prepares an import of the area centred on lat, lon. The builder's map must be
// cfg.MapSize tiles on each side.
func New(cfg Config, b *rail.Builder, lat, lon float64, logger *log.Logger) (*Importer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.Map.SizeX() != cfg.MapSize || b.Map.SizeY() != cfg.MapSize {
		return nil, fmt.Errorf("map is %dx%d, config wants %d", b.Map.SizeX(), b.Map.SizeY(), cfg.MapSize)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	half := cfg.Size / 2
	return &Importer{
		cfg:    cfg,
		build:  b,
		bound:  orb.Bound{Min: orb.Point{lon - half, lat - half}, Max: orb.Point{lon + half, lat + half}},
		origin: orb.Point{lon - half, lat - half},
		log:    logger,
		nodes:  make(map[osm.NodeID]*osm.Node),
		placed: make(map[osm.NodeID][]placement),
		laid:   mapset.New[ttd.TileIndex](),
	}, nil
}

func tag(ts osm.Tags, key string) string {
	for _, t := range ts {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

// Add takes the next object of an extract. Nodes must come before the ways using them.
func (im *Importer) Add(o osm.Object) {
	switch v := o.(type) {
	case *osm.Node:
		im.nodes[v.ID] = v
	case *osm.Way:
		if v.Visible && slices.Contains(im.cfg.Railways, tag(v.Tags, tagRailway)) {
			im.ways = append(im.ways, v)
		}
	}
}

func (im *Importer) inside(n *osm.Node) bool {
	return im.bound.Contains(orb.Point{n.Lon, n.Lat})
}

// toPoint maps a coordinate onto the buildable part of the map. x falls with longitude and y
// with latitude.
func (im *Importer) toPoint(n *osm.Node) point {
	size := float64(im.cfg.MapSize)
	clamp := func(v int) int {
		return max(1, min(im.cfg.MapSize-2, v))
	}
	x := int(size - 1 - (n.Lon-im.origin[0])/im.cfg.Size*size)
	y := int(size - 1 - (n.Lat-im.origin[1])/im.cfg.Size*size)
	return point{x: clamp(x), y: clamp(y)}
}

// Build lays everything collected so far.
func (im *Importer) Build() Stats {
	for _, w := range im.ways {
		im.layWay(w)
	}
	im.stats.Tiles = im.laid.Size()
	// node order keeps station ids and the log the same from run to run
	ids := slices.Sorted(maps.Keys(im.placed))
	for _, id := range ids {
		n := im.nodes[id]
		switch v := tag(n.Tags, tagRailway); {
		case slices.Contains(im.cfg.Stations, v):
			im.buildStation(n, im.placed[id])
		case slices.Contains(im.cfg.Crossings, v):
			im.buildCrossing(n, im.placed[id])
		}
	}
	for _, id := range ids {
		if n := im.nodes[id]; tag(n.Tags, tagRailway) == "signal" {
			im.buildSignal(n, im.placed[id])
		}
	}
	return im.stats
}

func (im *Importer) owner() ttd.Owner {
	return ttd.Owner(im.cfg.Owner)
}

func (im *Importer) layWay(w *osm.Way) {
	var path []point
	at := make(map[int][]osm.NodeID) // way nodes by path index
	flush := func() {
		ps := pieces(path)
		byPoint := make(map[point]ttd.Trackdir, len(ps))
		for _, pc := range ps {
			byPoint[pc.at] = pc.dir
			t := im.build.Map.TileXY(pc.at.x, pc.at.y)
			if err := im.layTrack(t, pc.dir.Track()); err != nil {
				im.log.Printf("way %d: %v", w.ID, err)
				im.stats.Skipped++
				continue
			}
			im.laid.Put(t)
		}
		for _, i := range slices.Sorted(maps.Keys(at)) {
			ids := at[i]
			td, ok := byPoint[path[i]]
			if !ok {
				continue
			}
			t := im.build.Map.TileXY(path[i].x, path[i].y)
			for _, id := range ids {
				im.placed[id] = append(im.placed[id], placement{tile: t, dir: td})
			}
		}
		path = nil
		clear(at)
	}

	for _, wn := range w.Nodes {
		n, ok := im.nodes[wn.ID]
		if !ok || !im.inside(n) {
			flush()
			continue
		}
		p := im.toPoint(n)
		switch {
		case len(path) == 0:
			path = append(path, p)
		case path[len(path)-1] != p:
			path = append(path, line(path[len(path)-1], p)[1:]...)
		}
		at[len(path)-1] = append(at[len(path)-1], n.ID)
	}
	flush()
	im.stats.Ways++
}

// layTrack builds a track unless it is already there, as where ways share nodes.
func (im *Importer) layTrack(t ttd.TileIndex, track ttd.Track) error {
	m := im.build.Map
	if m.IsPlainRail(t) && m.TrackBits(t).Has(track) {
		return nil
	}
	return im.build.BuildTrack(t, im.owner(), track, ttd.RailType(im.cfg.RailType))
}

func (im *Importer) buildStation(n *osm.Node, ps []placement) {
	for _, p := range ps {
		err := im.build.BuildStation(p.tile, im.owner(), uint16(im.stats.Stations))
		if err != nil {
			im.log.Printf("station %d: %v", n.ID, err)
			im.stats.Skipped++
			continue
		}
		im.stats.Stations++
		return
	}
}

func (im *Importer) buildCrossing(n *osm.Node, ps []placement) {
	for _, p := range ps {
		if err := im.build.BuildLevelCrossing(p.tile, im.owner(), ttd.OwnerNone); err != nil {
			im.log.Printf("level crossing %d: %v", n.ID, err)
			im.stats.Skipped++
			continue
		}
		im.stats.Crossings++
		return
	}
}

func (im *Importer) buildSignal(n *osm.Node, ps []placement) {
	typ := im.cfg.signalType(tag(n.Tags, tagSignalFunction))
	variant := ttd.SignalElectric
	if slices.Contains(im.cfg.SemaphoreForms, tag(n.Tags, tagSignalForm)) {
		variant = ttd.SignalSemaphore
	}
	for _, p := range ps {
		var present uint8
		switch tag(n.Tags, tagSignalDirection) {
		case "backward":
			present = ttd.SignalBit(p.dir.Reverse())
		case "both":
			present = ttd.SignalBoth
		default:
			present = ttd.SignalBit(p.dir)
		}
		_, err := im.build.BuildSignal(p.tile, im.owner(), p.dir.Track(), present, typ, variant)
		if err != nil {
			if !errors.Is(err, rail.ErrNoTrack) {
				im.log.Printf("signal %d: %v", n.ID, err)
			}
			im.stats.Skipped++
			continue
		}
		im.stats.Signals++
		return
	}
}
