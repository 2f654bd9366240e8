package osmrail

import "ttdrail/ttd"

type point struct {
	x, y int
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// line walks the grid from a to b one axis step at a time, both ends included.
func line(a, b point) []point {
	dx, dy := abs(b.x-a.x), abs(b.y-a.y)
	sx, sy := 1, 1
	if b.x < a.x {
		sx = -1
	}
	if b.y < a.y {
		sy = -1
	}
	out := []point{a}
	p := a
	for ix, iy := 0, 0; ix < dx || iy < dy; {
		if (1+2*ix)*dy < (1+2*iy)*dx {
			p.x += sx
			ix++
		} else {
			p.y += sy
			iy++
		}
		out = append(out, p)
	}
	return out
}

// dirTo returns the side of a facing its neighbour b.
func dirTo(a, b point) ttd.DiagDirection {
	switch {
	case b.x == a.x-1 && b.y == a.y:
		return ttd.DiagDirNE
	case b.x == a.x+1 && b.y == a.y:
		return ttd.DiagDirSW
	case b.y == a.y+1 && b.x == a.x:
		return ttd.DiagDirSE
	case b.y == a.y-1 && b.x == a.x:
		return ttd.DiagDirNW
	}
	return ttd.InvalidDiagDir
}

// piece is the track a path lays on one tile, and the direction the path runs along it.
type piece struct {
	at  point
	dir ttd.Trackdir
}

// pieces turns a 4-connected path into track pieces. Ends continue straight; tiles where the
// path doubles back get no piece.
func pieces(path []point) []piece {
	if len(path) < 2 {
		return nil
	}
	var out []piece
	for i, p := range path {
		var enter, exit ttd.DiagDirection
		switch i {
		case 0:
			exit = dirTo(p, path[1])
			enter = exit.Reverse()
		case len(path) - 1:
			enter = dirTo(p, path[i-1])
			exit = enter.Reverse()
		default:
			enter = dirTo(p, path[i-1])
			exit = dirTo(p, path[i+1])
		}
		tr := ttd.TrackBetween(enter, exit)
		if !tr.IsValid() {
			continue
		}
		out = append(out, piece{at: p, dir: ttd.TrackdirFrom(tr, enter)})
	}
	return out
}
