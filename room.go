package bramble

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// RoomVersion is the only room file version this package reads.
const RoomVersion = 1

// Spawn places an entity of the given kind when a room is entered. X and Y
// are in tiles.
type Spawn struct {
	Kind string
	X, Y float32
}

// Room is a tile grid plus its spawn points.
//
// File layout:
//
//	VERSION 1
//	<name>
//	<width> <height>
//	<height lines of width tile ids, 0 = empty, n = tileset tile n-1>
//	SPAWN <kind> <x> <y>   (optional, repeated)
//
// Blank lines and lines starting with # are ignored after the header.
type Room struct {
	Name          string
	Width, Height int
	// Tiles is row-major, Width*Height entries.
	Tiles  []int
	Spawns []Spawn
}

// Tile returns the tile id at (x, y), or 0 outside the grid.
func (r *Room) Tile(x, y int) int {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0
	}
	return r.Tiles[y*r.Width+x]
}

type roomParser struct {
	path string
	line int
	sc   *bufio.Scanner
}

func (p *roomParser) errorf(format string, args ...any) error {
	return eris.Errorf("bramble: room %s line %d: %s", p.path, p.line, eris.Errorf(format, args...).Error())
}

// next returns the next line. Header lines are returned as-is; body lines
// skip blanks and comments.
func (p *roomParser) next(body bool) (string, bool) {
	for p.sc.Scan() {
		p.line++
		line := strings.TrimSpace(p.sc.Text())
		if body && (line == "" || strings.HasPrefix(line, "#")) {
			continue
		}
		return line, true
	}
	return "", false
}

// ParseRoom parses room data. path is only used in error messages.
func ParseRoom(path string, data []byte) (*Room, error) {
	p := &roomParser{path: path, sc: bufio.NewScanner(bytes.NewReader(data))}
	p.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, ok := p.next(false)
	if !ok {
		return nil, eris.Errorf("bramble: room %s is empty", path)
	}
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "VERSION" {
		return nil, p.errorf("want \"VERSION <n>\", got %q", line)
	}
	version, err := strconv.Atoi(fields[1])
	if err != nil || version != RoomVersion {
		return nil, p.errorf("unsupported version %q, want %d", fields[1], RoomVersion)
	}

	room := &Room{}
	if room.Name, ok = p.next(false); !ok || room.Name == "" {
		return nil, p.errorf("missing room name")
	}

	line, ok = p.next(false)
	if !ok {
		return nil, p.errorf("missing room size")
	}
	fields = strings.Fields(line)
	if len(fields) != 2 {
		return nil, p.errorf("want \"<width> <height>\", got %q", line)
	}
	room.Width, err = strconv.Atoi(fields[0])
	if err != nil || room.Width <= 0 {
		return nil, p.errorf("bad width %q", fields[0])
	}
	room.Height, err = strconv.Atoi(fields[1])
	if err != nil || room.Height <= 0 {
		return nil, p.errorf("bad height %q", fields[1])
	}

	room.Tiles = make([]int, 0, room.Width*room.Height)
	for row := 0; row < room.Height; row++ {
		line, ok = p.next(true)
		if !ok {
			return nil, p.errorf("want %d tile rows, got %d", room.Height, row)
		}
		cols := strings.Fields(line)
		if len(cols) != room.Width {
			return nil, p.errorf("tile row %d has %d entries, want %d", row, len(cols), room.Width)
		}
		for _, c := range cols {
			id, err := strconv.Atoi(c)
			if err != nil || id < 0 {
				return nil, p.errorf("bad tile id %q", c)
			}
			room.Tiles = append(room.Tiles, id)
		}
	}

	for {
		line, ok = p.next(true)
		if !ok {
			break
		}
		fields = strings.Fields(line)
		if fields[0] != "SPAWN" || len(fields) != 4 {
			return nil, p.errorf("want \"SPAWN <kind> <x> <y>\", got %q", line)
		}
		x, errX := strconv.ParseFloat(fields[2], 32)
		y, errY := strconv.ParseFloat(fields[3], 32)
		if errX != nil || errY != nil {
			return nil, p.errorf("bad spawn position %q %q", fields[2], fields[3])
		}
		room.Spawns = append(room.Spawns, Spawn{Kind: fields[1], X: float32(x), Y: float32(y)})
	}
	if err := p.sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "bramble: error reading room %s", path)
	}
	return room, nil
}

// loadRoom is the loader for .room files.
func (a *Assets) loadRoom(path, name string, data []byte) error {
	room, err := ParseRoom(path, data)
	if err != nil {
		return err
	}
	_, err = a.Rooms.Register(name, room)
	return err
}
