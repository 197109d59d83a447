package movement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"
)

// ReadOptions controls how delimited movement and location files are parsed.
type ReadOptions struct {
	Comma  rune // defaults to ','
	Header bool // skip the first record
}

// LoadStats describes what a read kept and what it dropped.
type LoadStats struct {
	Records       int `json:"records"`
	SelfMovements int `json:"self_movements"`
}

// Location is the planar coordinate of a premise.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func newCSVReader(r io.Reader, opts ReadOptions) *csv.Reader {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// Read parses source,destination,day records. Self-movements are dropped and
// counted; any other bad record aborts the read.
func Read(r io.Reader, opts ReadOptions) (*Set, LoadStats, error) {
	var stats LoadStats
	cr := newCSVReader(r, opts)
	var out []Movement
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if first && opts.Header {
			first = false
			continue
		}
		first = false
		stats.Records++

		if len(rec) != 3 {
			return nil, stats, malformedf(line, "expected 3 fields, got %d", len(rec))
		}
		src := NodeID(strings.TrimSpace(rec[0]))
		dst := NodeID(strings.TrimSpace(rec[1]))
		day, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, stats, malformedf(line, "day %q is not an integer", rec[2])
		}
		m := Movement{Source: src, Destination: dst, Day: day}
		if src == dst && src != "" {
			stats.SelfMovements++
			continue
		}
		if err := Validate(m); err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Line = line
			}
			return nil, stats, err
		}
		out = append(out, m)
	}
	return &Set{movements: out}, stats, nil
}

// ReadFile maps path into memory and calls Read.
func ReadFile(path string, opts ReadOptions) (*Set, LoadStats, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open movements %s: %w", path, err)
	}
	defer f.Close()
	set, stats, err := Read(io.NewSectionReader(f, 0, int64(f.Len())), opts)
	if err != nil {
		return nil, stats, fmt.Errorf("read movements %s: %w", path, err)
	}
	return set, stats, nil
}

// ReadLocations parses id,x,y records.
func ReadLocations(r io.Reader, opts ReadOptions) (map[NodeID]Location, error) {
	cr := newCSVReader(r, opts)
	out := make(map[NodeID]Location)
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if first && opts.Header {
			first = false
			continue
		}
		first = false

		if len(rec) != 3 {
			return nil, malformedf(line, "expected 3 location fields, got %d", len(rec))
		}
		id := NodeID(strings.TrimSpace(rec[0]))
		if id == "" {
			return nil, malformedf(line, "empty premise id")
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, malformedf(line, "x %q is not a number", rec[1])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, malformedf(line, "y %q is not a number", rec[2])
		}
		out[id] = Location{X: x, Y: y}
	}
	return out, nil
}

// ReadLocationsFile maps path into memory and calls ReadLocations.
func ReadLocationsFile(path string, opts ReadOptions) (map[NodeID]Location, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locations %s: %w", path, err)
	}
	defer f.Close()
	locs, err := ReadLocations(io.NewSectionReader(f, 0, int64(f.Len())), opts)
	if err != nil {
		return nil, fmt.Errorf("read locations %s: %w", path, err)
	}
	return locs, nil
}
