package movement_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		m       movement.Movement
		wantErr bool
	}{
		{"ok", movement.Movement{Source: "A", Destination: "B", Day: 3}, false},
		{"day zero", movement.Movement{Source: "A", Destination: "B", Day: 0}, false},
		{"self movement", movement.Movement{Source: "A", Destination: "A", Day: 1}, true},
		{"negative day", movement.Movement{Source: "A", Destination: "B", Day: -1}, true},
		{"empty source", movement.Movement{Destination: "B", Day: 1}, true},
		{"empty destination", movement.Movement{Source: "A", Day: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := movement.Validate(tc.m)
			if tc.wantErr {
				if !errors.Is(err, movement.ErrMalformedRecord) {
					t.Fatalf("expected ErrMalformedRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewSet_RejectsMalformed(t *testing.T) {
	_, err := movement.NewSet([]movement.Movement{
		{Source: "A", Destination: "B", Day: 1},
		{Source: "C", Destination: "C", Day: 2},
	})
	if !errors.Is(err, movement.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestSet_SpanNodesByDay(t *testing.T) {
	set, err := movement.NewSet([]movement.Movement{
		{Source: "B", Destination: "C", Day: 7},
		{Source: "A", Destination: "B", Day: 2},
		{Source: "A", Destination: "C", Day: 2},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	span, ok := set.Span()
	if !ok || span.Min != 2 || span.Max != 7 {
		t.Errorf("expected span [2,7], got %+v ok=%v", span, ok)
	}
	if span.Days() != 6 {
		t.Errorf("expected 6 days, got %d", span.Days())
	}

	nodes := set.Nodes()
	if len(nodes) != 3 || nodes[0] != "A" || nodes[2] != "C" {
		t.Errorf("unexpected nodes %v", nodes)
	}

	byDay := set.ByDay()
	if len(byDay[2]) != 2 || len(byDay[7]) != 1 {
		t.Errorf("unexpected grouping %v", byDay)
	}

	if w := set.Window(0, 7); w.Len() != 2 {
		t.Errorf("expected 2 movements before day 7, got %d", w.Len())
	}
}

func TestSet_EmptySpan(t *testing.T) {
	set, err := movement.NewSet(nil)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	if _, ok := set.Span(); ok {
		t.Error("empty set must not report a span")
	}
}

func TestRead(t *testing.T) {
	in := `# source,destination,day
1,2,0
2,3,4
3,3,5
 4 , 1 , 9
`
	set, stats, err := movement.Read(strings.NewReader(in), movement.ReadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 movements, got %d", set.Len())
	}
	if stats.Records != 4 || stats.SelfMovements != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	last := set.Movements()[2]
	if last.Source != "4" || last.Destination != "1" || last.Day != 9 {
		t.Errorf("fields were not trimmed: %+v", last)
	}
}

func TestRead_HeaderAndComma(t *testing.T) {
	in := "src;dst;day\nfarmA;farmB;3\n"
	set, _, err := movement.Read(strings.NewReader(in), movement.ReadOptions{Comma: ';', Header: true})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if set.Len() != 1 || set.Movements()[0].Source != "farmA" {
		t.Errorf("unexpected movements %v", set.Movements())
	}
}

func TestRead_Malformed(t *testing.T) {
	cases := map[string]string{
		"bad day":      "1,2,x\n",
		"negative day": "1,2,-3\n",
		"short record": "1,2\n",
		"empty source": ",2,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := movement.Read(strings.NewReader("5,6,1\n"+in), movement.ReadOptions{})
			if !errors.Is(err, movement.ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
			var re *movement.RecordError
			if errors.As(err, &re) && re.Line != 2 {
				t.Errorf("expected line 2, got %d", re.Line)
			}
		})
	}
}

func TestReadLocations(t *testing.T) {
	locs, err := movement.ReadLocations(strings.NewReader("1,0.25,0.5\n2,1,0\n"), movement.ReadOptions{})
	if err != nil {
		t.Fatalf("ReadLocations: %v", err)
	}
	if got := locs["1"]; got.X != 0.25 || got.Y != 0.5 {
		t.Errorf("unexpected location %+v", got)
	}
	if _, err := movement.ReadLocations(strings.NewReader("1,a,0\n"), movement.ReadOptions{}); !errors.Is(err, movement.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movements.csv")
	if err := os.WriteFile(path, []byte("1,2,0\n2,3,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, _, err := movement.ReadFile(path, movement.ReadOptions{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("expected 2 movements, got %d", set.Len())
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if set, _, err := movement.ReadFile(empty, movement.ReadOptions{}); err != nil || set.Len() != 0 {
		t.Errorf("empty file: got %v, %v", set, err)
	}

	if _, _, err := movement.ReadFile(filepath.Join(dir, "missing.csv"), movement.ReadOptions{}); err == nil {
		t.Error("expected error for a missing file")
	}
}
