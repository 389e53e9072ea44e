package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indicates a lookup matched no records.
	ErrNotFound = errors.New("dataset: no matching records")
)

// requiredColumns are the CSV columns the source must provide. Extra columns
// (such as a leading unnamed index) are ignored.
var requiredColumns = append([]string{"State", "Year"}, CrimeKeys...)

type stateYear struct {
	state string
	year  int
}

// Store is the in-memory crime table. Construct it with Load or Parse;
// it is read-only afterward.
type Store struct {
	records     []*CrimeRecord
	byStateYear map[stateYear]*CrimeRecord
	byState     map[string][]*CrimeRecord
}

// StateMeanTotal is one leaderboard aggregate: a state and its mean total
// crime count across the selected rows.
type StateMeanTotal struct {
	State     string
	MeanTotal float64
}

// Load reads the crime table from a CSV file. A missing file or missing
// required column is a startup failure; the process must not serve without
// the dataset.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse reads the crime table from CSV content. The first row is the
// header; columns are matched by name so column order does not matter.
func Parse(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	s := &Store{
		byStateYear: make(map[stateYear]*CrimeRecord),
		byState:     make(map[string][]*CrimeRecord),
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec.derive()

		s.records = append(s.records, rec)
		s.byStateYear[stateYear{rec.State, rec.Year}] = rec
		s.byState[rec.State] = append(s.byState[rec.State], rec)
	}

	if len(s.records) == 0 {
		return nil, errors.New("no data rows")
	}

	return s, nil
}

func parseRecord(row []string, cols map[string]int) (*CrimeRecord, error) {
	field := func(name string) (string, error) {
		i := cols[name]
		if i >= len(row) {
			return "", fmt.Errorf("short row: no %q field", name)
		}
		return strings.TrimSpace(row[i]), nil
	}

	intField := func(name string) (int, error) {
		raw, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("column %q: negative count %d", name, v)
		}
		return v, nil
	}

	state, err := field("State")
	if err != nil {
		return nil, err
	}
	if state == "" {
		return nil, errors.New("empty State")
	}

	year, err := intField("Year")
	if err != nil {
		return nil, err
	}

	rec := &CrimeRecord{State: state, Year: year}
	dst := []*int{
		&rec.Rape,
		&rec.Kidnapping,
		&rec.DowryDeaths,
		&rec.AssaultOnWomen,
		&rec.AssaultOnMinors,
		&rec.DomesticViolence,
		&rec.Trafficking,
	}
	for i, key := range CrimeKeys {
		v, err := intField(key)
		if err != nil {
			return nil, err
		}
		*dst[i] = v
	}

	return rec, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns all loaded records in source order.
func (s *Store) Records() []*CrimeRecord {
	out := make([]*CrimeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// LookupByStateYear returns the single record matching both fields.
// State comparison is exact: callers supply canonical state names.
func (s *Store) LookupByStateYear(state string, year int) (*CrimeRecord, error) {
	rec, ok := s.byStateYear[stateYear{state, year}]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// LookupByState returns all records for a state in stored order. Callers
// needing chronological order must sort by year themselves.
func (s *Store) LookupByState(state string) ([]*CrimeRecord, error) {
	recs, ok := s.byState[state]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]*CrimeRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// AggregateTotalByState groups records by state and computes the mean Total
// per group, sorted ascending by mean (lower total crime = safer, so the
// leaderboard reads safest-first). A year of 0 means no year filter; the
// observed data starts at 2001 so 0 never collides with a real year.
func (s *Store) AggregateTotalByState(year int) ([]StateMeanTotal, error) {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, rec := range s.records {
		if year != 0 && rec.Year != year {
			continue
		}
		sums[rec.State] += rec.Total
		counts[rec.State]++
	}

	if len(sums) == 0 {
		return nil, ErrNotFound
	}

	out := make([]StateMeanTotal, 0, len(sums))
	for state, sum := range sums {
		out = append(out, StateMeanTotal{
			State:     state,
			MeanTotal: float64(sum) / float64(counts[state]),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanTotal != out[j].MeanTotal {
			return out[i].MeanTotal < out[j].MeanTotal
		}
		return out[i].State < out[j].State
	})

	return out, nil
}
