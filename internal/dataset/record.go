// Package dataset holds the crime table in memory.
//
// The table is loaded once at startup from a CSV source and never mutated
// afterward, which makes every query safe for unrestricted concurrent reads
// without locking. Rows are indexed by (state, year) for point lookups and
// by state for range queries.
package dataset

// NumCrimes is the number of tracked crime categories.
const NumCrimes = 7

// CrimeKeys lists the seven tracked crime categories in model feature order.
// The short keys match the source CSV columns: kidnapping & abduction (K&A),
// dowry deaths (DD), assault on women (AoW), assault on minors (AoM),
// domestic violence (DV), and women trafficking (WT).
var CrimeKeys = []string{"Rape", "K&A", "DD", "AoW", "AoM", "DV", "WT"}

// IsCrimeKey reports whether key names one of the tracked crime categories.
func IsCrimeKey(key string) bool {
	for _, k := range CrimeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CrimeRecord is one row of the crime table: reported case counts for a
// single state and year, plus fields derived at load time.
type CrimeRecord struct {
	State string
	Year  int

	// Raw case counts from the source.
	Rape             int
	Kidnapping       int
	DowryDeaths      int
	AssaultOnWomen   int
	AssaultOnMinors  int
	DomesticViolence int
	Trafficking      int

	// Derived at load time, immutable thereafter.
	Total  int
	Ratios [NumCrimes]float64 // count/Total per category, CrimeKeys order
}

// Counts returns the raw counts in CrimeKeys order.
func (r *CrimeRecord) Counts() [NumCrimes]int {
	return [NumCrimes]int{
		r.Rape,
		r.Kidnapping,
		r.DowryDeaths,
		r.AssaultOnWomen,
		r.AssaultOnMinors,
		r.DomesticViolence,
		r.Trafficking,
	}
}

// CountFor returns the raw count for a crime key, or false for an
// unrecognized key.
func (r *CrimeRecord) CountFor(key string) (int, bool) {
	counts := r.Counts()
	for i, k := range CrimeKeys {
		if k == key {
			return counts[i], true
		}
	}
	return 0, false
}

// derive computes Total and the per-category ratios. The source data is
// assumed to never contain an all-zero row; if one appears the ratios stay
// zero rather than NaN.
func (r *CrimeRecord) derive() {
	counts := r.Counts()
	r.Total = 0
	for _, c := range counts {
		r.Total += c
	}
	if r.Total == 0 {
		return
	}
	for i, c := range counts {
		r.Ratios[i] = float64(c) / float64(r.Total)
	}
}
