// Package scoring turns crime records into model-ready feature vectors and
// model outputs into categorized safety scores. It also serves crime trends
// and the state leaderboard.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/nmehra/safescore/internal/dataset"
	"github.com/nmehra/safescore/internal/logging"
	"github.com/nmehra/safescore/internal/metrics"
	"github.com/nmehra/safescore/internal/predictor"
	"github.com/nmehra/safescore/internal/traces"
)

// The three semantic error kinds callers branch on.
var (
	// ErrNotFound indicates no matching record(s) for a lookup.
	ErrNotFound = errors.New("scoring: not found")
	// ErrInvalidInput indicates caller-supplied data failed a business rule.
	ErrInvalidInput = errors.New("scoring: invalid input")
	// ErrPredictor indicates the model failed. Deterministic model, same
	// input, same outcome: never retried.
	ErrPredictor = errors.New("scoring: prediction failed")
)

// ScoreResult is a served prediction: the safety score rounded to two
// decimal places and its risk level.
type ScoreResult struct {
	Score float64   `json:"safety_score"`
	Risk  RiskLevel `json:"risk_level"`
}

// TrendPoint is one year's value for a single crime category.
type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// LeaderboardEntry ranks one state by its mean total crime count.
type LeaderboardEntry struct {
	State string  `json:"state"`
	Score float64 `json:"score"`
}

// SimulationInput carries caller-supplied crime counts for what-if scoring.
type SimulationInput struct {
	Year             int
	Rape             int
	Kidnapping       int
	DowryDeaths      int
	AssaultOnWomen   int
	AssaultOnMinors  int
	DomesticViolence int
	Trafficking      int
}

func (in SimulationInput) counts() [dataset.NumCrimes]int {
	return [dataset.NumCrimes]int{
		in.Rape,
		in.Kidnapping,
		in.DowryDeaths,
		in.AssaultOnWomen,
		in.AssaultOnMinors,
		in.DomesticViolence,
		in.Trafficking,
	}
}

// Service is the feature/scoring layer over the dataset store and the
// predictor. Stateless per call; safe for concurrent use. Logging goes
// through the request context so entries carry the request ID.
type Service struct {
	store *dataset.Store
	model predictor.Predictor
}

// NewService creates a scoring service.
func NewService(store *dataset.Store, model predictor.Predictor) *Service {
	return &Service{store: store, model: model}
}

// ScoreStateYear predicts the safety score for a state and year from the
// historical record. Returns ErrNotFound when the pair is not in the
// dataset.
func (s *Service) ScoreStateYear(ctx context.Context, state string, year int) (*ScoreResult, error) {
	ctx, span := traces.StartSpan(ctx, "scoring.ScoreStateYear",
		traces.State(state), traces.Year(year))
	defer span.End()

	rec, err := s.store.LookupByStateYear(state, year)
	if err != nil {
		return nil, fmt.Errorf("no data found for state %q and year %d: %w", state, year, ErrNotFound)
	}

	return s.ScoreFromRecord(ctx, rec)
}

// ScoreFromRecord builds the feature vector from a record's stored counts
// and precomputed ratios and runs the prediction pipeline.
func (s *Service) ScoreFromRecord(ctx context.Context, rec *dataset.CrimeRecord) (*ScoreResult, error) {
	return s.predict(ctx, featureVector(rec.Year, rec.Counts(), rec.Ratios))
}

// Simulate predicts a safety score from caller-supplied crime counts.
// All-zero counts are rejected: the crime ratios would be undefined.
// This path never touches the dataset store.
func (s *Service) Simulate(ctx context.Context, in SimulationInput) (*ScoreResult, error) {
	ctx, span := traces.StartSpan(ctx, "scoring.Simulate", traces.Year(in.Year))
	defer span.End()

	counts := in.counts()
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, fmt.Errorf("at least one crime count must be greater than 0: %w", ErrInvalidInput)
	}

	var ratios [dataset.NumCrimes]float64
	for i, c := range counts {
		ratios[i] = float64(c) / float64(total)
	}

	return s.predict(ctx, featureVector(in.Year, counts, ratios))
}

// Trend returns the per-year values of one crime category for a state,
// sorted ascending by year.
func (s *Service) Trend(ctx context.Context, state, crime string) ([]TrendPoint, error) {
	_, span := traces.StartSpan(ctx, "scoring.Trend",
		traces.State(state), traces.Crime(crime))
	defer span.End()

	if !dataset.IsCrimeKey(crime) {
		return nil, fmt.Errorf("invalid crime type %q: %w", crime, ErrInvalidInput)
	}

	recs, err := s.store.LookupByState(state)
	if err != nil {
		return nil, fmt.Errorf("no data found for state %q: %w", state, ErrNotFound)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Year < recs[j].Year })

	points := make([]TrendPoint, 0, len(recs))
	for _, rec := range recs {
		v, _ := rec.CountFor(crime)
		points = append(points, TrendPoint{Year: rec.Year, Value: float64(v)})
	}

	return points, nil
}

// Leaderboard ranks states by mean total crime count, ascending (lowest
// total = safest first). A year of 0 means no year filter.
func (s *Service) Leaderboard(ctx context.Context, year int) ([]LeaderboardEntry, error) {
	_, span := traces.StartSpan(ctx, "scoring.Leaderboard", traces.Year(year))
	defer span.End()

	agg, err := s.store.AggregateTotalByState(year)
	if err != nil {
		return nil, fmt.Errorf("no data found for year %d: %w", year, ErrNotFound)
	}

	entries := make([]LeaderboardEntry, 0, len(agg))
	for _, e := range agg {
		entries = append(entries, LeaderboardEntry{State: e.State, Score: round2(e.MeanTotal)})
	}

	return entries, nil
}

// predict runs the model and classifies the rounded score. Classification
// happens after rounding so the served risk level always agrees with the
// served score.
func (s *Service) predict(ctx context.Context, features predictor.FeatureVector) (*ScoreResult, error) {
	start := time.Now()

	raw, err := s.model.Predict(features)
	if err != nil {
		metrics.PredictionFailuresTotal.Inc()
		logging.L(ctx).Error("predictor failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPredictor, err)
	}

	score := round2(raw)
	risk := Classify(score)
	metrics.ObservePrediction(string(risk), time.Since(start))

	trace.SpanFromContext(ctx).SetAttributes(
		traces.Score(score), traces.RiskLevel(string(risk)))

	return &ScoreResult{Score: score, Risk: risk}, nil
}

// featureVector assembles the 15-field model input: year, the seven raw
// counts, then the seven ratios. The ordering is the model contract and
// must match training exactly.
func featureVector(year int, counts [dataset.NumCrimes]int, ratios [dataset.NumCrimes]float64) predictor.FeatureVector {
	var f predictor.FeatureVector
	f[0] = float64(year)
	for i := 0; i < dataset.NumCrimes; i++ {
		f[1+i] = float64(counts[i])
		f[1+dataset.NumCrimes+i] = ratios[i]
	}
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
