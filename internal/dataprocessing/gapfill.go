package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"vacancycli/internal/errors"
	"vacancycli/pkg/contracts/domain"
)

// GapFiller aligns a profession's year buckets with the years of the full
// dataset, inserting empty buckets for years the profession never appears in.
type GapFiller struct {
	logger *slog.Logger
}

// NewGapFiller creates a new gap filler
func NewGapFiller(logger *slog.Logger) *GapFiller {
	if logger == nil {
		logger = slog.Default()
	}
	return &GapFiller{logger: logger}
}

// FillMissingYears returns one bucket per reference year in ascending order.
// Years present in filtered keep their bucket, the rest get a placeholder.
// Filtered buckets whose year is not a reference year follow the aligned ones
// unchanged. Running the result through again yields the same sequence.
func (g *GapFiller) FillMissingYears(ctx context.Context, reference, filtered []*domain.Bucket) ([]*domain.Bucket, error) {
	out, _, err := g.FillMissingYearsWithStats(ctx, reference, filtered)
	return out, err
}

// FillMissingYearsWithStats fills gaps and reports what changed
func (g *GapFiller) FillMissingYearsWithStats(ctx context.Context, reference, filtered []*domain.Bucket) ([]*domain.Bucket, GapFillStatistics, error) {
	var stats GapFillStatistics

	years, keys, err := referenceYears(reference)
	if err != nil {
		return nil, stats, err
	}
	stats.ReferenceYears = len(years)

	positions := make(map[int]int, len(years))
	for i, y := range years {
		positions[y] = i
	}

	aligned := make([]*domain.Bucket, len(years))
	var extras []*domain.Bucket
	for _, b := range filtered {
		year, err := parseYear(b.Key)
		if err != nil {
			return nil, stats, err
		}
		pos, ok := positions[year]
		if !ok || aligned[pos] != nil {
			extras = append(extras, b)
			continue
		}
		aligned[pos] = b
		stats.PlacedYears++
	}

	for i := range aligned {
		if aligned[i] == nil {
			aligned[i] = domain.NewEmptyBucket(keys[i])
			stats.FilledYears++
		}
	}
	stats.OutOfRange = len(extras)

	if stats.OutOfRange > 0 {
		g.logger.WarnContext(ctx, "profession years outside dataset range",
			slog.Int("count", stats.OutOfRange))
	}
	g.logger.DebugContext(ctx, "year gaps filled",
		slog.Int("reference_years", stats.ReferenceYears),
		slog.Int("filled", stats.FilledYears))

	return append(aligned, extras...), stats, nil
}

// referenceYears returns the distinct reference years ascending with their original keys
func referenceYears(reference []*domain.Bucket) ([]int, []string, error) {
	seen := make(map[int]string, len(reference))
	years := make([]int, 0, len(reference))
	for _, b := range reference {
		y, err := parseYear(b.Key)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = b.Key
		years = append(years, y)
	}
	sort.Ints(years)

	keys := make([]string, len(years))
	for i, y := range years {
		keys[i] = seen[y]
	}
	return years, keys, nil
}

func parseYear(key string) (int, error) {
	y, err := strconv.Atoi(key)
	if err != nil {
		return 0, errors.NewParsingError(fmt.Sprintf("year key %q is not numeric", key), err).
			WithContext("key", key)
	}
	return y, nil
}
