package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"vacancycli/internal/currency"
	"vacancycli/internal/errors"
	"vacancycli/pkg/contracts/domain"
)

// Aggregator groups vacancies into salary buckets keyed by year or city.
type Aggregator struct {
	converter *currency.Converter
	logger    *slog.Logger
}

// NewAggregator creates an aggregator. A nil converter uses the default rate table.
func NewAggregator(converter *currency.Converter, logger *slog.Logger) *Aggregator {
	if converter == nil {
		converter = currency.NewConverter(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{converter: converter, logger: logger}
}

// Aggregate folds vacancies into one bucket per distinct key, in the order
// keys are first seen. Each vacancy contributes its floored midpoint salary
// converted to RUR. The first contribution to a bucket is truncated to a whole
// number, later ones keep their fraction.
func (a *Aggregator) Aggregate(ctx context.Context, vacancies []domain.Vacancy, dim domain.Dimension) ([]*domain.Bucket, error) {
	if !dim.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown dimension %q", dim), nil)
	}

	buckets := make([]*domain.Bucket, 0)
	index := make(map[string]*domain.Bucket)

	for i, v := range vacancies {
		key, err := dim.KeyOf(v)
		if err != nil {
			return nil, errors.NewValidationError("failed to read bucket key", err)
		}

		salary, err := a.converter.ToRUB(v.AverageSalary(), v.SalaryCurrency)
		if err != nil {
			return nil, fmt.Errorf("vacancy %d (%s): %w", i, v.Name, err)
		}

		if b, ok := index[key]; ok {
			b.Add(salary)
			continue
		}
		b := domain.NewBucket(key, salary)
		index[key] = b
		buckets = append(buckets, b)
	}

	a.logger.DebugContext(ctx, "aggregated vacancies",
		slog.String("dimension", string(dim)),
		slog.Int("vacancies", len(vacancies)),
		slog.Int("buckets", len(buckets)))

	return buckets, nil
}
