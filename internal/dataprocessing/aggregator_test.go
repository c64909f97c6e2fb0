package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancycli/internal/currency"
	"vacancycli/internal/errors"
	"vacancycli/pkg/contracts/domain"
)

func scenarioVacancies() []domain.Vacancy {
	return []domain.Vacancy{
		{Name: "Go developer", SalaryFrom: 100, SalaryTo: 200, SalaryCurrency: "RUR", AreaName: "Moscow", Year: "2019"},
		{Name: "Python developer", SalaryFrom: 300, SalaryTo: 400, SalaryCurrency: "RUR", AreaName: "Kazan", Year: "2019"},
		{Name: "Go team lead", SalaryFrom: 500, SalaryTo: 500, SalaryCurrency: "RUR", AreaName: "Moscow", Year: "2020"},
	}
}

func TestAggregator_ByYear(t *testing.T) {
	buckets, err := NewAggregator(nil, nil).Aggregate(context.Background(), scenarioVacancies(), domain.DimensionYear)
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, "2019", buckets[0].Key)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, 500.0, buckets[0].TotalSalary)
	assert.Equal(t, 250, buckets[0].Average())
	assert.Equal(t, "2020", buckets[1].Key)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 500, buckets[1].Average())
}

func TestAggregator_FirstSeenOrder(t *testing.T) {
	vacancies := []domain.Vacancy{
		{SalaryCurrency: "RUR", AreaName: "Omsk", Year: "2022"},
		{SalaryCurrency: "RUR", AreaName: "Kazan", Year: "2018"},
		{SalaryCurrency: "RUR", AreaName: "Omsk", Year: "2020"},
	}

	buckets, err := NewAggregator(nil, nil).Aggregate(context.Background(), vacancies, domain.DimensionCity)
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Omsk", buckets[0].Key)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, "Kazan", buckets[1].Key)
}

func TestAggregator_ConvertsCurrency(t *testing.T) {
	tests := []struct {
		name      string
		vacancies []domain.Vacancy
		wantTotal float64
	}{
		{
			name:      "single USD vacancy is truncated",
			vacancies: []domain.Vacancy{{SalaryFrom: 1, SalaryTo: 2, SalaryCurrency: "USD", AreaName: "A", Year: "2020"}},
			// floor(1.5) = 1, 1 * 60.66 truncated
			wantTotal: 60,
		},
		{
			name: "second contribution keeps fraction",
			vacancies: []domain.Vacancy{
				{SalaryFrom: 1, SalaryTo: 1, SalaryCurrency: "USD", AreaName: "A", Year: "2020"},
				{SalaryFrom: 1, SalaryTo: 1, SalaryCurrency: "USD", AreaName: "A", Year: "2020"},
			},
			wantTotal: 60 + 60.66,
		},
		{
			name:      "fractional rate truncated",
			vacancies: []domain.Vacancy{{SalaryFrom: 10, SalaryTo: 10, SalaryCurrency: "KZT", AreaName: "A", Year: "2020"}},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := NewAggregator(currency.NewConverter(nil), nil).
				Aggregate(context.Background(), tt.vacancies, domain.DimensionCity)
			require.NoError(t, err)
			require.Len(t, buckets, 1)
			assert.InDelta(t, tt.wantTotal, buckets[0].TotalSalary, 1e-9)
		})
	}
}

func TestAggregator_Errors(t *testing.T) {
	t.Run("unknown currency", func(t *testing.T) {
		vacancies := []domain.Vacancy{{Name: "x", SalaryCurrency: "GBP", AreaName: "London", Year: "2020"}}

		_, err := NewAggregator(nil, nil).Aggregate(context.Background(), vacancies, domain.DimensionYear)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeCurrency))
		assert.Contains(t, err.Error(), "GBP")
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := NewAggregator(nil, nil).Aggregate(context.Background(), scenarioVacancies(), domain.Dimension("skill"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	})

	t.Run("empty input", func(t *testing.T) {
		buckets, err := NewAggregator(nil, nil).Aggregate(context.Background(), nil, domain.DimensionYear)
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})
}
