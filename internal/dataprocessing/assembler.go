package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"vacancycli/internal/currency"
	"vacancycli/pkg/contracts/domain"
)

// Assembler builds the six report series from parsed vacancies
type Assembler struct {
	aggregator *Aggregator
	gapFiller  *GapFiller
	options    AssemblerOptions
	logger     *slog.Logger
}

// NewAssembler creates a new report assembler
func NewAssembler(converter *currency.Converter, options AssemblerOptions, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultAssemblerOptions()
	if options.TopCities <= 0 {
		options.TopCities = defaults.TopCities
	}
	if options.MinCityShare < 0 {
		options.MinCityShare = defaults.MinCityShare
	}
	return &Assembler{
		aggregator: NewAggregator(converter, logger),
		gapFiller:  NewGapFiller(logger),
		options:    options,
		logger:     logger,
	}
}

// Assemble aggregates vacancies by year and by city, and the profession subset by year.
func (a *Assembler) Assemble(ctx context.Context, vacancies []domain.Vacancy, profession string) (*domain.Report, error) {
	report := &domain.Report{
		Profession:             profession,
		SalaryByYear:           []domain.YearValue{},
		CountByYear:            []domain.YearValue{},
		ProfessionSalaryByYear: []domain.YearValue{},
		ProfessionCountByYear:  []domain.YearValue{},
		SalaryByCity:           []domain.CityValue{},
		ShareByCity:            []domain.CityShare{},
	}

	yearBuckets, err := a.aggregator.Aggregate(ctx, vacancies, domain.DimensionYear)
	if err != nil {
		return nil, fmt.Errorf("aggregate by year: %w", err)
	}
	cityBuckets, err := a.aggregator.Aggregate(ctx, vacancies, domain.DimensionCity)
	if err != nil {
		return nil, fmt.Errorf("aggregate by city: %w", err)
	}

	matching := domain.FilterByProfession(vacancies, profession)
	professionBuckets, err := a.aggregator.Aggregate(ctx, matching, domain.DimensionYear)
	if err != nil {
		return nil, fmt.Errorf("aggregate profession by year: %w", err)
	}
	professionBuckets, err = a.gapFiller.FillMissingYears(ctx, yearBuckets, professionBuckets)
	if err != nil {
		return nil, fmt.Errorf("fill profession years: %w", err)
	}

	sortedYears, err := sortBucketsByYear(yearBuckets)
	if err != nil {
		return nil, err
	}
	for _, b := range sortedYears {
		year, _ := strconv.Atoi(b.Key)
		report.SalaryByYear = append(report.SalaryByYear, domain.YearValue{Year: year, Value: b.Average()})
		report.CountByYear = append(report.CountByYear, domain.YearValue{Year: year, Value: b.Count})
	}
	for _, b := range professionBuckets {
		year, _ := strconv.Atoi(b.Key)
		report.ProfessionSalaryByYear = append(report.ProfessionSalaryByYear, domain.YearValue{Year: year, Value: b.Average()})
		report.ProfessionCountByYear = append(report.ProfessionCountByYear, domain.YearValue{Year: year, Value: b.Count})
	}

	report.SalaryByCity, report.ShareByCity = a.citySeries(cityBuckets, len(vacancies))

	a.logger.InfoContext(ctx, "report assembled",
		slog.String("profession", profession),
		slog.Int("vacancies", len(vacancies)),
		slog.Int("profession_vacancies", len(matching)),
		slog.Int("years", len(report.SalaryByYear)),
		slog.Int("cities", len(cityBuckets)))

	return report, nil
}

type cityStat struct {
	city    string
	average int
	share   float64
}

// citySeries ranks cities by salary and by share, keeping the top cities above the share threshold
func (a *Assembler) citySeries(buckets []*domain.Bucket, total int) ([]domain.CityValue, []domain.CityShare) {
	salaries := []domain.CityValue{}
	shares := []domain.CityShare{}
	if total == 0 {
		return salaries, shares
	}

	stats := make([]cityStat, len(buckets))
	for i, b := range buckets {
		stats[i] = cityStat{
			city:    b.Key,
			average: b.Average(),
			share:   float64(b.Count) / float64(total),
		}
	}

	bySalary := make([]cityStat, len(stats))
	copy(bySalary, stats)
	sort.SliceStable(bySalary, func(i, j int) bool { return bySalary[i].average > bySalary[j].average })
	for _, s := range bySalary {
		if len(salaries) == a.options.TopCities {
			break
		}
		if s.share >= a.options.MinCityShare {
			salaries = append(salaries, domain.CityValue{City: s.city, Value: s.average})
		}
	}

	byShare := make([]cityStat, len(stats))
	copy(byShare, stats)
	sort.SliceStable(byShare, func(i, j int) bool { return byShare[i].share > byShare[j].share })
	for _, s := range byShare {
		if len(shares) == a.options.TopCities {
			break
		}
		if s.share >= a.options.MinCityShare {
			shares = append(shares, domain.CityShare{City: s.city, Share: roundShare(s.share)})
		}
	}

	return salaries, shares
}

// roundShare rounds to four decimals
func roundShare(share float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(share, 'f', 4, 64), 64)
	if err != nil {
		return share
	}
	return rounded
}

func sortBucketsByYear(buckets []*domain.Bucket) ([]*domain.Bucket, error) {
	type keyed struct {
		year   int
		bucket *domain.Bucket
	}
	items := make([]keyed, len(buckets))
	for i, b := range buckets {
		y, err := parseYear(b.Key)
		if err != nil {
			return nil, err
		}
		items[i] = keyed{year: y, bucket: b}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].year < items[j].year })

	out := make([]*domain.Bucket, len(items))
	for i, it := range items {
		out[i] = it.bucket
	}
	return out, nil
}
