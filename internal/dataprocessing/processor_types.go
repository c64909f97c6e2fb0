package dataprocessing

import (
	"vacancycli/pkg/contracts/domain"
)

// ParseResult is the outcome of reading one vacancy CSV input
type ParseResult struct {
	// Source is the file path, empty when parsing from a reader
	Source string

	Header    []string
	Vacancies []domain.Vacancy

	// TotalRows counts data rows read after the header
	TotalRows int

	// Dropped counts rows rejected for a column mismatch or an empty cell
	Dropped int
}

// AssemblerOptions configures how the city series are cut
type AssemblerOptions struct {
	// TopCities limits the length of each city series
	TopCities int

	// MinCityShare is the smallest vacancy share a city needs to be listed
	MinCityShare float64
}

// DefaultAssemblerOptions returns the standard report options
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		TopCities:    10,
		MinCityShare: 0.01,
	}
}

// GapFillStatistics tracks what the year gap filler did
type GapFillStatistics struct {
	ReferenceYears int
	FilledYears    int
	PlacedYears    int
	// OutOfRange counts buckets whose year is not a reference year; they are appended after the aligned ones
	OutOfRange int
}
