package domain

import (
	"math"
	"strings"
)

// Vacancy is one job posting as read from the input CSV.
// It is a value type; the parser builds it once and nothing mutates it afterwards.
type Vacancy struct {
	Name           string  `json:"name" csv:"name" validate:"required"`
	SalaryFrom     float64 `json:"salary_from" csv:"salary_from"`
	SalaryTo       float64 `json:"salary_to" csv:"salary_to"`
	SalaryCurrency string  `json:"salary_currency" csv:"salary_currency" validate:"required"`
	AreaName       string  `json:"area_name" csv:"area_name" validate:"required"`
	PublishedAt    string  `json:"published_at" csv:"published_at" validate:"required"`

	// Year is the first four characters of PublishedAt. It is a lexical slice,
	// not a parsed date, so it assumes ISO-like timestamps.
	Year string `json:"year"`
}

// AverageSalary returns floor((SalaryFrom + SalaryTo) / 2) in the vacancy's own currency.
func (v Vacancy) AverageSalary() float64 {
	return math.Floor((v.SalaryFrom + v.SalaryTo) / 2)
}

// MatchesProfession reports whether the vacancy name contains profession.
// The match is case-sensitive.
func (v Vacancy) MatchesProfession(profession string) bool {
	return strings.Contains(v.Name, profession)
}

// YearFromPublishedAt slices the first four characters off a published_at value.
func YearFromPublishedAt(publishedAt string) string {
	runes := []rune(publishedAt)
	if len(runes) <= 4 {
		return publishedAt
	}
	return string(runes[:4])
}

// FilterByProfession returns the vacancies whose name contains profession,
// preserving input order.
func FilterByProfession(vacancies []Vacancy, profession string) []Vacancy {
	filtered := make([]Vacancy, 0, len(vacancies))
	for _, v := range vacancies {
		if v.MatchesProfession(profession) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
