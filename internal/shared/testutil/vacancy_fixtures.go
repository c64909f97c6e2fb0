package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// VacancyHeader is the standard column order of vacancy CSV input
var VacancyHeader = []string{"name", "salary_from", "salary_to", "salary_currency", "area_name", "published_at"}

// VacancyFixtures writes vacancy CSV files for tests
type VacancyFixtures struct {
	TestDataDir string
}

// NewVacancyFixtures creates a new fixtures manager
func NewVacancyFixtures(testDataDir string) *VacancyFixtures {
	return &VacancyFixtures{
		TestDataDir: testDataDir,
	}
}

// ScenarioRows returns three RUR vacancies over 2019 and 2020.
// Expected yearly averages are 250 and 500 with counts 2 and 1.
func (f *VacancyFixtures) ScenarioRows() [][]string {
	return [][]string{
		{"Go developer", "100", "200", "RUR", "Moscow", "2019-01-10T10:00:00+0300"},
		{"Python developer", "300", "400", "RUR", "Kazan", "2019-06-01T12:30:00+0300"},
		{"Go team lead", "500", "500", "RUR", "Moscow", "2020-03-15T09:00:00+0300"},
	}
}

// MixedCurrencyRows returns vacancies spread over several currencies, cities and years
func (f *VacancyFixtures) MixedCurrencyRows() [][]string {
	return [][]string{
		{"Backend developer", "1000", "2000", "USD", "Moscow", "2018-02-01T10:00:00+0300"},
		{"Analyst", "50000", "70000", "RUR", "Saint Petersburg", "2018-05-11T10:00:00+0300"},
		{"Backend developer", "900", "1100", "EUR", "Minsk", "2020-01-20T10:00:00+0300"},
		{"QA engineer", "40000", "60000", "RUR", "Moscow", "2021-07-07T10:00:00+0300"},
		{"Backend lead", "300000", "500000", "KZT", "Almaty", "2021-09-09T10:00:00+0300"},
	}
}

// CSV renders a header and rows as CSV text, quoting cells that need it
func (f *VacancyFixtures) CSV(header []string, rows [][]string) string {
	var b strings.Builder
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			if strings.ContainsAny(c, ",\"\n") {
				c = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
			}
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}
	writeLine(header)
	for _, r := range rows {
		writeLine(r)
	}
	return b.String()
}

// WriteCSV writes rows under the standard header to name inside TestDataDir and returns the path
func (f *VacancyFixtures) WriteCSV(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	return f.WriteRaw(t, name, f.CSV(VacancyHeader, rows))
}

// WriteRaw writes content verbatim to name inside TestDataDir and returns the path
func (f *VacancyFixtures) WriteRaw(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.TestDataDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
