// Package shared holds helpers used across the vacancy report packages.
//
// The testutil subpackage provides:
//
//	- a buffered slog handler for asserting on log output
//	- vacancy CSV fixture builders
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    fixtures := testutil.NewVacancyFixtures(t.TempDir())
//	    path := fixtures.WriteCSV(t, "vacancies.csv", fixtures.ScenarioRows())
//	    // parse path
//	}
//
// Nothing in this package carries business logic.
package shared
