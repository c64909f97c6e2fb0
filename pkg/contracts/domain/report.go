package domain

// YearValue is one point of a per-year series.
type YearValue struct {
	Year  int `json:"year"`
	Value int `json:"value"`
}

// CityValue is one point of a per-city salary series.
type CityValue struct {
	City  string `json:"city"`
	Value int    `json:"value"`
}

// CityShare is one point of the per-city vacancy share series.
// Share is a fraction in [0, 1], rounded to four decimals.
type CityShare struct {
	City  string  `json:"city"`
	Share float64 `json:"share"`
}

// Report holds the six ordered series every output adapter consumes.
type Report struct {
	Profession string `json:"profession"`

	// Year series, ascending by year. The profession series are gap-filled
	// so they line up with the full-dataset years.
	SalaryByYear           []YearValue `json:"salary_by_year"`
	CountByYear            []YearValue `json:"count_by_year"`
	ProfessionSalaryByYear []YearValue `json:"profession_salary_by_year"`
	ProfessionCountByYear  []YearValue `json:"profession_count_by_year"`

	// City series: salary descending and share descending, top N cities
	// holding at least the minimum share.
	SalaryByCity []CityValue `json:"salary_by_city"`
	ShareByCity  []CityShare `json:"share_by_city"`
}

// Years returns the year axis shared by the year series.
func (r *Report) Years() []int {
	years := make([]int, len(r.SalaryByYear))
	for i, p := range r.SalaryByYear {
		years[i] = p.Year
	}
	return years
}

// YearRows zips the four year series into table rows
// {year, salary, profession salary, count, profession count}.
// Missing profession points render as zero.
func (r *Report) YearRows() [][5]int {
	rows := make([][5]int, len(r.SalaryByYear))
	for i, p := range r.SalaryByYear {
		rows[i][0] = p.Year
		rows[i][1] = p.Value
		if i < len(r.ProfessionSalaryByYear) {
			rows[i][2] = r.ProfessionSalaryByYear[i].Value
		}
		if i < len(r.CountByYear) {
			rows[i][3] = r.CountByYear[i].Value
		}
		if i < len(r.ProfessionCountByYear) {
			rows[i][4] = r.ProfessionCountByYear[i].Value
		}
	}
	return rows
}

// TotalShare sums the shares of the listed cities.
func (r *Report) TotalShare() float64 {
	var sum float64
	for _, s := range r.ShareByCity {
		sum += s.Share
	}
	return sum
}
