package domain

import "fmt"

// Dimension is the grouping axis for aggregation.
type Dimension string

const (
	DimensionYear Dimension = "year"
	DimensionCity Dimension = "city"
)

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d == DimensionYear || d == DimensionCity
}

// KeyOf returns the group key of v under d.
func (d Dimension) KeyOf(v Vacancy) (string, error) {
	switch d {
	case DimensionYear:
		return v.Year, nil
	case DimensionCity:
		return v.AreaName, nil
	default:
		return "", fmt.Errorf("unknown dimension %q", string(d))
	}
}

// Bucket accumulates normalized (RUB) salary and vacancy count for one group key.
//
// The first contribution is truncated to a whole number when the bucket is created,
// later contributions are added untruncated. This mirrors the reports produced so far
// and is kept on purpose; it is a candidate bug, since a bucket's total depends on
// which vacancy happened to arrive first.
type Bucket struct {
	Key         string  `json:"key"`
	TotalSalary float64 `json:"total_salary"`
	Count       int     `json:"count"`
}

// NewBucket starts a bucket from its first vacancy's RUB salary.
func NewBucket(key string, salary float64) *Bucket {
	return &Bucket{
		Key:         key,
		TotalSalary: float64(int64(salary)),
		Count:       1,
	}
}

// NewEmptyBucket returns a zero-count placeholder used for gap filling.
func NewEmptyBucket(key string) *Bucket {
	return &Bucket{Key: key}
}

// Add folds one more vacancy's RUB salary into the bucket.
func (b *Bucket) Add(salary float64) {
	b.TotalSalary += salary
	b.Count++
}

// Average returns the truncated mean salary, or 0 for an empty bucket.
func (b *Bucket) Average() int {
	if b.Count == 0 {
		return 0
	}
	return int(b.TotalSalary / float64(b.Count))
}

// IsPlaceholder reports whether the bucket was inserted by gap filling.
func (b *Bucket) IsPlaceholder() bool {
	return b.Count == 0
}
