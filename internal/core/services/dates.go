package services

import "github.com/gooosetavo/dod-prohibited/internal/core/domain"

// AssignDates files each change under the calendar date it belongs
// to. Additions carrying a resolvable self-reported source date file
// under that date: the upstream change happened then, regardless of
// when this run noticed it. Everything else (updates, removals, and
// additions without a source date) files under the detection date.
func AssignDates(changes []domain.Change, detectionDate string) map[string]*domain.DateBucket {
	buckets := make(map[string]*domain.DateBucket)

	file := func(date string, c domain.Change) {
		b, ok := buckets[date]
		if !ok {
			b = &domain.DateBucket{}
			buckets[date] = b
		}
		b.Add(c)
	}

	for _, c := range changes {
		c.DetectionDate = detectionDate
		if c.Type == domain.ChangeAdded && c.SourceDate != "" {
			file(c.SourceDate, c)
			continue
		}
		file(detectionDate, c)
	}

	return buckets
}
