package mapper

import (
	"slices"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// MonthlyCounts groups documents by the YYYY-MM of field, oldest month first.
// A document whose field is missing falls back to its creation time; one
// whose field is malformed is left out and counted in skipped.
func MonthlyCounts(docs []store.Document, field string) (counts []models.MonthlyCount, skipped int) {
	byMonth := make(map[string]int)
	for _, doc := range docs {
		at, err := optionalTime(doc.Data, field, doc.CreateTime)
		if err != nil || at.IsZero() {
			skipped++
			continue
		}
		byMonth[at.Format("2006-01")]++
	}

	counts = make([]models.MonthlyCount, 0, len(byMonth))
	for month, n := range byMonth {
		counts = append(counts, models.MonthlyCount{Month: month, Count: n})
	}
	slices.SortFunc(counts, func(a, b models.MonthlyCount) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		}
		return 0
	})
	return counts, skipped
}

// CountByRole tallies users per role after default substitution
func CountByRole(users []models.User) map[models.UserRole]int {
	out := map[models.UserRole]int{
		models.RoleAdmin:   0,
		models.RoleTeacher: 0,
		models.RoleLearner: 0,
	}
	for _, u := range users {
		out[u.Role]++
	}
	return out
}
