package inbox

import (
	"sort"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// NotificationsFor returns the notifications addressed to recipientID,
// newest first. Equal timestamps are ordered by descending id.
func NotificationsFor(notifications []models.Notification, recipientID string) []models.Notification {
	out := make([]models.Notification, 0)
	for _, n := range notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders notifications by descending CreatedAt.
func SortNewestFirst(notifications []models.Notification) {
	sort.SliceStable(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// UnreadCount counts the notifications not yet read.
func UnreadCount(notifications []models.Notification) int {
	n := 0
	for _, v := range notifications {
		if !v.Read {
			n++
		}
	}
	return n
}

// Grouped buckets a newest-first notification list by age.
type Grouped struct {
	Today     []models.Notification `json:"today"`
	Yesterday []models.Notification `json:"yesterday"`
	ThisWeek  []models.Notification `json:"thisWeek"`
	Older     []models.Notification `json:"older"`
}

// MaxOlder caps the "older" bucket.
const MaxOlder = 50

// GroupByAge splits notifications into today, yesterday, the rest of the
// last seven days, and older, relative to now in now's location.
func GroupByAge(notifications []models.Notification, now time.Time) Grouped {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	g := Grouped{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		ThisWeek:  []models.Notification{},
		Older:     []models.Notification{},
	}
	for _, n := range notifications {
		switch {
		case !n.CreatedAt.Before(todayStart):
			g.Today = append(g.Today, n)
		case !n.CreatedAt.Before(yesterdayStart):
			g.Yesterday = append(g.Yesterday, n)
		case !n.CreatedAt.Before(weekStart):
			g.ThisWeek = append(g.ThisWeek, n)
		default:
			if len(g.Older) < MaxOlder {
				g.Older = append(g.Older, n)
			}
		}
	}
	return g
}

// Page returns the 1-based page of items with the given page size and the
// total number of pages.
func Page[T any](items []T, page, limit int) ([]T, int) {
	if limit < 1 {
		limit = len(items)
		if limit == 0 {
			limit = 1
		}
	}
	if page < 1 {
		page = 1
	}
	totalPages := (len(items) + limit - 1) / limit
	if page > totalPages {
		return []T{}, totalPages
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
