// Package filter narrows moderation snapshots for triage. Each entity kind
// has its own filter vocabulary (status values plus the "reported" and
// "spam" sentinels, free-text search fields, item tags and category) but the
// combination rule is shared: every active predicate slot must match.
package filter

import (
	"strings"

	"reclaim/internal/models"
	"reclaim/internal/spam"
)

// Sentinel filter values accepted in the status slot.
const (
	All      = "all"
	Reported = "reported"
	Spam     = "spam"
)

// Query describes one triage narrowing request. Zero values deactivate their
// slots: an empty Status behaves like All, an empty Search matches
// everything, and empty Tags/Category impose nothing.
type Query struct {
	Status   string
	Search   string
	Tags     []string
	Category string
}

// Items returns the items satisfying every active predicate slot, preserving
// input order.
func Items(items []models.Item, q Query) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if !statusSlot(q.Status, string(item.Status), item.ReportCount, item.SpamScore) {
			continue
		}
		if !searchSlot(q.Search, item.Title, item.SubmittedBy, item.Description) {
			continue
		}
		if !tagSlot(q.Tags, item) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, item.Category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Users returns the users satisfying every active predicate slot.
func Users(users []models.User, q Query) []models.User {
	out := make([]models.User, 0, len(users))
	for _, user := range users {
		if !statusSlot(q.Status, string(user.Status), user.ReportCount, user.SpamScore) {
			continue
		}
		if !searchSlot(q.Search, user.Name, user.Email) {
			continue
		}
		out = append(out, user)
	}
	return out
}

// Claims returns the claims satisfying every active predicate slot. Claims
// carry no report counter, so the status slot only understands concrete
// statuses and All.
func Claims(claims []models.Claim, q Query) []models.Claim {
	out := make([]models.Claim, 0, len(claims))
	for _, claim := range claims {
		if q.Status != "" && q.Status != All && q.Status != string(claim.Status) {
			continue
		}
		if !searchSlot(q.Search, claim.ItemTitle, claim.RequesterName, claim.RequesterEmail) {
			continue
		}
		out = append(out, claim)
	}
	return out
}

// statusSlot evaluates the status-or-sentinel predicate. The "reported" and
// "spam" sentinels override the status match for this slot.
func statusSlot(want, status string, reportCount int, spamScore float64) bool {
	switch want {
	case "", All:
		return true
	case Reported:
		return reportCount > 0
	case Spam:
		return spamScore >= spam.Threshold
	default:
		return want == status
	}
}

// searchSlot reports whether any of the configured fields contains the query
// substring, case-insensitively. An empty query matches everything.
func searchSlot(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// tagSlot reports whether the item's tag set intersects the requested tags.
func tagSlot(tags []string, item models.Item) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if item.HasTag(t) {
			return true
		}
	}
	return false
}
