// Package spam implements the heuristic risk scoring applied to submitted
// listings and to account behavior. The scoring is a deterministic rule set,
// not a learned model: each rule contributes a fixed weight and the total is
// clamped to [0, 1]. Downstream triage branches on the 0.7 and 0.4 bands, so
// the weights and thresholds here must not drift.
package spam

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Threshold is the score at or above which content is considered spam.
const Threshold = 0.7

// moderateThreshold is the lower bound of the "moderate" risk band. It is a
// read-side classification only and never gates a workflow transition.
const moderateThreshold = 0.4

// Band is a coarse risk classification derived from a spam score.
type Band string

const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
)

// Result is the outcome of scoring a piece of text.
type Result struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	IsSpam  bool     `json:"is_spam"`
}

var spamKeywords = []string{
	"buy now", "click here", "amazing deals", "limited time", "act now",
	"free money", "make money fast", "earn cash", "work from home",
	"weight loss", "diet pills", "viagra", "casino", "lottery",
}

var disposableDomains = []string{
	"temp-mail.org", "10minutemail.com", "guerrillamail.com",
}

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// ScoreText scores a piece of submitted text, optionally together with the
// submitter's email address. It never fails: degenerate input (empty text,
// missing email) simply triggers no rules.
func ScoreText(text, email string) Result {
	var reasons []string
	score := 0.0

	lower := strings.ToLower(text)
	runes := []rune(text)

	if len(runes) > 0 {
		capitals := 0
		for _, r := range runes {
			if r >= 'A' && r <= 'Z' {
				capitals++
			}
		}
		if float64(capitals)/float64(len(runes)) > 0.3 {
			score += 0.2
			reasons = append(reasons, "Excessive capitalization")
		}
	}

	var matched []string
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) > 0 {
		score += float64(len(matched)) * 0.15
		reasons = append(reasons, fmt.Sprintf("Spam keywords detected: %s", strings.Join(matched, ", ")))
	}

	if strings.Count(text, "!") > 3 {
		score += 0.1
		reasons = append(reasons, "Excessive exclamation marks")
	}

	if hasDisposableDomain(email) {
		score += 0.3
		reasons = append(reasons, "Suspicious email domain")
	}

	words := strings.Fields(text)
	if len(words) > 10 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(words)) < 0.5 {
			score += 0.2
			reasons = append(reasons, "Repetitive text patterns")
		}
	}

	if len(urlPattern.FindAllString(text, -1)) > 2 {
		score += 0.15
		reasons = append(reasons, "Multiple suspicious URLs")
	}

	score = clamp(score)

	return Result{
		Score:   score,
		Reasons: reasons,
		IsSpam:  score >= Threshold,
	}
}

// Profile captures the behavioral signals used to score an account.
type Profile struct {
	Email        string
	ItemsPosted  int
	ReportCount  int
	LastActiveAt time.Time
}

// ScoreAccount computes a risk score for an account's behavior: disposable
// email domains, posting volume, reports received, and bursts of recent
// activity all contribute.
func ScoreAccount(p Profile) float64 {
	score := 0.0

	if hasDisposableDomain(p.Email) {
		score += 0.3
	}

	if p.ItemsPosted > 20 {
		score += 0.2
	}

	if p.ReportCount > 0 {
		score += float64(p.ReportCount) * 0.1
	}

	// High-velocity posting: many items and active within the last day.
	if p.ItemsPosted > 5 && time.Since(p.LastActiveAt).Hours() < 24 {
		score += 0.2
	}

	return clamp(score)
}

// RiskBand classifies a score into the band the triage dashboard displays.
func RiskBand(score float64) Band {
	switch {
	case score >= Threshold:
		return BandHigh
	case score >= moderateThreshold:
		return BandModerate
	default:
		return BandLow
	}
}

func hasDisposableDomain(email string) bool {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])
	for _, d := range disposableDomains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	return score
}
