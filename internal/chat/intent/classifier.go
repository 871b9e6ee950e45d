// Package intent maps free-text chat messages to a typed data request using
// an ordered, first-match-wins rule table.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"facility-chat/internal/models"
)

const (
	DefaultLastDays = 7
	MaxLastDays     = 365
)

var (
	lastDaysPattern = regexp.MustCompile(`\b(?:last|past)\s+(\d+)\s+days?\b`)
	weekPattern     = regexp.MustCompile(`\b(?:last|past|this)\s+week\b`)
)

// Classifier is safe for concurrent use; rules are never mutated after New.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules, or over DefaultRules when none are given.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Rules returns a copy of the evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify never fails; text that matches nothing yields IntentUnknown.
func (c *Classifier) Classify(text string) models.IntentResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range c.rules {
		if !rule.matches(normalized) {
			continue
		}
		result := models.IntentResult{
			Intent: rule.Name,
			Domain: rule.Domain,
			Chart:  rule.ProducesChart,
		}
		if rule.SupportsTimeRange {
			tr := ExtractTimeRange(normalized)
			result.TimeRange = &tr
		}
		return result
	}

	return models.IntentResult{Intent: models.IntentUnknown}
}

var defaultClassifier = New()

// Classify uses the default rule table.
func Classify(text string) models.IntentResult {
	return defaultClassifier.Classify(text)
}

// ExtractTimeRange looks for "last N days" or a week phrase. Without either
// the range is disabled, which means no filtering at all.
func ExtractTimeRange(text string) models.TimeRange {
	lower := strings.ToLower(text)

	if m := lastDaysPattern.FindStringSubmatch(lower); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil || days <= 0 {
			days = DefaultLastDays
		}
		if days > MaxLastDays {
			days = MaxLastDays
		}
		return models.TimeRange{Enabled: true, LastDays: days}
	}

	if weekPattern.MatchString(lower) {
		return models.TimeRange{Enabled: true, LastDays: 7}
	}

	return models.TimeRange{Enabled: false}
}
