package intent

import (
	"regexp"

	"facility-chat/internal/models"
)

// Rule is one entry of the ordered rule table. A rule matches when any of
// its patterns matches the normalized text.
type Rule struct {
	Name              models.IntentName
	Domain            models.DomainTag
	Patterns          []*regexp.Regexp
	ProducesChart     bool
	SupportsTimeRange bool
}

func (r Rule) matches(text string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// DefaultRules returns the rule table in evaluation order. Status and cost
// requests often mention "work order" or "asset" too, so they are checked
// before the generic listings.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   models.IntentWorkOrdersByStatus,
			Domain: models.DomainWorkOrdersByStatus,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`work\s+order.*status|status.*work\s+order|by\s+status|chart.*status`),
				regexp.MustCompile(`breakdown|distribution|count\s+by`),
			},
			ProducesChart: true,
		},
		{
			Name:   models.IntentAssetsByCost,
			Domain: models.DomainAssetsByCost,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`top\s+\d+\s+asset|asset.*cost|maintenance\s+cost|cost.*asset`),
				regexp.MustCompile(`most\s+expensive|highest\s+cost`),
			},
			ProducesChart: true,
		},
		{
			Name:   models.IntentWorkOrdersOpen,
			Domain: models.DomainWorkOrders,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`open\s+work\s+order|work\s+order.*open|pending\s+work|last\s+\d+\s+days|recent\s+work`),
				regexp.MustCompile(`show\s+(me\s+)?(open\s+)?work\s+order`),
				regexp.MustCompile(`list\s+work\s+order`),
				regexp.MustCompile(`work\s+order.*\b(last|past|this)\s+week\b`),
			},
			SupportsTimeRange: true,
		},
		{
			Name:   models.IntentAssetsList,
			Domain: models.DomainAssets,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`list\s+asset|all\s+asset|asset\s+list|show\s+asset`),
			},
		},
		{
			Name:   models.IntentLocations,
			Domain: models.DomainLocations,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`location|site|building|facility\s+list|where\s+are`),
			},
		},
		{
			Name:   models.IntentMaintenance,
			Domain: models.DomainMaintenance,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`maintenance|preventive|pm\s+schedule|upcoming\s+maintenance`),
			},
		},
		{
			Name: models.IntentGeneral,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(hello|hi|hey|help)\b|what\s+can\s+you`),
			},
		},
	}
}
