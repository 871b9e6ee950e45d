package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility-chat/internal/models"
)

// ==========================
// Rule Selection
// ==========================

func TestClassify_RuleSelection(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantIntent models.IntentName
		wantDomain models.DomainTag
		wantChart  bool
	}{
		{"status breakdown", "Show work orders by status", models.IntentWorkOrdersByStatus, models.DomainWorkOrdersByStatus, true},
		{"status wins over asset words", "asset cost breakdown by status", models.IntentWorkOrdersByStatus, models.DomainWorkOrdersByStatus, true},
		{"distribution phrasing", "what is the distribution of tickets", models.IntentWorkOrdersByStatus, models.DomainWorkOrdersByStatus, true},
		{"top n assets", "Top 5 assets by cost", models.IntentAssetsByCost, models.DomainAssetsByCost, true},
		{"most expensive", "which equipment is most expensive?", models.IntentAssetsByCost, models.DomainAssetsByCost, true},
		{"cost wins over listing", "list assets with maintenance cost", models.IntentAssetsByCost, models.DomainAssetsByCost, true},
		{"open work orders", "show open work orders", models.IntentWorkOrdersOpen, models.DomainWorkOrders, false},
		{"pending work", "any pending work?", models.IntentWorkOrdersOpen, models.DomainWorkOrders, false},
		{"work orders this week", "work orders this week", models.IntentWorkOrdersOpen, models.DomainWorkOrders, false},
		{"asset list", "List all assets", models.IntentAssetsList, models.DomainAssets, false},
		{"locations", "Where are our buildings?", models.IntentLocations, models.DomainLocations, false},
		{"site", "show me every site", models.IntentLocations, models.DomainLocations, false},
		{"maintenance", "Upcoming maintenance schedule", models.IntentMaintenance, models.DomainMaintenance, false},
		{"preventive", "preventive tasks next month", models.IntentMaintenance, models.DomainMaintenance, false},
		{"greeting", "Hello there", models.IntentGeneral, "", false},
		{"help", "help", models.IntentGeneral, "", false},
		{"capabilities", "What can you do?", models.IntentGeneral, "", false},
		{"unknown", "tell me a joke about penguins", models.IntentUnknown, "", false},
		{"greeting substring is not a greeting", "this chiller is noisy", models.IntentUnknown, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.Equal(t, tt.wantDomain, got.Domain)
			assert.Equal(t, tt.wantChart, got.Chart)
		})
	}
}

func TestClassify_NormalizesInput(t *testing.T) {
	a := Classify("   SHOW OPEN WORK ORDERS  ")
	b := Classify("show open work orders")
	assert.Equal(t, b, a)
}

func TestClassify_NeedsData(t *testing.T) {
	assert.True(t, Classify("top 5 assets by cost").NeedsData())
	assert.False(t, Classify("hi").NeedsData())
	assert.False(t, Classify("penguins").NeedsData())
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	rules := DefaultRules()
	c := New(rules...)

	require.Equal(t, models.IntentWorkOrdersByStatus, c.Rules()[0].Name)
	require.Equal(t, models.IntentAssetsByCost, c.Rules()[1].Name)
	require.Equal(t, models.IntentWorkOrdersOpen, c.Rules()[2].Name)

	// Reversing the table changes the verdict for overlapping phrasing.
	reversed := make([]Rule, len(rules))
	for i, r := range rules {
		reversed[len(rules)-1-i] = r
	}
	assert.Equal(t, models.IntentLocations, New(reversed...).Classify("work orders by status per building").Intent)
	assert.Equal(t, models.IntentWorkOrdersByStatus, c.Classify("work orders by status per building").Intent)
}

// ==========================
// Time Range
// ==========================

func TestClassify_TimeRange(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *models.TimeRange
	}{
		{"explicit days", "show work orders from the last 10 days", &models.TimeRange{Enabled: true, LastDays: 10}},
		{"capped at 365", "show work orders from the last 900 days", &models.TimeRange{Enabled: true, LastDays: 365}},
		{"zero falls back to default", "open work orders in the last 0 days", &models.TimeRange{Enabled: true, LastDays: 7}},
		{"this week", "show work orders this week", &models.TimeRange{Enabled: true, LastDays: 7}},
		{"past week", "open work orders from the past week", &models.TimeRange{Enabled: true, LastDays: 7}},
		{"no window", "show open work orders", &models.TimeRange{Enabled: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			require.Equal(t, models.DomainWorkOrders, got.Domain)
			assert.Equal(t, tt.want, got.TimeRange)
		})
	}
}

func TestClassify_TimeRangeOnlyOnListing(t *testing.T) {
	got := Classify("work orders by status for the last 30 days")
	assert.Equal(t, models.IntentWorkOrdersByStatus, got.Intent)
	assert.Nil(t, got.TimeRange)
}

func TestExtractTimeRange_Unparsable(t *testing.T) {
	got := ExtractTimeRange("last 99999999999999999999999 days")
	assert.Equal(t, models.TimeRange{Enabled: true, LastDays: DefaultLastDays}, got)
}
