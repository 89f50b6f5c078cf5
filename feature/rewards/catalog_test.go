package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointType_Compute(t *testing.T) {
	gold, ok := LookupPointType(DonationGold)
	require.True(t, ok)
	gem, ok := LookupPointType(DonationGem)
	require.True(t, ok)
	plain := PointType{Mode: ModeDonation, Unit: 1000, Weight: 1}

	tests := []struct {
		name   string
		pt     PointType
		amount int64
		want   int64
	}{
		{"donation whole units", plain, 2500, 2},
		{"donation below unit without floor", plain, 1, 0},
		{"donation below unit with floor", gold, 1, 1},
		{"donation zero ignores floor", gold, 0, 0},
		{"donation weighted", gem, 3000, 6},
		{"donation floor keeps minimum", gem, 999, 2},
		{"ratio rounds", PointType{Mode: ModeRatio, Ratio: 0.5}, 7, 4},
		{"fixed ignores amount", PointType{Mode: ModeFixed, Points: 5}, 1234, 5},
		{"negative amount clamped", PointType{Mode: ModeRatio, Ratio: 1}, -10, 0},
		{"negative allowed", PointType{Mode: ModeRatio, Ratio: 1, AllowNegative: true}, -10, -10},
		{"amount driven", PointType{Mode: ModeFixed, AmountDriven: true}, 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pt.Compute(tt.amount))
		})
	}
}

func TestLookupPointType(t *testing.T) {
	for input, want := range map[string]string{
		"DONATION_GOLD":         DonationGold,
		"oro":                   DonationGold,
		"Gold":                  DonationGold,
		" gemme ":               DonationGem,
		"mission_participation": MissionParticipation,
		"login":                 DailyLogin,
		"Raid":                  RaidVictory,
	} {
		pt, ok := LookupPointType(input)
		require.True(t, ok, input)
		assert.Equal(t, want, pt.Code, input)
	}

	for _, input := range []string{"", "  ", "bogus"} {
		_, ok := LookupPointType(input)
		assert.False(t, ok, input)
	}
	assert.Len(t, PointTypes(), 13)
}

func TestPeriodStart(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC) // Wednesday

	assert.Nil(t, PeriodStart("all", now, rome))
	assert.Nil(t, PeriodStart("whatever", now, rome))

	day := PeriodStart("oggi", now, rome)
	require.NotNil(t, day)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC), *day)

	week := PeriodStart("weekly", now, rome)
	require.NotNil(t, week)
	assert.Equal(t, time.Date(2024, 3, 3, 23, 0, 0, 0, time.UTC), *week)

	month := PeriodStart("month", now, rome)
	require.NotNil(t, month)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), *month)

	sunday := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *PeriodStart("week", sunday, time.UTC))
}

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, PeriodWeek, NormalizePeriod(" Settimana "))
	assert.Equal(t, PeriodMonth, NormalizePeriod("monthly"))
	assert.Equal(t, PeriodDay, NormalizePeriod("today"))
	assert.Equal(t, PeriodAll, NormalizePeriod(""))
	assert.Equal(t, PeriodAll, NormalizePeriod("forever"))
}

func TestConfig_Location(t *testing.T) {
	assert.Equal(t, "Europe/Rome", Config{Timezone: "Europe/Rome"}.Location().String())
	assert.Equal(t, time.UTC, Config{Timezone: "Nowhere/Land"}.Location())
	assert.Equal(t, time.UTC, Config{}.Location())
}
