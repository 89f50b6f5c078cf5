package rewards

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrUnknownPointType is reported for point type names outside the catalog.
var ErrUnknownPointType = errors.New("unknown point type")

// Canonical point types.
const (
	DonationGold         = "DONATION_GOLD"
	DonationGem          = "DONATION_GEM"
	MissionParticipation = "MISSION_PARTICIPATION"
	MissionSuccess       = "MISSION_SUCCESS"
	MissionSupport       = "MISSION_SUPPORT"
	WeeklyBonus          = "WEEKLY_BONUS"
	MonthlyBonus         = "MONTHLY_BONUS"
	EventBonus           = "EVENT_BONUS"
	TrainingAttendance   = "TRAINING_ATTENDANCE"
	RaidVictory          = "RAID_VICTORY"
	DailyLogin           = "DAILY_LOGIN"
	AchievementBonus     = "ACHIEVEMENT_BONUS"
	Penalty              = "PENALTY"
)

// Point computation modes.
const (
	ModeFixed    = "fixed"
	ModeRatio    = "ratio"
	ModeDonation = "donation"
)

// PointType describes how an amount becomes points.
type PointType struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Mode  string `json:"mode"`
	// Points is the flat award of fixed types.
	Points int64 `json:"points,omitempty"`
	// Ratio multiplies the amount of ratio types.
	Ratio float64 `json:"ratio,omitempty"`
	// Unit, Weight and Min drive donation types: amount / Unit * Weight, at least Min
	// when the amount was positive.
	Unit   int64 `json:"unit,omitempty"`
	Weight int64 `json:"weight,omitempty"`
	Min    int64 `json:"min,omitempty"`
	// AllowNegative keeps negative amounts instead of clamping them to zero.
	AllowNegative bool `json:"allow_negative,omitempty"`
	// AmountDriven fixed types award the amount itself when one is given.
	AmountDriven bool `json:"amount_driven,omitempty"`
}

// Compute returns the points amount is worth.
func (p PointType) Compute(amount int64) int64 {
	if amount < 0 && !p.AllowNegative {
		amount = 0
	}
	switch p.Mode {
	case ModeDonation:
		if amount <= 0 {
			return 0
		}
		unit := p.Unit
		if unit < 1 {
			unit = 1
		}
		points := amount / unit * p.Weight
		if p.Min > 0 && points < p.Min {
			points = p.Min
		}
		return points
	case ModeRatio:
		return int64(math.Round(float64(amount) * p.Ratio))
	default:
		if p.AmountDriven && amount != 0 {
			return amount
		}
		return p.Points
	}
}

var pointTypes = map[string]PointType{
	DonationGold:         {Code: DonationGold, Label: "Gold donations", Mode: ModeDonation, Unit: 1000, Weight: 1, Min: 1},
	DonationGem:          {Code: DonationGem, Label: "Gem donations", Mode: ModeDonation, Unit: 1000, Weight: 2, Min: 2},
	MissionParticipation: {Code: MissionParticipation, Label: "Mission participation", Mode: ModeFixed, Points: 5},
	MissionSuccess:       {Code: MissionSuccess, Label: "Mission completed", Mode: ModeFixed, Points: 8},
	MissionSupport:       {Code: MissionSupport, Label: "Mission support", Mode: ModeRatio, Ratio: 0.5},
	WeeklyBonus:          {Code: WeeklyBonus, Label: "Weekly bonus", Mode: ModeFixed, Points: 10},
	MonthlyBonus:         {Code: MonthlyBonus, Label: "Monthly bonus", Mode: ModeFixed, Points: 50},
	EventBonus:           {Code: EventBonus, Label: "Special event", Mode: ModeFixed, Points: 20},
	TrainingAttendance:   {Code: TrainingAttendance, Label: "Training", Mode: ModeFixed, Points: 3},
	RaidVictory:          {Code: RaidVictory, Label: "Raid victory", Mode: ModeFixed, Points: 25},
	DailyLogin:           {Code: DailyLogin, Label: "Daily login", Mode: ModeFixed, Points: 1},
	AchievementBonus:     {Code: AchievementBonus, Label: "Achievement bonus", Mode: ModeFixed, AmountDriven: true},
	Penalty:              {Code: Penalty, Label: "Penalty", Mode: ModeFixed, Points: -5, AllowNegative: true},
}

// pointAliases maps lowercase shorthands to canonical types.
var pointAliases = map[string]string{
	"oro":             DonationGold,
	"gold":            DonationGold,
	"donation_oro":    DonationGold,
	"donation_gold":   DonationGold,
	"gem":             DonationGem,
	"gems":            DonationGem,
	"gemme":           DonationGem,
	"donation_gem":    DonationGem,
	"donation_gems":   DonationGem,
	"support":         MissionSupport,
	"mission_support": MissionSupport,
	"training":        TrainingAttendance,
	"allenamento":     TrainingAttendance,
	"raid":            RaidVictory,
	"raid_victory":    RaidVictory,
	"daily":           DailyLogin,
	"login":           DailyLogin,
}

// LookupPointType resolves name, canonical or alias, to its definition.
func LookupPointType(name string) (PointType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return PointType{}, false
	}
	if pt, ok := pointTypes[normalized]; ok {
		return pt, true
	}
	code, ok := pointAliases[strings.ToLower(normalized)]
	if !ok {
		return PointType{}, false
	}
	return pointTypes[code], true
}

// PointTypes lists every definition.
func PointTypes() []PointType {
	out := make([]PointType, 0, len(pointTypes))
	for _, pt := range pointTypes {
		out = append(out, pt)
	}
	return out
}

// Reporting periods.
const (
	PeriodAll   = "all"
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

var periodAliases = map[string]string{
	"":            PeriodAll,
	"all":         PeriodAll,
	"overall":     PeriodAll,
	"totale":      PeriodAll,
	"sempre":      PeriodAll,
	"day":         PeriodDay,
	"daily":       PeriodDay,
	"today":       PeriodDay,
	"oggi":        PeriodDay,
	"giorno":      PeriodDay,
	"week":        PeriodWeek,
	"weekly":      PeriodWeek,
	"settimana":   PeriodWeek,
	"settimanale": PeriodWeek,
	"month":       PeriodMonth,
	"monthly":     PeriodMonth,
	"mese":        PeriodMonth,
	"mensile":     PeriodMonth,
}

// NormalizePeriod maps a period name to day, week, month or all. Unknown names mean all.
func NormalizePeriod(period string) string {
	if p, ok := periodAliases[strings.ToLower(strings.TrimSpace(period))]; ok {
		return p
	}
	return PeriodAll
}

// PeriodStart returns when period began at now in loc, nil for all. Weeks start on Monday.
func PeriodStart(period string, now time.Time, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var start time.Time
	switch NormalizePeriod(period) {
	case PeriodDay:
		start = today
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
	case PeriodMonth:
		start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return nil
	}
	start = start.UTC()
	return &start
}
