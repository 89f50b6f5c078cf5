package rewards

import (
	"slices"
	"strconv"
	"strings"
)

// Comparison operators of a criteria leaf.
const (
	OpGTE = "gte"
	OpGT  = "gt"
	OpLTE = "lte"
	OpLT  = "lt"
	OpEQ  = "eq"
	OpIn  = "in"
)

// Criteria is a boolean expression over a Metrics snapshot. A node is either a
// composition (All or Any) or a leaf comparing Metric with Value, or with In for OpIn.
type Criteria struct {
	All    []Criteria `json:"all,omitempty"`
	Any    []Criteria `json:"any,omitempty"`
	Metric string     `json:"metric,omitempty"`
	Op     string     `json:"op,omitempty"`
	Value  float64    `json:"value,omitempty"`
	In     []string   `json:"in,omitempty"`
}

func gte(metric string, v float64) Criteria {
	return Criteria{Metric: metric, Op: OpGTE, Value: v}
}

// Achievement is an unlockable badge with an optional point bonus.
type Achievement struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Bonus       int64    `json:"bonus"`
	Criteria    Criteria `json:"criteria"`
}

// achievements are evaluated in this order.
var achievements = []Achievement{
	{
		Code:        "FIRST_DONATION",
		Name:        "First donation",
		Description: "Make your first gold or gem donation.",
		Bonus:       10,
		Criteria: Criteria{Any: []Criteria{
			gte("donations.gold", 1),
			gte("donations.gems", 1),
			gte("history.by_type."+DonationGold+".events", 1),
			gte("history.by_type."+DonationGem+".events", 1),
		}},
	},
	{
		Code:        "BIG_DONOR",
		Name:        "Big donor",
		Description: "Donate 50k gold or 20k gems in total.",
		Bonus:       25,
		Criteria: Criteria{Any: []Criteria{
			gte("donations.gold", 50000),
			gte("donations.gems", 20000),
		}},
	},
	{
		Code:        "MISSION_VETERAN",
		Name:        "Mission veteran",
		Description: "Take part in at least 10 tracked missions.",
		Bonus:       30,
		Criteria:    gte("history.by_type."+MissionParticipation+".events", 10),
	},
	{
		Code:        "CLAN_LEGEND",
		Name:        "Clan legend",
		Description: "Reach 1000 reward points.",
		Bonus:       50,
		Criteria:    gte("reward_points", 1000),
	},
	{
		Code:        "SUPPORT_SPECIALIST",
		Name:        "Support specialist",
		Description: "Earn points supporting allied missions.",
		Bonus:       15,
		Criteria: Criteria{Any: []Criteria{
			gte("history.by_type."+MissionSupport+".events", 5),
			gte("history.by_type."+MissionSupport+".points", 25),
		}},
	},
	{
		Code:        "DAILY_GRINDER",
		Name:        "Daily grinder",
		Description: "Collect daily rewards seven times.",
		Bonus:       10,
		Criteria:    gte("history.by_type."+DailyLogin+".events", 7),
	},
	{
		Code:        "RESOURCE_TYCOON",
		Name:        "Resource tycoon",
		Description: "Pass the long-term gold and gem donation goals.",
		Bonus:       40,
		Criteria: Criteria{All: []Criteria{
			gte("history.by_type."+DonationGold+".total_amount", 100000),
			gte("history.by_type."+DonationGem+".total_amount", 5000),
		}},
	},
}

// Achievements lists the catalogue in evaluation order.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

// LookupAchievement returns the definition of code.
func LookupAchievement(code string) (Achievement, bool) {
	for _, a := range achievements {
		if a.Code == code {
			return a, true
		}
	}
	return Achievement{}, false
}

// TypeStats aggregates the history of one point type.
type TypeStats struct {
	Points      int64 `json:"points"`
	Events      int64 `json:"events"`
	TotalAmount int64 `json:"total_amount"`
}

// Breakdown aggregates a player's reward history by point type.
type Breakdown struct {
	TotalPoints int64                `json:"total_points"`
	TotalEvents int64                `json:"total_events"`
	ByType      map[string]TypeStats `json:"by_type"`
}

// Metrics is the snapshot achievement criteria are evaluated against.
type Metrics struct {
	RewardPoints int64
	// Donations holds lifetime donated totals per currency.
	Donations    map[string]int64
	History      Breakdown
	Achievements map[string]bool
}

// lookup resolves a dotted metric path. Numeric metrics come back as float64, sets as
// []string. Unknown paths report false.
func (m Metrics) lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")
	switch {
	case path == "reward_points":
		return float64(m.RewardPoints), true
	case path == "achievements":
		codes := make([]string, 0, len(m.Achievements))
		for c := range m.Achievements {
			codes = append(codes, c)
		}
		return codes, true
	case len(parts) == 2 && parts[0] == "donations":
		v, ok := m.Donations[parts[1]]
		return float64(v), ok
	case len(parts) == 2 && parts[0] == "history":
		switch parts[1] {
		case "total_points":
			return float64(m.History.TotalPoints), true
		case "total_events":
			return float64(m.History.TotalEvents), true
		}
	case len(parts) == 4 && parts[0] == "history" && parts[1] == "by_type":
		stats, ok := m.History.ByType[parts[2]]
		if !ok {
			return nil, false
		}
		switch parts[3] {
		case "points":
			return float64(stats.Points), true
		case "events":
			return float64(stats.Events), true
		case "total_amount":
			return float64(stats.TotalAmount), true
		}
	}
	return nil, false
}

// Evaluate reports whether m satisfies c. Missing metrics never satisfy a leaf.
func (c Criteria) Evaluate(m Metrics) bool {
	if len(c.All) > 0 {
		for _, sub := range c.All {
			if !sub.Evaluate(m) {
				return false
			}
		}
		return true
	}
	if len(c.Any) > 0 {
		for _, sub := range c.Any {
			if sub.Evaluate(m) {
				return true
			}
		}
		return false
	}
	if c.Metric == "" {
		return false
	}
	value, ok := m.lookup(c.Metric)
	if !ok {
		return false
	}

	if c.Op == OpIn {
		switch v := value.(type) {
		case []string:
			for _, s := range v {
				if slices.Contains(c.In, s) {
					return true
				}
			}
			return false
		case float64:
			return slices.Contains(c.In, strconv.FormatFloat(v, 'f', -1, 64))
		}
		return false
	}

	n, ok := value.(float64)
	if !ok {
		return false
	}
	switch c.Op {
	case OpGTE:
		return n >= c.Value
	case OpGT:
		return n > c.Value
	case OpLTE:
		return n <= c.Value
	case OpLT:
		return n < c.Value
	case OpEQ:
		return n == c.Value
	}
	return false
}
