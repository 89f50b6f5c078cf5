package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feed names used as label values.
const (
	FeedLedger  = "ledger"
	FeedMission = "mission"
)

// RecordsProcessed counts feed records by outcome (applied, duplicate, skipped, unresolved, failed).
var RecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clan_ledger",
	Subsystem: "ingest",
	Name:      "records_total",
	Help:      "Feed records seen by the ingestion pipeline, by outcome.",
}, []string{"feed", "outcome"})

// PointsAwarded counts reward points granted per canonical point type.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clan_ledger",
	Subsystem: "rewards",
	Name:      "points_awarded_total",
	Help:      "Reward points granted, by point type.",
}, []string{"type"})

// AchievementsUnlocked counts achievement unlocks per code.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clan_ledger",
	Subsystem: "rewards",
	Name:      "achievements_unlocked_total",
	Help:      "Achievements unlocked, by code.",
}, []string{"code"})

// JobRuns counts scheduler runs per job and status (ok, error, skipped).
var JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clan_ledger",
	Subsystem: "scheduler",
	Name:      "job_runs_total",
	Help:      "Scheduled job runs, by job and status.",
}, []string{"job", "status"})

// JobDuration observes job run latency.
var JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "clan_ledger",
	Subsystem: "scheduler",
	Name:      "job_duration_seconds",
	Help:      "Scheduled job run duration.",
	Buckets:   prometheus.DefBuckets,
}, []string{"job"})

// Handler exposes the default registry for Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
