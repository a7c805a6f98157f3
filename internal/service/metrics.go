package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// issuesCreated считает новые обращения.
	// Labels: pillar
	issuesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixity",
		Subsystem: "issues",
		Name:      "created_total",
		Help:      "Total issues reported",
	}, []string{"pillar"})

	// issuesResolved считает переходы в Resolved
	issuesResolved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fixity",
		Subsystem: "issues",
		Name:      "resolved_total",
		Help:      "Total issues transitioned to Resolved",
	})

	// initialScores - распределение баллов при создании
	initialScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fixity",
		Subsystem: "cri",
		Name:      "initial_score",
		Help:      "Risk score assigned at issue creation",
		Buckets:   []float64{2, 5, 10, 15, 20, 30, 50, 70, 100},
	})

	// escalationsPersisted считает пересчеты, сохраненные при чтении.
	// Labels: source (read, rescore)
	escalationsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixity",
		Subsystem: "cri",
		Name:      "escalations_persisted_total",
		Help:      "Total recomputed scores written back to storage",
	}, []string{"source"})

	// analyticsDuration измеряет время сборки аналитики.
	// Labels: scope (global, block)
	analyticsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fixity",
		Subsystem: "analytics",
		Name:      "build_duration_seconds",
		Help:      "Time to load issues and build analytics",
		Buckets:   prometheus.DefBuckets,
	}, []string{"scope"})
)
