// Package metrics holds Prometheus instruments that are used across the
// server.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ContentCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_created_total",
			Help: "Cumulative number of content rows created, by kind.",
		}, []string{"kind"})

	SlugRetryTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slug_conflict_retry_total",
			Help: "Cumulative number of slug inserts retried after a duplicate-key race.",
		})

	ViewsCountedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "views_counted_total",
			Help: "Cumulative number of view events that landed (first view per visitor per day).",
		}, []string{"kind"})

	LikeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_events_total",
			Help: "Cumulative number of like and unlike requests, by action.",
		}, []string{"action"})

	TagFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tag_lookup_fallback_total",
			Help: "Cumulative number of tag lookups that fell back to substring matching.",
		})
)

func init() {
	prometheus.MustRegister(
		ContentCreatedTotal,
		SlugRetryTotal,
		ViewsCountedTotal,
		LikeEventsTotal,
		TagFallbackTotal,
	)
}
