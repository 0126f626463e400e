package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashly_store_mutations_total",
			Help: "Store mutations that changed state, by store and operation.",
		},
		[]string{"store", "op"},
	)

	persistFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashly_store_persist_failures_total",
			Help: "Failed writes of a store record.",
		},
		[]string{"store"},
	)

	loadFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashly_store_load_failures_total",
			Help: "Store records that could not be read or decoded and loaded as empty.",
		},
		[]string{"store"},
	)
)
