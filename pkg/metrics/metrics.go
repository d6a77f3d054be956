// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics defines the application's custom Prometheus collectors.
// They are registered by the metrics server and incremented at the call
// sites in pkg/game and pkg/dispatch.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CommandsTotal counts dispatched player commands by command word.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "party_duel_commands_total",
			Help: "Total number of dispatched player commands",
		},
		[]string{"command"},
	)

	// RoundsTotal counts completed rounds across all groups.
	RoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "party_duel_rounds_total",
			Help: "Total number of completed rounds",
		},
	)

	// PunishmentsAcceptedTotal counts accepted punishments across all groups.
	PunishmentsAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "party_duel_punishments_accepted_total",
			Help: "Total number of accepted punishments",
		},
	)

	// ActiveSessions tracks the number of live group sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "party_duel_active_sessions",
			Help: "Number of live group sessions",
		},
	)
)

// All returns every custom collector for registration.
func All() []prometheus.Collector {
	return []prometheus.Collector{
		CommandsTotal,
		RoundsTotal,
		PunishmentsAcceptedTotal,
		ActiveSessions,
	}
}
