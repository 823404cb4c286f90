package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promptsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daydreams_prompts_served_total",
		Help: "Total number of daily prompt requests served.",
	})

	storiesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daydreams_stories_saved_total",
		Help: "Total number of stories saved.",
	})

	favoritesToggledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daydreams_favorites_toggled_total",
			Help: "Total number of favorite toggles by direction.",
		},
		[]string{"favorite"},
	)

	invitationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daydreams_invitations_total",
			Help: "Total number of invitation operations by action.",
		},
		[]string{"action"},
	)
)
