package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_games_created_total",
			Help: "Total games created",
		},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_games_finished_total",
			Help: "Total games finished, by termination",
		},
		[]string{"termination"},
	)
	MovesAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chess_moves_accepted_total",
			Help: "Total moves accepted and committed",
		},
	)
	MovesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_moves_rejected_total",
			Help: "Total move submissions rejected, by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(GamesCreated)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(MovesAccepted)
	prometheus.MustRegister(MovesRejected)
}
