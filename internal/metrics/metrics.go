package metrics

import (
	"roulette_sentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "roulette"
	subsystem = "shield"

	ModeLive       = "live"
	ModeSimulation = "simulation"
)

// Metrics Счетчики стратегии. Регистрируются в переданном реестре
type Metrics struct {
	// RoundsPlayed - сыгранные раунды по режиму (live, simulation)
	RoundsPlayed *prometheus.CounterVec
	// Autostops - срабатывания условий остановки по флагу
	Autostops *prometheus.CounterVec
	// RunsFinished - завершенные прогоны и сессии по итоговому статусу
	RunsFinished *prometheus.CounterVec
	// SessionsStarted - начатые живые сессии
	SessionsStarted prometheus.Counter
	// SimulationROI - доходность прогонов в процентах
	SimulationROI prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RoundsPlayed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rounds_played_total",
				Help:      "Total number of played rounds",
			},
			[]string{"mode"},
		),
		Autostops: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "autostops_total",
				Help:      "Total number of fired stop conditions",
			},
			[]string{"flag"},
		),
		RunsFinished: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_finished_total",
				Help:      "Total number of finished runs by terminal status",
			},
			[]string{"mode", "status"},
		),
		SessionsStarted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_started_total",
				Help:      "Total number of started live sessions",
			},
		),
		SimulationROI: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "simulation_roi_percent",
				Help:      "Return on investment of finished simulations in percent",
				Buckets:   []float64{-100, -50, -20, -10, -5, 0, 5, 10, 20, 50, 100},
			},
		),
	}
}

// ObserveRounds Учесть сыгранные раунды
func (m *Metrics) ObserveRounds(mode string, n int) {
	if n > 0 {
		m.RoundsPlayed.WithLabelValues(mode).Add(float64(n))
	}
}

// ObserveFinish Учесть завершение прогона: статус и сработавшие флаги
func (m *Metrics) ObserveFinish(mode string, status model.Status, flags model.StopFlags) {
	m.RunsFinished.WithLabelValues(mode, string(status)).Inc()
	if !status.Stopped() {
		return
	}
	for _, name := range flags.Names() {
		m.Autostops.WithLabelValues(name).Inc()
	}
}

// ObserveSimulation Итоги одного прогона симуляции
func (m *Metrics) ObserveSimulation(summary model.Summary) {
	m.ObserveRounds(ModeSimulation, summary.Rounds)
	m.ObserveFinish(ModeSimulation, summary.Status, summary.Flags)
	m.SimulationROI.Observe(summary.ROI)
}
