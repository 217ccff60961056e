package metrics

import (
	"context"
	"net/http"
	"time"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/service"
	"hospital-admissions/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hospital"

const snapshotTimeout = 5 * time.Second

var roomStatuses = []string{
	models.RoomStatusAvailable,
	models.RoomStatusOccupied,
	models.RoomStatusMaintenance,
	models.RoomStatusReserved,
}

// StatsSource produces the ward snapshot read on every scrape
type StatsSource interface {
	Snapshot(ctx context.Context) (*service.WardStats, error)
}

// Metrics owns a private registry so /api/metrics only exposes ward gauges
type Metrics struct {
	registry    *prometheus.Registry
	overstaying prometheus.Gauge
}

func New(source StatsSource, log *logger.Logger) *Metrics {
	overstaying := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "overstaying_admissions",
		Help:      "Active admissions past their expected discharge date.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(newWardCollector(source, log), overstaying)

	return &Metrics{
		registry:    registry,
		overstaying: overstaying,
	}
}

// SetOverstaying is called by the overstay monitor after each scan
func (m *Metrics) SetOverstaying(count int) {
	m.overstaying.Set(float64(count))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type wardCollector struct {
	source StatsSource
	log    *logger.Logger

	totalPatients    *prometheus.Desc
	totalDoctors     *prometheus.Desc
	totalBeds        *prometheus.Desc
	occupiedBeds     *prometheus.Desc
	activeAdmissions *prometheus.Desc
	occupancyRate    *prometheus.Desc
	rooms            *prometheus.Desc
}

func newWardCollector(source StatsSource, log *logger.Logger) *wardCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}

	return &wardCollector{
		source:           source,
		log:              log,
		totalPatients:    desc("total_patients", "Registered patients."),
		totalDoctors:     desc("total_doctors", "Active doctors on staff."),
		totalBeds:        desc("total_beds", "Beds across all rooms."),
		occupiedBeds:     desc("occupied_beds", "Beds currently taken by admitted patients."),
		activeAdmissions: desc("active_admissions", "Admissions not yet discharged."),
		occupancyRate:    desc("bed_occupancy_ratio", "Occupied beds over total beds."),
		rooms:            desc("rooms", "Rooms by status.", "status"),
	}
}

func (c *wardCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalPatients
	ch <- c.totalDoctors
	ch <- c.totalBeds
	ch <- c.occupiedBeds
	ch <- c.activeAdmissions
	ch <- c.occupancyRate
	ch <- c.rooms
}

func (c *wardCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	stats, err := c.source.Snapshot(ctx)
	if err != nil {
		c.log.Error("failed to collect ward metrics", "error", err)
		ch <- prometheus.NewInvalidMetric(c.totalBeds, err)
		return
	}

	gauge := func(desc *prometheus.Desc, value float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value, labels...)
	}

	gauge(c.totalPatients, float64(stats.TotalPatients))
	gauge(c.totalDoctors, float64(stats.TotalDoctors))
	gauge(c.totalBeds, float64(stats.TotalBeds))
	gauge(c.occupiedBeds, float64(stats.OccupiedBeds))
	gauge(c.activeAdmissions, float64(stats.ActiveAdmissions))
	gauge(c.occupancyRate, stats.OccupancyRate())
	for _, status := range roomStatuses {
		gauge(c.rooms, float64(stats.RoomsByStatus[status]), status)
	}
}
