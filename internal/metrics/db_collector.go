package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is a snapshot of the credential store's connection pool. It
// mirrors the fields of pgxpool.Stat the collector exports.
type PoolStats struct {
	TotalConns        int32
	IdleConns         int32
	AcquiredConns     int32
	MaxConns          int32
	AcquireCount      int64
	EmptyAcquireCount int64
	AcquireDuration   time.Duration
}

// PoolStatFunc returns the current pool snapshot.
type PoolStatFunc func() PoolStats

type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(PoolStats) float64
}

// poolCollector reads the pool once per scrape.
type poolCollector struct {
	stat    PoolStatFunc
	metrics []poolMetric
}

func newPoolCollector(stat PoolStatFunc) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("scoutline_db_pool_"+name, help, nil, nil)
	}
	return &poolCollector{
		stat: stat,
		metrics: []poolMetric{
			{desc("total_conns", "Connections currently open in the pool."), prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.TotalConns) }},
			{desc("idle_conns", "Idle connections in the pool."), prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.IdleConns) }},
			{desc("acquired_conns", "Connections checked out by a query."), prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.AcquiredConns) }},
			{desc("max_conns", "Configured pool size."), prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.MaxConns) }},
			{desc("acquires_total", "Successful connection acquisitions."), prometheus.CounterValue,
				func(s PoolStats) float64 { return float64(s.AcquireCount) }},
			{desc("empty_acquires_total", "Acquisitions that waited because the pool was empty."), prometheus.CounterValue,
				func(s PoolStats) float64 { return float64(s.EmptyAcquireCount) }},
			{desc("acquire_seconds_total", "Time spent waiting for connections."), prometheus.CounterValue,
				func(s PoolStats) float64 { return s.AcquireDuration.Seconds() }},
		},
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(s))
	}
}
