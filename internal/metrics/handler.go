package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the metrics summary endpoint.
type Summary struct {
	HTTP      httpSummary   `json:"http"`
	Auth      authInfo      `json:"auth"`
	Sessions  sessionInfo   `json:"sessions"`
	RateLimit rateLimitInfo `json:"rateLimit"`
	DB        dbInfo        `json:"db"`
	Server    serverInfo    `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	P50Latency    float64 `json:"p50Latency"`
	P95Latency    float64 `json:"p95Latency"`
	P99Latency    float64 `json:"p99Latency"`
}

type outcomeCounts struct {
	Success  float64 `json:"success"`
	Invalid  float64 `json:"invalid"`
	Rejected float64 `json:"rejected"`
	Error    float64 `json:"error"`
}

type authInfo struct {
	Logins        outcomeCounts `json:"logins"`
	Registrations outcomeCounts `json:"registrations"`
}

type sessionInfo struct {
	Valid   float64 `json:"valid"`
	Invalid float64 `json:"invalid"`
}

type rateLimitInfo struct {
	Rejections float64 `json:"rejections"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

type dbInfo struct {
	TotalConns    float64 `json:"totalConns"`
	IdleConns     float64 `json:"idleConns"`
	AcquiredConns float64 `json:"acquiredConns"`
}

// Handler returns an http.HandlerFunc that serves live metrics in JSON format.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.handleLive(w)
	}
}

func (m *Metrics) handleLive(w http.ResponseWriter) {
	families, err := m.registry.Gather()
	if err != nil {
		http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
		return
	}

	fam := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		fam[f.GetName()] = f
	}

	requests := fam["scoutline_http_requests_total"]
	latency := fam["scoutline_http_request_duration_seconds"]
	attempts := fam["scoutline_auth_attempts_total"]
	sessions := fam["scoutline_session_validations_total"]
	started := gauge(fam["scoutline_server_start_time_seconds"])

	summary := Summary{
		HTTP: httpSummary{
			TotalRequests: sum(requests, nil),
			ErrorRate:     ratio(sum(requests, serverError), sum(requests, nil)),
			P50Latency:    quantile(latency, 0.50),
			P95Latency:    quantile(latency, 0.95),
			P99Latency:    quantile(latency, 0.99),
		},
		Auth: authInfo{
			Logins:        outcomes(attempts, "login"),
			Registrations: outcomes(attempts, "register"),
		},
		Sessions: sessionInfo{
			Valid:   sum(sessions, label("result", "valid")),
			Invalid: sum(sessions, not(label("result", "valid"))),
		},
		RateLimit: rateLimitInfo{
			Rejections: sum(fam["scoutline_ratelimit_rejections_total"], nil),
		},
		DB: dbInfo{
			TotalConns:    gauge(fam["scoutline_db_pool_total_conns"]),
			IdleConns:     gauge(fam["scoutline_db_pool_idle_conns"]),
			AcquiredConns: gauge(fam["scoutline_db_pool_acquired_conns"]),
		},
		Server: serverInfo{
			StartTime:     started,
			UptimeSeconds: float64(time.Now().Unix()) - started,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	_ = json.NewEncoder(w).Encode(summary)
}

// outcomes totals one operation's attempts across roles.
func outcomes(f *dto.MetricFamily, operation string) outcomeCounts {
	op := label("operation", operation)
	count := func(outcome string) float64 {
		return sum(f, and(op, label("outcome", outcome)))
	}
	return outcomeCounts{
		Success:  count("success"),
		Invalid:  count("invalid"),
		Rejected: count("rejected"),
		Error:    count("error"),
	}
}

type matcher func(*dto.Metric) bool

func label(name, value string) matcher {
	return func(m *dto.Metric) bool {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name {
				return lp.GetValue() == value
			}
		}
		return false
	}
}

func not(match matcher) matcher {
	return func(m *dto.Metric) bool { return !match(m) }
}

func and(a, b matcher) matcher {
	return func(m *dto.Metric) bool { return a(m) && b(m) }
}

// serverError matches 5xx responses. 401s and 409s are normal auth traffic.
func serverError(m *dto.Metric) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == "status_code" {
			return strings.HasPrefix(lp.GetValue(), "5")
		}
	}
	return false
}

// sum adds the counters in f accepted by match; a nil match accepts all.
func sum(f *dto.MetricFamily, match matcher) float64 {
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil || (match != nil && !match(m)) {
			continue
		}
		total += m.GetCounter().GetValue()
	}
	return total
}

func gauge(f *dto.MetricFamily) float64 {
	for _, m := range f.GetMetric() {
		if m.GetGauge() != nil {
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func ratio(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

// quantile estimates the q-quantile of all histograms in f, interpolating
// linearly inside the bucket the rank falls in.
func quantile(f *dto.MetricFamily, q float64) float64 {
	var samples uint64
	cumulative := make(map[float64]uint64)
	for _, m := range f.GetMetric() {
		h := m.GetHistogram()
		if h == nil {
			continue
		}
		samples += h.GetSampleCount()
		for _, b := range h.GetBucket() {
			if !math.IsInf(b.GetUpperBound(), 1) {
				cumulative[b.GetUpperBound()] += b.GetCumulativeCount()
			}
		}
	}
	if samples == 0 || len(cumulative) == 0 {
		return 0
	}

	bounds := make([]float64, 0, len(cumulative))
	for ub := range cumulative {
		bounds = append(bounds, ub)
	}
	sort.Float64s(bounds)

	rank := q * float64(samples)
	var lower float64
	var below uint64
	for _, ub := range bounds {
		n := cumulative[ub]
		if float64(n) >= rank {
			if n == below {
				return ub
			}
			return lower + (rank-float64(below))/float64(n-below)*(ub-lower)
		}
		lower, below = ub, n
	}
	return bounds[len(bounds)-1]
}
