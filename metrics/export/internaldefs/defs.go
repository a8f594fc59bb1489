package internaldefs

import (
	goGate "github.com/MrEthical07/goGate"
)

// BucketCount is the number of latency histogram buckets, +Inf included.
const BucketCount = 8

// CounterDef names one engine counter.
type CounterDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   goGate.MetricID
	Name string
	Help string
}

// AuditDroppedName is the series carrying dispatcher drops.
const (
	AuditDroppedName = "gogate_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// CounterDefs lists every exported counter in output order.
var CounterDefs = []CounterDef{
	{ID: goGate.MetricNavigationAllowed, Name: "gogate_navigation_allowed_total", Help: "Guarded navigations allowed to their target."},
	{ID: goGate.MetricNavigationRedirected, Name: "gogate_navigation_redirected_total", Help: "Guarded navigations redirected to login."},
	{ID: goGate.MetricNavigationUnguarded, Name: "gogate_navigation_unguarded_total", Help: "Navigations to routes without a guard."},
	{ID: goGate.MetricNavigationNotFound, Name: "gogate_navigation_not_found_total", Help: "Paths that matched no route."},
	{ID: goGate.MetricSessionFetch, Name: "gogate_session_fetch_total", Help: "Session fetches triggered by the guard."},
	{ID: goGate.MetricSessionFetchFailure, Name: "gogate_session_fetch_failure_total", Help: "Session fetches that did not authenticate."},
	{ID: goGate.MetricLoginSuccess, Name: "gogate_login_success_total", Help: "Successful login attempts."},
	{ID: goGate.MetricLoginFailure, Name: "gogate_login_failure_total", Help: "Failed login attempts."},
	{ID: goGate.MetricLoginRateLimited, Name: "gogate_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: goGate.MetricSessionCreated, Name: "gogate_session_created_total", Help: "Created sessions."},
	{ID: goGate.MetricLogout, Name: "gogate_logout_total", Help: "Single-session logout operations."},
	{ID: goGate.MetricLogoutAll, Name: "gogate_logout_all_total", Help: "Logout-all operations."},
	{ID: goGate.MetricPasswordRehashed, Name: "gogate_password_rehashed_total", Help: "Password hashes upgraded at login."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goGate.MetricFetchLatency, Name: "gogate_session_fetch_latency_seconds", Help: "Session fetch latency histogram."},
}

// HistogramBounds are the Prometheus "le" labels of the buckets.
var HistogramBounds = [BucketCount]string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bounds rendered as instrument name suffixes.
var HistogramBoundSuffix = [BucketCount]string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// CumulativeBuckets pads or truncates raw to [BucketCount] buckets and turns
// per-bucket counts into running totals.
func CumulativeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := range out {
		if i < len(raw) {
			running += raw[i]
		}
		out[i] = running
	}
	return out
}
