// Package audit records navigation and login outcomes and hands them to a
// pluggable [Sink] through a bounded queue drained by one goroutine.
//
// With [Block], Record waits for room only as long as its context allows.
// With [Drop], it never waits. Either way lost events show up in [Stats].
package audit
