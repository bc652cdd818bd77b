// Package monitor is the dashboard-side client for the exam monitoring API.
//
// A dashboard polls the snapshot endpoint through a Poller. Each received
// snapshot is authoritative and fully replaces whatever local projection the
// view holds; optimistic local edits must never survive the next snapshot.
// Transient fetch failures are reported but do not stop the loop, and the loop
// honors context cancellation mid-flight.
package monitor
