// Package leads implements the lead scoring engine: a deterministic scorer
// over target and contact data, suggestion generation with point-in-time
// snapshots, and the accept/reject review flow.
package leads
