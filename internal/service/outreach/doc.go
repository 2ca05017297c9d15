// Package outreach owns the draft lifecycle: compose, review, approve,
// send.
//
// A draft moves monotonically through draft → queued → approved → sent or
// failed. Creation renders the chosen template and attaches informational
// warnings (compliance, missing template fields, daily cap). Sending
// re-validates compliance against current data, claims a slot from the
// daily rate limiter, and hands the finalized message to a dispatcher;
// both the success and the failure path append an immutable OutreachEvent
// and commit together with the draft update in one unit of work.
//
// The service layer contains the state machine and orchestration only; all
// storage access goes through the Repository interface.
package outreach
