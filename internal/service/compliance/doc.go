// Package compliance decides whether a (target, contact) pair may be
// contacted at all.
//
// This is the single source of truth consulted before every send: opt-out
// flags on targets and contacts, plus the global do-not-contact list. The
// checker is read-only and returns every applicable warning rather than
// short-circuiting, so a reviewer sees the full picture at once.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports net/http
// or database/sql directly.
package compliance
