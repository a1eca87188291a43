package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and stores return
// these (optionally wrapped) so services can translate them into domain
// errors or fail-closed decisions.
//
// These represent factual states about resources, not validation
// failures. ErrUnavailable means an external service did not respond
// (timeout, refused connection, non-success status); the permission
// evaluator treats it as fail-closed denial.
//
// For validation errors (bad input, missing fields), use
// pkg/domain-errors directly.
var (
	ErrUnavailable = errors.New("unavailable")
)
