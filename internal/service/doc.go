// Package service holds the application use cases. Services coordinate
// the stores in internal/store, the scheduling engine in
// internal/domain/schedule and the event emitter, and own transaction
// boundaries.
//
// Errors follow one pattern: expected conditions are returned as
// sentinels (ErrTaskNotOwned, store.ErrTaskNotFound, domain validation
// errors) and everything else is wrapped in a ServiceError naming the
// operation. The API layer maps both to HTTP responses.
//
// Task and settings mutations emit a schedule.requested event after they
// commit; the jobs package turns that into a background reschedule.
// ScheduleService.Reschedule serializes runs per user, in process with a
// keyed mutex and across processes with a transaction-scoped lock.
package service
