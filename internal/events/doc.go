// Package events lets services announce changes without knowing who reacts.
//
// Task and settings mutations emit a schedule.requested event; the jobs
// package registers a handler that turns it into a persisted reschedule
// job. Services depend only on EventEmitter, so they never import the job
// runner.
package events
