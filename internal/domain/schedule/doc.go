// Package schedule implements the task scheduling and prioritization engine.
//
// Given a user's tasks and capacity limits, AssignStartDates gives every
// open, non-recurring, non-pinned task a start date within a bounded
// look-ahead window, highest priority first, never exceeding a day's
// task-count cap, total-hours cap, or per-category hours cap.
//
// The engine is pure and synchronous. It reads no clock and performs no
// I/O: "today" and the time zone are always supplied by the caller, and
// anything that cannot be satisfied is reported as a warning string
// rather than an error. Callers that run it concurrently for the same
// user must serialize the runs themselves.
package schedule
