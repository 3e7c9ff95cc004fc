// Package jobs runs background work for the API: persisted jobs, a bounded
// queue, a worker pool and a runner that recovers unfinished jobs after a
// restart.
//
// The only job type is reschedule_user. It is produced two ways: by
// ScheduleRequestedHandler when a task or settings change emits a
// schedule.requested event, and by the Sweeper on its nightly cron
// schedule for every user.
package jobs
