// Package domain contains the core business entities of the task planner:
// tasks, capacity limits, calendar dates and users. It has no knowledge of
// storage or transport; the scheduling engine lives in domain/schedule.
package domain
