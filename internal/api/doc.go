// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the task, settings and schedule services
// to JSON over HTTP; routing lives in cmd/server.
package api
