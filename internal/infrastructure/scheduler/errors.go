package scheduler

import "errors"

// Errors returned by Submit and New
var (
	ErrStopped       = errors.New("scheduler: stopped")
	ErrQueueFull     = errors.New("scheduler: queue full")
	ErrUnknownTask   = errors.New("scheduler: unknown task")
	ErrAlreadyQueued = errors.New("scheduler: task already queued or running")
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
)
