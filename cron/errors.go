package cron

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when another Run is in progress.
	ErrAlreadyRunning = errors.New("cron: already running")
	// ErrPanicked indicates a job panicked (the panic is recovered and logged).
	ErrPanicked = errors.New("cron: job panicked")

	// ErrInvalidName is returned by Add when a job name is invalid.
	//
	// Name rules:
	//   - name is required
	//   - name must match [A-Za-z0-9._-]
	//   - name is normalized by strings.TrimSpace before validation
	ErrInvalidName = errors.New("cron: invalid name")

	// ErrDuplicateName is returned by Add when a name is already registered.
	ErrDuplicateName = errors.New("cron: duplicate name")
)
