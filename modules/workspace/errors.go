package workspace

import "errors"

var (
	ErrInvalidFixtures = errors.New("workspace: invalid fixtures")
	ErrFileNotFound    = errors.New("workspace: file not found")

	ErrRequestNotFound  = errors.New("workspace: request not found")
	ErrTrackerCorrupted = errors.New("workspace: tracker data is corrupted")
)
