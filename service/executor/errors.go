package executor

import "errors"

var (
	ErrProcessFailed = errors.New("process exited with non-zero code")
	ErrLaunch        = errors.New("failed to launch process")
)
