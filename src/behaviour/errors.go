package behaviour

import "errors"

var (
	ErrNoOrchestrator           = errors.New("no orchestrator supplied")
	ErrIncompatibleOrchestrator = errors.New("orchestrator version too old")
	ErrClean                    = errors.New("clean failed")
	ErrBuild                    = errors.New("build failed")
	ErrPublish                  = errors.New("publish failed")
)
