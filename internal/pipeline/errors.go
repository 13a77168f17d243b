package pipeline

import "errors"

var (
	ErrConfig       = errors.New("invalid pipeline configuration")
	ErrNoBuiltImage = errors.New("no built image in pipeline context")
	ErrBuild        = errors.New("build failed")
	ErrEnvironment  = errors.New("environment startup failed")
	ErrNotReady     = errors.New("containers did not reach target disposition")
	ErrTestHarness  = errors.New("test harness failed")
	ErrTestsFailed  = errors.New("tests failed")
	ErrHook         = errors.New("hook failed")
)
