package docker

import "errors"

var (
	ErrDocker  = errors.New("docker command failed")
	ErrCompose = errors.New("compose command failed")
)
