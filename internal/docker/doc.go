// Package docker is the boundary to the external container runtime.
//
// All runtime interaction goes through the docker CLI as argv command
// executions. A [Runner] spawns a command and captures its exit code,
// stdout, and stderr; a non-zero exit code is data for the caller to
// judge, not an error. A [Client] wraps a Runner and assembles the
// docker and docker compose command lines for building, tagging,
// saving, pushing, and orchestrating containers. The Client is
// constructed once per process and passed to collaborators; it must
// not be treated as a singleton.
//
// The Client also implements [Inspector], classifying the raw output
// of "docker inspect" into the [RawState] and [RawHealth] vocabularies.
// The docker CLI reports errors as free text, so classification relies
// on documented substring checks (e.g. "No such object" means the
// container is absent). Those checks live here and nowhere else, so
// they can be replaced with structured parsing without touching the
// polling logic built on top.
//
// Example usage:
//
//	client := docker.NewClient(docker.NewRunner())
//	defer client.Close()
//
//	if err := client.Build(ctx, docker.BuildOptions{Image: "app:1.0"}); err != nil {
//	    return err
//	}
//
//	state, _ := client.State(ctx, "app-container")
package docker
