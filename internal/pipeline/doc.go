// Package pipeline sequences a release pipeline run.
//
// A run moves through a fixed set of phases: build the image, bring up
// the declared compose environment (when one is configured), wait for
// its containers to reach their target dispositions, execute the test
// phase, and branch on the result. A passing test run applies the
// configured tags, saves the image archive, publishes to the remote
// targets, and fires the after-success hook, in that fixed order. A
// failing test run fires only the after-failure hook; release
// operations never run against an image whose tests failed.
//
// One [Context] is created per run and threaded through every phase.
// It records the built image reference, the tags applied so far, the
// publish results, and the test outcome, and is returned to the caller
// for inspection whether the run succeeded or not. Side effects already
// committed when a later phase fails (an applied tag, a pushed image)
// are left in place; operations are not transactional.
//
// Example usage:
//
//	spec, err := pipeline.Load("dockrel.yaml")
//	if err != nil {
//	    return err
//	}
//
//	exec := pipeline.NewExecutor(spec, client, poller, test, hooks)
//	pc, err := exec.Run(ctx)
//	if err != nil {
//	    return err
//	}
//
//	slog.Info("released", "image", pc.BuiltImage(), "tags", pc.AppliedTags())
package pipeline
