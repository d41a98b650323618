// Package exec runs the Gradle build tool for heron.
//
// It has three parts:
//
//  1. Executor runs a system command with context cancellation, streamed
//     output and an optional spinner on interactive terminals.
//  2. Target describes how a named heron target (build, test, gradle) turns
//     an Invocation into build-tool arguments. Targets live in a Registry.
//  3. RunOrdered runs a target across a workspace in topological order so
//     every module is built after the modules it depends on.
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "gradle", "--version")
//
// Running a target in one module:
//
//	target, _ := exec.Lookup("build")
//	err := exec.RunTarget(ctx, executor, target, exec.Invocation{
//	    Module:  "core",
//	    Dir:     "/work/core",
//	    Command: "gradle",
//	})
//
// # Testing
//
// The Executor's command function can be swapped in tests, so no real
// build tool is needed to exercise targets and ordered runs.
package exec
