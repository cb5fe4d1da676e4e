// Package cpulaunch starts external programs pinned to CPU sets.
//
// A plan is declared in YAML as a list of tasks. Each task names a command,
// optional arguments, one or more cpusets and a repeat count. Every
// (task, cpuset) pair becomes an execution unit that runs in its own working
// directory, under its own worker, until its repeat budget is exhausted or
// an iteration fails. The first failure stops the whole run.
//
//	srv := cpulaunch.New(cpulaunch.WithSink(logSink))
//	rt := srv.Runtime()
//	plan, _ := rt.LoadPlan(ctx, "tasks.yaml")
//	summary, err := rt.Run(ctx, plan)
package cpulaunch
