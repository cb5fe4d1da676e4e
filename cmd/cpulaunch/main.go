// cpulaunch - run commands pinned to CPU sets
//
// Usage:
//
//	cpulaunch [flags] TASKS_YAML
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/viant/cpulaunch"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
	"github.com/viant/cpulaunch/tracing"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	quiet       bool
	logFile     string
	workRoot    string
	onFailure   string
	shell       string
	affinity    string
	traceFile   string
	metricsFile string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	defaults := cpulaunch.DefaultConfig()
	flags := flag.NewFlagSet("cpulaunch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress all log output")
	flags.StringVar(&opts.logFile, "log-file", sink.DefaultLogFile, "Log file, appended to")
	flags.StringVar(&opts.workRoot, "workdir-root", defaults.WorkRoot, "Parent directory of unit working directories")
	flags.StringVar(&opts.onFailure, "on-failure", defaults.OnFailure, "Sibling handling after a unit fails: abort, drain")
	flags.StringVar(&opts.shell, "shell", defaults.Shell, "Shell running multi-line commands")
	flags.StringVar(&opts.affinity, "affinity", strings.Join(defaults.Affinity, " "), "CPU pinning command, the cpuset is appended (empty disables pinning)")
	flags.StringVar(&opts.traceFile, "trace-file", "", "Write OpenTelemetry spans to file")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to file at exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "cpulaunch - run commands pinned to CPU sets\n\nUsage:\n  cpulaunch [flags] TASKS_YAML\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}

	logSink, err := sink.Open(&sink.Config{Quiet: opts.quiet, LogFile: opts.logFile, Console: stdout})
	if err != nil {
		fmt.Fprintf(stderr, "cpulaunch: %v\n", err)
		return exitFailure
	}
	defer logSink.Close()

	config := &cpulaunch.Config{
		WorkRoot:  opts.workRoot,
		OnFailure: opts.onFailure,
		Shell:     opts.shell,
		Affinity:  strings.Fields(opts.affinity),
	}
	srvOptions := []cpulaunch.Option{cpulaunch.WithConfig(config), cpulaunch.WithSink(logSink)}
	if opts.traceFile != "" {
		srvOptions = append(srvOptions, cpulaunch.WithTracing("cpulaunch", version, opts.traceFile))
		defer func() { _ = tracing.Shutdown(context.Background()) }()
	}
	var collectors *metrics.Metrics
	if opts.metricsFile != "" {
		collectors = metrics.New()
		srvOptions = append(srvOptions, cpulaunch.WithMetrics(collectors))
	}

	rt := cpulaunch.New(srvOptions...).Runtime()
	plan, err := rt.LoadPlan(ctx, flags.Arg(0))
	if err != nil {
		logSink.Error("msg", "configuration error", "err", err)
		fmt.Fprintf(stderr, "cpulaunch: %v\n", err)
		return exitFailure
	}
	_, err = rt.Run(ctx, plan)
	if writeErr := collectors.WriteFile(opts.metricsFile); writeErr != nil {
		fmt.Fprintf(stderr, "cpulaunch: failed to write metrics: %v\n", writeErr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "cpulaunch: %v\n", err)
		return exitFailure
	}
	return exitOK
}
