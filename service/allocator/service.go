package allocator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/cpulaunch/model"
	"github.com/viant/cpulaunch/runtime/execution"
	"github.com/viant/cpulaunch/runtime/expander"
)

// Config represents allocator service configuration
type Config struct {
	// Root is the parent of every unit working directory; empty means the
	// current directory.
	Root string
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{Root: "."}
}

// Service allocates execution units
type Service struct {
	config Config
	fs     afs.Service
}

// New creates a new allocator service
func New(fs afs.Service, config Config) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{config: config, fs: fs}
}

// WorkDirName returns the working directory name of cpuset within task
// taskIndex; a positive suffix is appended as "_<suffix>".
func WorkDirName(taskIndex int, cpuset string, suffix int) string {
	name := "task_" + strconv.Itoa(taskIndex) + "_cpuset_" + strings.ReplaceAll(cpuset, string(filepath.Separator), "_")
	if suffix > 0 {
		name += "_" + strconv.Itoa(suffix)
	}
	return name
}

// Expand returns one unit per cpuset of task, preserving order. Command and
// arguments are resolved once and shared by every unit of the task.
func (s *Service) Expand(task *model.Task, vars model.Vars) ([]*execution.Unit, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	root, err := s.root()
	if err != nil {
		return nil, err
	}
	command := expander.Expand(task.Command, vars)
	args := expander.ExpandAll(task.Args, vars)

	seen := make(map[string]int, len(task.CPUSets))
	dirs := make(map[string]bool, len(task.CPUSets))
	units := make([]*execution.Unit, 0, len(task.CPUSets))
	for _, cpuset := range task.CPUSets {
		occurrence := seen[cpuset]
		seen[cpuset]++
		unitID := execution.NewUnitID(task.Index, cpuset)
		if occurrence > 0 {
			unitID += "#" + strconv.Itoa(occurrence)
		}
		// the suffix may itself clash with a literal cpuset such as "5_1"
		suffix := 0
		dir := WorkDirName(task.Index, cpuset, suffix)
		for dirs[dir] {
			suffix++
			dir = WorkDirName(task.Index, cpuset, suffix)
		}
		dirs[dir] = true
		units = append(units, &execution.Unit{
			ID:        unitID,
			TaskIndex: task.Index,
			CPUSet:    cpuset,
			Command:   command,
			Args:      args,
			Repeat:    task.Repeat,
			WorkDir:   filepath.Join(root, dir),
		})
	}
	return units, nil
}

// Allocate validates the whole plan, expands every task and creates the
// working directories. Nothing is created when the plan is invalid.
func (s *Service) Allocate(ctx context.Context, plan *model.Plan) ([]*execution.Unit, error) {
	if issues := plan.Validate(); len(issues) > 0 {
		return nil, errors.Join(issues...)
	}
	var units []*execution.Unit
	for _, task := range plan.Tasks {
		expanded, err := s.Expand(task, plan.Vars)
		if err != nil {
			return nil, err
		}
		units = append(units, expanded...)
	}
	for _, unit := range units {
		if err := s.ensureDir(ctx, unit.WorkDir); err != nil {
			return nil, err
		}
	}
	return units, nil
}

func (s *Service) ensureDir(ctx context.Context, dir string) error {
	exists, _ := s.fs.Exists(ctx, dir)
	if exists {
		return nil
	}
	if err := s.fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", dir, err)
	}
	return nil
}

func (s *Service) root() (string, error) {
	root := s.config.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid working directory root %s: %w", root, err)
	}
	return abs, nil
}
