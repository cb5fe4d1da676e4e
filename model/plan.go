package model

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRepeat is used when a task does not declare repeat.
const DefaultRepeat = 1

var (
	ErrNoTasks        = errors.New("no tasks defined")
	ErrMissingCPUSet  = errors.New("task must define a 'cpuset' field")
	ErrMissingCommand = errors.New("task must define a 'cmd' field")
	ErrInvalidRepeat  = errors.New("task repeat must be -1 or a non-negative integer")
)

// Vars maps placeholder names to replacement text. It is shared read-only by
// every substitution of a run.
type Vars map[string]string

// Task is a single entry of the tasks list.
type Task struct {
	Index   int      `json:"index" yaml:"-"`
	CPUSets []string `json:"cpuset" yaml:"cpuset"`
	Command string   `json:"cmd" yaml:"cmd"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
	Repeat  int      `json:"repeat" yaml:"repeat"`
}

// Validate returns the first problem that prevents the task from running.
func (t *Task) Validate() error {
	if len(t.CPUSets) == 0 {
		return fmt.Errorf("task %d: %w", t.Index, ErrMissingCPUSet)
	}
	for _, cpuset := range t.CPUSets {
		if strings.TrimSpace(cpuset) == "" {
			return fmt.Errorf("task %d: %w", t.Index, ErrMissingCPUSet)
		}
	}
	if t.Command == "" {
		return fmt.Errorf("task %d: %w", t.Index, ErrMissingCommand)
	}
	if t.Repeat < -1 {
		return fmt.Errorf("task %d: %w, got %d", t.Index, ErrInvalidRepeat, t.Repeat)
	}
	return nil
}

// Plan is a loaded configuration document.
type Plan struct {
	Source string  `json:"source,omitempty" yaml:"-"`
	Vars   Vars    `json:"vars,omitempty" yaml:"vars,omitempty"`
	Tasks  []*Task `json:"tasks" yaml:"tasks"`
}

// NewTask appends a task with default repeat and returns it.
func (p *Plan) NewTask(command string, cpusets ...string) *Task {
	task := &Task{
		Index:   len(p.Tasks),
		CPUSets: cpusets,
		Command: command,
		Repeat:  DefaultRepeat,
	}
	p.Tasks = append(p.Tasks, task)
	return task
}

// WithArgs sets task arguments.
func (t *Task) WithArgs(args ...string) *Task {
	t.Args = args
	return t
}

// WithRepeat sets task repeat budget.
func (t *Task) WithRepeat(repeat int) *Task {
	t.Repeat = repeat
	return t
}

// Validate collects issues for the whole plan.
func (p *Plan) Validate() []error {
	var issues []error
	if len(p.Tasks) == 0 {
		source := p.Source
		if source == "" {
			source = "plan"
		}
		issues = append(issues, fmt.Errorf("%w in %s", ErrNoTasks, source))
		return issues
	}
	for _, task := range p.Tasks {
		if task == nil {
			continue
		}
		if err := task.Validate(); err != nil {
			issues = append(issues, err)
		}
	}
	return issues
}
