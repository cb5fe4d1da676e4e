package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/cpulaunch/internal/yml"
	"github.com/viant/cpulaunch/model"
	"gopkg.in/yaml.v3"
)

// Service loads launch plans from any location supported by afs.
type Service struct {
	fs afs.Service
}

// Load downloads and decodes the plan at URL.
func (s *Service) Load(ctx context.Context, URL string) (*model.Plan, error) {
	data, err := s.fs.DownloadWithURL(ctx, location(URL))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration file %s: %w", URL, err)
	}
	plan, err := s.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration file %s: %w", URL, err)
	}
	plan.Source = URL
	if issues := plan.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return plan, nil
}

// location turns a relative local path into an absolute one.
func location(URL string) string {
	if strings.Contains(URL, "://") || filepath.IsAbs(URL) {
		return URL
	}
	if abs, err := filepath.Abs(URL); err == nil {
		return abs
	}
	return URL
}

// DecodeYAML decodes a plan without validating it.
func (s *Service) DecodeYAML(encoded []byte) (*model.Plan, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.ParsePlan((*yml.Node)(&node))
}

// ParsePlan converts a YAML node into a plan. Anchors, aliases and merge
// keys are resolved.
func (s *Service) ParsePlan(node *yml.Node) (*model.Plan, error) {
	plan := &model.Plan{Vars: model.Vars{}}
	root := node.Root()
	if root.IsNull() {
		return plan, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: configuration must be a mapping", root.Line)
	}
	if err := checkMerges(root); err != nil {
		return nil, err
	}
	if err := parseVars(root.Lookup("vars"), plan.Vars); err != nil {
		return nil, err
	}
	if err := parseTasks(root.Lookup("tasks"), plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// checkMerges reports a malformed merge key, which Lookup would skip.
func checkMerges(node *yml.Node) error {
	return node.Pairs(func(string, *yml.Node) error { return nil })
}

// parseVars keeps the literal text of every scalar, so 1.50 stays "1.50"
// and yes stays "yes".
func parseVars(node *yml.Node, vars model.Vars) error {
	if node.IsNull() {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: vars must be a mapping", node.Line)
	}
	return node.Pairs(func(key string, valueNode *yml.Node) error {
		value, err := valueNode.Scalar()
		if err != nil {
			return fmt.Errorf("vars.%s: %w", key, err)
		}
		vars[key] = value
		return nil
	})
}

func parseTasks(node *yml.Node, plan *model.Plan) error {
	if node.IsNull() {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: tasks must be a list", node.Line)
	}
	return node.Items(func(index int, taskNode *yml.Node) error {
		if err := parseTask(taskNode, plan); err != nil {
			return fmt.Errorf("task %d: %w", index, err)
		}
		return nil
	})
}

func parseTask(node *yml.Node, plan *model.Plan) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: task must be a mapping", node.Line)
	}
	if err := checkMerges(node); err != nil {
		return err
	}
	cpusets, err := node.Lookup("cpuset").Strings()
	if err != nil {
		return fmt.Errorf("cpuset: %w", err)
	}
	var command string
	if cmdNode := node.Lookup("cmd"); !cmdNode.IsNull() {
		if command, err = cmdNode.Scalar(); err != nil {
			return fmt.Errorf("cmd: %w", err)
		}
	}
	args, err := node.Lookup("args").Strings()
	if err != nil {
		return fmt.Errorf("args: %w", err)
	}
	repeat := model.DefaultRepeat
	if repeatNode := node.Lookup("repeat"); !repeatNode.IsNull() {
		if repeat, err = repeatNode.Int(); err != nil {
			return fmt.Errorf("repeat: %w", err)
		}
	}
	plan.NewTask(command, cpusets...).WithArgs(args...).WithRepeat(repeat)
	return nil
}

// New creates a plan service.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}
