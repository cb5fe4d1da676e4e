package cpulaunch

import (
	"fmt"

	"github.com/viant/cpulaunch/policy"
	"github.com/viant/cpulaunch/service/allocator"
	"github.com/viant/cpulaunch/service/executor"
)

// Config is a serialisable representation of the launcher configuration.
type Config struct {
	// WorkRoot is the parent of every unit working directory.
	WorkRoot string `json:"workRoot" yaml:"workRoot"`
	// OnFailure selects what happens to sibling units once a unit fails.
	OnFailure string `json:"onFailure" yaml:"onFailure"`
	// Shell runs multi-line command payloads.
	Shell string `json:"shell" yaml:"shell"`
	// Affinity is the CPU pinning invocation, the cpuset is appended to it.
	Affinity []string `json:"affinity" yaml:"affinity"`
}

// DefaultConfig returns a Config running units under the current directory
// with bash, taskset and the abort failure policy.
func DefaultConfig() *Config {
	executorConfig := executor.DefaultConfig()
	return &Config{
		WorkRoot:  allocator.DefaultConfig().Root,
		OnFailure: policy.ModeAbort,
		Shell:     executorConfig.Shell,
		Affinity:  executorConfig.Affinity,
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.WorkRoot == "" {
		return fmt.Errorf("workRoot was empty")
	}
	if c.Shell == "" {
		return fmt.Errorf("shell was empty")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy returns the failure policy selected by OnFailure.
func (c *Config) Policy() (*policy.Policy, error) {
	return policy.FromConfig(&policy.Config{OnFailure: c.OnFailure})
}

func (c *Config) executorConfig() executor.Config {
	return executor.Config{Shell: c.Shell, Affinity: c.Affinity}
}

func (c *Config) allocatorConfig() allocator.Config {
	return allocator.Config{Root: c.WorkRoot}
}
