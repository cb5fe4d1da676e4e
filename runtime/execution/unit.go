package execution

import (
	"fmt"
	"strings"
)

// Unit is one (task, cpuset) pairing. It is created by the allocator and
// owned by a single worker for its whole lifetime.
type Unit struct {
	ID        string   `json:"id"`
	TaskIndex int      `json:"taskIndex"`
	CPUSet    string   `json:"cpuset"`
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
	Repeat    int      `json:"repeat"`
	WorkDir   string   `json:"workDir"`
}

// NewUnitID returns the identifier used for a unit in logs and spans.
func NewUnitID(taskIndex int, cpuset string) string {
	return fmt.Sprintf("task_%d/%s", taskIndex, cpuset)
}

// IsScript reports whether the command payload must go through a shell.
func (u *Unit) IsScript() bool {
	return strings.Contains(u.Command, "\n")
}
