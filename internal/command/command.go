// Package command validates the {action, key, value} envelopes the AI layer
// emits before they reach the save document.
//
// Validation is pure: it never mutates its input and never returns a Go error
// for expected-invalid envelopes. Malformed commands become entries in the
// batch result and are excluded from the apply set.
package command

import "fmt"

// Actions in the command vocabulary.
const (
	ActionSet    = "set"
	ActionAdd    = "add"
	ActionPush   = "push"
	ActionDelete = "delete"
	ActionPull   = "pull"
)

// Actions lists the five valid action values.
var Actions = []string{ActionSet, ActionAdd, ActionPush, ActionDelete, ActionPull}

func validAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Command is the canonical envelope after cleanup. Value is nil only for
// delete commands.
type Command struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Value  any    `json:"value,omitempty"`
}

func (c Command) String() string {
	return fmt.Sprintf("%s %s", c.Action, c.Key)
}

// BatchResult aggregates diagnostics for one validated batch. Commands holds
// the accepted envelopes in input order; InvalidCommands holds the raw
// entries that were excluded, with Invalid carrying their input indexes.
type BatchResult struct {
	Valid           bool
	Errors          []string
	Warnings        []string
	Commands        []Command
	Invalid         []int
	InvalidCommands []any
}
