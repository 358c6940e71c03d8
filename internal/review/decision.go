package review

import "strings"

// Action is the kind of operator decision.
type Action int

const (
	ActionKeep Action = iota
	ActionSetLabel
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionSetLabel:
		return "set-label"
	case ActionQuit:
		return "quit"
	}
	return "unknown"
}

// Decision is one operator verdict on a review item. Label is meaningful
// only for ActionSetLabel.
type Decision struct {
	Action Action
	Label  int
}

// Keep leaves the item's label unchanged.
func Keep() Decision { return Decision{Action: ActionKeep} }

// SetLabel relabels the item to v.
func SetLabel(v int) Decision { return Decision{Action: ActionSetLabel, Label: v} }

// Quit abandons the rest of the queue.
func Quit() Decision { return Decision{Action: ActionQuit} }

// ParseDecision maps an operator token to a decision for an item whose live
// label is current. "c"/"change" flips the binary label, "k"/"keep" keeps it
// and "q"/"quit" ends the session; matching ignores case and surrounding
// whitespace. Any other token yields Keep with ok false.
func ParseDecision(token string, current int) (d Decision, ok bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "c", "change":
		return SetLabel(1 - current), true
	case "k", "keep":
		return Keep(), true
	case "q", "quit":
		return Quit(), true
	}
	return Keep(), false
}
