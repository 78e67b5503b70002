package domain

// Action is a verb a dispatcher may invoke on a statement row. Each action,
// on success, performs at most one status transition and appends exactly one
// action log entry (view-log appends nothing; it is read-side).
type Action string

const (
	ActionReplace      Action = "replace"
	ActionReportOff    Action = "report-off"
	ActionSendToOrder  Action = "send-to-order"
	ActionComplete     Action = "complete"
	ActionRemove       Action = "remove"
	ActionReturnToLine Action = "return-to-line"
	ActionViewLog      Action = "view-log"
)

// TransitionRule describes what an action does and what it requires. The
// table below is the single source of truth consumed by both the validator
// and the log writer, so the presentation layer cannot invoke an illegal
// transition.
type TransitionRule struct {
	// Target is the resulting status. Empty means the action keeps the
	// current status (replace, view-log).
	Target Status
	// NeedsStatement requires a linked statement record before any mutation.
	NeedsStatement bool
	// NeedsCount requires a non-null reported count.
	NeedsCount bool
	// WritesLog indicates the action appends an action log entry.
	WritesLog bool
}

var transitionRules = map[Action]TransitionRule{
	ActionReplace:      {WritesLog: true},
	ActionReportOff:    {Target: StatusGotOff, NeedsStatement: true, WritesLog: true},
	ActionSendToOrder:  {Target: StatusOnOrder, NeedsStatement: true, WritesLog: true},
	ActionComplete:     {Target: StatusCompleted, NeedsStatement: true, NeedsCount: true, WritesLog: true},
	ActionRemove:       {Target: StatusRejected, NeedsStatement: true, WritesLog: true},
	ActionReturnToLine: {Target: StatusOnWork, NeedsStatement: true, WritesLog: true},
	ActionViewLog:      {},
}

// allowedActions is the per-status action table.
var allowedActions = map[Status][]Action{
	StatusOnWork:    {ActionReplace, ActionReportOff, ActionSendToOrder, ActionComplete, ActionRemove, ActionViewLog},
	StatusGotOff:    {ActionReturnToLine, ActionRemove, ActionViewLog},
	StatusOnOrder:   {ActionReturnToLine, ActionRemove, ActionViewLog},
	StatusCompleted: {ActionViewLog},
	StatusRejected:  {ActionViewLog, ActionReturnToLine},
	StatusUnknown:   {ActionReplace, ActionReportOff, ActionSendToOrder, ActionComplete, ActionRemove, ActionViewLog},
}

// returnSources are the statuses a row may return to the line from.
var returnSources = map[Status]bool{
	StatusGotOff:   true,
	StatusOnOrder:  true,
	StatusRejected: true,
}

// Rule returns the transition rule for an action.
func Rule(action Action) (TransitionRule, bool) {
	rule, ok := transitionRules[action]
	return rule, ok
}

// AllowedActions returns the actions available for a status, in table order.
func AllowedActions(status Status) []Action {
	actions := allowedActions[status]
	result := make([]Action, len(actions))
	copy(result, actions)
	return result
}

// ActionAllowed reports whether the action appears in the status's table row.
func ActionAllowed(status Status, action Action) bool {
	for _, a := range allowedActions[status] {
		if a == action {
			return true
		}
	}
	return false
}

// ReturnToLineAllowed applies the return-to-line guard. The canonical status
// and the underlying raw status may diverge transiently, so the guard accepts
// the return when either of them is a valid return source.
func ReturnToLineAllowed(canonical Status, rawStatus *string) bool {
	if returnSources[canonical] {
		return true
	}
	return rawStatus != nil && returnSources[Normalize(rawStatus)]
}
