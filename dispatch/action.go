package dispatch

// Action is the closed set of request tags the dispatcher routes. Anything
// outside this set is a terminal INVALID_ACTION failure with no side
// effects.
type Action string

// Action constants for all dispatcher operations.
const (
	ActionRegister   Action = "register"
	ActionUnregister Action = "unregister"
	ActionList       Action = "list"
	ActionInspect    Action = "inspect"
	ActionReceive    Action = "receive"
	ActionClear      Action = "clear"
)
