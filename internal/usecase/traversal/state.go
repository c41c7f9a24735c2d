package traversal

// State enumerates the traversal state machine. One full cycle handles one
// wizard step; the loop reenters StateDetecting until a termination guard
// fires.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateExtracting
	StateResolving
	StateFilling
	StateNavigating
	StateTerminated
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateDetecting:  "detecting",
	StateExtracting: "extracting",
	StateResolving:  "resolving",
	StateFilling:    "filling",
	StateNavigating: "navigating",
	StateTerminated: "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
