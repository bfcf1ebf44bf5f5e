package entities

// ActionType enumerates the device actions the assistant can request
type ActionType string

const (
	ActionOpenApp     ActionType = "open_app"
	ActionSendMessage ActionType = "send_message"
	ActionMakeCall    ActionType = "make_call"
	ActionPlayMusic   ActionType = "play_music"
	ActionNavigate    ActionType = "navigate"
	ActionSetAlarm    ActionType = "set_alarm"
	ActionDeviceQuery ActionType = "device_query"
	ActionOther       ActionType = "other"
)

// DeviceAction is a structured request for the device to perform something
// on the user's behalf. Params carries type-specific key/value arguments.
type DeviceAction struct {
	Type   ActionType        `json:"type"`
	Target string            `json:"target,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// ActionResult reports the outcome of executing a DeviceAction
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
