package entities

// ToolCall is a tool invocation requested by the agent, with raw JSON
// arguments left to the caller to interpret.
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// AgentResponse is the single-use result of one agent dispatch. When Audio
// is present it takes priority over system TTS for that turn.
type AgentResponse struct {
	Text      string        `json:"text"`
	Audio     []byte        `json:"audio,omitempty"`
	Action    *DeviceAction `json:"action,omitempty"`
	ToolCalls []ToolCall    `json:"tool_calls,omitempty"`
}
