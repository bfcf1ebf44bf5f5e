// Package actions contains ActionExecutor implementations. The real
// executor lives on the device and is reached through the websocket voice
// channel; LocalExecutor is the development stand-in.
package actions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// LocalExecutor simulates device action execution for development and
// tests: every well-formed action succeeds with a descriptive message.
type LocalExecutor struct {
	logger *zap.Logger
}

var _ repositories.ActionExecutor = (*LocalExecutor)(nil)

// NewLocalExecutor creates the simulated executor
func NewLocalExecutor(logger *zap.Logger) *LocalExecutor {
	return &LocalExecutor{logger: logger}
}

// ExecuteAction implements repositories.ActionExecutor
func (e *LocalExecutor) ExecuteAction(ctx context.Context, action entities.DeviceAction) (entities.ActionResult, error) {
	e.logger.Info("Simulating device action",
		zap.String("type", string(action.Type)),
		zap.String("target", action.Target))

	switch action.Type {
	case entities.ActionOpenApp:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("opened %s", action.Target)}, nil
	case entities.ActionSendMessage:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("message sent to %s", action.Params["to"])}, nil
	case entities.ActionMakeCall:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("calling %s", action.Target)}, nil
	case entities.ActionNavigate:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("navigating to %s", action.Params["destination"])}, nil
	case entities.ActionPlayMusic:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("playing %s", action.Params["query"])}, nil
	case entities.ActionSetAlarm:
		return entities.ActionResult{Success: true, Message: fmt.Sprintf("alarm set for %s", action.Target)}, nil
	case entities.ActionDeviceQuery:
		return entities.ActionResult{Success: true, Message: "device query answered"}, nil
	default:
		return entities.ActionResult{Success: false, Message: fmt.Sprintf("unsupported action type: %s", action.Type)}, nil
	}
}
