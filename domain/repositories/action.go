package repositories

import (
	"context"

	"github.com/lumina-ai/lumina/domain/entities"
)

// ActionExecutor performs a structured device action (open an app, place a
// call, ...) and reports the outcome. Implementations are expected not to
// panic; the orchestrator defends against errors anyway.
type ActionExecutor interface {
	ExecuteAction(ctx context.Context, action entities.DeviceAction) (entities.ActionResult, error)
}
