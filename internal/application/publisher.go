package application

import (
	"context"

	"voice-servo/internal/domain"
)

type CommandPublisher interface {
	Publish(ctx context.Context, cmd domain.Command) error
}
