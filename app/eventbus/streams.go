package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nats-io/nats.go/jetstream"
)

func (eb *natsEventBus) EnsureStream(ctx context.Context, name string, subjects ...string) error {
	stream, err := eb.js.Stream(ctx, name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		if _, err := eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
			Storage:  jetstream.FileStorage,
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		eb.logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check stream %s: %w", name, err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}
	missing := false
	for _, subject := range subjects {
		if !slices.Contains(info.Config.Subjects, subject) {
			info.Config.Subjects = append(info.Config.Subjects, subject)
			missing = true
		}
	}
	if !missing {
		return nil
	}
	if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
		return fmt.Errorf("failed to update stream %s: %w", name, err)
	}
	eb.logger.InfoContext(ctx, "Updated JetStream stream subjects", slog.String("stream", name))
	return nil
}
