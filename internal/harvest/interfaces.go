package harvest

import (
	"context"

	"github.com/samvad-hq/samvad-character-harvester/pkg/publishers"
)

// EventPublisher publishes character events downstream. It returns how many
// sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which character snapshots were already published.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// Recorder receives harvest counters; *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveFetch(provider string, count int, err error)
	ObservePublish(provider string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, int, error) {}
func (nopRecorder) ObservePublish(string, error)    {}
