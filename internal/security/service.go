package security

import "context"

// Store abstracts settings persistence for the service and the executor.
type Store interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) error
}

// Service exposes snapshot reads and edits of the security settings.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Snapshot returns the settings in force right now.
func (s *Service) Snapshot(ctx context.Context) (Settings, error) {
	return s.store.Get(ctx)
}

// Update persists edited settings.
func (s *Service) Update(ctx context.Context, settings Settings) error {
	return s.store.Update(ctx, settings)
}
