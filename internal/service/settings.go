package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
)

const settingsCacheTTL = 30 * time.Second

// Settings serves system settings with a short read cache so the
// workflow does not hit the settings row on every return.
type Settings struct {
	log   *zap.Logger
	store repository.SettingsStore
	audit auditor

	mu       sync.Mutex
	cached   model.Settings
	cachedAt time.Time
}

func NewSettings(store repository.SettingsStore, sink Sink, log *zap.Logger) *Settings {
	return &Settings{
		log:   log,
		store: store,
		audit: auditor{sink: sink, log: log},
	}
}

func (s *Settings) Get(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.cachedAt) < settingsCacheTTL {
		return s.cached, nil
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	s.cached, s.cachedAt = settings, time.Now()
	return settings, nil
}

func (s *Settings) Update(ctx context.Context, actor uuid.UUID, req model.UpdateSettingsRequest) (model.Settings, error) {
	settings, err := s.store.UpdateSettings(ctx, req)
	if err != nil {
		return model.Settings{}, err
	}

	s.mu.Lock()
	s.cached, s.cachedAt = settings, time.Now()
	s.mu.Unlock()

	s.audit.emit(ctx, &actor, model.ActionSettingsUpdated,
		fmt.Sprintf("Settings updated: fine per day $%.2f", settings.FinePerDay))
	return settings, nil
}

func (s *Settings) FinePerDay(ctx context.Context) (float64, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.FinePerDay, nil
}
