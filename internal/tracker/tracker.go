package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/history"
	"neonx-bot/internal/notify"
	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/scheduler"
)

// Service runs the periodic alert evaluation: refresh the price cache, log
// the sample, evaluate alerts against the previous snapshot, and dispatch
// the fired notifications.
type Service struct {
	sched    *scheduler.Scheduler
	cache    *pricesource.Cache
	alerts   *alerts.Store
	history  *history.Log
	notifier notify.Notifier
	logger   zerolog.Logger
}

// New constructs the tracking service. history and notifier may be nil for
// one-shot simulations.
func New(sched *scheduler.Scheduler, cache *pricesource.Cache, alertStore *alerts.Store, histLog *history.Log, notifier notify.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		sched:    sched,
		cache:    cache,
		alerts:   alertStore,
		history:  histLog,
		notifier: notifier,
		logger:   logger.With().Str("component", "tracker").Logger(),
	}
}

// Run begins the periodic evaluation loop.
func (s *Service) Run(ctx context.Context) error {
	if s.sched == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.sched.Run(ctx, s.Tick)
}

// Tick performs one evaluation pass. A failed fetch degrades to a logged
// unavailable snapshot and a clean return; the regular cadence continues.
func (s *Service) Tick(ctx context.Context, at time.Time) error {
	snapshot := s.cache.Get(ctx, true)
	previous := s.cache.Previous()

	if s.history != nil {
		s.history.Append(snapshot)
	}

	if !snapshot.Succeeded {
		s.logger.Warn().Str("error", snapshot.Error).Msg("price unavailable, skipping evaluation")
		return nil
	}
	if !snapshot.HasPrice {
		s.logger.Warn().Str("price_text", snapshot.PriceText).Msg("price not numeric, skipping evaluation")
		return nil
	}

	fired := s.alerts.Evaluate(snapshot, previous)
	s.logger.Info().
		Time("tick", at).
		Str("price", snapshot.Price.String()).
		Int("fired", len(fired)).
		Msg("alerts evaluated")

	for _, note := range fired {
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.Send(ctx, note.ChatID, alerts.RenderMessage(note)); err != nil {
			s.logger.Error().Err(err).
				Int64("chat_id", note.ChatID).
				Int64("owner", note.Owner).
				Msg("failed to dispatch alert")
		}
	}

	return nil
}
