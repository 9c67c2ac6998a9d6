// Package availability narrows the barber list to those free at a date and
// time, and previews who "Any Available" would resolve to.
package availability

import (
	"context"

	"barberbook/models"
	"barberbook/services/catalog"

	"go.uber.org/zap"
)

// ProviderSource is the part of the scheduling backend the resolver needs.
type ProviderSource interface {
	AvailableProviders(ctx context.Context, date, slot string) ([]models.Provider, error)
	PreviewProvider(ctx context.Context, date, slot string) (*models.Provider, error)
}

const loadFailedMessage = "Failed to load barbers. Please try again."

// Resolver answers availability questions against the backend.
type Resolver struct {
	remote ProviderSource
	logger *zap.Logger
}

func NewResolver(remote ProviderSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{remote: remote, logger: logger}
}

// ListAvailableProviders returns the barbers free at date and slot with the
// sentinel first. An empty backend answer stays empty.
func (r *Resolver) ListAvailableProviders(ctx context.Context, date string, slot models.TimeSlot) ([]models.Provider, error) {
	providers, err := r.remote.AvailableProviders(ctx, date, string(slot))
	if err != nil {
		r.logger.Error("failed to load available barbers",
			zap.String("date", date), zap.String("time", string(slot)), zap.Error(err))
		return nil, &models.LoadError{Message: loadFailedMessage, Err: err}
	}
	if len(providers) == 0 {
		return []models.Provider{}, nil
	}

	out := make([]models.Provider, 0, len(providers)+1)
	out = append(out, models.AnyAvailable())
	for _, p := range providers {
		if p.IsSentinel() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PreviewAssignedProvider returns the barber the backend would likely assign,
// or nil. Failures are logged and swallowed; the preview is display only.
func (r *Resolver) PreviewAssignedProvider(ctx context.Context, date string, slot models.TimeSlot) *models.Provider {
	if date == "" || slot == "" {
		return nil
	}
	p, err := r.remote.PreviewProvider(ctx, date, string(slot))
	if err != nil {
		r.logger.Warn("barber preview unavailable",
			zap.String("date", date), zap.String("time", string(slot)), zap.Error(err))
		return nil
	}
	if p == nil || p.IsSentinel() {
		return nil
	}
	return p
}

// Candidates is the provider list the eligibility filter starts from: the
// static catalog plus the sentinel until both date and time are chosen,
// the backend's free list afterwards.
func (r *Resolver) Candidates(ctx context.Context, cat *catalog.Catalog, date string, slot models.TimeSlot) ([]models.Provider, error) {
	if date == "" || slot == "" {
		return append([]models.Provider{models.AnyAvailable()}, cat.Providers()...), nil
	}
	return r.ListAvailableProviders(ctx, date, slot)
}
