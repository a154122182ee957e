package serviceImp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	"github.com/deryamemmedli/agrimonitor/pkg/field"
	fieldRepo "github.com/deryamemmedli/agrimonitor/pkg/field/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/imagery"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi"
	repo "github.com/deryamemmedli/agrimonitor/pkg/ndvi/repository"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/service"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

type ndviSvc struct {
	readings repo.ReadingRepository
	fields   fieldRepo.FieldRepository
	source   imagery.Client
	clk      clock.Clock
	log      *slog.Logger
}

func NewNDVIService(readings repo.ReadingRepository, fields fieldRepo.FieldRepository, source imagery.Client, clk clock.Clock, log *slog.Logger) service.NDVIService {
	return &ndviSvc{readings: readings, fields: fields, source: source, clk: clk, log: log}
}

func (s *ndviSvc) visible(ctx context.Context, actor role.Actor, fieldID uint) (*entities.Field, error) {
	f, err := s.fields.FindByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if err := field.CanView(actor, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *ndviSvc) Latest(ctx context.Context, actor role.Actor, fieldID uint) (*ndvi.FieldSummary, error) {
	f, err := s.visible(ctx, actor, fieldID)
	if err != nil {
		return nil, err
	}
	r, err := s.readings.Latest(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	sum := ndvi.Summarize(*f, r)
	return &sum, nil
}

func (s *ndviSvc) Series(ctx context.Context, actor role.Actor, fieldID uint, from, to time.Time) ([]entities.NDVIReading, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperr.Validation("to is before from")
	}
	if _, err := s.visible(ctx, actor, fieldID); err != nil {
		return nil, err
	}
	// stored times are UTC text; bounds must be in the same form
	if !from.IsZero() {
		from = clock.Stamp(from)
	}
	if !to.IsZero() {
		to = clock.Stamp(to)
	}
	return s.readings.Series(ctx, fieldID, from, to)
}

func (s *ndviSvc) Record(ctx context.Context, actor role.Actor, fieldID uint, in ndvi.RecordInput) (*entities.NDVIReading, error) {
	f, err := s.fields.FindByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if err := field.CanEdit(actor, f); err != nil {
		return nil, err
	}
	if in.Value == nil {
		return nil, apperr.Validation("ndvi_value is required")
	}
	if err := ndvi.CheckValue(*in.Value); err != nil {
		return nil, err
	}
	src := entities.SourceManual
	if in.Source != "" {
		src = entities.ReadingSource(in.Source)
		if !src.Valid() {
			return nil, apperr.Validation("unknown source %q", in.Source)
		}
	}
	at := s.clk.Now()
	if in.ObservedAt != nil {
		at = clock.Stamp(*in.ObservedAt)
		if at.After(s.clk.Now()) {
			return nil, apperr.Validation("observed_at is in the future")
		}
	}
	m := &entities.NDVIReading{
		FieldID:    fieldID,
		Value:      *in.Value,
		Source:     src,
		ObservedAt: at,
		ImageURL:   in.ImageURL,
	}
	if len(in.Metadata) > 0 && string(in.Metadata) != "null" {
		if !json.Valid(in.Metadata) {
			return nil, apperr.Validation("metadata is not valid JSON")
		}
		m.Metadata = datatypes.JSON(in.Metadata)
	}
	if err := s.readings.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ndviSvc) Fetch(ctx context.Context, actor role.Actor, fieldID uint, at time.Time) (*entities.NDVIReading, error) {
	f, err := s.visible(ctx, actor, fieldID)
	if err != nil {
		return nil, err
	}
	now := s.clk.Now()
	if at.IsZero() {
		at = now
	}
	if clock.Stamp(at).After(now) {
		return nil, apperr.Validation("date is in the future")
	}
	obs, err := s.source.FetchNDVI(ctx, imagery.TargetOf(f), at)
	if err != nil {
		s.log.Warn("imagery fetch failed", "field_id", fieldID, "source", s.source.Name(), "err", err)
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, err, "imagery source unavailable")
	}
	if err := ndvi.CheckValue(obs.Value); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, err, "imagery source returned a bad value")
	}
	observed := clock.Stamp(obs.ObservedAt)
	if observed.After(now) {
		s.log.Warn("imagery observation in the future", "field_id", fieldID, "source", s.source.Name(), "observed_at", obs.ObservedAt)
		return nil, apperr.New(apperr.KindUpstreamUnavailable, "imagery source returned a future observation")
	}

	meta := map[string]any{"provider": s.source.Name(), "is_real_data": obs.Source == entities.SourceSensor}
	for k, v := range obs.Metadata {
		meta[k] = v
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	m := &entities.NDVIReading{
		FieldID:    fieldID,
		Value:      obs.Value,
		Source:     obs.Source,
		ObservedAt: observed,
		ImageURL:   obs.ImageURL,
		Metadata:   datatypes.JSON(raw),
	}
	if err := s.readings.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("ndvi fetched", "field_id", fieldID, "value", m.Value, "source", m.Source)
	return m, nil
}

func (s *ndviSvc) MapSummary(ctx context.Context, actor role.Actor) ([]ndvi.FieldSummary, error) {
	filter := fieldRepo.Filter{}
	if !actor.Is(entities.RoleAgronomist) {
		filter.OwnerID = actor.AccountID
	}
	fields, err := s.fields.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	latest, err := s.readings.LatestByField(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ndvi.FieldSummary, 0, len(fields))
	for _, f := range fields {
		var r *entities.NDVIReading
		if m, ok := latest[f.ID]; ok {
			r = &m
		}
		out = append(out, ndvi.Summarize(f, r))
	}
	return out, nil
}
