// Package alerts manages watch conditions and scans them against
// analyzed stocks.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

const (
	// defaultTargetThreshold is the relative tolerance around a target price.
	defaultTargetThreshold = 0.05
	// defaultOpportunityThreshold is the fair value fraction for opportunity alerts.
	defaultOpportunityThreshold = 0.70
	// priceEqualityTolerance bounds "=" price comparisons.
	priceEqualityTolerance = 0.01
)

// ErrNotFound is returned when an alert id does not exist.
var ErrNotFound = errors.New("alerts: alert not found")

// Service owns the alert lifecycle.
type Service struct {
	store      store.Store
	dispatcher *notify.Dispatcher
	log        *logger.Logger
	now        func() time.Time
}

// NewService wires the alert manager.
func NewService(st store.Store, dispatcher *notify.Dispatcher, log *logger.Logger) *Service {
	return &Service{
		store:      st,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) load(ctx context.Context) ([]contracts.Alert, error) {
	var alerts []contracts.Alert
	if err := s.store.Get(ctx, store.KeyAlerts, &alerts); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []contracts.Alert{}, nil
		}
		return nil, err
	}
	return alerts, nil
}

// Create registers a new active alert and returns it with its id.
func (s *Service) Create(ctx context.Context, userID string, kind contracts.AlertKind, params contracts.AlertParams) (*contracts.Alert, error) {
	if params.Symbol == "" {
		return nil, fmt.Errorf("alerts: symbol is required")
	}
	switch kind {
	case contracts.AlertPrice:
		if params.Condition != ">" && params.Condition != "<" && params.Condition != "=" {
			return nil, fmt.Errorf("alerts: invalid condition %q", params.Condition)
		}
	case contracts.AlertTarget:
		if params.Threshold == 0 {
			params.Threshold = defaultTargetThreshold
		}
	case contracts.AlertOpportunity:
		if params.Threshold == 0 {
			params.Threshold = defaultOpportunityThreshold
		}
	default:
		return nil, fmt.Errorf("alerts: unknown alert type %q", kind)
	}

	alerts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	alert := contracts.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Params:    params,
		Active:    true,
		CreatedAt: s.now(),
	}
	alerts = append(alerts, alert)

	if err := s.store.Put(ctx, store.KeyAlerts, alerts); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"alert_id": alert.ID,
		"type":     string(kind),
		"symbol":   params.Symbol,
	}).Info("Alert created")

	return &alert, nil
}

// Update changes params or the active flag of an existing alert.
func (s *Service) Update(ctx context.Context, id string, params *contracts.AlertParams, active *bool) (*contracts.Alert, error) {
	alerts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range alerts {
		if alerts[i].ID != id {
			continue
		}
		if params != nil {
			alerts[i].Params = *params
		}
		if active != nil {
			alerts[i].Active = *active
		}
		now := s.now()
		alerts[i].UpdatedAt = &now

		if err := s.store.Put(ctx, store.KeyAlerts, alerts); err != nil {
			return nil, err
		}
		return &alerts[i], nil
	}
	return nil, ErrNotFound
}

// Delete removes an alert permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	alerts, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range alerts {
		if alerts[i].ID == id {
			alerts = append(alerts[:i], alerts[i+1:]...)
			return s.store.Put(ctx, store.KeyAlerts, alerts)
		}
	}
	return ErrNotFound
}

// List returns the alerts of one user, or all alerts for an empty id.
func (s *Service) List(ctx context.Context, userID string) ([]contracts.Alert, error) {
	alerts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return alerts, nil
	}

	filtered := make([]contracts.Alert, 0)
	for _, a := range alerts {
		if a.UserID == userID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// Scan checks every active alert against the given analyses, dispatches
// a notification per trigger and stamps LastTriggered. Returns the
// number of triggered alerts.
func (s *Service) Scan(ctx context.Context, stocks []contracts.StockAnalysis) (int, error) {
	alerts, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	bySymbol := make(map[string]*contracts.StockAnalysis, len(stocks))
	for i := range stocks {
		bySymbol[stocks[i].Symbol()] = &stocks[i]
	}

	triggered := 0
	for i := range alerts {
		alert := &alerts[i]
		if !alert.Active {
			continue
		}
		stock, ok := bySymbol[alert.Params.Symbol]
		if !ok || !stock.Snapshot.HasPrice() {
			continue
		}
		if !matches(alert, stock) {
			continue
		}

		now := s.now()
		alert.LastTriggered = &now
		triggered++

		s.dispatcher.Dispatch(ctx, &contracts.Notification{
			UserID:  alert.UserID,
			AlertID: alert.ID,
			Kind:    string(alert.Kind),
			Title:   fmt.Sprintf("Alerta Clearview Capital - %s", alert.Params.Symbol),
			Message: buildMessage(alert, stock),
		})
	}

	if triggered > 0 {
		if err := s.store.Put(ctx, store.KeyAlerts, alerts); err != nil {
			return triggered, err
		}
	}

	s.log.WithFields(map[string]interface{}{
		"checked":   len(alerts),
		"triggered": triggered,
	}).Info("Alert scan finished")

	return triggered, nil
}

func matches(alert *contracts.Alert, stock *contracts.StockAnalysis) bool {
	price := stock.Snapshot.Price
	params := alert.Params

	switch alert.Kind {
	case contracts.AlertPrice:
		switch params.Condition {
		case ">":
			return price > params.Price
		case "<":
			return price < params.Price
		case "=":
			return math.Abs(price-params.Price) < priceEqualityTolerance
		}
		return false

	case contracts.AlertTarget:
		if params.TargetPrice <= 0 {
			return false
		}
		threshold := params.Threshold
		if threshold == 0 {
			threshold = defaultTargetThreshold
		}
		return math.Abs(price-params.TargetPrice)/params.TargetPrice <= threshold

	case contracts.AlertOpportunity:
		fairValue := stock.Estimate.FairValue
		if fairValue <= 0 {
			return false
		}
		threshold := params.Threshold
		if threshold == 0 {
			threshold = defaultOpportunityThreshold
		}
		return price <= threshold*fairValue

	default:
		return false
	}
}

func buildMessage(alert *contracts.Alert, stock *contracts.StockAnalysis) string {
	snap := stock.Snapshot
	params := alert.Params

	msg := "🔔 *Alerta Clearview Capital* 🔔\n\n"
	msg += fmt.Sprintf("*%s - %s*\n\n", snap.Symbol, snap.Name)

	switch alert.Kind {
	case contracts.AlertPrice:
		conditionText := "ultrapassou"
		if params.Condition == "<" {
			conditionText = "caiu abaixo de"
		} else if params.Condition == "=" {
			conditionText = "atingiu"
		}
		msg += fmt.Sprintf("O preço %s R$ %.2f\n", conditionText, params.Price)
		msg += fmt.Sprintf("Preço atual: R$ %.2f\n", snap.Price)

	case contracts.AlertTarget:
		msg += fmt.Sprintf("O preço está próximo do alvo de R$ %.2f\n", params.TargetPrice)
		msg += fmt.Sprintf("Preço atual: R$ %.2f\n", snap.Price)

	case contracts.AlertOpportunity:
		fairValue := stock.Estimate.FairValue
		msg += "Oportunidade de compra detectada!\n"
		msg += fmt.Sprintf("Preço atual: R$ %.2f\n", snap.Price)
		msg += fmt.Sprintf("Valor justo: R$ %.2f\n", fairValue)
		msg += fmt.Sprintf("A ação está sendo negociada a %.1f%% do valor justo\n", snap.Price/fairValue*100)
	}

	msg += "\nAcesse a plataforma para mais detalhes."
	return msg
}
