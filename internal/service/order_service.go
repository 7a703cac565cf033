// Package service holds the dashboard's order submission gate: local
// validation in front of the engine's /order and /clear endpoints.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// EngineWriter is the slice of the engine client the gate needs.
type EngineWriter interface {
	PostOrder(ctx context.Context, req domain.OrderRequest) error
	Clear(ctx context.Context) error
}

// OrderService validates user-entered orders and forwards the valid ones to
// the engine. Success does not trigger a panel refresh; the next scheduled
// cycle picks the change up.
type OrderService struct {
	engine EngineWriter
	logger *slog.Logger
}

// NewOrderService creates the submission gate.
func NewOrderService(engine EngineWriter, logger *slog.Logger) *OrderService {
	return &OrderService{
		engine: engine,
		logger: logger.With(slog.String("component", "order_service")),
	}
}

// Submit validates req and, when valid, submits it as one order. Validation
// failures wrap domain.ErrInvalidOrder and never reach the network; engine
// rejections carry the engine's response text.
func (s *OrderService) Submit(ctx context.Context, req domain.OrderRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	ref := uuid.NewString()
	if err := s.engine.PostOrder(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "order rejected",
			slog.String("ref", ref),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("order failed: %w", err)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("ref", ref),
		slog.String("side", string(req.Side)),
		slog.String("type", string(req.Type)),
	)
	return nil
}

// ClearAll asks the engine to wipe its book and trade history.
func (s *OrderService) ClearAll(ctx context.Context) error {
	if err := s.engine.Clear(ctx); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	s.logger.InfoContext(ctx, "order book cleared")
	return nil
}

// validate enforces the gate's local rules: quantity must be positive; limit
// orders need a positive price; market orders must omit the price.
func validate(req domain.OrderRequest) error {
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return fmt.Errorf("%w: side must be Buy or Sell", domain.ErrInvalidOrder)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive number", domain.ErrInvalidOrder)
	}
	switch req.Type {
	case domain.OrderTypeLimit:
		if req.Price == nil || *req.Price <= 0 {
			return fmt.Errorf("%w: limit orders require a positive price", domain.ErrInvalidOrder)
		}
	case domain.OrderTypeMarket:
		if req.Price != nil {
			return fmt.Errorf("%w: market orders must omit the price", domain.ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: order type must be Limit or Market", domain.ErrInvalidOrder)
	}
	return nil
}
