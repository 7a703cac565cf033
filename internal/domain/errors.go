package domain

import "errors"

var (
	ErrBookUnavailable = errors.New("order book unavailable")
	ErrNoTrades        = errors.New("no trades to export")
	ErrInvalidOrder    = errors.New("invalid order parameters")
	ErrEngineRejected  = errors.New("engine rejected request")
	ErrUnknownStrategy = errors.New("unknown strategy")
)
