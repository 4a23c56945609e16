package bootstrap

import (
	"time"

	"mess-market/internal/pkg/clock"
	"mess-market/internal/pkg/config"

	"go.uber.org/fx"
)

var ClockModule = fx.Module("clock",
	fx.Provide(
		NewClock,
	),
)

// NewClock pins the canonical timezone every expiry decision is made in.
func NewClock(cfg config.Config) (clock.Clock, error) {
	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		return nil, err
	}
	return clock.NewRealClock(loc), nil
}
