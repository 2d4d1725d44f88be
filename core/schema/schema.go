// Package schema decides which SQL shapes the services issue for the
// optional song.play_count column.
package schema

import (
	"context"
	"fmt"

	"artiststudio/config"
	"artiststudio/logger"
)

// Prober runs the metadata query.
type Prober interface {
	HasPlayCounter(ctx context.Context) (bool, error)
}

// PlayCounter answers whether the play counter column can be used.
type PlayCounter interface {
	Enabled(ctx context.Context) (bool, error)
}

// Static is a play counter decision fixed at startup.
type Static bool

func (s Static) Enabled(context.Context) (bool, error) { return bool(s), nil }

// perCall re-probes on every call; nothing is cached.
type perCall struct {
	prober Prober
}

// PerCall returns a PlayCounter that queries prober each time.
func PerCall(prober Prober) PlayCounter {
	return perCall{prober: prober}
}

func (p perCall) Enabled(ctx context.Context) (bool, error) {
	return p.prober.HasPlayCounter(ctx)
}

// Resolve turns the configured policy into a PlayCounter. The auto policy
// probes once here and freezes the answer for the life of the process.
func Resolve(ctx context.Context, policy string, prober Prober) (PlayCounter, error) {
	switch policy {
	case config.PlayCounterOn:
		return Static(true), nil
	case config.PlayCounterOff:
		return Static(false), nil
	case config.PlayCounterProbe:
		return PerCall(prober), nil
	case config.PlayCounterAuto, "":
		has, err := prober.HasPlayCounter(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to probe play counter column: %w", err)
		}
		logger.Info("Play counter column resolved", logger.Bool("present", has))
		return Static(has), nil
	default:
		return nil, fmt.Errorf("unknown play counter policy %q", policy)
	}
}
