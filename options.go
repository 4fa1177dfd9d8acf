package reactivity

import "github.com/AnatoleLucet/reactivity/internal"

type effectConfig struct {
	lazy      bool
	scheduler func(Job)
}

func newEffectConfig(opts []EffectOption) effectConfig {
	var cfg effectConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (c effectConfig) policy() internal.Policy {
	return internal.ScheduledPolicy(c.scheduler)
}

// EffectOption configures NewEffect and NewRunner.
type EffectOption func(*effectConfig)

// Lazy skips the initial run. The body first runs on Run.
func Lazy() EffectOption {
	return func(c *effectConfig) {
		c.lazy = true
	}
}

// WithScheduler hands the effect to fn instead of re-running it when a
// dependency changes. Passing QueueJob batches re-runs into the next flush.
func WithScheduler(fn func(Job)) EffectOption {
	return func(c *effectConfig) {
		c.scheduler = fn
	}
}
