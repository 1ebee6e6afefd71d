package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/solace/pkg/audit"
	"mercator-hq/solace/pkg/config"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep records.
	// 0 disables age-based pruning.
	RetentionDays int

	// PruneSchedule is a standard cron expression for scheduled pruning.
	// Empty disables the scheduler.
	PruneSchedule string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	}
}

// FromConfig converts the audit retention section into a pruner config.
func FromConfig(cfg config.RetentionConfig) *Config {
	return &Config{
		RetentionDays: cfg.Days,
		PruneSchedule: cfg.Schedule,
		MaxRecords:    cfg.MaxRecords,
	}
}

// Pruner enforces retention limits on audit records.
type Pruner struct {
	storage   audit.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)

	return p
}

// Scheduler returns the pruner's cron scheduler.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}

// Prune deletes records older than the retention period, then the oldest
// records beyond MaxRecords. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("audit pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Debug("no audit records pruned")
	}

	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
	if err != nil {
		return 0, err
	}

	p.logger.Debug("pruned records by age",
		"deleted_count", deleted,
		"cutoff_time", cutoff,
	)
	return deleted, nil
}

// pruneByCount removes the oldest records until MaxRecords remain. Records
// sharing the cutoff timestamp are removed together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &audit.Query{})
	if err != nil {
		return 0, err
	}

	excess := count - p.config.MaxRecords
	if excess <= 0 {
		return 0, nil
	}

	oldest, err := p.storage.Query(ctx, &audit.Query{
		Ascending: true,
		Limit:     int(excess),
	})
	if err != nil {
		return 0, err
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].Timestamp
	deleted, err := p.storage.Delete(ctx, &audit.Query{EndTime: &cutoff})
	if err != nil {
		return 0, err
	}

	p.logger.Debug("pruned records by count",
		"deleted_count", deleted,
		"max_records", p.config.MaxRecords,
	)
	return deleted, nil
}
