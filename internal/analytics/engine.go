// Package analytics records link clicks and profile views and derives
// per-link statistics and owner summaries from them.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sundayezeilo/linkbio/internal/clock"
	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/links"
)

// LinkSource lists an owner's links.
type LinkSource interface {
	List(ctx context.Context, ownerID string) ([]links.Link, error)
}

// Engine records events and reports statistics.
type Engine interface {
	RecordClick(ctx context.Context, in ClickInput) error
	RecordView(ctx context.Context, in ViewInput) error
	// LinkStats returns one entry per owner link, in list order. An owner
	// without links gets an empty slice.
	LinkStats(ctx context.Context, ownerID string) ([]LinkStats, error)
	Summary(ctx context.Context, ownerID string) (Summary, error)
}

// EngineConfig holds configuration for the engine.
type EngineConfig struct {
	Clock  clock.Clock   // default: clock.System()
	Cache  SnapshotCache // optional
	Logger *slog.Logger
}

type engine struct {
	repo   Repository
	links  LinkSource
	clock  clock.Clock
	cache  SnapshotCache
	logger *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(repo Repository, linkSource LinkSource, config *EngineConfig) Engine {
	if config == nil {
		config = &EngineConfig{}
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.System()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &engine{
		repo:   repo,
		links:  linkSource,
		clock:  clk,
		cache:  config.Cache,
		logger: logger,
	}
}

func (e *engine) RecordClick(ctx context.Context, in ClickInput) error {
	const op = "analytics.engine.RecordClick"

	if in.LinkID == "" || in.UserID == "" {
		return errx.E(op, errx.Invalid, errors.New("link id and owner id are required"))
	}

	event := ClickEvent{
		LinkID:    in.LinkID,
		UserID:    in.UserID,
		Referrer:  truncate(in.Referrer, maxReferrerLength),
		UserAgent: truncate(in.UserAgent, maxUserAgentLength),
		IPAddress: strings.TrimSpace(in.IPAddress),
		VisitorID: truncate(in.VisitorID, maxVisitorIDLength),
		Timestamp: e.clock.Now(),
	}
	if err := e.repo.AppendClick(ctx, event); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}

	e.bump(ctx, in.UserID)
	return nil
}

func (e *engine) RecordView(ctx context.Context, in ViewInput) error {
	const op = "analytics.engine.RecordView"

	if in.UserID == "" {
		return errx.E(op, errx.Invalid, errors.New("owner id is required"))
	}

	event := ViewEvent{
		UserID:    in.UserID,
		Referrer:  truncate(in.Referrer, maxReferrerLength),
		UserAgent: truncate(in.UserAgent, maxUserAgentLength),
		IPAddress: strings.TrimSpace(in.IPAddress),
		VisitorID: truncate(in.VisitorID, maxVisitorIDLength),
		Timestamp: e.clock.Now(),
	}
	if err := e.repo.AppendView(ctx, event); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}

	e.bump(ctx, in.UserID)
	return nil
}

func (e *engine) LinkStats(ctx context.Context, ownerID string) ([]LinkStats, error) {
	const op = "analytics.engine.LinkStats"

	snap, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return snap.Stats, nil
}

func (e *engine) Summary(ctx context.Context, ownerID string) (Summary, error) {
	const op = "analytics.engine.Summary"

	snap, err := e.snapshot(ctx, ownerID)
	if err != nil {
		return Summary{}, errx.E(op, errx.KindOf(err), err)
	}
	return snap.Summary, nil
}

// snapshot computes the owner's stats and summary, reusing a cached
// snapshot when no event was recorded and no link changed since.
func (e *engine) snapshot(ctx context.Context, ownerID string) (Snapshot, error) {
	const op = "analytics.engine.snapshot"

	if ownerID == "" {
		return Snapshot{}, errx.E(op, errx.Invalid, errors.New("owner id is required"))
	}

	ls, err := e.links.List(ctx, ownerID)
	if err != nil {
		return Snapshot{}, errx.E(op, errx.KindOf(err), err)
	}

	now := e.clock.Now()
	fp := fingerprint(ls, now)

	var version int64
	if e.cache != nil {
		cached, current, ok, err := e.cache.Load(ctx, ownerID)
		switch {
		case err != nil:
			e.logCacheError(ctx, "load", ownerID, err)
		case ok && cached.Version == current && cached.Fingerprint == fp:
			return cached, nil
		default:
			version = current
		}
	}

	clicks, err := e.repo.ClicksByOwner(ctx, ownerID)
	if err != nil {
		return Snapshot{}, errx.E(op, errx.KindOf(err), err)
	}
	views, err := e.repo.ViewsByOwner(ctx, ownerID)
	if err != nil {
		return Snapshot{}, errx.E(op, errx.KindOf(err), err)
	}

	stats := computeStats(ls, clicks, views, now)
	snap := Snapshot{
		Fingerprint: fp,
		Version:     version,
		Stats:       stats,
		Summary:     summarize(stats, views),
	}

	if e.cache != nil {
		if err := e.cache.Store(ctx, ownerID, snap); err != nil {
			e.logCacheError(ctx, "store", ownerID, err)
		}
	}
	return snap, nil
}

func (e *engine) bump(ctx context.Context, ownerID string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Bump(ctx, ownerID); err != nil {
		e.logCacheError(ctx, "bump", ownerID, err)
	}
}

func (e *engine) logCacheError(ctx context.Context, action, ownerID string, err error) {
	e.logger.WarnContext(ctx, "analytics cache unavailable",
		"action", action,
		"user_id", ownerID,
		"error", err.Error(),
	)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
