package discovery

import (
	"context"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"medialib/internal/config"
	"medialib/internal/logging"
	"medialib/internal/mediafs"
	"medialib/internal/models"
	"medialib/internal/services"
)

// Service runs background discovery: it crawls registered roots, probes the
// files it finds and merges them into the catalog through a worker pool.
// Folder verbs never return storage errors to the caller; failures are
// logged and the catalog is repaired by the periodic consistency pass.
type Service struct {
	repo    *services.Repository
	crawler mediafs.Crawler
	prober  mediafs.Prober
	logger  *logging.Logger
	cfg     config.DiscoveryConfig

	jobs   chan string
	wg     sync.WaitGroup
	cancel context.CancelFunc
	cron   *cron.Cron

	// Pause gate. Workers block on gate between file transactions while
	// paused; Resume closes the channel to release them.
	mu     sync.Mutex
	paused bool
	gate   chan struct{}
}

// NewService wires a discovery service over the repository and filesystem
// adapters.
func NewService(repo *services.Repository, crawler mediafs.Crawler, prober mediafs.Prober,
	cfg config.DiscoveryConfig, logger *logging.Logger) *Service {
	return &Service{
		repo:    repo,
		crawler: crawler,
		prober:  prober,
		logger:  logger,
		cfg:     cfg,
		jobs:    make(chan string, 64),
	}
}

// Start launches the worker pool, re-queues every present unbanned root and
// schedules the consistency pass.
func (s *Service) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	s.cron = cron.New()
	schedule := s.cfg.ConsistencySchedule
	if schedule == "" {
		schedule = "@every 10m"
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.consistencyPass(ctx) }); err != nil {
		return err
	}
	s.cron.Start()

	s.Reload()
	return nil
}

// Stop cancels in-flight work and waits for the workers to drain.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.Resume()
	s.wg.Wait()
}

// Pause halts background processing. Workers finish the file transaction
// they are in and block before starting the next one.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.gate = make(chan struct{})
	s.logger.Info().Msg("Background discovery paused")
}

// Resume releases paused workers. Resuming while running is a no-op.
func (s *Service) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false
	close(s.gate)
	s.logger.Info().Msg("Background discovery resumed")
}

// waitResumed blocks until the service is running or the context ends.
func (s *Service) waitResumed(ctx context.Context) error {
	s.mu.Lock()
	paused, gate := s.paused, s.gate
	s.mu.Unlock()
	if !paused {
		return ctx.Err()
	}
	select {
	case <-gate:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddFolder registers a discovery root and queues a crawl when the root is
// new or restored and not banned.
func (s *Service) AddFolder(mrl string) {
	ep, crawl, err := s.repo.AddEntrypoint(mrl)
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to add discovery root")
		return
	}
	if crawl {
		s.enqueue(ep.MRL)
	}
}

// RemoveFolder flips a root to removed and deletes the media beneath it.
// Unknown roots are ignored.
func (s *Service) RemoveFolder(mrl string) {
	removed, err := s.repo.MarkEntrypointRemoved(mrl)
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to remove discovery root")
		return
	}
	if !removed {
		return
	}
	if err := s.repo.DeleteMediaUnder(mrl); err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to delete media under removed root")
	}
}

// BanFolder marks a root banned and deletes the media beneath it. The ban
// outlives removal and re-addition of the root.
func (s *Service) BanFolder(mrl string) {
	changed, err := s.repo.SetEntrypointBanned(mrl, true)
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to ban discovery root")
		return
	}
	if !changed {
		return
	}
	if err := s.repo.DeleteMediaUnder(mrl); err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to delete media under banned root")
	}
}

// UnbanFolder lifts a ban and queues a crawl when the root is present.
func (s *Service) UnbanFolder(mrl string) {
	changed, err := s.repo.SetEntrypointBanned(mrl, false)
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to unban discovery root")
		return
	}
	if !changed {
		return
	}
	ep, err := s.repo.FindEntrypoint(mrl)
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", mrl).Msg("Failed to reload unbanned root")
		return
	}
	if ep.Present {
		s.enqueue(ep.MRL)
	}
}

// Reload queues a crawl of every present, unbanned root.
func (s *Service) Reload() {
	eps, err := s.repo.ListPresentEntrypoints()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list discovery roots")
		return
	}
	for _, ep := range eps {
		if !ep.Banned {
			s.enqueue(ep.MRL)
		}
	}
}

func (s *Service) enqueue(rootMRL string) {
	select {
	case s.jobs <- rootMRL:
	default:
		// Queue full; the root will be picked up by the next reload.
		s.logger.Warn().Str("mrl", rootMRL).Msg("Discovery queue full, crawl deferred")
	}
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case root := <-s.jobs:
			s.crawlRoot(ctx, root)
		}
	}
}

// crawlRoot walks one root and ingests every file found. The pause gate is
// honored between files so a pause takes effect at the next transaction
// boundary.
func (s *Service) crawlRoot(ctx context.Context, root string) {
	if err := s.waitResumed(ctx); err != nil {
		return
	}
	bannedRoots, err := s.repo.BannedRoots()
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", root).Msg("Failed to load banned roots")
		return
	}
	entries, err := s.crawler.Crawl(ctx, root, func(mrl string) bool {
		return underAny(mrl, bannedRoots)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("mrl", root).Msg("Crawl failed")
		return
	}
	s.logger.Info().Str("mrl", root).Int("files", len(entries)).Msg("Crawl finished")

	for _, entry := range entries {
		if err := s.waitResumed(ctx); err != nil {
			return
		}
		s.ingestEntry(ctx, entry)
	}
}

// ingestEntry probes one file, retrying transient prober errors up to the
// configured limit, and merges the result into the catalog. A probe that
// keeps failing is recorded track-less rather than dropped.
func (s *Service) ingestEntry(ctx context.Context, entry mediafs.Entry) {
	retries := s.cfg.ProbeRetryLimit
	if retries < 1 {
		retries = 1
	}
	var info *models.ProbedMediaInfo
	for attempt := 0; attempt < retries; attempt++ {
		probed, err := s.prober.Probe(ctx, entry)
		if err != nil || probed.ProbeFailed {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		info = probed
		break
	}
	if info == nil {
		s.logger.Warn().Str("mrl", entry.MRL).Msg("Probe failed after retries, recording track-less")
		info = &models.ProbedMediaInfo{
			MRL:         entry.MRL,
			Duration:    models.DurationUnknown,
			FileSize:    entry.Size,
			ProbeFailed: true,
		}
	}
	media, err := s.repo.IngestProbedFile(info)
	if err != nil {
		s.logger.LogFileIngest(entry.MRL, 0, len(info.Tracks), false, err.Error())
		return
	}
	if media == nil {
		// Root was banned between crawl and ingest.
		return
	}
	s.logger.LogFileIngest(entry.MRL, media.ID, len(info.Tracks), true, "")
}

// consistencyPass re-deletes media under banned or removed roots, repairing
// interrupted removals and bans that raced a crawl.
func (s *Service) consistencyPass(ctx context.Context) {
	if err := s.waitResumed(ctx); err != nil {
		return
	}
	banned, err := s.repo.BannedRoots()
	if err != nil {
		s.logger.Error().Err(err).Msg("Consistency pass failed to load banned roots")
		return
	}
	removed, err := s.repo.RemovedRoots()
	if err != nil {
		s.logger.Error().Err(err).Msg("Consistency pass failed to load removed roots")
		return
	}
	for _, root := range append(banned, removed...) {
		if err := s.waitResumed(ctx); err != nil {
			return
		}
		if err := s.repo.DeleteMediaUnder(root); err != nil {
			s.logger.Error().Err(err).Str("mrl", root).Msg("Consistency pass delete failed")
		}
	}
}

// underAny reports whether an MRL equals or falls inside any of the roots.
func underAny(mrl string, roots []string) bool {
	for _, root := range roots {
		if mrl == root || strings.HasPrefix(mrl, strings.TrimSuffix(root, "/")+"/") {
			return true
		}
	}
	return false
}
