package starmap

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Service owns the loaded star system. The built hierarchy is an immutable
// snapshot; Reload builds a fresh one and atomically swaps the reference, so
// readers never observe a half-built system.
type Service struct {
	feedPath string
	builder  *Builder
	current  atomic.Pointer[StarSystem]
	logger   *slog.Logger
}

func NewService(feedPath string, logger *slog.Logger) *Service {
	logger.Debug("Initializing starmap service", "feed_path", feedPath)

	return &Service{
		feedPath: feedPath,
		builder:  NewBuilder(logger),
		logger:   logger,
	}
}

// Load reads the configured feed file, parses and builds the system, and
// publishes it as the current snapshot.
func (s *Service) Load() error {
	logger := s.logger.With("component", "starmap_service", "operation", "load", "feed_path", s.feedPath)
	logger.Info("Loading star system feed")

	data, err := os.ReadFile(s.feedPath)
	if err != nil {
		logger.Error("Failed to read feed file", "error", err)
		return fmt.Errorf("failed to read feed file: %w", err)
	}

	feed, err := ParseFeed(data)
	if err != nil {
		logger.Error("Failed to parse feed", "error", err)
		return err
	}

	for _, issue := range feed.Issues {
		logger.Warn("Feed record issue", "issue", issue)
	}

	system, err := s.builder.Build(feed)
	if err != nil {
		logger.Error("Failed to build star system", "error", err)
		return err
	}

	s.current.Store(system)
	logger.Info("Star system loaded", "root_id", system.Root().ID, "object_count", system.ObjectCount())
	return nil
}

// Reload rebuilds the system from the feed and swaps the snapshot. The
// previous snapshot stays valid for readers that already hold it.
func (s *Service) Reload() error {
	return s.Load()
}

// System returns the current snapshot, or an error when no feed has been
// loaded yet.
func (s *Service) System() (*StarSystem, error) {
	system := s.current.Load()
	if system == nil {
		return nil, fmt.Errorf("star system not loaded")
	}
	return system, nil
}
