package application

import (
	"time"

	"github.com/felixgeelhaar/aiscan/internal/domain"
	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
)

// UsageService tracks run counts and AI token consumption separately from
// audit logging.
type UsageService struct {
	repo domain.WorkspaceRepository
}

func NewUsageService(repo domain.WorkspaceRepository) *UsageService {
	return &UsageService{repo: repo}
}

// RecordRun accumulates one completed run into the usage stats.
func (s *UsageService) RecordRun(provider string, records int, usage ai.TokenUsage) error {
	stats, err := s.loadOrInitStats()
	if err != nil {
		return err
	}

	stats.TotalRuns++
	stats.TotalRecords += records
	stats.LastRunAt = time.Now()

	if usage.InputTokens > 0 {
		stats.ProviderStats[provider+":input"] += usage.InputTokens
	}
	if usage.OutputTokens > 0 {
		stats.ProviderStats[provider+":output"] += usage.OutputTokens
	}

	return s.repo.UpdateUsage(*stats)
}

// GetUsage returns the current usage statistics.
func (s *UsageService) GetUsage() (*domain.UsageStats, error) {
	stats, err := s.repo.LoadUsage()
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &domain.UsageStats{ProviderStats: map[string]int{}}, nil
	}
	if stats.ProviderStats == nil {
		stats.ProviderStats = map[string]int{}
	}
	return stats, nil
}

func (s *UsageService) loadOrInitStats() (*domain.UsageStats, error) {
	stats, err := s.repo.LoadUsage()
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &domain.UsageStats{}
	}
	if stats.ProviderStats == nil {
		stats.ProviderStats = map[string]int{}
	}
	return stats, nil
}
