// Package storage persists per-session search history in SQLite through gorm.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vit0-9/domain_lookup/pkg/utils/domain"
)

// DefaultHistoryLimit is the number of entries List returns when limit <= 0.
const DefaultHistoryLimit = 10

// SearchHistory is one stored search.
type SearchHistory struct {
	ID        string              `gorm:"primaryKey;size:36" json:"id"`
	SessionID string              `gorm:"index:idx_session_time,priority:1;not null" json:"-"`
	Domain    string              `gorm:"index;not null" json:"domain"`
	Result    domain.DomainRecord `gorm:"serializer:json;type:text" json:"result"`
	APISource domain.Source       `gorm:"size:16;not null" json:"apiSource"`
	Timestamp time.Time           `gorm:"index:idx_session_time,priority:2,sort:desc" json:"timestamp"`
}

// SourceBreakdown groups a session's searches by lookup source.
type SourceBreakdown struct {
	APISource domain.Source `json:"apiSource"`
	Count     int64         `json:"count"`
	Domains   []string      `json:"domains"`
}

// Stats summarises a session's history.
type Stats struct {
	TotalSearches int64             `json:"totalSearches"`
	Breakdown     []SourceBreakdown `json:"breakdown"`
}

// HistoryStore wraps the gorm handle.
type HistoryStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and migrates the schema.
// ":memory:" gives a throwaway database.
func Open(path string) (*HistoryStore, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// one connection keeps SQLite from lock contention and keeps :memory: a single database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&SearchHistory{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &HistoryStore{db: db, now: time.Now}, nil
}

// Save records a search. The domain is stored trimmed and lowercased.
func (s *HistoryStore) Save(ctx context.Context, sessionID, domainName string, result domain.DomainRecord, source domain.Source) (*SearchHistory, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	entry := &SearchHistory{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Domain:    strings.ToLower(strings.TrimSpace(domainName)),
		Result:    result.Clone(),
		APISource: source,
		Timestamp: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to save search history: %w", err)
	}
	return entry, nil
}

// List returns the session's most recent searches, newest first.
func (s *HistoryStore) List(ctx context.Context, sessionID string, limit int) ([]SearchHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	history := []SearchHistory{}
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search history: %w", err)
	}
	return history, nil
}

// Delete removes one entry owned by the session and reports whether it existed.
func (s *HistoryStore) Delete(ctx context.Context, id, sessionID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id, sessionID).
		Delete(&SearchHistory{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete history item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Clear removes every entry of the session and returns how many were deleted.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&SearchHistory{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear search history: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats counts the session's searches in total and per source.
func (s *HistoryStore) Stats(ctx context.Context, sessionID string) (Stats, error) {
	stats := Stats{Breakdown: []SourceBreakdown{}}
	db := s.db.WithContext(ctx).Model(&SearchHistory{}).Where("session_id = ?", sessionID)

	if err := db.Count(&stats.TotalSearches).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count searches: %w", err)
	}

	var rows []struct {
		APISource domain.Source
		Domain    string
		Count     int64
	}
	err := s.db.WithContext(ctx).Model(&SearchHistory{}).
		Select("api_source, domain, COUNT(*) AS count").
		Where("session_id = ?", sessionID).
		Group("api_source, domain").
		Order("api_source, domain").
		Scan(&rows).Error
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate searches: %w", err)
	}

	index := map[domain.Source]int{}
	for _, row := range rows {
		i, ok := index[row.APISource]
		if !ok {
			i = len(stats.Breakdown)
			index[row.APISource] = i
			stats.Breakdown = append(stats.Breakdown, SourceBreakdown{APISource: row.APISource, Domains: []string{}})
		}
		stats.Breakdown[i].Count += row.Count
		stats.Breakdown[i].Domains = append(stats.Breakdown[i].Domains, row.Domain)
	}
	return stats, nil
}

// DomainSearchCount counts searches for a domain across all sessions.
func (s *HistoryStore) DomainSearchCount(ctx context.Context, domainName string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&SearchHistory{}).
		Where("domain = ?", strings.ToLower(strings.TrimSpace(domainName))).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count domain searches: %w", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *HistoryStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *HistoryStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
