package models

import (
	"time"

	"github.com/vit0-9/domain_lookup/pkg/storage"
	"github.com/vit0-9/domain_lookup/pkg/utils/domain"
)

// HistoryItem is one entry of the session's search history.
type HistoryItem struct {
	ID        string              `json:"id" example:"5f0c3c4e-8a52-4b8b-9d1e-2f3a4b5c6d7e"`
	Domain    string              `json:"domain" example:"example.com"`
	Result    domain.DomainRecord `json:"result"`
	APISource string              `json:"apiSource" example:"internal"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewHistoryItems converts stored entries into response items, keeping order.
func NewHistoryItems(entries []storage.SearchHistory) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:        e.ID,
			Domain:    e.Domain,
			Result:    e.Result,
			APISource: string(e.APISource),
			Timestamp: e.Timestamp,
		})
	}
	return items
}

// SourceBreakdown counts a session's searches for one lookup source.
type SourceBreakdown struct {
	APISource string   `json:"apiSource" example:"internal"`
	Count     int64    `json:"count" example:"3"`
	Domains   []string `json:"domains"`
}

// HistoryStatsResponse summarises the session's history.
type HistoryStatsResponse struct {
	TotalSearches int64             `json:"totalSearches" example:"4"`
	Breakdown     []SourceBreakdown `json:"breakdown"`
}

// NewHistoryStatsResponse converts store statistics into the response body.
func NewHistoryStatsResponse(stats storage.Stats) HistoryStatsResponse {
	resp := HistoryStatsResponse{
		TotalSearches: stats.TotalSearches,
		Breakdown:     make([]SourceBreakdown, 0, len(stats.Breakdown)),
	}
	for _, b := range stats.Breakdown {
		resp.Breakdown = append(resp.Breakdown, SourceBreakdown{
			APISource: string(b.APISource),
			Count:     b.Count,
			Domains:   b.Domains,
		})
	}
	return resp
}

// ClearHistoryResponse is returned by DELETE /history.
type ClearHistoryResponse struct {
	Message      string `json:"message" example:"Search history cleared"`
	DeletedCount int64  `json:"deletedCount" example:"4"`
}
