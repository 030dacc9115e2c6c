// Package state owns the single in-memory expense batch shared by every
// display surface. There are no hidden singletons: the Store is constructed
// in main and injected into whatever consumes it.
package state

import (
	"fmt"
	"sync"

	"github.com/dicefinance/expense-dashboard/internal/insights"
	"github.com/dicefinance/expense-dashboard/internal/pipeline"
)

// Store holds the current batch, its analytics snapshot, and any cached
// recommendations. Data lives only for the lifetime of the process.
//
// The batch is single-owner: a new upload replaces it atomically and an
// explicit clear empties it. It is safe for concurrent use.
type Store struct {
	mu              sync.RWMutex
	transactions    []pipeline.Transaction
	analytics       *pipeline.AnalyticsSnapshot
	recommendations []insights.Recommendation
}

// NewStore creates an empty batch store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceBatch swaps in the result of a new upload, discarding the previous
// batch and its cached recommendations.
func (s *Store) ReplaceBatch(transactions []pipeline.Transaction, analytics pipeline.AnalyticsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append([]pipeline.Transaction(nil), transactions...)
	s.analytics = &analytics
	s.recommendations = nil
}

// Clear empties the batch, its analytics, and cached recommendations.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = nil
	s.analytics = nil
	s.recommendations = nil
}

// HasBatch reports whether an upload is currently loaded.
func (s *Store) HasBatch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analytics != nil
}

// Transactions returns a copy of the current batch.
func (s *Store) Transactions() []pipeline.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]pipeline.Transaction(nil), s.transactions...)
}

// Analytics returns the current snapshot. The second return is false when no
// batch is loaded.
func (s *Store) Analytics() (pipeline.AnalyticsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.analytics == nil {
		return pipeline.AnalyticsSnapshot{}, false
	}
	return *s.analytics, true
}

// UpdateStatus sets the status of one transaction by ID, last writer wins.
// The analytics snapshot is untouched: status is not an aggregated field.
func (s *Store) UpdateStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("transaction not found: %s", id)
}

// SetRecommendations caches the latest generated recommendations.
func (s *Store) SetRecommendations(recommendations []insights.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendations = append([]insights.Recommendation(nil), recommendations...)
}

// Recommendations returns a copy of the cached recommendations.
func (s *Store) Recommendations() []insights.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]insights.Recommendation(nil), s.recommendations...)
}

// ChatContext summarizes the current batch for the assistant.
func (s *Store) ChatContext() insights.ChatContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.analytics == nil {
		return insights.ChatContext{}
	}
	return insights.ChatContext{
		CurrentSpend:         s.analytics.TotalSpend,
		Budget:               s.analytics.MonthlyBudget,
		Categories:           append([]pipeline.CategoryBucket(nil), s.analytics.Categories...),
		Departments:          append([]pipeline.DepartmentBucket(nil), s.analytics.Departments...),
		TransactionCount:     s.analytics.TransactionCount,
		AvgTransactionAmount: s.analytics.AvgTransactionAmount,
		HasCSVData:           true,
		CSVTransactionCount:  len(s.transactions),
	}
}
