/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: knowledge.go
Description: Knowledge base of validated hypotheses. High-scoring parser
hypotheses are kept in a binary max-heap ordered by validation score, so
the best prior knowledge is always at the root when the next prompt is
assembled. Admission is threshold-gated: a hypothesis that barely parsed
anything never pollutes future prompts.
*/

package harness

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hypothesis is one oracle proposal that scored well enough to keep
type Hypothesis struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"` // format the hypothesis was scored on
	Text      string    `json:"text"`   // the proposed parser source
	Score     float64   `json:"score"`  // validation score that admitted it
	Source    string    `json:"source"` // oracle that produced it
	CreatedAt time.Time `json:"created_at"`
}

// KnowledgeBase is a thread-safe max-heap of admitted hypotheses
type KnowledgeBase struct {
	heap      []*Hypothesis // binary heap ordered by score
	mu        sync.RWMutex
	threshold float64 // minimum score for admission, exclusive

	// Performance tracking
	offered  int64
	admitted int64
}

// NewKnowledgeBase creates an empty knowledge base admitting only
// hypotheses scoring strictly above threshold.
func NewKnowledgeBase(threshold float64) *KnowledgeBase {
	return &KnowledgeBase{
		heap:      make([]*Hypothesis, 0, 64),
		threshold: threshold,
	}
}

// Offer submits a hypothesis for admission. Returns true when the score
// clears the threshold and the hypothesis was kept.
func (kb *KnowledgeBase) Offer(h *Hypothesis) bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	kb.offered++
	if h.Score <= kb.threshold {
		return false
	}

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	kb.heap = append(kb.heap, h)
	kb.admitted++
	kb.bubbleUp(len(kb.heap) - 1)
	return true
}

// Best returns the highest-scoring hypothesis without removing it
func (kb *KnowledgeBase) Best() *Hypothesis {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	if len(kb.heap) == 0 {
		return nil
	}
	return kb.heap[0]
}

// Top returns up to n hypotheses in descending score order
func (kb *KnowledgeBase) Top(n int) []*Hypothesis {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	if n <= 0 || len(kb.heap) == 0 {
		return nil
	}

	sorted := make([]*Hypothesis, len(kb.heap))
	copy(sorted, kb.heap)
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Score > sorted[i].Score {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Size returns the number of admitted hypotheses
func (kb *KnowledgeBase) Size() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.heap)
}

// PromptContext renders the top n hypotheses as the prior-knowledge
// block appended to oracle prompts. Empty when nothing is admitted yet.
func (kb *KnowledgeBase) PromptContext(n int) string {
	top := kb.Top(n)
	if len(top) == 0 {
		return ""
	}

	var b strings.Builder
	for i, h := range top {
		fmt.Fprintf(&b, "--- Hypothesis %d (format %s, score %.2f) ---\n%s\n", i+1, h.Format, h.Score, h.Text)
	}
	return b.String()
}

// GetStats returns knowledge base counters for logging
func (kb *KnowledgeBase) GetStats() map[string]interface{} {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["size"] = len(kb.heap)
	stats["offered"] = kb.offered
	stats["admitted"] = kb.admitted
	stats["threshold"] = kb.threshold
	if len(kb.heap) > 0 {
		stats["best_score"] = kb.heap[0].Score
	}
	return stats
}

// bubbleUp moves an element up the heap to maintain heap property
func (kb *KnowledgeBase) bubbleUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2

		if kb.heap[index].Score > kb.heap[parent].Score {
			kb.heap[index], kb.heap[parent] = kb.heap[parent], kb.heap[index]
			index = parent
		} else {
			break
		}
	}
}
