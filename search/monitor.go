package search

import "github.com/poiesic/bazaar/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterLocationExtraction(region string)
	AfterTermExpansion(terms []string)
	TierAttempted(tier core.SearchTier, found int)
	Finish(result *core.RankedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterLocationExtraction(_ string)       {}
func (n *noopMonitor) AfterTermExpansion(_ []string)          {}
func (n *noopMonitor) TierAttempted(_ core.SearchTier, _ int) {}
func (n *noopMonitor) Finish(_ *core.RankedResult)            {}
