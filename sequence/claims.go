package sequence

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/anatomica/core"
)

// ClaimTable tracks which entities are exclusively owned by a running
// sequence. Two sequences over disjoint entity sets may run together; an
// overlapping claim is rejected rather than interleaved.
type ClaimTable struct {
	mu     sync.Mutex
	claims map[*Sequencer]map[uint64]struct{}
}

func NewClaimTable() *ClaimTable {
	return &ClaimTable{claims: make(map[*Sequencer]map[uint64]struct{})}
}

// Claim reserves the entities for owner. Overlap with any other holder's
// claim fails with no state change.
func (c *ClaimTable) Claim(owner *Sequencer, ids []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for holder, held := range c.claims {
		if holder == owner {
			continue
		}
		for _, id := range ids {
			if _, taken := held[id]; taken {
				return fmt.Errorf("%w: target group overlaps sequence %q", core.ErrBusy, holder.Name())
			}
		}
	}
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	c.claims[owner] = set
	return nil
}

// Release drops owner's claim. Safe to call when no claim is held.
func (c *ClaimTable) Release(owner *Sequencer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claims, owner)
}
