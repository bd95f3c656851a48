// Package mapblob assembles the map data transferred via TransferBlock
// messages during the download phase and parses it into a prototype
// table, per-surface chunk data, and starting player state (spec.md
// §4.5 "Phase 4/5/6", §3).
package mapblob

import "sort"

// Assembler collects TransferBlocks keyed by block number and exposes
// the completed blob once every block up to the announced size has
// arrived. Duplicate blocks (resent after a gap-recovery request) are
// idempotent: a later arrival for a block number already held is
// ignored.
type Assembler struct {
	expectedSize uint32
	blocks       map[uint32][]byte
}

// NewAssembler returns an Assembler expecting a blob of expectedSize bytes.
func NewAssembler(expectedSize uint32) *Assembler {
	return &Assembler{expectedSize: expectedSize, blocks: make(map[uint32][]byte)}
}

// AddBlock records one TransferBlock's payload.
func (a *Assembler) AddBlock(blockNumber uint32, data []byte) {
	if _, ok := a.blocks[blockNumber]; ok {
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.blocks[blockNumber] = cp
}

// HasBlock reports whether blockNumber has already been received.
func (a *Assembler) HasBlock(blockNumber uint32) bool {
	_, ok := a.blocks[blockNumber]
	return ok
}

// ReceivedSize returns the total bytes received so far across all blocks.
func (a *Assembler) ReceivedSize() int {
	n := 0
	for _, b := range a.blocks {
		n += len(b)
	}
	return n
}

// IsComplete reports whether enough bytes have arrived to cover the
// announced transfer size.
func (a *Assembler) IsComplete() bool {
	return a.ReceivedSize() >= int(a.expectedSize)
}

// MissingBlocks returns the block numbers in [0, upTo) not yet received,
// for gap-recovery re-requests (spec.md §4.5 phase 4).
func (a *Assembler) MissingBlocks(upTo uint32) []uint32 {
	var missing []uint32
	for i := uint32(0); i < upTo; i++ {
		if !a.HasBlock(i) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Finish concatenates every block in block-number order into the final
// blob.
func (a *Assembler) Finish() []byte {
	nums := make([]uint32, 0, len(a.blocks))
	for n := range a.blocks {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	var out []byte
	for _, n := range nums {
		out = append(out, a.blocks[n]...)
	}
	return out
}
