package protocol

// reliableRNG is a splitmix64 generator seeded from
// client_request_id ^ server_request_id ^ peer_constant, producing the
// per-heartbeat reliable-bit decisions (SPEC_FULL §3: "deterministic
// 64-bit state" — the real client's exact algorithm is undocumented, so
// this is a faithful-shape stand-in rather than a reproduction; recorded
// as an Open Question in DESIGN.md).
type reliableRNG struct {
	state uint64
}

func newReliableRNG(seed uint64) *reliableRNG {
	return &reliableRNG{state: seed}
}

func (r *reliableRNG) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// shouldMarkReliable reports whether the next heartbeat should carry the
// reliable flag, targeting roughly a 50% distribution (spec.md §4.5).
func (r *reliableRNG) shouldMarkReliable() bool {
	return r.next()&1 == 0
}
