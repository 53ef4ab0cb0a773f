// Package routingtest provides a fixed-section test double for
// pkg/routing.Router, used by handler unit tests that need deterministic
// holder selection without a real overlay.
package routingtest

import "github.com/lionel1704/sn-node/pkg/vaultid"

// FixedSection is a routing.Router that always returns the same section,
// truncated to n when n is smaller; it never repeats peers to reach n.
type FixedSection struct {
	Peers []vaultid.XorName
}

// ClosePeersTo implements routing.Router by returning up to n entries
// from Peers, in order, ignoring name.
func (f FixedSection) ClosePeersTo(_ vaultid.XorName, n int) []vaultid.XorName {
	if n > len(f.Peers) {
		n = len(f.Peers)
	}
	out := make([]vaultid.XorName, n)
	copy(out, f.Peers[:n])
	return out
}

// NamedPeers builds a FixedSection of n peers whose names are zero except
// for a leading byte of 1 .. n, distinct in that leading byte so XOR-distance comparisons in tests stay
// meaningful.
func NamedPeers(n int) FixedSection {
	peers := make([]vaultid.XorName, n)
	for i := 0; i < n; i++ {
		peers[i][0] = byte(i + 1)
	}
	return FixedSection{Peers: peers}
}
