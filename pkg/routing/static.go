package routing

import "github.com/lionel1704/sn-node/pkg/vaultid"

// StaticRouter resolves every name against a fixed, operator-configured
// peer list, for single-process or fixed-membership deployments that have
// no overlay behind them. A real network's churn-aware close-group
// resolution is out of scope here (§1, doc comment above); this is the
// simplest Router a standalone vaultd process can run with.
type StaticRouter struct {
	Peers []vaultid.XorName
}

// ClosePeersTo returns up to n entries from Peers, in configured order,
// ignoring name: a static membership has no notion of XOR proximity to
// recompute per call.
func (s StaticRouter) ClosePeersTo(_ vaultid.XorName, n int) []vaultid.XorName {
	if n > len(s.Peers) {
		n = len(s.Peers)
	}
	out := make([]vaultid.XorName, n)
	copy(out, s.Peers[:n])
	return out
}
