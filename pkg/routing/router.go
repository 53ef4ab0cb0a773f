// Package routing defines the narrow interface this module consumes from
// the overlay's routing layer: resolving the close group for a name.
// Peer discovery, message transport, and section membership churn are all
// out of scope here (§1) and live entirely behind this interface.
package routing

import "github.com/lionel1704/sn-node/pkg/vaultid"

// Router resolves the section (close group) responsible for a name.
type Router interface {
	// ClosePeersTo returns the n peers closest to name in XOR space, used
	// both for Put's holder selection and for Get/DeleteUnpub's lookup of
	// the currently-responsible holders (§4.4).
	ClosePeersTo(name vaultid.XorName, n int) []vaultid.XorName
}
