package config

import (
	"encoding/hex"
	"fmt"

	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// SelfXorName decodes Self into a vaultid.XorName.
func (c *Config) SelfXorName() (vaultid.XorName, error) {
	return decodeXorName(c.Self)
}

// PeerXorNames decodes Peers into vaultid.XorNames, in configured order.
func (c *Config) PeerXorNames() ([]vaultid.XorName, error) {
	names := make([]vaultid.XorName, len(c.Peers))
	for i, p := range c.Peers {
		name, err := decodeXorName(p)
		if err != nil {
			return nil, fmt.Errorf("peers[%d]: %w", i, err)
		}
		names[i] = name
	}
	return names, nil
}

func decodeXorName(s string) (vaultid.XorName, error) {
	var name vaultid.XorName
	b, err := hex.DecodeString(s)
	if err != nil {
		return name, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != vaultid.XorNameLen {
		return name, fmt.Errorf("expected %d bytes, got %d", vaultid.XorNameLen, len(b))
	}
	copy(name[:], b)
	return name, nil
}
