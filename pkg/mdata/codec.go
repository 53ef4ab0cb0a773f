package mdata

import (
	"encoding/hex"
	"encoding/json"

	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// wireMap mirrors Map's in-memory shape with
// string/hex keys, using json rather than a binary format: maps change
// rarely relative to IData chunks, and the readability of json during
// debugging and recovery outweighs its size overhead here.
type wireMap struct {
	Name    string                    `json:"name"`
	Tag     uint64                    `json:"tag"`
	Owners  []string                  `json:"owners"`
	AnyUser permission.Set            `json:"any_user,omitempty"`
	ByUser  map[string]permission.Set `json:"by_user,omitempty"`
	Version uint64                    `json:"version"`
	Entries map[string]Entry          `json:"entries"`
}

// MapCodec implements chunkstore.Codec for mapChunk.
type MapCodec struct{}

func (MapCodec) Encode(obj mapChunk) ([]byte, error) {
	w := wireMap{
		Name:    hex.EncodeToString(obj.Address.Name[:]),
		Tag:     obj.Address.Tag,
		Owners:  make([]string, len(obj.Owners)),
		AnyUser: obj.Permissions.AnyUser,
		ByUser:  make(map[string]permission.Set, len(obj.Permissions.ByUser)),
		Version: obj.Version,
		Entries: obj.Entries,
	}
	for i, o := range obj.Owners {
		w.Owners[i] = hex.EncodeToString(o[:])
	}
	for k, v := range obj.Permissions.ByUser {
		w.ByUser[hex.EncodeToString(k[:])] = v
	}
	return json.Marshal(w)
}

func (MapCodec) Decode(data []byte) (mapChunk, error) {
	var w wireMap
	if err := json.Unmarshal(data, &w); err != nil {
		return mapChunk{}, err
	}

	var m Map
	if err := decodeHexName(w.Name, &m.Address.Name); err != nil {
		return mapChunk{}, err
	}
	m.Address.Tag = w.Tag
	m.Version = w.Version
	m.Entries = w.Entries
	m.Owners = make([]vaultid.PublicKey, len(w.Owners))
	for i, s := range w.Owners {
		if err := decodeHexKey(s, &m.Owners[i]); err != nil {
			return mapChunk{}, err
		}
	}
	m.Permissions = permission.Permissions{AnyUser: w.AnyUser, ByUser: make(map[vaultid.PublicKey]permission.Set, len(w.ByUser))}
	for s, set := range w.ByUser {
		var key vaultid.PublicKey
		if err := decodeHexKey(s, &key); err != nil {
			return mapChunk{}, err
		}
		m.Permissions.ByUser[key] = set
	}
	return mapChunk{m}, nil
}

func decodeHexName(s string, out *vaultid.XorName) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	copy(out[:], b)
	return nil
}

func decodeHexKey(s string, out *vaultid.PublicKey) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	copy(out[:], b)
	return nil
}
