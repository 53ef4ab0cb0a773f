package adata

import (
	"encoding/hex"
	"encoding/json"

	"github.com/lionel1704/sn-node/pkg/adata/crdtop"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// wirePermissions mirrors permission.Permissions with hex-keyed maps, the
// same approach mdata's codec takes for json-friendliness.
type wirePermissions struct {
	AnyUser permission.Set            `json:"any_user,omitempty"`
	ByUser  map[string]permission.Set `json:"by_user,omitempty"`
}

type wireDot struct {
	Actor   string `json:"actor"`
	Counter uint64 `json:"counter"`
}

type wireSequence struct {
	Name        string            `json:"name"`
	Scope       vaultid.Scope     `json:"scope"`
	Tag         uint64            `json:"tag"`
	Entries     [][]byte          `json:"entries"`
	Owners      []string          `json:"owners"`
	Permissions []wirePermissions `json:"permissions"`
	AppliedDots []wireDot         `json:"applied_dots"`
}

// SequenceCodec implements chunkstore.Codec for sequenceChunk.
type SequenceCodec struct{}

func (SequenceCodec) Encode(obj sequenceChunk) ([]byte, error) {
	w := wireSequence{
		Name:    hex.EncodeToString(obj.Address.Name[:]),
		Scope:   obj.Address.Scope,
		Tag:     obj.Address.Tag,
		Entries: obj.Entries,
		Owners:  make([]string, len(obj.OwnersHistory)),
	}
	for i, o := range obj.OwnersHistory {
		w.Owners[i] = hex.EncodeToString(o[:])
	}
	for _, p := range obj.PermissionsHistory {
		wp := wirePermissions{AnyUser: p.AnyUser, ByUser: make(map[string]permission.Set, len(p.ByUser))}
		for k, v := range p.ByUser {
			wp.ByUser[hex.EncodeToString(k[:])] = v
		}
		w.Permissions = append(w.Permissions, wp)
	}
	for dot := range obj.AppliedDots {
		w.AppliedDots = append(w.AppliedDots, wireDot{Actor: hex.EncodeToString(dot.Actor[:]), Counter: dot.Counter})
	}
	return json.Marshal(w)
}

func (SequenceCodec) Decode(data []byte) (sequenceChunk, error) {
	var w wireSequence
	if err := json.Unmarshal(data, &w); err != nil {
		return sequenceChunk{}, err
	}

	var s Sequence
	nameBytes, err := hex.DecodeString(w.Name)
	if err != nil {
		return sequenceChunk{}, err
	}
	copy(s.Address.Name[:], nameBytes)
	s.Address.Scope = w.Scope
	s.Address.Tag = w.Tag
	s.Entries = w.Entries

	s.OwnersHistory = make([]vaultid.PublicKey, len(w.Owners))
	for i, o := range w.Owners {
		b, err := hex.DecodeString(o)
		if err != nil {
			return sequenceChunk{}, err
		}
		copy(s.OwnersHistory[i][:], b)
	}

	for _, wp := range w.Permissions {
		p := permission.Permissions{AnyUser: wp.AnyUser, ByUser: make(map[vaultid.PublicKey]permission.Set, len(wp.ByUser))}
		for k, v := range wp.ByUser {
			var key vaultid.PublicKey
			b, err := hex.DecodeString(k)
			if err != nil {
				return sequenceChunk{}, err
			}
			copy(key[:], b)
			p.ByUser[key] = v
		}
		s.PermissionsHistory = append(s.PermissionsHistory, p)
	}

	if len(w.AppliedDots) > 0 {
		s.AppliedDots = make(map[crdtop.Dot]bool, len(w.AppliedDots))
		for _, wd := range w.AppliedDots {
			var dot crdtop.Dot
			b, err := hex.DecodeString(wd.Actor)
			if err != nil {
				return sequenceChunk{}, err
			}
			copy(dot.Actor[:], b)
			dot.Counter = wd.Counter
			s.AppliedDots[dot] = true
		}
	}

	return sequenceChunk{s}, nil
}
