package dispatcher

import (
	"context"

	"github.com/lionel1704/sn-node/pkg/adata"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// handleAData mirrors handleMData for append-only sequences (§4.6, §4.7).
func (d *Dispatcher) handleAData(ctx context.Context, requester vaultid.PublicID, req rpc.Request, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if d.adataHandler == nil {
		logDropped("not acting as elder", req)
		return nil, nil
	}

	key, err := requesterKey(requester)
	if err != nil {
		return respond(msgID, adata.Reply{Err: err}), nil
	}
	h := d.adataHandler

	switch r := req.(type) {
	case adata.NewRequest:
		err := h.New(ctx, r.Sequence)
		return respond(msgID, adata.Reply{Err: err}), nil

	case adata.GetRequest:
		seq, err := h.Get(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{Sequence: &seq}), nil

	case adata.GetRangeRequest:
		entries, err := h.GetRange(ctx, r.Address, r.From, r.To, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{Entries: entries}), nil

	case adata.GetLastEntryRequest:
		idx, entry, err := h.GetLastEntry(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{EntryIndex: &idx, Entry: entry}), nil

	case adata.GetOwnerRequest:
		owner, err := h.GetOwner(ctx, r.Address, r.Index, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{Owner: &owner}), nil

	case adata.GetPermissionsRequest:
		perms, err := h.GetPermissions(ctx, r.Address, r.Index, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{Permissions: &perms}), nil

	case adata.GetUserPermissionsRequest:
		set, err := h.GetUserPermissions(ctx, r.Address, r.User, r.Index, key)
		if err != nil {
			return respond(msgID, adata.Reply{Err: err}), nil
		}
		return respond(msgID, adata.Reply{UserPermissions: set}), nil

	case adata.EditRequest:
		err := h.Edit(ctx, r.Address, r.Op, key)
		return respond(msgID, adata.Reply{Err: err}), nil

	case adata.SetOwnerRequest:
		err := h.SetOwner(ctx, r.Address, r.Op, key)
		return respond(msgID, adata.Reply{Err: err}), nil

	case adata.SetPermissionsRequest:
		var err error
		if r.Public {
			err = h.SetPubPermissions(ctx, r.Address, r.Op, key)
		} else {
			err = h.SetPrivPermissions(ctx, r.Address, r.Op, key)
		}
		return respond(msgID, adata.Reply{Err: err}), nil

	case adata.DeleteRequest:
		err := h.Delete(ctx, r.Address, key)
		return respond(msgID, adata.Reply{Err: err}), nil

	default:
		logDropped("unreachable adata request", req)
		return nil, nil
	}
}
