package dispatcher

import (
	"context"

	"github.com/lionel1704/sn-node/pkg/mdata"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// handleMData narrows req to its concrete mdata request type and calls the
// matching Handler method, folding the result into a single mdata.Reply
// shape so every MData operation resolves through one RespondToClientHandlers
// action (§4.5, §4.7).
func (d *Dispatcher) handleMData(ctx context.Context, requester vaultid.PublicID, req rpc.Request, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if d.mdataHandler == nil {
		logDropped("not acting as elder", req)
		return nil, nil
	}

	key, err := requesterKey(requester)
	if err != nil {
		return respond(msgID, mdata.Reply{Err: err}), nil
	}
	h := d.mdataHandler

	switch r := req.(type) {
	case mdata.PutRequest:
		err := h.Create(ctx, r.Map, key)
		return respond(msgID, mdata.Reply{Err: err}), nil

	case mdata.GetRequest:
		m, err := h.Get(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Map: &m}), nil

	case mdata.GetShellRequest:
		shell, err := h.GetShell(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Shell: &shell}), nil

	case mdata.GetVersionRequest:
		version, err := h.GetVersion(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Version: &version}), nil

	case mdata.GetValueRequest:
		entry, err := h.GetValue(ctx, r.Address, r.Key, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Value: &entry}), nil

	case mdata.ListEntriesRequest:
		entries, err := h.ListEntries(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Entries: entries}), nil

	case mdata.ListKeysRequest:
		keys, err := h.ListKeys(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Keys: keys}), nil

	case mdata.ListValuesRequest:
		values, err := h.ListValues(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Values: values}), nil

	case mdata.ListPermissionsRequest:
		perms, err := h.ListPermissions(ctx, r.Address, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{Permissions: &perms}), nil

	case mdata.ListUserPermissionsRequest:
		set, err := h.ListUserPermissions(ctx, r.Address, r.User, key)
		if err != nil {
			return respond(msgID, mdata.Reply{Err: err}), nil
		}
		return respond(msgID, mdata.Reply{UserPermissions: set}), nil

	case mdata.MutateEntriesRequest:
		err := h.MutateEntries(ctx, r.Address, r.Actions, key)
		return respond(msgID, mdata.Reply{Err: err}), nil

	case mdata.SetUserPermissionsRequest:
		err := h.SetUserPermissions(ctx, r.Address, r.User, r.Permissions, r.ExpectedVersion, key)
		return respond(msgID, mdata.Reply{Err: err}), nil

	case mdata.DelUserPermissionsRequest:
		err := h.DelUserPermissions(ctx, r.Address, r.User, r.ExpectedVersion, key)
		return respond(msgID, mdata.Reply{Err: err}), nil

	case mdata.DeleteRequest:
		err := h.Delete(ctx, r.Address, key)
		return respond(msgID, mdata.Reply{Err: err}), nil

	default:
		logDropped("unreachable mdata request", req)
		return nil, nil
	}
}
