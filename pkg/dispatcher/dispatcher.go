// Package dispatcher routes an inbound Rpc to whichever handler owns its
// concrete payload type (§4.7). Every node runs an IData holder; only a
// node currently acting as Elder for a given section also runs the
// coordinating IData/MData/AData handlers.
package dispatcher

import (
	"context"

	"github.com/lionel1704/sn-node/internal/logger"
	"github.com/lionel1704/sn-node/pkg/adata"
	"github.com/lionel1704/sn-node/pkg/idata"
	"github.com/lionel1704/sn-node/pkg/mdata"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Dispatcher is the single entry point a node's transport layer calls for
// every arrived Rpc. idataHandler/mdataHandler/adataHandler are nil on a
// node not currently acting as Elder; requests that need one are logged
// and dropped rather than erroring, matching a demoted or not-yet-promoted
// node silently declining coordination it no longer owns.
type Dispatcher struct {
	self   vaultid.NodeID
	holder *idata.Holder

	idataHandler *idata.IDataHandler
	mdataHandler *mdata.Handler
	adataHandler *adata.Handler
}

// New builds a Dispatcher. holder must never be nil — every node, Elder
// or not, serves holder traffic for the chunks it was asked to replicate.
func New(self vaultid.NodeID, holder *idata.Holder, idataHandler *idata.IDataHandler, mdataHandler *mdata.Handler, adataHandler *adata.Handler) *Dispatcher {
	return &Dispatcher{
		self:         self,
		holder:       holder,
		idataHandler: idataHandler,
		mdataHandler: mdataHandler,
		adataHandler: adataHandler,
	}
}

// Dispatch routes one inbound Rpc, returning the outbound Actions it
// produces. A nil, nil result means either the Rpc was logged and dropped
// (an unrecognized request kind, or a request needing a handler this node
// does not currently run), or it was a holder response that produced no
// client reply: one folded into its op without concluding it, or one whose
// message id is not tracked.
func (d *Dispatcher) Dispatch(ctx context.Context, src vaultid.XorName, r rpc.Rpc) ([]rpc.Action, error) {
	switch env := r.(type) {
	case rpc.RequestRpc:
		return d.handleRequest(ctx, src, env)
	case rpc.ResponseRpc:
		return d.handleResponse(src, env)
	default:
		logger.Warn("dropping rpc of unrecognized kind")
		return nil, nil
	}
}

func (d *Dispatcher) handleRequest(ctx context.Context, src vaultid.XorName, env rpc.RequestRpc) ([]rpc.Action, error) {
	switch req := env.Request.(type) {
	case idata.PutRequest:
		return d.handlePutIData(ctx, src, env.Requester, req, env.MessageID)
	case idata.GetRequest:
		return d.handleGetIData(ctx, src, env.Requester, req, env.MessageID)
	case idata.DeleteUnpubRequest:
		return d.handleDeleteUnpubIData(ctx, src, env.Requester, req, env.MessageID)

	case mdata.PutRequest, mdata.GetRequest, mdata.GetShellRequest, mdata.GetVersionRequest,
		mdata.GetValueRequest, mdata.ListEntriesRequest, mdata.ListKeysRequest, mdata.ListValuesRequest,
		mdata.ListPermissionsRequest, mdata.ListUserPermissionsRequest, mdata.MutateEntriesRequest,
		mdata.SetUserPermissionsRequest, mdata.DelUserPermissionsRequest, mdata.DeleteRequest:
		return d.handleMData(ctx, env.Requester, req, env.MessageID)

	case adata.NewRequest, adata.GetRequest, adata.GetRangeRequest, adata.GetLastEntryRequest,
		adata.GetOwnerRequest, adata.GetPermissionsRequest, adata.GetUserPermissionsRequest,
		adata.EditRequest, adata.SetOwnerRequest, adata.SetPermissionsRequest, adata.DeleteRequest:
		return d.handleAData(ctx, env.Requester, req, env.MessageID)

	default:
		logger.Warn("dropping out-of-scope request", logger.Procedure(env.Request.Procedure()))
		return nil, nil
	}
}

func (d *Dispatcher) handleResponse(src vaultid.XorName, env rpc.ResponseRpc) ([]rpc.Action, error) {
	if d.idataHandler == nil {
		logger.Warn("dropping idata response: not acting as elder",
			logger.Procedure(env.Response.Procedure()))
		return nil, nil
	}

	var result idata.HolderResult
	switch resp := env.Response.(type) {
	case idata.MutationResponse:
		result = idata.HolderResult{Holder: src, Err: resp.Err}
	case idata.GetResponse:
		result = idata.HolderResult{Holder: src, Blob: resp.Blob, Err: resp.Err}
	default:
		logger.Warn("dropping out-of-scope response", logger.Procedure(env.Response.Procedure()))
		return nil, nil
	}

	action, ok := d.idataHandler.HandleHolderResult(env.MessageID, result)
	if !ok {
		return nil, nil
	}
	return []rpc.Action{action}, nil
}

// requesterKey extracts the PublicKey behind a client or app requester.
// A node requester has no such key: the caller is expected to have
// already special-cased node-originated requests before reaching here.
func requesterKey(id vaultid.PublicID) (vaultid.PublicKey, error) {
	key, ok := vaultid.RequesterKey(id)
	if !ok {
		return vaultid.PublicKey{}, vaulterrors.AccessDenied()
	}
	return key, nil
}

// handlePutIData mirrors the source's PublicId::Node(_) special case: a
// node requester is the coordinating Elder relaying a store to this node
// acting as a holder, while any other requester is a client asking this
// node, acting as Elder, to coordinate a Put across holders.
func (d *Dispatcher) handlePutIData(ctx context.Context, src vaultid.XorName, requester vaultid.PublicID, req idata.PutRequest, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if vaultid.IsNode(requester) {
		result := d.holder.Store(ctx, req.Blob, requester, src, msgID)
		return []rpc.Action{replyToPeer(d.self, src, msgID, idata.MutationResponse{Err: result.Err})}, nil
	}
	if d.idataHandler == nil {
		logger.Warn("dropping client PutIData: not acting as elder")
		return nil, nil
	}
	return d.idataHandler.HandlePut(requester, req.Blob, msgID)
}

func (d *Dispatcher) handleGetIData(ctx context.Context, src vaultid.XorName, requester vaultid.PublicID, req idata.GetRequest, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if vaultid.IsNode(requester) {
		result := d.holder.Get(ctx, req.Address, src, msgID)
		return []rpc.Action{replyToPeer(d.self, src, msgID, idata.GetResponse{Blob: result.Blob, Err: result.Err})}, nil
	}
	if d.idataHandler == nil {
		logger.Warn("dropping client GetIData: not acting as elder")
		return nil, nil
	}
	return d.idataHandler.HandleGet(requester, req.Address, msgID)
}

func (d *Dispatcher) handleDeleteUnpubIData(ctx context.Context, src vaultid.XorName, requester vaultid.PublicID, req idata.DeleteUnpubRequest, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if vaultid.IsNode(requester) {
		result := d.holder.DeleteUnpub(ctx, req.Address, req.Requester, src, msgID)
		return []rpc.Action{replyToPeer(d.self, src, msgID, idata.MutationResponse{Err: result.Err})}, nil
	}
	if d.idataHandler == nil {
		logger.Warn("dropping client DeleteUnpubIData: not acting as elder")
		return nil, nil
	}
	return d.idataHandler.HandleDeleteUnpub(requester, req.Address, msgID)
}

func replyToPeer(self vaultid.NodeID, dst vaultid.XorName, msgID vaultid.MessageID, resp rpc.Response) rpc.Action {
	return rpc.SendToPeer{
		Peer: dst,
		Message: rpc.ResponseRpc{
			Response:  resp,
			Source:    self,
			MessageID: msgID,
		},
	}
}

func respond(msgID vaultid.MessageID, reply rpc.Response) []rpc.Action {
	return []rpc.Action{rpc.RespondToClientHandlers{MessageID: msgID, Message: reply}}
}

func logDropped(reason string, req rpc.Request) {
	logger.Warn("dropping request: "+reason, logger.Procedure(req.Procedure()))
}
