// Package rpc defines the inbound envelope and outbound action sum types
// exchanged between the dispatcher and the routing layer (§6). Concrete
// request/response payloads are defined by their owning package (idata,
// mdata, adata) and implement the Request/Response marker interfaces
// here — a flat tagged-variant match (§9), not virtual dispatch.
package rpc

import "github.com/lionel1704/sn-node/pkg/vaultid"

// Request is a client- or peer-originated operation. Implementations live
// in the package that owns the object kind (idata.PutRequest,
// mdata.GetRequest, adata.EditRequest, ...).
type Request interface {
	// Procedure names the request for logging and out-of-scope
	// rejection (§4.7); it is NOT used for dispatch, which type-switches
	// on the concrete Request type.
	Procedure() string
}

// Response is a peer-originated reply to a previously fanned-out request.
// Only idata's Mutation and GetIData responses are meaningful to this
// module (§4.7); any other Response implementation is logged and dropped.
type Response interface {
	Procedure() string
}

// Envelope is the inbound unit handed to the dispatcher by the routing
// layer: an arrived Rpc plus the name of the peer it came from.
type Envelope struct {
	SourcePeer vaultid.XorName
	Rpc        Rpc
}

// Rpc is a sealed union of an inbound Request or Response.
type Rpc interface {
	isRpc()
}

// RequestRpc wraps an inbound Request.
type RequestRpc struct {
	Request   Request
	Requester vaultid.PublicID
	MessageID vaultid.MessageID
}

func (RequestRpc) isRpc() {}

// ResponseRpc wraps an inbound Response.
type ResponseRpc struct {
	Response  Response
	Source    vaultid.PublicID
	MessageID vaultid.MessageID
}

func (ResponseRpc) isRpc() {}

// Action is a sealed union of outbound effects a handler can request from
// the routing layer (§6): send to a specific client, broadcast to a
// section, send to one peer, or respond directly to a waiting client
// handler goroutine.
type Action interface {
	isAction()
}

// SendToClient delivers message to a specific client connection.
type SendToClient struct {
	ClientID vaultid.PublicID
	Message  any
}

func (SendToClient) isAction() {}

// SendToSection asks routing to deliver message to the N peers closest to
// Target.
type SendToSection struct {
	Target  vaultid.XorName
	Message any
}

func (SendToSection) isAction() {}

// SendToPeer delivers message to one specific peer.
type SendToPeer struct {
	Peer    vaultid.XorName
	Message any
}

func (SendToPeer) isAction() {}

// RespondToClientHandlers hands message directly back to the client
// handler that owns the originating connection, bypassing a further
// routing hop — used when the Elder processing the request is also the
// one holding the client connection.
type RespondToClientHandlers struct {
	MessageID vaultid.MessageID
	Message   any
}

func (RespondToClientHandlers) isAction() {}
