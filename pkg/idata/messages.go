package idata

import "github.com/lionel1704/sn-node/pkg/vaultid"

// PutRequest carries a blob to store. The same wire request flows both
// client-to-Elder (coordinate a Put across holders) and Elder-to-Adult
// (store this replica); the dispatcher routes it by the requester's kind
// rather than by a separate message shape (§4.7).
type PutRequest struct{ Blob Blob }

func (PutRequest) Procedure() string { return "PutIData" }

// GetRequest asks for the blob at Address. Flows both directions for the
// same reason as PutRequest.
type GetRequest struct{ Address vaultid.IDataAddress }

func (GetRequest) Procedure() string { return "GetIData" }

// DeleteUnpubRequest asks for an unpublished blob to be deleted.
// Requester is the original client identity: a holder's ownership check
// needs it even when the immediate envelope requester is the relaying
// Elder, not the client itself.
type DeleteUnpubRequest struct {
	Address   vaultid.IDataAddress
	Requester vaultid.PublicID
}

func (DeleteUnpubRequest) Procedure() string { return "DeleteUnpubIData" }

// MutationResponse reports the outcome of a PutRequest/DeleteUnpubRequest
// a holder was asked to perform.
type MutationResponse struct{ Err error }

func (MutationResponse) Procedure() string { return "Mutation" }

// GetResponse reports the outcome of a GetRequest a holder was asked to
// perform.
type GetResponse struct {
	Blob Blob
	Err  error
}

func (GetResponse) Procedure() string { return "GetIData" }

// Reply is the Elder-to-client terminal message for an IData operation,
// carrying the folded Outcome (§4.3).
type Reply struct {
	Outcome Outcome
	Kind    RequestKind
}

func (Reply) Procedure() string { return "IDataReply" }
