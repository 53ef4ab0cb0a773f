package adata

import (
	"github.com/lionel1704/sn-node/pkg/adata/crdtop"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// NewRequest asks the Elder to create a new Sequence.
type NewRequest struct{ Sequence Sequence }

func (NewRequest) Procedure() string { return "PutAData" }

// GetRequest asks for the full sequence.
type GetRequest struct{ Address vaultid.SDataAddress }

func (GetRequest) Procedure() string { return "GetAData" }

// GetRangeRequest asks for entries in [From, To).
type GetRangeRequest struct {
	Address  vaultid.SDataAddress
	From, To Index
}

func (GetRangeRequest) Procedure() string { return "GetADataRange" }

// GetLastEntryRequest asks for the most recently appended entry.
type GetLastEntryRequest struct{ Address vaultid.SDataAddress }

func (GetLastEntryRequest) Procedure() string { return "GetADataLastEntry" }

// GetOwnerRequest asks for the owner recorded at Index in the owner
// history.
type GetOwnerRequest struct {
	Address vaultid.SDataAddress
	Index   Index
}

func (GetOwnerRequest) Procedure() string { return "GetADataOwner" }

// GetPermissionsRequest asks for the permission table recorded at Index.
type GetPermissionsRequest struct {
	Address vaultid.SDataAddress
	Index   Index
}

func (GetPermissionsRequest) Procedure() string { return "GetADataPermissions" }

// GetUserPermissionsRequest asks for one user's effective permission set
// at Index.
type GetUserPermissionsRequest struct {
	Address vaultid.SDataAddress
	User    vaultid.PublicKey
	Index   Index
}

func (GetUserPermissionsRequest) Procedure() string { return "GetADataUserPermissions" }

// EditRequest appends op to the sequence's entry log.
type EditRequest struct {
	Address vaultid.SDataAddress
	Op      crdtop.EntryOp
}

func (EditRequest) Procedure() string { return "EditAData" }

// SetOwnerRequest appends op to the sequence's owner history.
type SetOwnerRequest struct {
	Address vaultid.SDataAddress
	Op      crdtop.OwnerOp
}

func (SetOwnerRequest) Procedure() string { return "SetADataOwner" }

// SetPermissionsRequest appends op to the sequence's permission history;
// Public distinguishes SetPubPermissions from SetPrivPermissions (§4.6).
type SetPermissionsRequest struct {
	Address vaultid.SDataAddress
	Op      crdtop.PermissionOp
	Public  bool
}

func (SetPermissionsRequest) Procedure() string { return "SetADataPermissions" }

// DeleteRequest removes the sequence entirely.
type DeleteRequest struct{ Address vaultid.SDataAddress }

func (DeleteRequest) Procedure() string { return "DeleteAData" }

// Reply is the Elder-to-client terminal message for any AData operation:
// exactly one of the typed payload fields is set, matching whichever
// request produced it.
type Reply struct {
	Err             error
	Sequence        *Sequence
	Entries         [][]byte
	EntryIndex      *uint64
	Entry           []byte
	Owner           *vaultid.PublicKey
	Permissions     *permission.Permissions
	UserPermissions permission.Set
}

func (Reply) Procedure() string { return "ADataReply" }
