package mdata

import (
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// PutRequest asks the Elder to Create a new Map.
type PutRequest struct{ Map Map }

func (PutRequest) Procedure() string { return "PutMData" }

// GetRequest asks for the full map.
type GetRequest struct{ Address vaultid.MDataAddress }

func (GetRequest) Procedure() string { return "GetMData" }

// GetShellRequest asks for the map's metadata without its entries.
type GetShellRequest struct{ Address vaultid.MDataAddress }

func (GetShellRequest) Procedure() string { return "GetMDataShell" }

// GetVersionRequest asks for the map's version counter.
type GetVersionRequest struct{ Address vaultid.MDataAddress }

func (GetVersionRequest) Procedure() string { return "GetMDataVersion" }

// GetValueRequest asks for one entry's value.
type GetValueRequest struct {
	Address vaultid.MDataAddress
	Key     string
}

func (GetValueRequest) Procedure() string { return "GetMDataValue" }

// ListEntriesRequest asks for every key/value entry.
type ListEntriesRequest struct{ Address vaultid.MDataAddress }

func (ListEntriesRequest) Procedure() string { return "ListMDataEntries" }

// ListKeysRequest asks for every entry key.
type ListKeysRequest struct{ Address vaultid.MDataAddress }

func (ListKeysRequest) Procedure() string { return "ListMDataKeys" }

// ListValuesRequest asks for every entry value.
type ListValuesRequest struct{ Address vaultid.MDataAddress }

func (ListValuesRequest) Procedure() string { return "ListMDataValues" }

// ListPermissionsRequest asks for the map's full permission table.
type ListPermissionsRequest struct{ Address vaultid.MDataAddress }

func (ListPermissionsRequest) Procedure() string { return "ListMDataPermissions" }

// ListUserPermissionsRequest asks for one user's effective permission set.
type ListUserPermissionsRequest struct {
	Address vaultid.MDataAddress
	User    vaultid.PublicKey
}

func (ListUserPermissionsRequest) Procedure() string { return "ListMDataUserPermissions" }

// MutateEntriesRequest carries an atomic batch of entry mutations.
type MutateEntriesRequest struct {
	Address vaultid.MDataAddress
	Actions []EntryAction
}

func (MutateEntriesRequest) Procedure() string { return "MutateMDataEntries" }

// SetUserPermissionsRequest replaces a user's explicit permission set.
type SetUserPermissionsRequest struct {
	Address         vaultid.MDataAddress
	User            vaultid.PublicKey
	Permissions     permission.Set
	ExpectedVersion uint64
}

func (SetUserPermissionsRequest) Procedure() string { return "SetMDataUserPermissions" }

// DelUserPermissionsRequest removes a user's explicit permission entry.
type DelUserPermissionsRequest struct {
	Address         vaultid.MDataAddress
	User            vaultid.PublicKey
	ExpectedVersion uint64
}

func (DelUserPermissionsRequest) Procedure() string { return "DelMDataUserPermissions" }

// DeleteRequest removes the map entirely.
type DeleteRequest struct{ Address vaultid.MDataAddress }

func (DeleteRequest) Procedure() string { return "DeleteMData" }

// Reply is the Elder-to-client terminal message for any MData operation:
// exactly one of the typed payload fields is set, matching whichever
// request produced it.
type Reply struct {
	Err             error
	Map             *Map
	Shell           *Shell
	Version         *uint64
	Entries         map[string]Entry
	Value           *Entry
	Keys            []string
	Values          [][]byte
	Permissions     *permission.Permissions
	UserPermissions permission.Set
}

func (Reply) Procedure() string { return "MDataReply" }
