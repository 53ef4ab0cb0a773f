package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/fsstore"
	"github.com/lionel1704/sn-node/pkg/idata"
	"github.com/lionel1704/sn-node/pkg/mdata"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/routing/routingtest"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

var selfNode = vaultid.NodeID{Name: vaultid.XorName{1}}

func newIDataHolder(t *testing.T) *idata.Holder {
	t.Helper()
	backend, err := fsstore.New(fsstore.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	h, err := idata.NewHolder(t.Context(), backend, chunkstore.Config{MaxCapacity: 1 << 20, Mode: chunkstore.Fresh})
	require.NoError(t, err)
	return h
}

func newMDataHandler(t *testing.T) *mdata.Handler {
	t.Helper()
	backend, err := fsstore.New(fsstore.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	h, err := mdata.NewHandler(t.Context(), backend, chunkstore.Config{MaxCapacity: 1 << 20, Mode: chunkstore.Fresh})
	require.NoError(t, err)
	return h
}

func TestElderRoutesClientPutToIDataHandler(t *testing.T) {
	holder := newIDataHolder(t)
	section := routingtest.NamedPeers(2)
	ih := idata.NewIDataHandler(selfNode, section, idata.HandlerConfig{ReplicaCount: 2})
	d := New(selfNode, holder, ih, nil, nil)

	client := vaultid.ClientID{Key: vaultid.PublicKey{7}}
	bytes := []byte("payload")
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: idata.DigestName(bytes, vaultid.Published)}
	blob := idata.Blob{Address: addr, Bytes: bytes}
	msgID := vaultid.NewMessageID()

	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, rpc.RequestRpc{
		Request:   idata.PutRequest{Blob: blob},
		Requester: client,
		MessageID: msgID,
	})
	require.NoError(t, err)
	require.Len(t, actions, 2)
	for _, a := range actions {
		send, ok := a.(rpc.SendToPeer)
		require.True(t, ok)
		envelope, ok := send.Message.(rpc.RequestRpc)
		require.True(t, ok)
		require.Equal(t, selfNode, envelope.Requester)
		_, ok = envelope.Request.(idata.PutRequest)
		require.True(t, ok)
	}
}

func TestAdultDropsClientPutWithoutElderHandler(t *testing.T) {
	holder := newIDataHolder(t)
	d := New(selfNode, holder, nil, nil, nil)

	client := vaultid.ClientID{Key: vaultid.PublicKey{7}}
	bytes := []byte("payload")
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: idata.DigestName(bytes, vaultid.Published)}
	blob := idata.Blob{Address: addr, Bytes: bytes}

	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, rpc.RequestRpc{
		Request:   idata.PutRequest{Blob: blob},
		Requester: client,
		MessageID: vaultid.NewMessageID(),
	})
	require.NoError(t, err)
	require.Nil(t, actions)
}

func TestNodeOriginatedPutRoutesToHolderAndRepliesToSource(t *testing.T) {
	holder := newIDataHolder(t)
	d := New(selfNode, holder, nil, nil, nil)

	elder := vaultid.NodeID{Name: vaultid.XorName{2}}
	bytes := []byte("payload")
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: idata.DigestName(bytes, vaultid.Published)}
	blob := idata.Blob{Address: addr, Bytes: bytes}
	msgID := vaultid.NewMessageID()
	src := vaultid.XorName{3}

	actions, err := d.Dispatch(t.Context(), src, rpc.RequestRpc{
		Request:   idata.PutRequest{Blob: blob},
		Requester: elder,
		MessageID: msgID,
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	send := actions[0].(rpc.SendToPeer)
	require.Equal(t, src, send.Peer)
	envelope := send.Message.(rpc.ResponseRpc)
	require.Equal(t, msgID, envelope.MessageID)
	mutation := envelope.Response.(idata.MutationResponse)
	require.NoError(t, mutation.Err)
}

func TestHolderResponseFoldsIntoClientReply(t *testing.T) {
	holder := newIDataHolder(t)
	section := routingtest.NamedPeers(1)
	ih := idata.NewIDataHandler(selfNode, section, idata.HandlerConfig{ReplicaCount: 1})
	d := New(selfNode, holder, ih, nil, nil)

	client := vaultid.ClientID{Key: vaultid.PublicKey{7}}
	bytes := []byte("payload")
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: idata.DigestName(bytes, vaultid.Published)}
	blob := idata.Blob{Address: addr, Bytes: bytes}
	msgID := vaultid.NewMessageID()

	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, rpc.RequestRpc{
		Request:   idata.PutRequest{Blob: blob},
		Requester: client,
		MessageID: msgID,
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	holderPeer := actions[0].(rpc.SendToPeer).Peer

	actions, err = d.Dispatch(t.Context(), holderPeer, rpc.ResponseRpc{
		Response:  idata.MutationResponse{},
		MessageID: msgID,
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	respond := actions[0].(rpc.RespondToClientHandlers)
	reply := respond.Message.(idata.Reply)
	require.NoError(t, reply.Outcome.Err)
}

func TestMDataRoutedToHandlerWhenElder(t *testing.T) {
	mh := newMDataHandler(t)
	d := New(selfNode, newIDataHolder(t), nil, mh, nil)

	owner := vaultid.PublicKey{4}
	m := mdata.Map{
		Address:     vaultid.MDataAddress{Name: vaultid.XorName{5}, Tag: 1},
		Owners:      []vaultid.PublicKey{owner},
		Permissions: permission.NewPermissions(),
	}

	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, rpc.RequestRpc{
		Request:   mdata.PutRequest{Map: m},
		Requester: vaultid.ClientID{Key: owner},
		MessageID: vaultid.NewMessageID(),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	reply := actions[0].(rpc.RespondToClientHandlers).Message.(mdata.Reply)
	require.NoError(t, reply.Err)
}

func TestMDataDroppedWithoutElderHandler(t *testing.T) {
	d := New(selfNode, newIDataHolder(t), nil, nil, nil)
	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, rpc.RequestRpc{
		Request:   mdata.GetRequest{Address: vaultid.MDataAddress{}},
		Requester: vaultid.ClientID{Key: vaultid.PublicKey{1}},
		MessageID: vaultid.NewMessageID(),
	})
	require.NoError(t, err)
	require.Nil(t, actions)
}

func TestUnknownRpcIsDropped(t *testing.T) {
	d := New(selfNode, newIDataHolder(t), nil, nil, nil)
	actions, err := d.Dispatch(t.Context(), vaultid.XorName{}, nil)
	require.NoError(t, err)
	require.Nil(t, actions)
}
