package idata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/routing/routingtest"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

var testSelf = vaultid.NodeID{Name: vaultid.XorName{9}}

func testBlob(owner vaultid.PublicKey, bytes []byte) Blob {
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: DigestName(bytes, vaultid.Published)}
	return Blob{Address: addr, Bytes: bytes, Owner: owner}
}

func TestHandlePutFansOutToEveryHolder(t *testing.T) {
	section := routingtest.NamedPeers(3)
	h := NewIDataHandler(testSelf, section, HandlerConfig{ReplicaCount: 3})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	actions, err := h.HandlePut(client, blob, msgID)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	for _, a := range actions {
		send, ok := a.(rpc.SendToPeer)
		require.True(t, ok)
		envelope, ok := send.Message.(rpc.RequestRpc)
		require.True(t, ok)
		assert.Equal(t, msgID, envelope.MessageID)
		assert.Equal(t, testSelf, envelope.Requester)
		_, ok = envelope.Request.(PutRequest)
		assert.True(t, ok)
	}
}

func TestHandlePutRejectsDuplicateMessageID(t *testing.T) {
	section := routingtest.NamedPeers(2)
	h := NewIDataHandler(testSelf, section, HandlerConfig{ReplicaCount: 2})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	_, err := h.HandlePut(client, blob, msgID)
	require.NoError(t, err)

	_, err = h.HandlePut(client, blob, msgID)
	require.Error(t, err)
}

func TestPutConcludesOnlyAfterAllHoldersAgree(t *testing.T) {
	section := routingtest.NamedPeers(3)
	h := NewIDataHandler(testSelf, section, HandlerConfig{ReplicaCount: 3})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	actions, err := h.HandlePut(client, blob, msgID)
	require.NoError(t, err)

	holders := make([]vaultid.XorName, 0, len(actions))
	for _, a := range actions {
		holders = append(holders, a.(rpc.SendToPeer).Peer)
	}

	_, concluded := h.HandleHolderResult(msgID, HolderResult{Holder: holders[0]})
	assert.False(t, concluded)

	_, concluded = h.HandleHolderResult(msgID, HolderResult{Holder: holders[1]})
	assert.False(t, concluded)

	action, concluded := h.HandleHolderResult(msgID, HolderResult{Holder: holders[2]})
	require.True(t, concluded)
	respond := action.(rpc.RespondToClientHandlers)
	reply := respond.Message.(Reply)
	assert.NoError(t, reply.Outcome.Err)
}

func TestPutConcludesImmediatelyOnFirstError(t *testing.T) {
	section := routingtest.NamedPeers(3)
	h := NewIDataHandler(testSelf, section, HandlerConfig{ReplicaCount: 3})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	actions, err := h.HandlePut(client, blob, msgID)
	require.NoError(t, err)
	first := actions[0].(rpc.SendToPeer).Peer

	action, concluded := h.HandleHolderResult(msgID, HolderResult{Holder: first, Err: assertErr("disk full")})
	require.True(t, concluded)
	reply := action.(rpc.RespondToClientHandlers).Message.(Reply)
	require.Error(t, reply.Outcome.Err)
}

func TestGetConcludesOnFirstOk(t *testing.T) {
	section := routingtest.NamedPeers(3)
	h := NewIDataHandler(testSelf, section, HandlerConfig{ReplicaCount: 3})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	actions, err := h.HandleGet(client, blob.Address, msgID)
	require.NoError(t, err)
	holders := make([]vaultid.XorName, 0, len(actions))
	for _, a := range actions {
		holders = append(holders, a.(rpc.SendToPeer).Peer)
	}

	_, concluded := h.HandleHolderResult(msgID, HolderResult{Holder: holders[0], Err: assertErr("no such data")})
	assert.False(t, concluded)

	action, concluded := h.HandleHolderResult(msgID, HolderResult{Holder: holders[1], Blob: blob})
	require.True(t, concluded)
	reply := action.(rpc.RespondToClientHandlers).Message.(Reply)
	require.NoError(t, reply.Outcome.Err)
	assert.Equal(t, blob.Bytes, reply.Outcome.Blob.Bytes)

	// a late reply from the still-outstanding third holder is recorded but
	// produces no second client-visible action.
	_, concluded = h.HandleHolderResult(msgID, HolderResult{Holder: holders[2], Blob: blob})
	assert.False(t, concluded)
}

func TestUnknownMessageIDIsIgnored(t *testing.T) {
	h := NewIDataHandler(testSelf, routingtest.NamedPeers(1), HandlerConfig{})
	_, concluded := h.HandleHolderResult(vaultid.NewMessageID(), HolderResult{})
	assert.False(t, concluded)
}

func TestDeleteUnpubRejectsPublishedAddress(t *testing.T) {
	h := NewIDataHandler(testSelf, routingtest.NamedPeers(1), HandlerConfig{})
	addr := vaultid.IDataAddress{Scope: vaultid.Published}
	_, err := h.HandleDeleteUnpub(vaultid.ClientID{}, addr, vaultid.NewMessageID())
	require.Error(t, err)
}

func TestReapDropsOpsPastTTL(t *testing.T) {
	h := NewIDataHandler(testSelf, routingtest.NamedPeers(2), HandlerConfig{ReplicaCount: 2, OpTTL: time.Millisecond})

	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}
	blob := testBlob(client.Key, []byte("payload"))
	msgID := vaultid.NewMessageID()

	_, err := h.HandlePut(client, blob, msgID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	h.reap()

	h.mu.Lock()
	_, stillTracked := h.ops[msgID]
	h.mu.Unlock()
	assert.False(t, stillTracked)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
