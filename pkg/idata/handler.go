package idata

import (
	"context"
	"sync"
	"time"

	"github.com/lionel1704/sn-node/internal/logger"
	"github.com/lionel1704/sn-node/pkg/metrics"
	"github.com/lionel1704/sn-node/pkg/routing"
	"github.com/lionel1704/sn-node/pkg/rpc"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// DefaultReplicaCount is the number of holders an Elder fans a Put out to
// when no override is configured (§9a).
const DefaultReplicaCount = 8

// DefaultOpTTL bounds how long an Op may sit unconcluded in the table
// before the reaper times it out (§9a).
const DefaultOpTTL = 30 * time.Second

// HandlerConfig configures an IDataHandler.
type HandlerConfig struct {
	// ReplicaCount is the number of holders selected per Put. Zero means
	// DefaultReplicaCount.
	ReplicaCount int
	// OpTTL is the maximum lifetime of an unconcluded Op. Zero means
	// DefaultOpTTL.
	OpTTL time.Duration
	// Metrics, if set, receives in-flight op count and holder response
	// observations. Leave nil to run with zero instrumentation overhead.
	Metrics metrics.IDataMetrics
}

func (c HandlerConfig) withDefaults() HandlerConfig {
	if c.ReplicaCount <= 0 {
		c.ReplicaCount = DefaultReplicaCount
	}
	if c.OpTTL <= 0 {
		c.OpTTL = DefaultOpTTL
	}
	return c
}

// opEntry pairs a tracked Op with the wall-clock time it was registered,
// so the reaper can identify ops that outlived OpTTL.
type opEntry struct {
	op        *Op
	createdAt time.Time
}

// IDataHandler is the Elder-role coordinator for immutable-data operations
// (§4.4): it selects holders, fans a client request out to them, tracks the
// in-flight Op per message id, folds holder responses into a terminal
// outcome, and reaps ops that never conclude.
type IDataHandler struct {
	self   vaultid.NodeID
	router routing.Router
	cfg    HandlerConfig

	mu  sync.Mutex
	ops map[vaultid.MessageID]*opEntry

	stop   chan struct{}
	stopWg sync.WaitGroup
}

// NewIDataHandler builds a handler over router, selecting holders per cfg.
// self identifies this node when it relays a request on to a holder: the
// holder only accepts Put/Get/DeleteUnpub from a NodeID requester (§4.2),
// so the Elder must present itself as one rather than forwarding the
// client's own identity.
func NewIDataHandler(self vaultid.NodeID, router routing.Router, cfg HandlerConfig) *IDataHandler {
	return &IDataHandler{
		self:   self,
		router: router,
		cfg:    cfg.withDefaults(),
		ops:    make(map[vaultid.MessageID]*opEntry),
		stop:   make(chan struct{}),
	}
}

// opsInFlightLocked reports the in-flight metric under h.mu and pushes it
// to h.cfg.Metrics; callers must hold h.mu.
func (h *IDataHandler) opsInFlightLocked() {
	metrics.SetOpsInFlight(h.cfg.Metrics, len(h.ops))
}

// Run starts the background TTL-sweep reaper; it returns once ctx is
// cancelled or Stop is called.
func (h *IDataHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.OpTTL / 2)
	defer ticker.Stop()
	h.stopWg.Add(1)
	defer h.stopWg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case <-ticker.C:
			h.reap()
		}
	}
}

// Stop signals Run to return and waits for it to do so.
func (h *IDataHandler) Stop() {
	close(h.stop)
	h.stopWg.Wait()
}

// reap drops any op that has already concluded, and any op older than
// OpTTL that never reached a terminal outcome, logging the latter as
// abandoned. It does not synthesize a client reply:
// the client handler holds its own wait timeout and will have already
// given up by the time an op reaches OpTTL.
func (h *IDataHandler) reap() {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, entry := range h.ops {
		if entry.op.Concluded() {
			delete(h.ops, id)
			continue
		}
		if now.Sub(entry.createdAt) >= h.cfg.OpTTL {
			logger.Warn("idata op expired before concluding",
				logger.MessageID(id.String()))
			delete(h.ops, id)
		}
	}
	h.opsInFlightLocked()
}

// selectHolders resolves the replica set for name via the routing layer.
func (h *IDataHandler) selectHolders(name vaultid.XorName) []vaultid.XorName {
	return h.router.ClosePeersTo(name, h.cfg.ReplicaCount)
}

// register creates and tracks a new Op, failing if msgID is already in use
// (a client must never reuse a message id for a second in-flight op).
func (h *IDataHandler) register(msgID vaultid.MessageID, client vaultid.PublicID, req Request, holders []vaultid.XorName) (*Op, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.ops[msgID]; exists {
		return nil, vaulterrors.InvalidOperation()
	}
	op := NewOp(client, req, holders)
	h.ops[msgID] = &opEntry{op: op, createdAt: time.Now()}
	h.opsInFlightLocked()
	return op, nil
}

// HandlePut begins a Put operation: it selects holders for blob's address,
// registers the Op, and returns the fan-out actions to send. Each outbound
// request carries msgID so holder responses can be correlated back via
// HandleHolderResult.
func (h *IDataHandler) HandlePut(client vaultid.PublicID, blob Blob, msgID vaultid.MessageID) ([]rpc.Action, error) {
	holders := h.selectHolders(blob.Address.Name)
	if len(holders) == 0 {
		return nil, vaulterrors.NetworkOther("no holders available")
	}

	req := Request{Kind: Put, Blob: blob}
	if _, err := h.register(msgID, client, req, holders); err != nil {
		return nil, err
	}

	return h.fanOut(holders, PutRequest{Blob: blob}, msgID), nil
}

// HandleGet begins a Get operation against the holders currently
// responsible for addr.
func (h *IDataHandler) HandleGet(client vaultid.PublicID, addr vaultid.IDataAddress, msgID vaultid.MessageID) ([]rpc.Action, error) {
	holders := h.selectHolders(addr.Name)
	if len(holders) == 0 {
		return nil, vaulterrors.NetworkOther("no holders available")
	}

	req := Request{Kind: Get, Address: addr}
	if _, err := h.register(msgID, client, req, holders); err != nil {
		return nil, err
	}

	return h.fanOut(holders, GetRequest{Address: addr}, msgID), nil
}

// HandleDeleteUnpub begins a DeleteUnpub operation.
func (h *IDataHandler) HandleDeleteUnpub(client vaultid.PublicID, addr vaultid.IDataAddress, msgID vaultid.MessageID) ([]rpc.Action, error) {
	if addr.Scope != vaultid.Unpublished {
		return nil, vaulterrors.InvalidOperation()
	}

	holders := h.selectHolders(addr.Name)
	if len(holders) == 0 {
		return nil, vaulterrors.NetworkOther("no holders available")
	}

	req := Request{Kind: DeleteUnpub, Address: addr}
	if _, err := h.register(msgID, client, req, holders); err != nil {
		return nil, err
	}

	return h.fanOut(holders, DeleteUnpubRequest{Address: addr, Requester: client}, msgID), nil
}

// HandleHolderResult folds one holder's reply into its Op and, if that
// reply concludes the op, returns the client-visible reply action. ok is
// false both when msgID is unknown (already reaped, or a stray message)
// and when the response was recorded but did not conclude the op. A
// concluded op stays in the table, recording late replies, until every
// holder has replied or the reaper removes it.
func (h *IDataHandler) HandleHolderResult(msgID vaultid.MessageID, res HolderResult) (rpc.Action, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, found := h.ops[msgID]
	if !found {
		return nil, false
	}

	metrics.RecordHolderResult(h.cfg.Metrics, res.Err == nil)

	outcome, concluded := entry.op.FoldResponse(res)
	if entry.op.Concluded() && entry.op.ResponseCount() >= len(entry.op.Holders) {
		delete(h.ops, msgID)
		h.opsInFlightLocked()
	}
	if !concluded {
		return nil, false
	}

	return rpc.RespondToClientHandlers{
		MessageID: msgID,
		Message:   Reply{Outcome: outcome, Kind: entry.op.Request.Kind},
	}, true
}

// fanOut wraps req as an RequestRpc presenting this node as the requester
// (the holder only accepts these requests from a peer node, §4.2) and
// addresses one copy to each holder.
func (h *IDataHandler) fanOut(holders []vaultid.XorName, req rpc.Request, msgID vaultid.MessageID) []rpc.Action {
	actions := make([]rpc.Action, len(holders))
	for i, peer := range holders {
		actions[i] = rpc.SendToPeer{
			Peer: peer,
			Message: rpc.RequestRpc{
				Request:   req,
				Requester: h.self,
				MessageID: msgID,
			},
		}
	}
	return actions
}
