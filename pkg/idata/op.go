package idata

import (
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// RequestKind discriminates the three IData operations an Op can track.
type RequestKind int

const (
	// Put is a client request to store a new blob.
	Put RequestKind = iota
	// Get is a client request to retrieve a blob.
	Get
	// DeleteUnpub is a client request to delete an unpublished blob.
	DeleteUnpub
)

// Request is the client-originated request an Op is coordinating,
// carrying whichever of Blob/Address applies to its Kind.
type Request struct {
	Kind    RequestKind
	Blob    Blob
	Address vaultid.IDataAddress
}

// HolderResult is one holder's reply, folded into an Op by FoldResponse.
type HolderResult struct {
	Holder vaultid.XorName
	Blob   Blob  // set only for Get
	Err    error // nil on success
}

// Op is the state object tracking one outstanding client-originated
// immutable-data operation at an Elder (§4.3). It is not safe for
// concurrent use; callers serialize access (the handler holds one mutex
// over its whole op table, §5a).
type Op struct {
	ClientID  vaultid.PublicID
	Request   Request
	Holders   []vaultid.XorName
	responses map[vaultid.XorName]HolderResult
	concluded bool
}

// NewOp creates a fresh, empty op for the given client request and the
// set of holders it was fanned out to.
func NewOp(client vaultid.PublicID, req Request, holders []vaultid.XorName) *Op {
	return &Op{
		ClientID:  client,
		Request:   req,
		Holders:   holders,
		responses: make(map[vaultid.XorName]HolderResult, len(holders)),
	}
}

// Concluded reports whether a client-visible reply has already been
// emitted for this op; once true, FoldResponse keeps recording late
// arrivals but never fires a second reply (the concluded latch, §4.3).
func (o *Op) Concluded() bool { return o.concluded }

// ResponseCount returns the number of holder responses recorded so far.
func (o *Op) ResponseCount() int { return len(o.responses) }

// Outcome is the terminal, client-visible result of an Op, produced by
// FoldResponse the instant the aggregation policy for Request.Kind is
// satisfied.
type Outcome struct {
	Blob Blob  // set only for a successful Get
	Err  error // nil on success
}

// FoldResponse records one holder's reply and re-evaluates the
// aggregation policy for the op's request kind (§4.3's table). It returns
// (outcome, true) exactly once per op: the first time a terminal
// condition fires. Late-arriving responses after that are still recorded
// (for diagnostics) but never produce a second outcome.
func (o *Op) FoldResponse(res HolderResult) (Outcome, bool) {
	o.responses[res.Holder] = res

	if o.concluded {
		return Outcome{}, false
	}

	switch o.Request.Kind {
	case Put, DeleteUnpub:
		return o.foldUnanimous()
	case Get:
		return o.foldFirstOkWins(res)
	default:
		return Outcome{}, false
	}
}

// foldUnanimous implements Put/DeleteUnpub's policy: success only once
// every chosen holder has replied Ok; any single Err concludes with that
// Err immediately.
func (o *Op) foldUnanimous() (Outcome, bool) {
	for _, res := range o.responses {
		if res.Err != nil {
			o.concluded = true
			return Outcome{Err: res.Err}, true
		}
	}
	if len(o.responses) >= len(o.Holders) {
		o.concluded = true
		return Outcome{}, true
	}
	return Outcome{}, false
}

// foldFirstOkWins implements Get's policy: the first Ok concludes
// immediately; only once every holder has replied Err does the op
// conclude with the last-seen Err ("worst Err", §4.3 — the source does
// not rank errors, so the most recent one is surfaced).
func (o *Op) foldFirstOkWins(latest HolderResult) (Outcome, bool) {
	for _, res := range o.responses {
		if res.Err == nil {
			o.concluded = true
			return Outcome{Blob: res.Blob}, true
		}
	}
	if len(o.responses) >= len(o.Holders) {
		o.concluded = true
		var worst error = vaulterrors.NoSuchData()
		if latest.Err != nil {
			worst = latest.Err
		}
		return Outcome{Err: worst}, true
	}
	return Outcome{}, false
}
