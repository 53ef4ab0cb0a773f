package logger

import "log/slog"

// Standard field keys for structured logging across the dispatcher and
// handlers. Use these consistently so log lines remain queryable.
const (
	KeyTraceID   = "trace_id"
	KeyMessageID = "message_id"
	KeyProcedure = "procedure" // request kind: PutIData, MutateMDataEntries, etc.
	KeyPeer      = "peer"      // source peer name (hex XOR name)
	KeyRole      = "role"      // elder | adult
	KeyAddress   = "address"   // data address (idata/mdata/sdata)
	KeyHolder    = "holder"    // holder peer name for IData fan-out
	KeyDurationMs = "duration_ms"
	KeyError     = "error"
	KeyErrorCode = "error_code"
	KeyUsedSpace = "used_space"
	KeyCapacity  = "capacity"
)

// TraceID returns a slog.Attr for the trace id.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// MessageID returns a slog.Attr for the correlating message id.
func MessageID(id string) slog.Attr { return slog.String(KeyMessageID, id) }

// Procedure returns a slog.Attr for the request kind.
func Procedure(name string) slog.Attr { return slog.String(KeyProcedure, name) }

// Peer returns a slog.Attr for a peer name.
func Peer(name string) slog.Attr { return slog.String(KeyPeer, name) }

// Role returns a slog.Attr for the node's role.
func Role(role string) slog.Attr { return slog.String(KeyRole, role) }

// Address returns a slog.Attr for a data address.
func Address(addr string) slog.Attr { return slog.String(KeyAddress, addr) }

// Holder returns a slog.Attr for a holder peer name.
func Holder(name string) slog.Attr { return slog.String(KeyHolder, name) }

// DurationMs returns a slog.Attr for an operation duration.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code.
func ErrorCode(code int) slog.Attr { return slog.Int(KeyErrorCode, code) }

// UsedSpace returns a slog.Attr for the chunk store's current used space.
func UsedSpace(n uint64) slog.Attr { return slog.Uint64(KeyUsedSpace, n) }

// Capacity returns a slog.Attr for the chunk store's configured capacity.
func Capacity(n uint64) slog.Attr { return slog.Uint64(KeyCapacity, n) }
