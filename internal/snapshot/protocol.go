package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"MintGate/internal/logger"
	"MintGate/internal/types"
)

const (
	// requestTimeout is the timeout for snapshot requests.
	requestTimeout = 60 * time.Second
)

// ErrMalformedRequest is returned for bytes that are not a snapshot request.
var ErrMalformedRequest = errors.New("malformed snapshot request")

// requestID is a process-wide counter for snapshot requests.
var requestID atomic.Uint64

// Requester can send requests and receive responses.
type Requester interface {
	Request(ctx context.Context, data []byte) ([]byte, error)
}

// Fetched is a snapshot received from a peer.
type Fetched struct {
	Data      []byte // Data is the decompressed snapshot
	Committed uint64 // Committed is the serving node's commit count at snapshot time
}

// RequestSnapshot requests the latest snapshot from a remote node.
func RequestSnapshot(ctx context.Context, peer Requester) (*Fetched, error) {
	reqID := requestID.Add(1)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	logger.Debug("requesting snapshot", "request_id", reqID)

	respData, err := peer.Request(ctx, buildRequest(reqID))
	if err != nil {
		return nil, fmt.Errorf("send request:\n%w", err)
	}

	id, compressed, committed, err := parseResponse(respData)
	if err != nil {
		return nil, err
	}

	if id != reqID {
		return nil, fmt.Errorf("request ID mismatch: got %d, want %d", id, reqID)
	}

	data, err := Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot:\n%w", err)
	}

	logger.Debug("received snapshot",
		"request_id", reqID,
		"compressed_size", len(compressed),
		"committed", committed,
	)

	return &Fetched{Data: data, Committed: committed}, nil
}

// HandleRequest answers a snapshot request from the manager's latest snapshot.
// A failure to produce the snapshot is reported inside the response.
func HandleRequest(reqData []byte, m *Manager) ([]byte, error) {
	reqID, err := parseRequest(reqData)
	if err != nil {
		return nil, err
	}

	compressed, committed, err := m.current()
	if err != nil {
		logger.Warn("snapshot unavailable", "request_id", reqID, "error", err)
		return buildResponse(reqID, nil, 0, err.Error()), nil
	}

	logger.Debug("sending snapshot",
		"request_id", reqID,
		"committed", committed,
		"size", len(compressed),
	)

	return buildResponse(reqID, compressed, committed, ""), nil
}

// buildRequest creates a FlatBuffers snapshot request.
func buildRequest(reqID uint64) []byte {
	builder := flatbuffers.NewBuilder(64)

	types.SnapshotRequestStart(builder)
	types.SnapshotRequestAddRequestId(builder, reqID)
	builder.Finish(types.SnapshotRequestEnd(builder))

	return builder.FinishedBytes()
}

// parseRequest extracts the request id. A valid request has a non-zero id.
func parseRequest(data []byte) (id uint64, err error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("%w: %d bytes", ErrMalformedRequest, len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			id, err = 0, fmt.Errorf("%w: %v", ErrMalformedRequest, r)
		}
	}()

	id = types.GetRootAsSnapshotRequest(data, 0).RequestId()
	if id == 0 {
		return 0, fmt.Errorf("%w: zero request id", ErrMalformedRequest)
	}

	return id, nil
}

// buildResponse creates a FlatBuffers snapshot response.
func buildResponse(reqID uint64, compressed []byte, committed uint64, errMsg string) []byte {
	builder := flatbuffers.NewBuilder(len(compressed) + 128)

	dataOffset := builder.CreateByteVector(compressed)
	errOffset := builder.CreateString(errMsg)

	types.SnapshotResponseStart(builder)
	types.SnapshotResponseAddRequestId(builder, reqID)
	types.SnapshotResponseAddData(builder, dataOffset)
	types.SnapshotResponseAddCommitted(builder, committed)
	types.SnapshotResponseAddError(builder, errOffset)
	builder.Finish(types.SnapshotResponseEnd(builder))

	return builder.FinishedBytes()
}

// parseResponse extracts a response, turning a reported failure into an error.
func parseResponse(data []byte) (id uint64, compressed []byte, committed uint64, err error) {
	if len(data) < 8 {
		return 0, nil, 0, fmt.Errorf("snapshot response too short: %d bytes", len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed snapshot response: %v", r)
		}
	}()

	resp := types.GetRootAsSnapshotResponse(data, 0)

	if msg := resp.Error(); len(msg) > 0 {
		return 0, nil, 0, fmt.Errorf("remote snapshot failed: %s", msg)
	}

	compressed = resp.DataBytes()
	if len(compressed) == 0 {
		return 0, nil, 0, fmt.Errorf("empty snapshot data")
	}

	return resp.RequestId(), compressed, resp.Committed(), nil
}
