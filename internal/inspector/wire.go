package inspector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
)

// Wire method names.
const (
	MethodGetSnapshot  = "GetSnapshot"
	MethodSetAttribute = "SetAttribute"
	MethodListRoots    = "ListRoots"
	MethodSelect       = "Select"
)

// GetSnapshotRequest asks for a snapshot of one root. An empty Root means
// the first root.
type GetSnapshotRequest struct {
	Root string `json:"root,omitempty"`
}

// SetAttributeRequest asks to set one attribute of one node.
type SetAttributeRequest struct {
	NodeID model.NodeID `json:"nodeId"`
	Name   string       `json:"name"`
	Value  any          `json:"value"`
}

// SetAttributeResponse reports the outcome of a SetAttributeRequest.
type SetAttributeResponse struct {
	Applied bool            `json:"applied"`
	Error   model.ErrorKind `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// SelectRequest changes the console selection.
type SelectRequest struct {
	NodeID model.NodeID `json:"nodeId"`
}

// ListRootsResponse lists inspectable roots.
type ListRootsResponse struct {
	Roots []string `json:"roots"`
}

// HandleGetSnapshot answers a GetSnapshot request with the nested tree.
func (in *Inspector) HandleGetSnapshot(ctx context.Context, req GetSnapshotRequest) (*output.SnapshotResult, error) {
	name, s, err := in.GetSnapshot(ctx, req.Root)
	if err != nil {
		return nil, err
	}
	res := output.NewSnapshotResult(name, s)
	return &res, nil
}

// HandleSetAttribute answers a SetAttribute request. Failures are reported
// in the response, never as an error.
func (in *Inspector) HandleSetAttribute(ctx context.Context, req SetAttributeRequest) SetAttributeResponse {
	res := in.SetAttribute(ctx, req.NodeID, req.Name, req.Value)
	return SetAttributeResponse{Applied: res.Applied, Error: res.Error, Message: res.Message}
}

// ErrUnknownMethod is returned by Handle for an unrecognised method.
var ErrUnknownMethod = errors.New("unknown method")

// Handle decodes params for method, runs it and returns the reply value,
// ready to be encoded by the transport.
func (in *Inspector) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case MethodGetSnapshot:
		var req GetSnapshotRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return in.HandleGetSnapshot(ctx, req)
	case MethodSetAttribute:
		var req SetAttributeRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return in.HandleSetAttribute(ctx, req), nil
	case MethodListRoots:
		return ListRootsResponse{Roots: in.Roots()}, nil
	case MethodSelect:
		var req SelectRequest
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := in.Select(req.NodeID); err != nil {
			return nil, err
		}
		return req, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// decodeParams decodes numbers as json.Number so integer attribute values
// keep their precision until validated.
func decodeParams(params json.RawMessage, v any) error {
	if len(bytes.TrimSpace(params)) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}
