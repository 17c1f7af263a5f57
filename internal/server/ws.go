package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mj1618/layout-inspector/internal/inspector"
	"github.com/mj1618/layout-inspector/internal/model"
	"github.com/mj1618/layout-inspector/internal/output"
)

// MethodDiff asks for the changes since the previous snapshot of a root.
const MethodDiff = "Diff"

const maxFrameSize = 1 << 20

// Browser pages from other origins are refused by the default origin check.
var upgrader = websocket.Upgrader{}

// Request is one console request frame.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers the Request with the same id.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  *FrameError     `json:"error,omitempty"`
}

// FrameError describes a failed request.
type FrameError struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// DiffRequest names the root to diff.
type DiffRequest struct {
	Root string `json:"root,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	id := uuid.NewString()
	logger := s.logger.With("conn", id, "remote", r.RemoteAddr)
	logger.Info("console connected")
	defer logger.Info("console disconnected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read failed", "error", err)
			}
			return
		}

		var req Request
		resp := Response{}
		if err := json.Unmarshal(message, &req); err != nil {
			resp.Error = &FrameError{Kind: "BadRequest", Message: err.Error()}
		} else {
			resp.ID = req.ID
			logger.Debug("request", "method", req.Method)
			result, err := s.dispatch(ctx, req.Method, req.Params)
			if err != nil {
				resp.Error = frameError(err)
			} else {
				resp.Result = result
			}
		}
		if err := conn.WriteJSON(resp); err != nil {
			logger.Debug("write failed", "error", err)
			return
		}
	}
}

// dispatch runs one bridge method. Snapshots go through the cache and
// accepted mutations expire it.
func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case inspector.MethodGetSnapshot:
		var req inspector.GetSnapshotRequest
		if err := decode(params, &req); err != nil {
			return nil, err
		}
		name, snapshot, err := s.cache.Snapshot(ctx, s.inspector, req.Root)
		if err != nil {
			return nil, err
		}
		return output.NewSnapshotResult(name, snapshot), nil
	case MethodDiff:
		var req DiffRequest
		if err := decode(params, &req); err != nil {
			return nil, err
		}
		name, curr, err := s.cache.Refresh(ctx, s.inspector, req.Root)
		if err != nil {
			return nil, err
		}
		_, prev := s.cache.Last(name)
		res := DiffResult{Root: name, Baseline: prev == nil, Changes: []model.Change{}}
		if prev != nil {
			res.Changes = append(res.Changes, model.DiffSnapshots(prev, curr)...)
		}
		return res, nil
	}

	result, err := s.inspector.Handle(ctx, method, params)
	if err != nil {
		return nil, err
	}
	if res, ok := result.(inspector.SetAttributeResponse); ok && res.Applied {
		s.afterMutation(ctx)
	}
	return result, nil
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	return json.Unmarshal(params, v)
}

func frameError(err error) *FrameError {
	fe := &FrameError{Kind: string(model.KindOf(err)), Message: err.Error()}
	switch {
	case errors.Is(err, inspector.ErrUnknownMethod):
		fe.Kind = "UnknownMethod"
	case errors.Is(err, inspector.ErrSnapshotInFlight):
		fe.Kind = "SnapshotInFlight"
	case errors.Is(err, inspector.ErrUnknownRoot), errors.Is(err, inspector.ErrNoRoots):
		fe.Kind = "UnknownRoot"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fe.Kind = string(model.Cancelled)
	}
	return fe
}
