package chat

import (
	"context"
	"encoding/json"

	"docchat-backend/internal/audio"
	"docchat-backend/internal/documents"
	"docchat-backend/internal/shared/telemetry"
	"docchat-backend/internal/workflow"
)

// Service coordinates a chat query end to end: document resolution, access
// check, audio persistence, and the one-shot handoff to the workflow engine.
type Service struct {
	Docs   *documents.Service
	Audio  *audio.Store
	Engine workflow.Dispatcher
}

// Chat runs a validated query for the given principal and relays the
// workflow engine's JSON response. The access check runs before any side
// effect: no artifact is stored and no webhook is called for a document the
// principal does not own.
func (s *Service) Chat(ctx context.Context, principal string, q Query) (json.RawMessage, error) {
	doc, err := s.Docs.Get(ctx, principal, q.DocumentID)
	if err != nil {
		return nil, err
	}

	userQuery := q.Text
	artifactName := ""
	if q.Audio != nil {
		artifactName, err = s.Audio.Save(ctx, q.Audio.FileName, q.Audio.Reader)
		if err != nil {
			return nil, err
		}
		userQuery = artifactName
	}

	payload := workflow.Payload{
		DocumentURL: s.Docs.FileURL(doc),
		UserQuery:   userQuery,
	}

	resp, err := s.Engine.Dispatch(ctx, payload)
	if err != nil {
		if artifactName != "" {
			// The artifact stays behind; there is no cleanup sweep.
			telemetry.Error("chat.artifact_orphaned", map[string]any{
				"document_id": doc.ID,
				"artifact":    artifactName,
				"error":       err.Error(),
			})
		}
		return nil, err
	}
	return resp, nil
}
