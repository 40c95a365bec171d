// internal/app/features/files/content.go
package files

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
)

// ServeFileContent handles
// GET /api/v1/projects/{projectID}/files/content?path=….
func (h *Handler) ServeFileContent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, ok := h.loadProjectForMember(ctx, w, r)
	if !ok {
		return
	}

	path := normalize.Path(r.URL.Query().Get("path"))
	if path == "" {
		httpjson.ValidationError(w, "path is required")
		return
	}

	f, err := h.Files.GetByPath(ctx, p.ID, path)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "file not found")
			return
		}
		h.Log.Error("files: content fetch failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, f)
}

type saveFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// HandleSaveFile handles PUT /api/v1/projects/{projectID}/files/content.
// Saves are unconditional full-buffer writes; the last writer wins.
// Every save bumps the project's updated_at so listings surface recent
// editing activity.
func (h *Handler) HandleSaveFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, ok := h.loadProjectForMember(ctx, w, r)
	if !ok {
		return
	}

	var req saveFileRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}
	path := normalize.Path(req.Path)
	if path == "" {
		httpjson.ValidationError(w, "path is required")
		return
	}

	f, err := h.Files.Save(ctx, p.ID, path, req.Content, false)
	if err != nil {
		h.Log.Error("files: save failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	if err := h.Projects.TouchUpdated(ctx, p.ID); err != nil {
		h.Log.Warn("files: project touch failed", zap.Error(err))
	}

	httpjson.Respond(w, http.StatusOK, f)
}
