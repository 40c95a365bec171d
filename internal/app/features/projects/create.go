// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

// HandleCreateProject handles POST /api/v1/groups/{groupID}/projects.
// Any member can create a project. Duplicate names within a group are
// allowed; projects are identified by ID.
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}
	groupID, ok := groupIDParam(r)
	if !ok {
		httpjson.NotFound(w, "group not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Members.GetRole(ctx, groupID, userID); err != nil {
		httpjson.Forbidden(w, "not a member of this group")
		return
	}

	var req createProjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}

	name := normalize.Name(req.Name)
	language := normalize.Name(req.Language)

	var v inputval.Result
	v.Required("Name", name)
	v.MaxLen("Name", name, 120)
	v.Required("Language", language)
	v.MaxLen("Language", language, 40)
	if v.HasErrors() {
		httpjson.ValidationError(w, v.First())
		return
	}

	p, err := h.Projects.Create(ctx, models.Project{
		GroupID:     groupID,
		Name:        name,
		Language:    language,
		Description: htmlsanitize.Sanitize(req.Description),
	})
	if err != nil {
		h.Log.Error("projects: create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, p)
}
