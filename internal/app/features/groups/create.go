// internal/app/features/groups/create.go
package groups

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

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateGroup handles POST /api/v1/groups. The group and the
// creator's admin membership are written as one atomic unit, so a
// group is never visible without an admin.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w)
		return
	}

	var req createGroupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.ValidationError(w, "invalid JSON body")
		return
	}

	name := normalize.Name(req.Name)
	var v inputval.Result
	v.Required("name", name)
	v.MaxLen("name", name, 200)
	v.MaxLen("description", req.Description, 2000)
	if v.HasErrors() {
		httpjson.ValidationError(w, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.CreateWithOwner(ctx, h.DB.Client(), models.Group{
		Name:        name,
		Description: htmlsanitize.Sanitize(req.Description),
		OwnerID:     userID,
	})
	if err != nil {
		h.Log.Error("groups: create failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, g)
}
