// internal/app/features/files/tree.go
package files

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/system/httpjson"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// treeNode is one entry in the nested file tree sent to the editor.
type treeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	IsDir    bool        `json:"is_dir"`
	Children []*treeNode `json:"children,omitempty"`
}

// ServeFileTree handles GET /api/v1/projects/{projectID}/files.
// The tree is derived entirely from stored paths, so nesting works at
// any depth and directories appear even when only implied by a file
// under them.
func (h *Handler) ServeFileTree(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, ok := h.loadProjectForMember(ctx, w, r)
	if !ok {
		return
	}

	list, err := h.Files.ListByProject(ctx, p.ID)
	if err != nil {
		h.Log.Error("files: list failed", zap.Error(err))
		httpjson.Internal(w)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"tree": buildTree(list)})
}

// buildTree folds path-sorted files into a nested tree. Intermediate
// directories are created on first sight; an explicit directory
// document later in the list reuses the same node.
func buildTree(list []models.ProjectFile) []*treeNode {
	root := &treeNode{IsDir: true}
	index := map[string]*treeNode{"": root}

	for _, f := range list {
		segments := strings.Split(f.Path, "/")

		parent := root
		prefix := ""
		for _, seg := range segments[:len(segments)-1] {
			if prefix == "" {
				prefix = seg
			} else {
				prefix += "/" + seg
			}
			node, ok := index[prefix]
			if !ok {
				node = &treeNode{Name: seg, Path: prefix, IsDir: true}
				index[prefix] = node
				parent.Children = append(parent.Children, node)
			}
			parent = node
		}

		leaf, ok := index[f.Path]
		if !ok {
			leaf = &treeNode{Name: segments[len(segments)-1], Path: f.Path}
			index[f.Path] = leaf
			parent.Children = append(parent.Children, leaf)
		}
		leaf.IsDir = leaf.IsDir || f.IsDir
	}

	if root.Children == nil {
		return []*treeNode{}
	}
	return root.Children
}
