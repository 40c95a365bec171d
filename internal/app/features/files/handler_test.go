package files_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/features/files"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*files.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return files.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

type fileTreeNode struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	IsDir    bool           `json:"is_dir"`
	Children []fileTreeNode `json:"children"`
}

func TestServeFileTree_Nested(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", member.ID)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)
	p := fixtures.CreateProject(ctx, g.ID, "site", "javascript")

	fixtures.CreateProjectFile(ctx, p.ID, "index.html", "<html></html>")
	fixtures.CreateProjectFile(ctx, p.ID, "src/app.js", "console.log(1)")
	fixtures.CreateProjectFile(ctx, p.ID, "src/lib/util.js", "export {}")

	req := testutil.NewAuthenticatedRequest("GET", "/api/v1/projects/"+p.ID.Hex()+"/files", "", testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeFileTree(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Tree []fileTreeNode `json:"tree"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Tree) != 2 {
		t.Fatalf("expected 2 top-level entries, got %d", len(resp.Tree))
	}

	// Paths sort index.html before src, so the file comes first.
	if resp.Tree[0].Name != "index.html" || resp.Tree[0].IsDir {
		t.Errorf("first entry: %+v", resp.Tree[0])
	}
	src := resp.Tree[1]
	if src.Name != "src" || !src.IsDir || len(src.Children) != 2 {
		t.Fatalf("src entry: %+v", src)
	}
	lib := src.Children[1]
	if lib.Name != "lib" || !lib.IsDir || len(lib.Children) != 1 || lib.Children[0].Path != "src/lib/util.js" {
		t.Errorf("lib entry: %+v", lib)
	}
}

func TestServeFileContent(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", member.ID)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)
	p := fixtures.CreateProject(ctx, g.ID, "site", "javascript")
	fixtures.CreateProjectFile(ctx, p.ID, "src/app.js", "console.log(1)")

	user := testutil.UserFor(member.ID, member.FullName, member.Email)
	req := testutil.NewAuthenticatedRequest("GET", "/api/v1/projects/"+p.ID.Hex()+"/files/content?path=src/app.js", "", user)
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeFileContent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var f models.ProjectFile
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if f.Content != "console.log(1)" {
		t.Errorf("content: got %q", f.Content)
	}

	// Unknown path is a 404.
	missing := testutil.NewAuthenticatedRequest("GET", "/api/v1/projects/"+p.ID.Hex()+"/files/content?path=nope.js", "", user)
	missing = testutil.WithChiURLParam(missing, "projectID", p.ID.Hex())
	missingRec := httptest.NewRecorder()

	h.ServeFileContent(missingRec, missing)

	if missingRec.Code != http.StatusNotFound {
		t.Errorf("missing file status: got %d, want %d", missingRec.Code, http.StatusNotFound)
	}
}

func TestHandleSaveFile_UpsertAndTouch(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", member.ID)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)
	p := fixtures.CreateProject(ctx, g.ID, "site", "javascript")

	user := testutil.UserFor(member.ID, member.FullName, member.Email)
	save := func(body string) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("PUT", "/api/v1/projects/"+p.ID.Hex()+"/files/content", body, user)
		req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleSaveFile(rec, req)
		return rec
	}

	if rec := save(`{"path":"main.py","content":"print(1)"}`); rec.Code != http.StatusOK {
		t.Fatalf("create status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	rec := save(`{"path":"main.py","content":"print(2)"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("overwrite status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var f models.ProjectFile
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if f.Content != "print(2)" {
		t.Errorf("content after overwrite: got %q", f.Content)
	}

	list, err := h.Files.ListByProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("file count after overwrite: got %d, want 1", len(list))
	}

	updated, err := h.Projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("project fetch: %v", err)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) {
		t.Error("project updated_at was not bumped by the save")
	}
}

func TestHandleSaveFile_OutsiderForbidden(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	outsider := fixtures.CreateUser(ctx, "Outsider", "out@example.com")
	g := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.CreateMembership(ctx, g.ID, owner.ID, models.RoleAdmin)
	p := fixtures.CreateProject(ctx, g.ID, "site", "javascript")

	req := testutil.NewAuthenticatedRequest("PUT", "/api/v1/projects/"+p.ID.Hex()+"/files/content", `{"path":"a.js","content":""}`, testutil.UserFor(outsider.ID, outsider.FullName, outsider.Email))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleSaveFile(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
