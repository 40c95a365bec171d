package members_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/collabhub/internal/app/features/members"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*members.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return members.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeMemberList(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)

	req := testutil.NewAuthenticatedRequest("GET", "/api/v1/groups/"+g.ID.Hex()+"/members", "", testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeMemberList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Members []struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(resp.Members))
	}
	if resp.Members[0].Name != "Admin" || resp.Members[0].Role != models.RoleAdmin {
		t.Errorf("first member: %+v", resp.Members[0])
	}

	// Listing again without mutation returns the same roster.
	again := testutil.NewAuthenticatedRequest("GET", "/api/v1/groups/"+g.ID.Hex()+"/members", "", testutil.UserFor(member.ID, member.FullName, member.Email))
	again = testutil.WithChiURLParam(again, "groupID", g.ID.Hex())
	againRec := httptest.NewRecorder()
	h.ServeMemberList(againRec, again)

	if againRec.Body.String() != rec.Body.String() {
		t.Error("repeated listing returned a different roster")
	}
}

func TestServeMemberList_OutsiderForbidden(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	outsider := fixtures.CreateUser(ctx, "Outsider", "out@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)

	req := testutil.NewAuthenticatedRequest("GET", "/api/v1/groups/"+g.ID.Hex()+"/members", "", testutil.UserFor(outsider.ID, outsider.FullName, outsider.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeMemberList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleInvite(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	fixtures.CreateUser(ctx, "Invitee", "invitee@example.com")
	existing := fixtures.CreateUser(ctx, "Existing", "existing@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, existing.ID, models.RoleMember)

	body := `{"emails":["invitee@example.com","existing@example.com","ghost@example.com"]}`
	req := testutil.NewAuthenticatedRequest("POST", "/api/v1/groups/"+g.ID.Hex()+"/members", body, testutil.UserFor(admin.ID, admin.FullName, admin.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Added      int      `json:"added"`
		Duplicates int      `json:"duplicates"`
		Unknown    []string `json:"unknown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Added != 1 {
		t.Errorf("added: got %d, want 1", resp.Added)
	}
	if resp.Duplicates != 1 {
		t.Errorf("duplicates: got %d, want 1", resp.Duplicates)
	}
	if len(resp.Unknown) != 1 || resp.Unknown[0] != "ghost@example.com" {
		t.Errorf("unknown: got %v", resp.Unknown)
	}
}

func TestHandleInvite_NonAdminForbidden(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)

	body := `{"emails":["admin@example.com"]}`
	req := testutil.NewAuthenticatedRequest("POST", "/api/v1/groups/"+g.ID.Hex()+"/members", body, testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleUpdateRole(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)

	req := testutil.NewAuthenticatedRequest("PUT", "/api/v1/groups/"+g.ID.Hex()+"/members/"+member.ID.Hex(), `{"role":"moderator"}`, testutil.UserFor(admin.ID, admin.FullName, admin.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleUpdateRole(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	role, err := h.Members.GetRole(ctx, g.ID, member.ID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role != models.RoleModerator {
		t.Errorf("role: got %q, want moderator", role)
	}
}

func TestHandleUpdateRole_LastAdmin(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)

	// The sole admin cannot demote themselves.
	req := testutil.NewAuthenticatedRequest("PUT", "/api/v1/groups/"+g.ID.Hex()+"/members/"+admin.ID.Hex(), `{"role":"member"}`, testutil.UserFor(admin.ID, admin.FullName, admin.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", admin.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleUpdateRole(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}

	role, err := h.Members.GetRole(ctx, g.ID, admin.ID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("role after rejected demotion: got %q, want admin", role)
	}
}

func TestHandleRemove_SelfLeave(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/v1/groups/"+g.ID.Hex()+"/members/"+member.ID.Hex(), "", testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemove(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if _, err := h.Members.GetRole(ctx, g.ID, member.ID); err == nil {
		t.Error("membership still present after leave")
	}
}

func TestHandleRemove_LastAdminBlocked(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/v1/groups/"+g.ID.Hex()+"/members/"+admin.ID.Hex(), "", testutil.UserFor(admin.ID, admin.FullName, admin.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", admin.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemove(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleRemove_NonAdminCannotRemoveOthers(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	other := fixtures.CreateUser(ctx, "Other", "other@example.com")
	g := fixtures.CreateGroup(ctx, "Team", admin.ID)
	fixtures.CreateMembership(ctx, g.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, g.ID, member.ID, models.RoleMember)
	fixtures.CreateMembership(ctx, g.ID, other.ID, models.RoleMember)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/v1/groups/"+g.ID.Hex()+"/members/"+other.ID.Hex(), "", testutil.UserFor(member.ID, member.FullName, member.Email))
	req = testutil.WithChiURLParam(req, "groupID", g.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", other.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleRemove(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
