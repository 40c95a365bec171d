package membershipstore_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
)

// ensureMembershipIndex creates the unique (user_id, group_id) index the
// duplicate tests rely on.
func ensureMembershipIndex(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("group_members").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	group := fixtures.CreateGroup(ctx, "Test Group", owner.ID)
	member := fixtures.CreateUser(ctx, "Test Member", "member@example.com")

	if err := store.Add(ctx, group.ID, member.ID, models.RoleMember); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	count, err := db.Collection("group_members").CountDocuments(ctx, bson.M{
		"group_id": group.ID,
		"user_id":  member.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 membership, got %d", count)
	}
}

func TestStore_Add_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	member := fixtures.CreateUser(ctx, "M", "m@example.com")

	if err := store.Add(ctx, group.ID, member.ID, "owner"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureMembershipIndex(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	member := fixtures.CreateUser(ctx, "M", "m@example.com")

	if err := store.Add(ctx, group.ID, member.ID, models.RoleMember); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	err := store.Add(ctx, group.ID, member.ID, models.RoleModerator)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestStore_AddBatch_CountsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureMembershipIndex(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	existing := fixtures.CreateUser(ctx, "Existing", "existing@example.com")
	fresh := fixtures.CreateUser(ctx, "Fresh", "fresh@example.com")

	if err := store.Add(ctx, group.ID, existing.ID, models.RoleMember); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	result, err := store.AddBatch(ctx, group.ID, []membershipstore.MembershipEntry{
		{UserID: existing.ID, Role: models.RoleMember},
		{UserID: fresh.ID, Role: models.RoleMember},
	})
	if err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Added: got %d, want 1", result.Added)
	}
	if result.Duplicates != 1 {
		t.Errorf("Duplicates: got %d, want 1", result.Duplicates)
	}

	// The existing membership keeps its original role.
	role, err := store.GetRole(ctx, group.ID, existing.ID)
	if err != nil {
		t.Fatalf("GetRole failed: %v", err)
	}
	if role != models.RoleMember {
		t.Errorf("existing role: got %q, want %q", role, models.RoleMember)
	}
}

func TestStore_UpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	member := fixtures.CreateUser(ctx, "M", "m@example.com")
	created := fixtures.CreateMembership(ctx, group.ID, member.ID, models.RoleMember)

	if err := store.UpdateRole(ctx, group.ID, member.ID, models.RoleModerator); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}

	got, err := store.Get(ctx, group.ID, member.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Role != models.RoleModerator {
		t.Errorf("Role: got %q, want %q", got.Role, models.RoleModerator)
	}
	// joined_at is untouched by role changes. Mongo stores millisecond
	// precision, so compare at the second level.
	if got.JoinedAt.Unix() != created.JoinedAt.Unix() {
		t.Errorf("JoinedAt changed: got %v, want %v", got.JoinedAt, created.JoinedAt)
	}

	// Still exactly one membership document.
	count, err := store.CountByGroup(ctx, group.ID, "")
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if count != 1 {
		t.Errorf("memberships: got %d, want 1", count)
	}
}

func TestStore_UpdateRole_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	stranger := fixtures.CreateUser(ctx, "S", "s@example.com")

	err := store.UpdateRole(ctx, group.ID, stranger.ID, models.RoleModerator)
	if !errors.Is(err, membershipstore.ErrMembershipNotFound) {
		t.Errorf("expected ErrMembershipNotFound, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	member := fixtures.CreateUser(ctx, "M", "m@example.com")
	fixtures.CreateMembership(ctx, group.ID, member.ID, models.RoleMember)

	if err := store.Remove(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if err := store.Remove(ctx, group.ID, member.ID); !errors.Is(err, membershipstore.ErrMembershipNotFound) {
		t.Errorf("expected ErrMembershipNotFound on second remove, got %v", err)
	}
}

func TestStore_CountByGroup_ByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	admin := fixtures.CreateUser(ctx, "A", "a@example.com")
	member := fixtures.CreateUser(ctx, "M", "m@example.com")
	fixtures.CreateMembership(ctx, group.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, group.ID, member.ID, models.RoleMember)

	admins, err := store.CountByGroup(ctx, group.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if admins != 1 {
		t.Errorf("admins: got %d, want 1", admins)
	}

	all, err := store.CountByGroup(ctx, group.ID, "")
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if all != 2 {
		t.Errorf("all: got %d, want 2", all)
	}
}

func TestStore_ListMembers_JoinsProfiles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Test Group", fixtures.CreateUser(ctx, "O", "o@example.com").ID)
	admin := fixtures.CreateUser(ctx, "Ada Admin", "ada@example.com")
	member := fixtures.CreateUser(ctx, "Mel Member", "mel@example.com")
	fixtures.CreateMembership(ctx, group.ID, admin.ID, models.RoleAdmin)
	fixtures.CreateMembership(ctx, group.ID, member.ID, models.RoleMember)

	records, err := store.ListMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	byEmail := map[string]string{}
	for _, rec := range records {
		if rec.Name == "" {
			t.Errorf("record for %s missing name", rec.UserID.Hex())
		}
		byEmail[rec.Email] = rec.Role
	}
	if byEmail["ada@example.com"] != models.RoleAdmin {
		t.Errorf("ada role: got %q", byEmail["ada@example.com"])
	}
	if byEmail["mel@example.com"] != models.RoleMember {
		t.Errorf("mel role: got %q", byEmail["mel@example.com"])
	}
}
