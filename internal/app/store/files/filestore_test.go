package filestore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	filestore "github.com/dalemusser/collabhub/internal/app/store/files"
	"github.com/dalemusser/collabhub/internal/testutil"
)

func TestStore_Save_CreatesThenOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := filestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()

	f, err := store.Save(ctx, projectID, "src/main.js", "console.log(1)", false)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if f.Content != "console.log(1)" {
		t.Errorf("Content: got %q", f.Content)
	}

	f2, err := store.Save(ctx, projectID, "src/main.js", "console.log(2)", false)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if f2.ID != f.ID {
		t.Error("expected overwrite to keep the same document")
	}
	if f2.Content != "console.log(2)" {
		t.Errorf("Content after overwrite: got %q", f2.Content)
	}

	count, err := db.Collection("project_files").CountDocuments(ctx, bson.M{
		"project_id": projectID,
		"path":       "src/main.js",
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document for the path, got %d", count)
	}
}

func TestStore_Save_SamePathDifferentProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := filestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if _, err := store.Save(ctx, a, "README.md", "project a", false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Save(ctx, b, "README.md", "project b", false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fa, err := store.GetByPath(ctx, a, "README.md")
	if err != nil {
		t.Fatalf("GetByPath failed: %v", err)
	}
	if fa.Content != "project a" {
		t.Errorf("project a content: got %q", fa.Content)
	}
}

func TestStore_ListByProject_SortedByPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := filestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	for _, path := range []string{"src/util.js", "README.md", "src/lib/deep.js"} {
		if _, err := store.Save(ctx, projectID, path, "x", false); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	files, err := store.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}

	want := []string{"README.md", "src/lib/deep.js", "src/util.js"}
	for i, path := range want {
		if files[i].Path != path {
			t.Errorf("position %d: got %q, want %q", i, files[i].Path, path)
		}
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := filestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	if _, err := store.Save(ctx, projectID, "tmp.txt", "x", false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	n, err := store.Delete(ctx, projectID, "tmp.txt")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}
}
