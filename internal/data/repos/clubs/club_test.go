package clubs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/cownect/cownect-backend/internal/data/repos/testutil"
	types "github.com/cownect/cownect-backend/internal/domain"
)

func TestClubRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewClubRepo(db, testutil.Logger(t))
	ctx := context.Background()

	robotics := testutil.SeedClub(t, ctx, tx, "Robotics Club", []string{"hardware"}, []string{"robots"})
	testutil.SeedClub(t, ctx, tx, "Aggie Coding Club", []string{"software"}, []string{"python"})

	active, err := repo.ListActive(ctx, tx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 || active[0].Name != "Aggie Coding Club" || active[1].Name != "Robotics Club" {
		t.Fatalf("ListActive: expected both clubs ordered by name, got %+v", active)
	}

	if err := repo.SetActive(ctx, tx, robotics.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, err = repo.ListActive(ctx, tx)
	if err != nil {
		t.Fatalf("ListActive after SetActive: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Aggie Coding Club" {
		t.Fatalf("ListActive: expected inactive club hidden, got %+v", active)
	}

	byID, err := repo.GetByIDs(ctx, tx, []uuid.UUID{robotics.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(byID) != 1 || byID[0].ID != robotics.ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", byID)
	}

	empty, err := repo.GetByIDs(ctx, tx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("GetByIDs (empty): expected no rows, got %+v, %v", empty, err)
	}
}

func TestClubRepo_UpsertUpdatesByName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewClubRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, tx, []*types.Club{{
		Name:       "Cybersecurity Club",
		Category:   "security",
		CareerTags: datatypes.JSONSlice[string]{"cybersecurity"},
		Active:     true,
	}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, tx, []*types.Club{{
		Name:        "Cybersecurity Club",
		Description: "Capture the flag every Friday",
		Category:    "security",
		CareerTags:  datatypes.JSONSlice[string]{"cybersecurity", "Security Analyst"},
		Active:      true,
	}}); err != nil {
		t.Fatalf("Upsert (again): %v", err)
	}

	active, err := repo.ListActive(ctx, tx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("Upsert: expected one row per name, got %d", len(active))
	}
	if active[0].Description != "Capture the flag every Friday" || len(active[0].CareerTags) != 2 {
		t.Fatalf("Upsert: expected updated columns, got %+v", active[0])
	}

	out, err := repo.Upsert(ctx, tx, nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("Upsert (empty): got %+v, %v", out, err)
	}
}
