package families_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	familiesfeature "github.com/familiahq/familia/internal/app/features/families"
	familystore "github.com/familiahq/familia/internal/app/store/families"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/familiahq/familia/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *familiesfeature.Handler {
	t.Helper()
	return familiesfeature.NewHandler(
		zap.NewNop(),
		db.Client(),
		userstore.New(db),
		familystore.New(db),
		membershipstore.New(db),
		nil,
	)
}

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/families", map[string]string{
		"name":        "The Builders",
		"description": "A family under construction",
	})
	req = testutil.AsUser(req, creator)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Family
	testutil.DecodeJSON(t, rec, &created)
	if created.CreatorID != creator.ID {
		t.Errorf("creator: got %s, want %s", created.CreatorID.Hex(), creator.ID.Hex())
	}
	if created.MemberCount != 1 {
		t.Errorf("member_count: got %d, want 1", created.MemberCount)
	}

	// The creator's membership lands with the family itself.
	ok, err := membershipstore.New(db).Exists(ctx, created.ID, creator.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("creator membership missing after create")
	}
}

func TestServeCreate_NameRequired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/families", map[string]string{
		"name": "   ",
	})
	req = testutil.AsUser(req, creator)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	fixtures.AddMember(ctx, family.ID, member.ID)

	req := testutil.NewRequest(http.MethodPost, "/families/"+family.ID.Hex()+"/leave", nil)
	req = testutil.WithChiURLParam(req, "id", family.ID.Hex())
	req = testutil.AsUser(req, member)
	rec := httptest.NewRecorder()
	h.ServeLeave(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	ok, err := membershipstore.New(db).Exists(ctx, family.ID, member.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("membership still present after leave")
	}
	if got := fixtures.MemberCount(ctx, family.ID); got != 1 {
		t.Errorf("member_count: got %d, want 1", got)
	}
	if got := fixtures.MembershipCount(ctx, family.ID); got != 1 {
		t.Errorf("membership rows: got %d, want 1", got)
	}
}

func TestServeLeave_Refusals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	outsider := fixtures.CreateUser(ctx, "Outsider", "outsider@example.com")

	cases := []struct {
		name    string
		caller  models.User
		message string
	}{
		{"creator cannot leave", creator, "you cannot leave a family you created"},
		{"non-member cannot leave", outsider, "you are not a member of this family"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewRequest(http.MethodPost, "/families/"+family.ID.Hex()+"/leave", nil)
			req = testutil.WithChiURLParam(req, "id", family.ID.Hex())
			req = testutil.AsUser(req, tc.caller)
			rec := httptest.NewRecorder()
			h.ServeLeave(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
			}
			var body struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			testutil.DecodeJSON(t, rec, &body)
			if body.Error.Message != tc.message {
				t.Errorf("message: got %q, want %q", body.Error.Message, tc.message)
			}
		})
	}

	if got := fixtures.MemberCount(ctx, family.ID); got != 1 {
		t.Errorf("member_count: got %d, want 1", got)
	}
}

func TestServeMembersCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	member := fixtures.CreateUser(ctx, "Second Member", "second@example.com")
	fixtures.AddMember(ctx, family.ID, member.ID)

	req := testutil.NewRequest(http.MethodGet, "/families/"+family.ID.Hex()+"/members.csv", nil)
	req = testutil.WithChiURLParam(req, "id", family.ID.Hex())
	req = testutil.AsUser(req, member)
	rec := httptest.NewRecorder()
	h.ServeMembersCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines: got %d, want 3 (header + 2 members)", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "Name,Email,Joined" {
		t.Errorf("header: got %q", lines[0])
	}
	body := rec.Body.String()
	for _, want := range []string{"creator@example.com", "second@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("roster missing %s", want)
		}
	}
}

func TestServeMembersCSV_NonMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	family := fixtures.CreateFamily(ctx, "The Testers", creator.ID)
	outsider := fixtures.CreateUser(ctx, "Outsider", "outsider@example.com")

	req := testutil.NewRequest(http.MethodGet, "/families/"+family.ID.Hex()+"/members.csv", nil)
	req = testutil.WithChiURLParam(req, "id", family.ID.Hex())
	req = testutil.AsUser(req, outsider)
	rec := httptest.NewRecorder()
	h.ServeMembersCSV(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
