package posts

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/server-craftsman/manage-post/internal/models"
	"github.com/server-craftsman/manage-post/internal/remote"
	"github.com/server-craftsman/manage-post/internal/remotetest"
)

func newTestManager(t *testing.T, maxImage int64) (*Manager, *remotetest.Server) {
	t.Helper()
	store := remotetest.NewServer()
	t.Cleanup(store.Close)
	client := remote.New(store.URL(), "", 2*time.Second)
	return NewManager(client, maxImage), store
}

func actor() *models.User {
	return &models.User{ID: "u1", Role: models.RoleCustomer}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	_, err := m.Create(context.Background(), nil, models.Post{
		Title:  "Hello",
		Status: models.StatusDraft,
	}, nil, "")
	if err != ErrAuthenticationRequired {
		t.Fatalf("err = %v, want ErrAuthenticationRequired", err)
	}

	if len(store.Requests()) != 0 {
		t.Error("no request may reach the store for an anonymous create")
	}
}

func TestCreateAppendsOptimistically(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	created, err := m.Create(context.Background(), actor(), models.Post{
		Title:       "Hello",
		Description: "first post",
		Status:      models.StatusDraft,
	}, nil, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.ID == "" {
		t.Error("expected a client-generated id")
	}
	if created.UserID != "u1" {
		t.Errorf("userId = %q, want the acting user", created.UserID)
	}

	// The working set was patched from the response, not re-fetched.
	for _, req := range store.Requests() {
		if req == "GET /posts" {
			t.Error("create must not trigger a list re-fetch")
		}
	}

	cached := m.Cached()
	if len(cached) != 1 || cached[0].ID != created.ID {
		t.Errorf("working set = %+v", cached)
	}
	if cached[0].Title != "Hello" || cached[0].Status != models.StatusDraft {
		t.Error("cached record must match what was submitted")
	}
}

func TestCreateRoundTripThroughList(t *testing.T) {
	m, _ := newTestManager(t, 1<<20)

	created, err := m.Create(context.Background(), actor(), models.Post{
		Title:       "Hello",
		Description: "body",
		Status:      models.StatusDraft,
	}, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	list, err := m.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, p := range list {
		if p.ID == created.ID {
			found = true
			if p.Title != "Hello" || p.Description != "body" || p.Status != models.StatusDraft {
				t.Errorf("round-tripped record diverged: %+v", p)
			}
		}
	}
	if !found {
		t.Error("created post missing from a subsequent list")
	}
}

func TestCreateRejectsOversizedImage(t *testing.T) {
	m, store := newTestManager(t, 8)

	big := bytes.Repeat([]byte{0xff}, 16)
	_, err := m.Create(context.Background(), actor(), models.Post{
		Title:  "Hello",
		Status: models.StatusDraft,
	}, big, "image/png")
	if err != ErrImageTooLarge {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}

	if len(store.Requests()) != 0 {
		t.Error("local size check must run before any network call")
	}
	if len(m.Cached()) != 0 {
		t.Error("working set must be unchanged after a failed create")
	}
}

func TestCreateEncodesImageAsDataURI(t *testing.T) {
	m, _ := newTestManager(t, 1<<20)

	created, err := m.Create(context.Background(), actor(), models.Post{
		Title:  "Hello",
		Status: models.StatusDraft,
	}, []byte("fake-image-bytes"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}

	if want := "data:image/jpeg;base64,"; len(created.PostImage) == 0 ||
		created.PostImage[:len(want)] != want {
		t.Errorf("postImage = %q, want a data-URI", created.PostImage)
	}
}

func TestUpdateBumpsUpdateDateAndKeepsFields(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	orig := models.Post{
		ID:          "p1",
		UserID:      "u1",
		Title:       "Hello",
		Description: "body",
		Status:      models.StatusDraft,
		CreateDate:  time.Now().Add(-time.Hour),
		UpdateDate:  time.Now().Add(-time.Hour),
	}
	store.AddPost(orig)
	if _, err := m.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	changed := orig
	changed.Status = models.StatusPublished

	updated, err := m.Update(context.Background(), changed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if !updated.UpdateDate.After(orig.UpdateDate) {
		t.Error("updateDate must be strictly newer after an update")
	}
	if updated.Title != orig.Title || updated.Description != orig.Description ||
		updated.CreateDate.Unix() != orig.CreateDate.Unix() {
		t.Error("full-record replace must not drop caller-supplied fields")
	}

	cached := m.Cached()
	if len(cached) != 1 || cached[0].Status != models.StatusPublished {
		t.Errorf("working set not patched: %+v", cached)
	}
}

func TestUpdateLastWriterWins(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	p := models.Post{
		ID: "p1", UserID: "u1", Title: "Hello",
		Status:     models.StatusDraft,
		CreateDate: time.Now().Add(-time.Hour),
	}
	store.AddPost(p)
	if _, err := m.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.Status = models.StatusDraft
	if _, err := m.Update(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	p.Status = models.StatusPublished
	if _, err := m.Update(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	cached := m.Cached()
	if cached[0].Status != models.StatusPublished {
		t.Errorf("final status = %q, want the second writer's value", cached[0].Status)
	}
	if got, _ := store.Post("p1"); got.Status != models.StatusPublished {
		t.Errorf("store status = %q, want the second writer's value", got.Status)
	}
}

func TestUpdateEmptyResponseLeavesWorkingSetAlone(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	p := models.Post{
		ID: "p1", UserID: "u1", Title: "Hello",
		Status:     models.StatusDraft,
		CreateDate: time.Now().Add(-time.Hour),
	}
	store.AddPost(p)
	if _, err := m.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	store.EmptyPutBody(true)

	p.Status = models.StatusPublished
	_, err := m.Update(context.Background(), p)
	if err == nil {
		t.Fatal("an empty success body must surface as an error")
	}
	var re *remote.Error
	if !errors.As(err, &re) || re.Kind != remote.KindRemoteRejected {
		t.Errorf("err = %v, want a RemoteRejected classification", err)
	}

	if m.Cached()[0].Status != models.StatusDraft {
		t.Error("working set must keep the prior record on failure")
	}
}

func TestDeleteRemovesEverywhere(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	store.AddPost(models.Post{ID: "p1", UserID: "u1", Status: models.StatusDraft})
	store.AddPost(models.Post{ID: "p2", UserID: "u1", Status: models.StatusDraft})
	if _, err := m.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}

	cached := m.Cached()
	if len(cached) != 1 || cached[0].ID != "p2" {
		t.Errorf("working set = %+v", cached)
	}

	if _, err := m.GetByID(context.Background(), "p1"); !remote.IsNotFound(err) {
		t.Errorf("get after delete: err = %v, want NotFound", err)
	}
}

func TestCountByUser(t *testing.T) {
	m, store := newTestManager(t, 1<<20)

	store.AddPost(models.Post{ID: "p1", UserID: "u1", Status: models.StatusDraft})
	store.AddPost(models.Post{ID: "p2", UserID: "u2", Status: models.StatusDraft})
	store.AddPost(models.Post{ID: "p3", UserID: "u1", Status: models.StatusDraft})

	n, err := m.CountByUser(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
