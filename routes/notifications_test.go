package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/alkhazraji96/yelp-camp/models"
)

func TestNotificationInboxFlow(t *testing.T) {
	app, db, _ := buildTestApp(t)
	owner := createTestUser(t, db, "sam", false)
	follower := createTestUser(t, db, "ana", false)
	token := signTestToken(t, follower)

	if err := owner.SetFollowerIDs([]uint{follower.ID}); err != nil {
		t.Fatalf("setting followers: %v", err)
	}
	if err := db.Model(owner).Update("followers", owner.Followers).Error; err != nil {
		t.Fatalf("saving followers: %v", err)
	}

	// Creating a campground fans a notification out to the follower.
	resp := doJSON(app, http.MethodPost, "/api/campgrounds", signTestToken(t, owner), map[string]interface{}{
		"name": "Ridge Top", "price": 5, "image": "aGVsbG8=",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created models.Campground
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	resp = doJSON(app, http.MethodGet, "/api/notifications?unread=true", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var inbox struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &inbox); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(inbox.Notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(inbox.Notifications))
	}
	notification := inbox.Notifications[0]
	if notification.Username != "sam" || notification.CampgroundSlug != created.Slug {
		t.Fatalf("unexpected notification: %+v", notification)
	}

	// Another user cannot read someone else's notification.
	outsider := createTestUser(t, db, "bea", false)
	readPath := fmt.Sprintf("/api/notifications/%d/read", notification.ID)
	resp = doJSON(app, http.MethodPost, readPath, signTestToken(t, outsider), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for outsider, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodPost, readPath, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var marked struct {
		CampgroundSlug string `json:"campgroundSlug"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &marked); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if marked.CampgroundSlug != created.Slug {
		t.Fatalf("expected slug %q, got %q", created.Slug, marked.CampgroundSlug)
	}

	// Nothing unread remains.
	resp = doJSON(app, http.MethodGet, "/api/notifications?unread=true", token, nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &inbox); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(inbox.Notifications) != 0 {
		t.Fatalf("expected empty unread inbox, got %d", len(inbox.Notifications))
	}
}
