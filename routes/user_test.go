package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alkhazraji96/yelp-camp/models"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	app, db, _ := buildTestApp(t)

	resp := doJSON(app, http.MethodPost, "/api/user/register", "", iris.Map{
		"username": "sam",
		"email":    "Sam@Example.com",
		"password": "hunter2hunter2",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var registered struct {
		User         models.User `json:"user"`
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if registered.User.Email != "sam@example.com" {
		t.Fatalf("expected lowercased email, got %q", registered.User.Email)
	}

	// The stored password is a hash, never the input.
	var stored models.User
	if err := db.First(&stored, registered.User.ID).Error; err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("stored password does not verify: %v", err)
	}

	resp = doJSON(app, http.MethodPost, "/api/user/login", "", iris.Map{
		"username": "sam", "password": "hunter2hunter2",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(app, http.MethodPost, "/api/user/login", "", iris.Map{
		"username": "sam", "password": "wrong-password",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodPost, "/api/user/login", "", iris.Map{
		"username": "nobody", "password": "hunter2hunter2",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.Code)
	}
}

func TestRegisterTakenUsernameOrEmail(t *testing.T) {
	app, db, _ := buildTestApp(t)
	createTestUser(t, db, "sam", false)

	resp := doJSON(app, http.MethodPost, "/api/user/register", "", iris.Map{
		"username": "sam", "email": "fresh@example.com", "password": "hunter2hunter2",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for taken username, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodPost, "/api/user/register", "", iris.Map{
		"username": "fresh", "email": "sam@example.com", "password": "hunter2hunter2",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for taken email, got %d", resp.Code)
	}
}

func TestGetUserProfile(t *testing.T) {
	app, db, _ := buildTestApp(t)
	owner := createTestUser(t, db, "sam", false)
	createTestCampground(t, db, owner, "Pine Hollow")
	createTestCampground(t, db, owner, "Lake Vista")

	resp := doJSON(app, http.MethodGet, "/api/user/1", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var profile struct {
		User        models.User         `json:"user"`
		Campgrounds []models.Campground `json:"campgrounds"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if profile.User.Username != "sam" {
		t.Fatalf("unexpected user %q", profile.User.Username)
	}
	if len(profile.Campgrounds) != 2 {
		t.Fatalf("expected 2 authored campgrounds, got %d", len(profile.Campgrounds))
	}

	resp = doJSON(app, http.MethodGet, "/api/user/999", "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown profile, got %d", resp.Code)
	}
}

func TestFollowUserAppendsWithoutDedup(t *testing.T) {
	app, db, _ := buildTestApp(t)
	target := createTestUser(t, db, "sam", false)
	follower := createTestUser(t, db, "ana", false)
	token := signTestToken(t, follower)

	path := "/api/user/1/follow"

	resp := doJSON(app, http.MethodPost, path, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Following twice stores the id twice; the fan-out later delivers twice.
	resp = doJSON(app, http.MethodPost, path, token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat follow, got %d", resp.Code)
	}

	var stored models.User
	if err := db.First(&stored, target.ID).Error; err != nil {
		t.Fatalf("reloading: %v", err)
	}
	ids := stored.FollowerIDs()
	if len(ids) != 2 || ids[0] != follower.ID || ids[1] != follower.ID {
		t.Fatalf("expected duplicate follower entries, got %v", ids)
	}
}

func TestFollowRequiresToken(t *testing.T) {
	app, db, _ := buildTestApp(t)
	createTestUser(t, db, "sam", false)

	resp := doJSON(app, http.MethodPost, "/api/user/1/follow", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}
