package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
)

func TestUserDetails(t *testing.T) {
	user := testUser("demopassword")
	store := &mockStore{}
	router, token := newAuthedRouter(store, user)
	router.GET("/users/me", NewUserHandler(store).Details)

	w := doRequest(router, http.MethodGet, "/users/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["email"] != user.Email {
		t.Errorf("email = %v", body["email"])
	}
	// the hash must never round-trip to the client
	if _, present := body["password"]; present {
		t.Error("password hash serialized in response")
	}
}

func TestUserDetailsWithoutToken(t *testing.T) {
	store := &mockStore{}
	router, _ := newAuthedRouter(store, testUser("demopassword"))
	router.GET("/users/me", NewUserHandler(store).Details)

	w := doRequest(router, http.MethodGet, "/users/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUserUpdateDetails(t *testing.T) {
	user := testUser("demopassword")
	var gotPatch storage.UserPatch
	store := &mockStore{
		updateUserFunc: func(ctx context.Context, filter storage.UserFilter, patch storage.UserPatch) error {
			if filter.ID != user.ID.Hex() {
				t.Errorf("filter = %+v", filter)
			}
			gotPatch = patch
			return nil
		},
	}
	router, token := newAuthedRouter(store, user)
	router.PATCH("/users/me", NewUserHandler(store).UpdateDetails)

	w := doRequest(router, http.MethodPatch, "/users/me", token, gin.H{"username": "Renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if gotPatch.Username == nil || *gotPatch.Username != "Renamed" {
		t.Errorf("username patch = %v", gotPatch.Username)
	}
	if gotPatch.PasswordHash != nil {
		t.Error("profile update must not touch the password")
	}
}

func TestUserChangePassword(t *testing.T) {
	user := testUser("demopassword")
	var gotPatch storage.UserPatch
	store := &mockStore{
		updateUserFunc: func(ctx context.Context, filter storage.UserFilter, patch storage.UserPatch) error {
			gotPatch = patch
			return nil
		},
	}
	router, token := newAuthedRouter(store, user)
	router.POST("/users/me/password", NewUserHandler(store).ChangePassword)

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		wantStatus  int
	}{
		{"wrong old password", "notmypassword", "brandnewpassword", http.StatusUnauthorized},
		{"short new password", "demopassword", "short", http.StatusBadRequest},
		{"success", "demopassword", "brandnewpassword", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/users/me/password", token, gin.H{
				"old_password": tt.oldPassword,
				"new_password": tt.newPassword,
			})
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}

	if gotPatch.PasswordHash == nil {
		t.Fatal("password hash never updated")
	}
	if !auth.CheckPassword("brandnewpassword", *gotPatch.PasswordHash) {
		t.Error("stored hash does not match the new password")
	}
}

func TestUserDelete(t *testing.T) {
	user := testUser("demopassword")
	deleted := false
	store := &mockStore{
		deleteUserFunc: func(ctx context.Context, filter storage.UserFilter) error {
			deleted = filter.ID == user.ID.Hex()
			return nil
		},
	}
	router, token := newAuthedRouter(store, user)
	router.DELETE("/users/me", NewUserHandler(store).Delete)

	w := doRequest(router, http.MethodDelete, "/users/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !deleted {
		t.Error("DeleteUser not called for the caller's own id")
	}
	if body := decodeBody(t, w); body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestDisabledUserRejected(t *testing.T) {
	user := testUser("demopassword")
	user.Status = models.StatusDisabled
	store := &mockStore{}
	router, token := newAuthedRouter(store, user)
	router.GET("/users/me", NewUserHandler(store).Details)

	w := doRequest(router, http.MethodGet, "/users/me", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body %s)", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["error"] != "Inactive user" {
		t.Errorf("error = %v", body["error"])
	}
}
