package storage

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mannequins/backend/internal/apperr"
)

func TestUserFilterBSON(t *testing.T) {
	oid := primitive.NewObjectID()

	m, err := UserFilter{ID: oid.Hex(), Email: "demo@example.com"}.bson()
	if err != nil {
		t.Fatalf("bson() error = %v", err)
	}
	if m["_id"] != oid {
		t.Errorf("_id = %v, want %v", m["_id"], oid)
	}
	if m["email"] != "demo@example.com" {
		t.Errorf("email = %v, want demo@example.com", m["email"])
	}

	empty, err := UserFilter{}.bson()
	if err != nil {
		t.Fatalf("bson() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty filter produced %v", empty)
	}
}

func TestUserFilterInvalidID(t *testing.T) {
	_, err := UserFilter{ID: "not-a-hex-id"}.bson()
	if err == nil {
		t.Fatal("bson() accepted an invalid object id")
	}
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("kind = %v, want KindBadRequest", apperr.KindOf(err))
	}
}

func TestProjectFilterAccessListMembership(t *testing.T) {
	m, err := ProjectFilter{AccessListContains: "user-b"}.bson()
	if err != nil {
		t.Fatalf("bson() error = %v", err)
	}
	// mongo equality against an array field is membership
	if m["access_list"] != "user-b" {
		t.Errorf("access_list = %v, want user-b", m["access_list"])
	}
}

func TestFileFilterCombined(t *testing.T) {
	oid := primitive.NewObjectID()

	m, err := FileFilter{ID: oid.Hex(), OwnerID: "owner", ProjectID: "proj"}.bson()
	if err != nil {
		t.Fatalf("bson() error = %v", err)
	}
	if len(m) != 3 {
		t.Errorf("filter has %d fields, want 3", len(m))
	}
	if m["user_id"] != "owner" || m["project_id"] != "proj" {
		t.Errorf("unexpected filter %v", m)
	}
}

func TestCheckRestricted(t *testing.T) {
	tests := []struct {
		name    string
		set     bson.M
		keys    []string
		wantErr bool
	}{
		{"clean", bson.M{"username": "x"}, []string{"_id", "email"}, false},
		{"direct hit", bson.M{"email": "x@y.z"}, []string{"_id", "email"}, true},
		{"id hit", bson.M{"_id": "zzz"}, []string{"_id", "email"}, true},
		{"dotted hit", bson.M{"gridfs_id.sub": 1}, []string{"gridfs_id"}, true},
		{"prefix no dot is clean", bson.M{"emailing": "x"}, []string{"email"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkRestricted(tt.set, tt.keys...)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkRestricted() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
