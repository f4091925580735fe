package storage

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mannequins/backend/internal/apperr"
)

// Filters are implicit ANDs of their set fields, all equality matches
// except ProjectFilter.AccessListContains which matches membership in
// the project's access list.

type UserFilter struct {
	ID    string
	Email string
}

func (f UserFilter) bson() (bson.M, error) {
	m := bson.M{}
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid user ID")
		}
		m["_id"] = oid
	}
	if f.Email != "" {
		m["email"] = f.Email
	}
	return m, nil
}

type ProjectFilter struct {
	ID      string
	OwnerID string
	Name    string
	// AccessListContains matches projects whose access_list includes the
	// given user id. Mongo equality against an array field is
	// element-of-list, which is exactly the predicate needed here.
	AccessListContains string
}

func (f ProjectFilter) bson() (bson.M, error) {
	m := bson.M{}
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid project ID")
		}
		m["_id"] = oid
	}
	if f.OwnerID != "" {
		m["user_id"] = f.OwnerID
	}
	if f.Name != "" {
		m["name"] = f.Name
	}
	if f.AccessListContains != "" {
		m["access_list"] = f.AccessListContains
	}
	return m, nil
}

type FileFilter struct {
	ID        string
	OwnerID   string
	ProjectID string
}

func (f FileFilter) bson() (bson.M, error) {
	m := bson.M{}
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, apperr.BadRequest("Invalid file ID")
		}
		m["_id"] = oid
	}
	if f.OwnerID != "" {
		m["user_id"] = f.OwnerID
	}
	if f.ProjectID != "" {
		m["project_id"] = f.ProjectID
	}
	return m, nil
}

// checkRestricted is the runtime backstop behind the typed patches: the
// patch types cannot express the immutable fields at all, but any
// update document that reaches the collections is still screened for
// them. A hit is a programming error, surfaced as internal.
func checkRestricted(set bson.M, restricted ...string) error {
	for key := range set {
		for _, r := range restricted {
			if key == r || strings.HasPrefix(key, r+".") {
				return apperr.Internal(errRestrictedKey(key))
			}
		}
	}
	return nil
}

type errRestrictedKey string

func (e errRestrictedKey) Error() string {
	return "invalid key: " + string(e) + " cannot be changed"
}
