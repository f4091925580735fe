package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/auth"
	"mannequins/backend/internal/models"
)

// UserNew carries the caller-supplied fields of a registration. The
// password is hashed inside CreateUser; everything else is defaulted.
type UserNew struct {
	Username string
	Email    string
	Password string
}

// CreateUser inserts a user record with defaults applied. The email
// conflict check is an optimization; the unique index on email is the
// authority and a duplicate-key insert maps to the same conflict.
func (s *Store) CreateUser(ctx context.Context, in UserNew, role models.Role, signInType models.SignInType, verified bool) (string, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if len(in.Password) < 8 {
		return "", apperr.BadRequest("Invalid password length. Password length must be at least 8 characters")
	}

	existing, err := s.GetUser(ctx, UserFilter{Email: in.Email})
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Conflict("Email already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return "", apperr.Internal(err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Status:       models.StatusEnabled,
		SignInType:   signInType,
		Verified:     verified,
		FigureCount:  0,
		DateCreated:  now,
		DateModified: now,
	}

	res, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("Email already taken")
		}
		return "", apperr.Internal(err)
	}
	return objectIDHex(res.InsertedID), nil
}

// GetUser returns the first match or nil; absence is not an error.
func (s *Store) GetUser(ctx context.Context, filter UserFilter) (*models.User, error) {
	f, err := filter.bson()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.Collection(usersCollection).FindOne(ctx, f).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// VerifyUser is GetUser that fails loudly when no record matches.
func (s *Store) VerifyUser(ctx context.Context, filter UserFilter) (*models.User, error) {
	user, err := s.GetUser(ctx, filter)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, filter UserFilter, patch UserPatch) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyUser(ctx, filter); err != nil {
		return err
	}

	set := patch.set()
	if err := checkRestricted(set, "_id", "email"); err != nil {
		return err
	}
	set["date_modified"] = time.Now().UTC()

	f, err := filter.bson()
	if err != nil {
		return err
	}
	_, err = s.db.Collection(usersCollection).UpdateOne(ctx, f, bson.M{"$set": set})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, filter UserFilter) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyUser(ctx, filter); err != nil {
		return err
	}

	f, err := filter.bson()
	if err != nil {
		return err
	}
	_, err = s.db.Collection(usersCollection).DeleteOne(ctx, f)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
