package storage

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/models"
)

type ProjectNew struct {
	Name        string
	Description string
}

// CreateProject inserts a project owned by userID. Name uniqueness is
// scoped to the owner; the compound unique index backs the check.
func (s *Store) CreateProject(ctx context.Context, in ProjectNew, userID string) (string, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	existing, err := s.GetProject(ctx, ProjectFilter{OwnerID: userID, Name: in.Name})
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Conflict("Project name already exists")
	}

	now := time.Now().UTC()
	project := models.Project{
		UserID:       userID,
		Name:         in.Name,
		Description:  in.Description,
		FigureCount:  0,
		AccessList:   []string{},
		DateCreated:  now,
		DateModified: now,
	}

	res, err := s.db.Collection(projectsCollection).InsertOne(ctx, project)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("Project name already exists")
		}
		return "", apperr.Internal(err)
	}
	return objectIDHex(res.InsertedID), nil
}

func (s *Store) GetProject(ctx context.Context, filter ProjectFilter) (*models.Project, error) {
	f, err := filter.bson()
	if err != nil {
		return nil, err
	}

	var project models.Project
	err = s.db.Collection(projectsCollection).FindOne(ctx, f).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &project, nil
}

func (s *Store) VerifyProject(ctx context.Context, filter ProjectFilter) (*models.Project, error) {
	project, err := s.GetProject(ctx, filter)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}
	return project, nil
}

// ListProjects returns one page of the owner's projects, most recently
// modified first.
func (s *Store) ListProjects(ctx context.Context, filter ProjectFilter, req PageRequest) (*Page[models.Project], error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	f, err := filter.bson()
	if err != nil {
		return nil, err
	}

	coll := s.db.Collection(projectsCollection)
	total, err := coll.CountDocuments(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	req = req.normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "date_modified", Value: -1}}).
		SetSkip(req.skip()).
		SetLimit(int64(req.Size))

	cursor, err := coll.Find(ctx, f, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, apperr.Internal(err)
	}
	return newPage(projects, total, req), nil
}

func (s *Store) UpdateProject(ctx context.Context, filter ProjectFilter, patch ProjectPatch) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyProject(ctx, filter); err != nil {
		return err
	}

	set := patch.set()
	if err := checkRestricted(set, "_id", "user_id"); err != nil {
		return err
	}
	set["date_modified"] = time.Now().UTC()

	f, err := filter.bson()
	if err != nil {
		return err
	}
	_, err = s.db.Collection(projectsCollection).UpdateOne(ctx, f, bson.M{"$set": set})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GrantProjectAccess adds a user id to the project's access list.
// $addToSet keeps the list a set under concurrent grants.
func (s *Store) GrantProjectAccess(ctx context.Context, filter ProjectFilter, userID string) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyProject(ctx, filter); err != nil {
		return err
	}

	f, err := filter.bson()
	if err != nil {
		return err
	}
	update := bson.M{
		"$addToSet": bson.M{"access_list": userID},
		"$set":      bson.M{"date_modified": time.Now().UTC()},
	}
	_, err = s.db.Collection(projectsCollection).UpdateOne(ctx, f, update)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// RevokeProjectAccess removes a user id from the project's access list.
func (s *Store) RevokeProjectAccess(ctx context.Context, filter ProjectFilter, userID string) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyProject(ctx, filter); err != nil {
		return err
	}

	f, err := filter.bson()
	if err != nil {
		return err
	}
	update := bson.M{
		"$pull": bson.M{"access_list": userID},
		"$set":  bson.M{"date_modified": time.Now().UTC()},
	}
	_, err = s.db.Collection(projectsCollection).UpdateOne(ctx, f, update)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// DeleteProject removes the project and cascades to its files, blobs
// included, so no orphaned file records are left behind.
func (s *Store) DeleteProject(ctx context.Context, filter ProjectFilter) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	project, err := s.VerifyProject(ctx, filter)
	if err != nil {
		return err
	}

	files, err := s.ListFiles(ctx, FileFilter{ProjectID: project.ID.Hex()})
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.DeleteFile(ctx, FileFilter{ID: file.ID.Hex()}); err != nil {
			log.Printf("[Storage] Failed to delete file %s while deleting project %s: %v", file.ID.Hex(), project.ID.Hex(), err)
			return err
		}
	}

	f, err := filter.bson()
	if err != nil {
		return err
	}
	_, err = s.db.Collection(projectsCollection).DeleteOne(ctx, f)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
