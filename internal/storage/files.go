package storage

import (
	"bytes"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"mannequins/backend/internal/apperr"
	"mannequins/backend/internal/models"
)

type FileNew struct {
	Filename       string
	UserID         string
	ProjectID      string
	Group          string
	RestrictAccess bool
}

// CreateFile writes the blob first and the metadata record second, so a
// crash in between leaves an orphaned blob for the sweep to reclaim
// rather than a record pointing at nothing.
func (s *Store) CreateFile(ctx context.Context, data []byte, in FileNew) (string, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	blobID, err := s.bucket.UploadFromStream(in.Filename, bytes.NewReader(data))
	if err != nil {
		return "", apperr.Internal(err)
	}

	now := time.Now().UTC()
	file := models.File{
		GridFSID:       blobID.Hex(),
		Filename:       in.Filename,
		UserID:         in.UserID,
		ProjectID:      in.ProjectID,
		Group:          in.Group,
		Category:       models.CategoryProjectFile,
		RestrictAccess: in.RestrictAccess,
		DateCreated:    now,
		DateModified:   now,
	}

	res, err := s.db.Collection(filesCollection).InsertOne(ctx, file)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return objectIDHex(res.InsertedID), nil
}

func (s *Store) GetFile(ctx context.Context, filter FileFilter) (*models.File, error) {
	f, err := filter.bson()
	if err != nil {
		return nil, err
	}

	var file models.File
	err = s.db.Collection(filesCollection).FindOne(ctx, f).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	file.DownloadLink = downloadLink(&file)
	return &file, nil
}

func (s *Store) VerifyFile(ctx context.Context, filter FileFilter) (*models.File, error) {
	file, err := s.GetFile(ctx, filter)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperr.NotFound("File not found")
	}
	return file, nil
}

func (s *Store) ListFiles(ctx context.Context, filter FileFilter) ([]models.File, error) {
	f, err := filter.bson()
	if err != nil {
		return nil, err
	}

	cursor, err := s.db.Collection(filesCollection).Find(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, apperr.Internal(err)
	}
	for i := range files {
		files[i].DownloadLink = downloadLink(&files[i])
	}
	return files, nil
}

// FileData fetches the metadata record and its blob payload together.
func (s *Store) FileData(ctx context.Context, filter FileFilter) ([]byte, *models.File, error) {
	file, err := s.VerifyFile(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	blobID, err := primitive.ObjectIDFromHex(file.GridFSID)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStream(blobID, &buf); err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, nil, apperr.NotFound("File not found")
		}
		return nil, nil, apperr.Internal(err)
	}
	return buf.Bytes(), file, nil
}

func (s *Store) UpdateFile(ctx context.Context, filter FileFilter, patch FilePatch) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := s.VerifyFile(ctx, filter); err != nil {
		return err
	}

	set := patch.set()
	if err := checkRestricted(set, "_id", "user_id", "project_id", "gridfs_id"); err != nil {
		return err
	}
	set["date_modified"] = time.Now().UTC()

	f, err := filter.bson()
	if err != nil {
		return err
	}
	_, err = s.db.Collection(filesCollection).UpdateOne(ctx, f, bson.M{"$set": set})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// DeleteFile removes the metadata record and its blob. Blob deletion is
// idempotent: a missing blob is not an error.
func (s *Store) DeleteFile(ctx context.Context, filter FileFilter) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	file, err := s.VerifyFile(ctx, filter)
	if err != nil {
		return err
	}

	f, err := filter.bson()
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(filesCollection).DeleteOne(ctx, f); err != nil {
		return apperr.Internal(err)
	}

	blobID, err := primitive.ObjectIDFromHex(file.GridFSID)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.bucket.Delete(blobID); err != nil && err != gridfs.ErrFileNotFound {
		return apperr.Internal(err)
	}
	return nil
}

// orphanBlobGrace is how old a blob must be before the sweep will
// consider it abandoned. CreateFile writes the blob before the metadata
// record, so an unreferenced blob younger than this may be an upload
// still in flight.
const orphanBlobGrace = time.Hour

func orphanBlobFilter(now time.Time) bson.M {
	return bson.M{"uploadDate": bson.M{"$lt": now.Add(-orphanBlobGrace)}}
}

// SweepOrphanBlobs deletes gridfs blobs no file record references.
// Blob-first creation means a crash before the metadata insert leaves
// exactly this kind of orphan; the sweep is the out-of-band
// reconciliation for it. Only blobs older than the grace window are
// examined so in-flight uploads are never reclaimed.
func (s *Store) SweepOrphanBlobs(ctx context.Context) (int, error) {
	cursor, err := s.bucket.Find(orphanBlobFilter(time.Now().UTC()))
	if err != nil {
		return 0, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	removed := 0
	for cursor.Next(ctx) {
		var blob struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&blob); err != nil {
			return removed, apperr.Internal(err)
		}

		count, err := s.db.Collection(filesCollection).CountDocuments(ctx, bson.M{"gridfs_id": blob.ID.Hex()})
		if err != nil {
			return removed, apperr.Internal(err)
		}
		if count > 0 {
			continue
		}

		if err := s.bucket.Delete(blob.ID); err != nil && err != gridfs.ErrFileNotFound {
			log.Printf("[Storage] Failed to delete orphaned blob %s: %v", blob.ID.Hex(), err)
			continue
		}
		removed++
	}
	if err := cursor.Err(); err != nil {
		return removed, apperr.Internal(err)
	}
	return removed, nil
}

func downloadLink(file *models.File) string {
	if file.RestrictAccess {
		return "/api/v1/files/" + file.ID.Hex() + "/download"
	}
	return "/api/v1/files/" + file.ID.Hex() + "/unrestricted/download"
}
