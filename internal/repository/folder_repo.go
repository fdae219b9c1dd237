package repository

import (
	"context"
	"ieltsprep/internal/model"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FolderRepo handles MongoDB operations for assignment folders
type FolderRepo interface {
	Create(ctx context.Context, folder *model.AssignmentGroup) (string, error)
	GetByID(ctx context.Context, id string) (*model.AssignmentGroup, error)
	ListByClass(ctx context.Context, classID string) ([]*model.AssignmentGroup, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	// Reorder sets order = index for each id, all or nothing
	Reorder(ctx context.Context, classID string, orderedIDs []string) error
}

type folderRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewFolderRepo creates a new folder repository. The client is needed to
// open the session that makes reordering transactional.
func NewFolderRepo(client *mongo.Client, db *mongo.Database) FolderRepo {
	return &folderRepo{
		client:     client,
		collection: db.Collection(FoldersCollection),
	}
}

func (r *folderRepo) Create(ctx context.Context, folder *model.AssignmentGroup) (string, error) {
	if folder.ID == "" {
		folder.ID = NewID()
	}
	folder.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, folder); err != nil {
		return "", errors.Wrap(err, "insert folder")
	}
	return folder.ID, nil
}

func (r *folderRepo) GetByID(ctx context.Context, id string) (*model.AssignmentGroup, error) {
	var folder model.AssignmentGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepo) ListByClass(ctx context.Context, classID string) ([]*model.AssignmentGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"classId": classID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	folders := []*model.AssignmentGroup{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *folderRepo) Rename(ctx context.Context, id, name string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name}},
	)
	return err
}

func (r *folderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *folderRepo) Reorder(ctx context.Context, classID string, orderedIDs []string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for i, id := range orderedIDs {
			res, err := r.collection.UpdateOne(sc,
				bson.M{"_id": id, "classId": classID},
				bson.M{"$set": bson.M{"order": i}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, ErrReorderMismatch
			}
		}
		return nil, nil
	})
	return err
}
