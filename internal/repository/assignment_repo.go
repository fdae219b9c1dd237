package repository

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/pkg/logger"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AssignmentRepo handles MongoDB operations for assignments
type AssignmentRepo interface {
	Create(ctx context.Context, assignment *model.Assignment) (string, error)
	Replace(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByClass(ctx context.Context, classID string) ([]*model.Assignment, error)
	Delete(ctx context.Context, id string) error
	// Watch streams change events until ctx is cancelled
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}

type assignmentRepo struct {
	collection *mongo.Collection
}

// NewAssignmentRepo creates a new assignment repository
func NewAssignmentRepo(db *mongo.Database) AssignmentRepo {
	return &assignmentRepo{
		collection: db.Collection(AssignmentsCollection),
	}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) (string, error) {
	if assignment.ID == "" {
		assignment.ID = NewID()
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt

	if _, err := r.collection.InsertOne(ctx, assignment); err != nil {
		return "", errors.Wrap(err, "insert assignment")
	}
	return assignment.ID, nil
}

func (r *assignmentRepo) Replace(ctx context.Context, assignment *model.Assignment) error {
	assignment.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": assignment.ID}, assignment, opts)
	return err
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByClass(ctx context.Context, classID string) ([]*model.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"classId": classID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := []*model.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type assignmentChange struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *struct {
		ClassID string `bson:"classId"`
	} `bson:"fullDocument"`
}

func (r *assignmentRepo) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "watch assignments")
	}

	events := make(chan ChangeEvent, 16)
	go func() {
		defer close(events)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var change assignmentChange
			if err := stream.Decode(&change); err != nil {
				logger.Log.Warn("undecodable assignment change", zap.Error(err))
				continue
			}
			ev := ChangeEvent{
				Operation:    change.OperationType,
				AssignmentID: change.DocumentKey.ID,
			}
			if change.FullDocument != nil {
				ev.ClassID = change.FullDocument.ClassID
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Log.Error("assignment change stream stopped", zap.Error(err))
		}
	}()
	return events, nil
}
