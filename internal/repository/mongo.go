package repository

import (
	"context"
	"ieltsprep/pkg/logger"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when a unique key already exists
	ErrDuplicate = errors.New("duplicate record")
	// ErrReorderMismatch is returned when a reorder list does not match the stored folders
	ErrReorderMismatch = errors.New("folder list does not match the class's folders")
)

// Collection names
const (
	ClassesCollection     = "classes"
	FoldersCollection     = "assignment_groups"
	AssignmentsCollection = "assignments"
	SubmissionsCollection = "submissions"
)

// NewID returns a fresh document identifier. Documents are keyed by the hex
// string so every store agrees on the id format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ChangeEvent reports that an assignment document changed. ClassID is empty
// when the change carried no document (deletes).
type ChangeEvent struct {
	Operation    string
	AssignmentID string
	ClassID      string
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		logger.Log.Warn("failed to create index",
			zap.String("collection", coll.Name()),
			zap.Error(err))
	}
}

// EnsureIndexes creates the indexes every query in this package relies on
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	createIndex(ctx, db.Collection(ClassesCollection), bson.D{{Key: "teacherId", Value: 1}}, false)
	createIndex(ctx, db.Collection(ClassesCollection), bson.D{{Key: "studentIds", Value: 1}}, false)

	createIndex(ctx, db.Collection(FoldersCollection), bson.D{
		{Key: "classId", Value: 1},
		{Key: "order", Value: 1},
	}, false)

	createIndex(ctx, db.Collection(AssignmentsCollection), bson.D{
		{Key: "classId", Value: 1},
		{Key: "dueDate", Value: 1},
	}, false)

	// one submission per student per assignment
	createIndex(ctx, db.Collection(SubmissionsCollection), bson.D{
		{Key: "assignmentId", Value: 1},
		{Key: "studentId", Value: 1},
	}, true)
	createIndex(ctx, db.Collection(SubmissionsCollection), bson.D{{Key: "studentId", Value: 1}}, false)

	logger.Log.Info("mongo indexes ensured")
}
