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

// ClassRepo handles MongoDB operations for classes
type ClassRepo interface {
	Create(ctx context.Context, class *model.Class) (string, error)
	GetByID(ctx context.Context, id string) (*model.Class, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*model.Class, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Class, error)
	UpdateRoster(ctx context.Context, id string, studentIDs []string) error
}

type classRepo struct {
	collection *mongo.Collection
}

// NewClassRepo creates a new class repository
func NewClassRepo(db *mongo.Database) ClassRepo {
	return &classRepo{
		collection: db.Collection(ClassesCollection),
	}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) (string, error) {
	if class.ID == "" {
		class.ID = NewID()
	}
	if class.StudentIDs == nil {
		class.StudentIDs = []string{}
	}
	class.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, class); err != nil {
		return "", errors.Wrap(err, "insert class")
	}
	return class.ID, nil
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&class)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*model.Class, error) {
	return r.find(ctx, bson.M{"teacherId": teacherID})
}

func (r *classRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Class, error) {
	return r.find(ctx, bson.M{"studentIds": studentID})
}

func (r *classRepo) find(ctx context.Context, filter bson.M) ([]*model.Class, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	classes := []*model.Class{}
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepo) UpdateRoster(ctx context.Context, id string, studentIDs []string) error {
	if studentIDs == nil {
		studentIDs = []string{}
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"studentIds": studentIDs}},
	)
	return err
}
