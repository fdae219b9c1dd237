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

// SubmissionRepo handles MongoDB operations for submissions
type SubmissionRepo interface {
	// Create fails with ErrDuplicate when the student already submitted
	Create(ctx context.Context, submission *model.Submission) (string, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error)
	UpdateGrade(ctx context.Context, id, grade, feedback string) error
	SetAIFeedback(ctx context.Context, id string, feedback *model.WritingFeedback) error
	DeleteByAssignment(ctx context.Context, assignmentID string) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection(SubmissionsCollection),
	}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) (string, error) {
	if submission.ID == "" {
		submission.ID = NewID()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, submission)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", errors.Wrap(err, "insert submission")
	}
	return submission.ID, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *submissionRepo) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	return r.findOne(ctx, bson.M{"assignmentId": assignmentID, "studentId": studentID})
}

func (r *submissionRepo) findOne(ctx context.Context, filter bson.M) (*model.Submission, error) {
	var submission model.Submission
	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Submission, error) {
	return r.find(ctx, bson.M{"assignmentId": assignmentID})
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error) {
	return r.find(ctx, bson.M{"studentId": studentID})
}

func (r *submissionRepo) find(ctx context.Context, filter bson.M) ([]*model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := []*model.Submission{}
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) UpdateGrade(ctx context.Context, id, grade, feedback string) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":   model.SubmissionGraded,
			"grade":    grade,
			"feedback": feedback,
			"gradedAt": now,
		}},
	)
	return err
}

func (r *submissionRepo) SetAIFeedback(ctx context.Context, id string, feedback *model.WritingFeedback) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"aiFeedback": feedback}},
	)
	return err
}

func (r *submissionRepo) DeleteByAssignment(ctx context.Context, assignmentID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"assignmentId": assignmentID})
	return err
}
