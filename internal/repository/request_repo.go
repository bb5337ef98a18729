package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surakshaconnect/internal/model"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrStatusConflict  = errors.New("request status changed concurrently")
)

// RequestRepo stores verification requests. Requests are only appended and
// updated in place, never deleted.
type RequestRepo interface {
	Create(ctx context.Context, req *model.VerificationRequest) error
	GetByID(ctx context.Context, id string) (*model.VerificationRequest, error)
	// UpdateStatus moves a request from one status to another, failing with
	// ErrStatusConflict when the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error
	// List returns requests in insertion order, optionally filtered by status.
	List(ctx context.Context, status *model.RequestStatus) ([]model.VerificationRequest, error)
}

type mongoRequestRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoRequestRepo creates a MongoDB backed request repository
func NewMongoRequestRepo(db *mongo.Database) RequestRepo {
	return &mongoRequestRepo{
		collection: db.Collection("verification_requests"),
		counters:   db.Collection("counters"),
	}
}

func (r *mongoRequestRepo) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "verification_requests"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *mongoRequestRepo) Create(ctx context.Context, req *model.VerificationRequest) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence: %w", err)
	}
	req.Seq = seq

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*model.VerificationRequest, error) {
	var req model.VerificationRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *mongoRequestRepo) UpdateStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return ErrStatusConflict
}

func (r *mongoRequestRepo) List(ctx context.Context, status *model.RequestStatus) ([]model.VerificationRequest, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := make([]model.VerificationRequest, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
