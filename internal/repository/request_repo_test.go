package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"surakshaconnect/internal/model"
)

func requestDoc(id string, seq int64, status model.RequestStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "seq", Value: seq},
		{Key: "content", Value: "report " + id},
		{Key: "location", Value: "Ward 1"},
		{Key: "urgencyScore", Value: 50},
		{Key: "status", Value: string(status)},
	}
}

func requestsNS(mt *mtest.T) string {
	return mt.DB.Name() + ".verification_requests"
}

func TestMongoRequestRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns sequence", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: "verification_requests"},
				{Key: "seq", Value: int64(7)},
			}}),
			mtest.CreateSuccessResponse(),
		)

		req := &model.VerificationRequest{ID: "r7", Content: "fire", Status: model.StatusPending}
		require.NoError(mt, repo.Create(ctx, req))
		assert.Equal(mt, int64(7), req.Seq)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch,
			requestDoc("r1", 1, model.StatusPending)))

		req, err := repo.GetByID(ctx, "r1")
		require.NoError(mt, err)
		require.NotNil(mt, req)
		assert.Equal(mt, "r1", req.ID)
		assert.Equal(mt, model.StatusPending, req.Status)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch))

		req, err := repo.GetByID(ctx, "nope")
		require.NoError(mt, err)
		assert.Nil(mt, req)
	})

	mt.Run("update status matched", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.UpdateStatus(ctx, "r1", model.StatusPending, model.StatusVerified)
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("update status conflict", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int64(1)}}),
		)

		err := repo.UpdateStatus(ctx, "r1", model.StatusPending, model.StatusFlagged)
		assert.ErrorIs(mt, err, ErrStatusConflict)
	})

	mt.Run("update status not found", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch),
		)

		err := repo.UpdateStatus(ctx, "missing", model.StatusPending, model.StatusFlagged)
		assert.ErrorIs(mt, err, ErrRequestNotFound)
	})

	mt.Run("list all in insertion order", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch,
			requestDoc("r1", 1, model.StatusPending),
			requestDoc("r2", 2, model.StatusFlagged),
		))

		requests, err := repo.List(ctx, nil)
		require.NoError(mt, err)
		require.Len(mt, requests, 2)
		assert.Equal(mt, "r1", requests[0].ID)
		assert.Equal(mt, "r2", requests[1].ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		_, err = filter.LookupErr("status")
		assert.Error(mt, err)
		assert.Equal(mt, int64(1), started.Command.Lookup("sort", "seq").AsInt64())
	})

	mt.Run("list filtered by status", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch,
			requestDoc("r2", 2, model.StatusFlagged),
		))

		flagged := model.StatusFlagged
		requests, err := repo.List(ctx, &flagged)
		require.NoError(mt, err)
		require.Len(mt, requests, 1)
		assert.Equal(mt, model.StatusFlagged, requests[0].Status)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "flagged", started.Command.Lookup("filter", "status").StringValue())
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoRequestRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, requestsNS(mt), mtest.FirstBatch))

		requests, err := repo.List(ctx, nil)
		require.NoError(mt, err)
		assert.NotNil(mt, requests)
		assert.Empty(mt, requests)
	})
}
