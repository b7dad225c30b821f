package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"users-rest-api/internal/domain/user"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func userDoc(id primitive.ObjectID, name, email, location string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "location", Value: location},
	}
}

func TestUserRepoMongo_List(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes documents", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		ns := mt.DB.Name() + "." + CollectionName

		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userDoc(id1, "Ada", "ada@example.com", "London"),
			userDoc(id2, "Grace", "grace@example.com", "New York"),
		))

		users, err := repo.List(context.Background(), 5)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, user.User{ID: id1.Hex(), Name: "Ada", Email: "ada@example.com", Location: "London"}, users[0])
		assert.Equal(mt, id2.Hex(), users[1].ID)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		ns := mt.DB.Name() + "." + CollectionName

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		users, err := repo.List(context.Background(), 5)
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("query failure", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "interrupted at shutdown",
		}))

		users, err := repo.List(context.Background(), 5)
		assert.Nil(mt, users)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to query users")
	})

	mt.Run("invalid limit", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())

		_, err := repo.List(context.Background(), 0)
		assert.Error(mt, err)
	})
}

func TestUserRepoMongo_InsertMany(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		ids, err := repo.InsertMany(context.Background(), []user.User{
			{Name: "Ada", Email: "ada@example.com", Location: "London"},
			{Name: "Grace", Email: "grace@example.com", Location: "New York"},
		})
		require.NoError(mt, err)
		require.Len(mt, ids, 2)
		for _, id := range ids {
			_, err := primitive.ObjectIDFromHex(id)
			assert.NoError(mt, err)
		}
	})

	mt.Run("rejects incomplete user before writing", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())

		_, err := repo.InsertMany(context.Background(), []user.User{
			{Name: "Ada", Email: "ada@example.com", Location: "London"},
			{Name: "Nobody"},
		})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "user 1")
		assert.Contains(mt, err.Error(), "missing email, location")
	})

	mt.Run("nothing to insert", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())

		ids, err := repo.InsertMany(context.Background(), nil)
		assert.NoError(mt, err)
		assert.Empty(mt, ids)
	})
}

func TestUserRepoMongo_DeleteAll(t *testing.T) {
	mt := newMockT(t)

	mt.Run("reports deleted count", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := repo.DeleteAll(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestUserRepoMongo_EnsureSchema(t *testing.T) {
	mt := newMockT(t)

	mt.Run("creates collection", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureSchema(context.Background()))
	})

	mt.Run("updates existing collection", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    namespaceExists,
				Name:    "NamespaceExists",
				Message: "Collection already exists",
			}),
			mtest.CreateSuccessResponse(),
		)

		assert.NoError(mt, repo.EnsureSchema(context.Background()))
	})

	mt.Run("propagates other errors", func(mt *mtest.T) {
		repo := NewUserRepoMongo(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		err := repo.EnsureSchema(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create users collection")
	})
}

func TestUserValidator(t *testing.T) {
	schema := UserValidator()["$jsonSchema"].(bson.M)
	assert.Equal(t, bson.A{"name", "email", "location"}, schema["required"])
}
