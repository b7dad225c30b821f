package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"users-rest-api/internal/domain/user"
	"users-rest-api/pkg/logger"
)

// CollectionName is the collection holding user records.
const CollectionName = "users"

// UserRepoMongo implements the user Repository on a MongoDB collection.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a repository over the users collection of db.
func NewUserRepoMongo(db *mongo.Database, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: db.Collection(CollectionName), log: log}
}

// UserSchema is the stored document shape of a user.
type UserSchema struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Location string             `bson:"location"`
}

func (s UserSchema) toDomain() user.User {
	u := user.User{Name: s.Name, Email: s.Email, Location: s.Location}
	if !s.ID.IsZero() {
		u.ID = s.ID.Hex()
	}
	return u
}

// List returns up to limit users with no filter, in natural store order.
func (r *UserRepoMongo) List(ctx context.Context, limit int64) ([]user.User, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}

	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		logger.WithContext(ctx, r.log).Error("failed to query users", zap.Int64("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []UserSchema
	if err := cur.All(ctx, &docs); err != nil {
		logger.WithContext(ctx, r.log).Error("failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// InsertMany validates and stores users, returning the new IDs in input order.
func (r *UserRepoMongo) InsertMany(ctx context.Context, users []user.User) ([]string, error) {
	if len(users) == 0 {
		return nil, nil
	}

	docs := make([]any, len(users))
	ids := make([]string, len(users))
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
		id := primitive.NewObjectID()
		docs[i] = UserSchema{
			ID:       id,
			Name:     users[i].Name,
			Email:    users[i].Email,
			Location: users[i].Location,
		}
		ids[i] = id.Hex()
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		r.log.Error("failed to insert users", zap.Int("count", len(docs)), zap.Error(err))
		return nil, fmt.Errorf("failed to insert users: %w", err)
	}

	r.log.Info("users inserted", zap.Int("count", len(docs)))
	return ids, nil
}

// DeleteAll removes every user document.
func (r *UserRepoMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	r.log.Info("users deleted", zap.Int64("count", res.DeletedCount))
	return res.DeletedCount, nil
}

// namespaceExists is the server error code returned when creating an existing collection.
const namespaceExists = 48

// EnsureSchema installs the user validator on the collection, creating it if needed.
func (r *UserRepoMongo) EnsureSchema(ctx context.Context) error {
	db := r.coll.Database()

	err := db.CreateCollection(ctx, CollectionName, options.CreateCollection().SetValidator(UserValidator()))
	if err == nil {
		r.log.Info("users collection created with validator")
		return nil
	}

	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != namespaceExists {
		return fmt.Errorf("failed to create users collection: %w", err)
	}

	cmd := bson.D{
		{Key: "collMod", Value: CollectionName},
		{Key: "validator", Value: UserValidator()},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("failed to update users validator: %w", err)
	}

	r.log.Info("users collection validator updated")
	return nil
}

// UserValidator is the $jsonSchema enforcing non-empty name, email and location.
func UserValidator() bson.M {
	requiredString := bson.M{"bsonType": "string", "minLength": 1}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "location"},
			"properties": bson.M{
				"name":     requiredString,
				"email":    requiredString,
				"location": requiredString,
			},
		},
	}
}
