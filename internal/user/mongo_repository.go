package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "users"

type userDocument struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Email             string        `bson:"email"`
	Password          string        `bson:"password"`
	Subscription      string        `bson:"subscription"`
	Token             *string       `bson:"token"`
	AvatarURL         string        `bson:"avatarURL"`
	VerificationToken *string       `bson:"verificationToken"`
	Verify            bool          `bson:"verify"`
	CreatedAt         time.Time     `bson:"createdAt"`
}

func (d userDocument) toUser() *User {
	return &User{
		ID:                d.ID.Hex(),
		Email:             d.Email,
		PasswordHash:      d.Password,
		Subscription:      Subscription(d.Subscription),
		Token:             d.Token,
		AvatarURL:         d.AvatarURL,
		VerificationToken: d.VerificationToken,
		Verify:            d.Verify,
		CreatedAt:         d.CreatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique email index and the verification token lookup index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	doc := userDocument{
		ID:                bson.NewObjectID(),
		Email:             u.Email,
		Password:          u.PasswordHash,
		Subscription:      string(u.Subscription),
		Token:             u.Token,
		AvatarURL:         u.AvatarURL,
		VerificationToken: u.VerificationToken,
		Verify:            u.Verify,
		CreatedAt:         u.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, bson.M{"verificationToken": token})
}

func (r *MongoRepository) SetToken(ctx context.Context, id string, token *string) error {
	return r.set(ctx, id, bson.M{"token": token})
}

func (r *MongoRepository) MarkVerified(ctx context.Context, id string) error {
	return r.set(ctx, id, bson.M{"verify": true, "verificationToken": nil})
}

func (r *MongoRepository) SetAvatarURL(ctx context.Context, id, avatarURL string) error {
	return r.set(ctx, id, bson.M{"avatarURL": avatarURL})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *MongoRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*MongoRepository)(nil)
