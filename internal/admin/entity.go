package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ukane-philemon/srecords/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CollectionName is the name of the admin collection.
	CollectionName = "admin"

	usernameKey = "username"
)

// errBadCredentials is returned for both unknown usernames and wrong
// passwords.
var errBadCredentials = fmt.Errorf("%w: username or password is incorrect", db.ErrInvalidRequest)

// missingAccountHash is compared against when no account matches, so a
// failed lookup costs as much as a wrong password.
var missingAccountHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("missing account"), bcrypt.DefaultCost)
	return hash
})

// Account is an admin account document.
type Account struct {
	ID             string `json:"_id" bson:"_id"`
	Username       string `json:"username" bson:"username"`
	HashedPassword string `json:"hashedPassword" bson:"hashedPassword"`
	CreatedAt      int64  `json:"createdAt" bson:"createdAt"`
}

// AdminRepository implements Repository.
type AdminRepository struct {
	guard           *db.Guard
	adminCollection *mongo.Collection
}

// NewRepository creates a new instance of *AdminRepository.
func NewRepository(guard *db.Guard) *AdminRepository {
	return &AdminRepository{
		guard:           guard,
		adminCollection: guard.Collection(CollectionName),
	}
}

// EnsureIndexes creates a unique index on the admin username.
func (ar *AdminRepository) EnsureIndexes(ctx context.Context) error {
	if err := ar.guard.Ready(); err != nil {
		return err
	}

	_, err := ar.adminCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{
			Key:   usernameKey,
			Value: 1,
		}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("adminCollection.Indexes().CreateOne error: %w", err)
	}

	return nil
}

// CreateAccount implements Repository.
func (ar *AdminRepository) CreateAccount(ctx context.Context, username, password string) (string, error) {
	if err := ar.guard.Ready(); err != nil {
		return "", err
	}

	if normalizeUsername(username) == "" || password == "" {
		return "", fmt.Errorf("%w: missing username or password", db.ErrInvalidRequest)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword error: %w", err)
	}

	account := &Account{
		ID:             primitive.NewObjectID().Hex(),
		Username:       normalizeUsername(username),
		HashedPassword: string(passwordHash),
		CreatedAt:      time.Now().Unix(),
	}

	_, err = ar.adminCollection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: please try another username", db.ErrInvalidRequest)
		}
		return "", fmt.Errorf("adminCollection.InsertOne error: %w", err)
	}

	return account.ID, nil
}

// LoginAccount implements Repository. Usernames are matched case
// insensitively.
func (ar *AdminRepository) LoginAccount(ctx context.Context, username, password string) (string, error) {
	if err := ar.guard.Ready(); err != nil {
		return "", err
	}

	account := new(Account)
	err := ar.adminCollection.FindOne(ctx, bson.M{usernameKey: normalizeUsername(username)}).Decode(account)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		_ = bcrypt.CompareHashAndPassword(missingAccountHash(), []byte(password))
		return "", errBadCredentials
	case err != nil:
		return "", fmt.Errorf("adminCollection.FindOne error: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)) != nil {
		return "", errBadCredentials
	}

	return account.ID, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
