package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

const usersCollection = "users"

// Index names double as discriminators when mapping duplicate-key errors
// back to the specific conflict.
const (
	idxTenantUsername = "uniq_tenant_username"
	idxTenantEmail    = "uniq_tenant_email"
)

// UserRepository persists users in MongoDB. The compound unique indexes on
// (tenant_id, username) and (tenant_id, email) are the authoritative
// uniqueness guard; the service-level existence checks are a fast path only.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           string   `bson:"_id"`
	TenantID     string   `bson:"tenant_id"`
	Username     string   `bson:"username"`
	Email        string   `bson:"email"`
	PasswordHash string   `bson:"password_hash"`
	Salt         []byte   `bson:"salt"`
	RoleIDs      []string `bson:"role_ids"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

// EnsureIndexes creates the unique compound indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxTenantUsername),
		},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxTenantEmail),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return mapDuplicateUser(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	filter := bson.M{"_id": user.ID.String(), "tenant_id": user.TenantID.String()}
	res, err := r.coll.ReplaceOne(ctx, filter, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return mapDuplicateUser(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID.String(), "tenant_id": tenantID.String()})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID.String(), "tenant_id": tenantID.String()})
}

func (r *UserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"tenant_id": tenantID.String(), "username": username})
}

func (r *UserRepository) List(ctx context.Context, tenantID uuid.UUID) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"tenant_id": tenantID.String()})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list users: decode: %w", err)
		}
		user, err := fromUserDoc(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, cur.Err()
}

func (r *UserRepository) UsernameExists(ctx context.Context, tenantID uuid.UUID, username string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, bson.M{"tenant_id": tenantID.String(), "username": username}, excludeID)
}

func (r *UserRepository) EmailExists(ctx context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, bson.M{"tenant_id": tenantID.String(), "email": email}, excludeID)
}

// DetachRole pulls the role id from every user of the tenant holding it.
func (r *UserRepository) DetachRole(ctx context.Context, tenantID, roleID uuid.UUID) error {
	filter := bson.M{"tenant_id": tenantID.String(), "role_ids": roleID.String()}
	update := bson.M{"$pull": bson.M{"role_ids": roleID.String()}}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("detach role: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromUserDoc(doc)
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M, excludeID uuid.UUID) (bool, error) {
	if excludeID != uuid.Nil {
		filter["_id"] = bson.M{"$ne": excludeID.String()}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return n > 0, nil
}

// mapDuplicateUser converts a duplicate-key error to the conflict matching
// the violated index.
func mapDuplicateUser(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, idxTenantEmail):
		return domain.ErrEmailTaken
	default:
		return domain.ErrUsernameTaken
	}
}

func toUserDoc(user *domain.User) userDoc {
	roleIDs := make([]string, 0, len(user.Roles))
	for _, ur := range user.Roles {
		roleIDs = append(roleIDs, ur.RoleID.String())
	}
	return userDoc{
		ID:           user.ID.String(),
		TenantID:     user.TenantID.String(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Salt:         user.Salt,
		RoleIDs:      roleIDs,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}
}

func fromUserDoc(doc userDoc) (*domain.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("user %q: bad id: %w", doc.ID, err)
	}
	tenantID, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return nil, fmt.Errorf("user %q: bad tenant id: %w", doc.ID, err)
	}

	user := &domain.User{
		ID:           id,
		TenantID:     tenantID,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Salt:         doc.Salt,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
	for _, raw := range doc.RoleIDs {
		roleID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("user %q: bad role id %q: %w", doc.ID, raw, err)
		}
		user.Roles = append(user.Roles, domain.UserRole{UserID: id, RoleID: roleID, TenantID: tenantID})
	}
	return user, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
