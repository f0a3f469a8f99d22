package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

const rolesCollection = "roles"

const idxTenantRoleName = "uniq_tenant_role_name"

// RoleRepository persists roles in MongoDB with a unique (tenant_id, name)
// index backing the per-tenant name uniqueness invariant.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID          string `bson:"_id"`
	TenantID    string `bson:"tenant_id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
}

// EnsureIndexes creates the unique compound index on the roles collection.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(idxTenantRoleName),
	})
	return err
}

func (r *RoleRepository) Insert(ctx context.Context, role *domain.Role) error {
	if _, err := r.coll.InsertOne(ctx, toRoleDoc(role)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleNameTaken
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	filter := bson.M{"_id": role.ID.String(), "tenant_id": role.TenantID.String()}
	res, err := r.coll.ReplaceOne(ctx, filter, toRoleDoc(role))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleNameTaken
		}
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, tenantID, roleID uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": roleID.String(), "tenant_id": tenantID.String()})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, tenantID, roleID uuid.UUID) (*domain.Role, error) {
	var doc roleDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": roleID.String(), "tenant_id": tenantID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return fromRoleDoc(doc)
}

func (r *RoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, roleIDs []uuid.UUID) ([]domain.Role, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		ids = append(ids, id.String())
	}
	return r.find(ctx, bson.M{"tenant_id": tenantID.String(), "_id": bson.M{"$in": ids}})
}

func (r *RoleRepository) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Role, error) {
	return r.find(ctx, bson.M{"tenant_id": tenantID.String()})
}

func (r *RoleRepository) find(ctx context.Context, filter bson.M) ([]domain.Role, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cur.Close(ctx)

	var roles []domain.Role
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("find roles: decode: %w", err)
		}
		role, err := fromRoleDoc(doc)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, cur.Err()
}

func toRoleDoc(role *domain.Role) roleDoc {
	return roleDoc{
		ID:          role.ID.String(),
		TenantID:    role.TenantID.String(),
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.Unix(),
	}
}

func fromRoleDoc(doc roleDoc) (*domain.Role, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("role %q: bad id: %w", doc.ID, err)
	}
	tenantID, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return nil, fmt.Errorf("role %q: bad tenant id: %w", doc.ID, err)
	}
	return &domain.Role{
		ID:          id,
		TenantID:    tenantID,
		Name:        doc.Name,
		Description: doc.Description,
		CreatedAt:   unixToTime(doc.CreatedAt),
	}, nil
}
