package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"messenger_go/internal/domain"
)

type permissionsDoc struct {
	ID                     string `bson:"_id"`
	ChatID                 string `bson:"chat_id"`
	UserID                 int64  `bson:"user_id"`
	CanSendMessages        bool   `bson:"can_send_messages"`
	CanChangePermissions   bool   `bson:"can_change_permissions"`
	CanRemoveMembers       bool   `bson:"can_remove_members"`
	CanDeleteOtherMessages bool   `bson:"can_delete_other_messages"`
}

func toPermissionsDoc(p *domain.ChatPermissions) permissionsDoc {
	return permissionsDoc{
		ID:                     p.ID.String(),
		ChatID:                 p.ChatID.String(),
		UserID:                 p.UserID,
		CanSendMessages:        p.CanSendMessages,
		CanChangePermissions:   p.CanChangePermissions,
		CanRemoveMembers:       p.CanRemoveMembers,
		CanDeleteOtherMessages: p.CanDeleteOtherMessages,
	}
}

func (d permissionsDoc) toEntity() (*domain.ChatPermissions, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse permissions id %q: %w", d.ID, err)
	}
	chatID, err := uuid.Parse(d.ChatID)
	if err != nil {
		return nil, fmt.Errorf("parse chat id %q: %w", d.ChatID, err)
	}
	return &domain.ChatPermissions{
		ID:                     id,
		ChatID:                 chatID,
		UserID:                 d.UserID,
		CanSendMessages:        d.CanSendMessages,
		CanChangePermissions:   d.CanChangePermissions,
		CanRemoveMembers:       d.CanRemoveMembers,
		CanDeleteOtherMessages: d.CanDeleteOtherMessages,
	}, nil
}

type PermissionRepo struct {
	col *mongo.Collection
}

func NewPermissionRepo(db *mongo.Database) *PermissionRepo {
	return &PermissionRepo{col: db.Collection(permissionsCollection)}
}

var _ domain.PermissionRepository = (*PermissionRepo)(nil)

func (r *PermissionRepo) Get(ctx context.Context, chatID uuid.UUID, userID int64) (*domain.ChatPermissions, error) {
	var d permissionsDoc
	err := r.col.FindOne(ctx, bson.M{"chat_id": chatID.String(), "user_id": userID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPermissionsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	return d.toEntity()
}

func (r *PermissionRepo) Add(ctx context.Context, p *domain.ChatPermissions) error {
	if _, err := r.col.InsertOne(ctx, toPermissionsDoc(p)); err != nil {
		return fmt.Errorf("insert permissions: %w", err)
	}
	return nil
}

func (r *PermissionRepo) Update(ctx context.Context, chatID uuid.UUID, userID int64, upd domain.PermissionsUpdate) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"chat_id": chatID.String(), "user_id": userID},
		bson.M{"$set": bson.M{
			"can_send_messages":         upd.CanSendMessages,
			"can_change_permissions":    upd.CanChangePermissions,
			"can_remove_members":        upd.CanRemoveMembers,
			"can_delete_other_messages": upd.CanDeleteOtherMessages,
		}},
	)
	if err != nil {
		return fmt.Errorf("update permissions: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPermissionsNotFound
	}
	return nil
}

func (r *PermissionRepo) Delete(ctx context.Context, chatID uuid.UUID, userID int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"chat_id": chatID.String(), "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete permissions: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPermissionsNotFound
	}
	return nil
}

func (r *PermissionRepo) DeleteForChat(ctx context.Context, chatID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"chat_id": chatID.String()}); err != nil {
		return fmt.Errorf("delete chat permissions: %w", err)
	}
	return nil
}
