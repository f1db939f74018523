package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"messenger_go/internal/domain"
)

type chatDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Name      string    `bson:"name"`
	IsGroup   bool      `bson:"is_group"`
	OwnerID   int64     `bson:"owner_id"`
	MemberIDs []int64   `bson:"member_ids"`
}

func toChatDoc(c *domain.Chat) chatDoc {
	return chatDoc{
		ID:        c.ID.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Name:      c.Name,
		IsGroup:   c.IsGroup,
		OwnerID:   c.OwnerID,
		MemberIDs: c.MemberIDs,
	}
}

func (d chatDoc) toEntity() (*domain.Chat, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse chat id %q: %w", d.ID, err)
	}
	return &domain.Chat{
		ID:        id,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Name:      d.Name,
		IsGroup:   d.IsGroup,
		OwnerID:   d.OwnerID,
		MemberIDs: d.MemberIDs,
	}, nil
}

type ChatRepo struct {
	col *mongo.Collection
}

func NewChatRepo(db *mongo.Database) *ChatRepo {
	return &ChatRepo{col: db.Collection(chatsCollection)}
}

var _ domain.ChatRepository = (*ChatRepo)(nil)

func (r *ChatRepo) Add(ctx context.Context, c *domain.Chat) error {
	if _, err := r.col.InsertOne(ctx, toChatDoc(c)); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func (r *ChatRepo) Get(ctx context.Context, chatID uuid.UUID) (*domain.Chat, error) {
	return r.findOne(ctx, bson.M{"_id": chatID.String()})
}

func (r *ChatRepo) GetPrivateByMemberPair(ctx context.Context, memberA, memberB int64) (*domain.Chat, error) {
	return r.findOne(ctx, bson.M{
		"is_group":   false,
		"member_ids": bson.M{"$all": bson.A{memberA, memberB}, "$size": 2},
	})
}

func (r *ChatRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.Chat, error) {
	cursor, err := r.col.Find(ctx, bson.M{"member_ids": userID})
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer cursor.Close(ctx)

	chats := []*domain.Chat{}
	for cursor.Next(ctx) {
		var d chatDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode chat: %w", err)
		}
		c, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, cursor.Err()
}

func (r *ChatRepo) AddMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": chatID.String()},
		bson.M{
			"$addToSet": bson.M{"member_ids": userID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepo) RemoveMember(ctx context.Context, chatID uuid.UUID, userID int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": chatID.String()},
		bson.M{
			"$pull": bson.M{"member_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepo) Delete(ctx context.Context, chatID uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": chatID.String()})
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepo) findOne(ctx context.Context, filter bson.M) (*domain.Chat, error) {
	var d chatDoc
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return d.toEntity()
}
