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

	"messenger_go/internal/domain"
)

type messageDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Content   string    `bson:"content"`
	IsRead    bool      `bson:"is_read"`
	ReadBy    []int64   `bson:"read_by"`
	SenderID  int64     `bson:"sender_id"`
	ChatID    string    `bson:"chat_id"`
}

func toMessageDoc(m *domain.Message) messageDoc {
	return messageDoc{
		ID:        m.ID.String(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Content:   m.Content,
		IsRead:    m.IsRead,
		ReadBy:    m.ReadBy,
		SenderID:  m.SenderID,
		ChatID:    m.ChatID.String(),
	}
}

func (d messageDoc) toEntity() (*domain.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse message id %q: %w", d.ID, err)
	}
	chatID, err := uuid.Parse(d.ChatID)
	if err != nil {
		return nil, fmt.Errorf("parse chat id %q: %w", d.ChatID, err)
	}
	readBy := d.ReadBy
	if readBy == nil {
		readBy = []int64{}
	}
	return &domain.Message{
		ID:        id,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Content:   d.Content,
		IsRead:    d.IsRead,
		ReadBy:    readBy,
		SenderID:  d.SenderID,
		ChatID:    chatID,
	}, nil
}

type MessageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{col: db.Collection(messagesCollection)}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Add(ctx context.Context, m *domain.Message) error {
	if _, err := r.col.InsertOne(ctx, toMessageDoc(m)); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) Get(ctx context.Context, messageID uuid.UUID) (*domain.Message, error) {
	var d messageDoc
	err := r.col.FindOne(ctx, bson.M{"_id": messageID.String()}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	return d.toEntity()
}

func (r *MessageRepo) ListForChat(ctx context.Context, chatID uuid.UUID, offset, limit int, ordering domain.Order) ([]*domain.Message, error) {
	dir := 1
	if ordering == domain.OrderDesc {
		dir = -1
	}

	// Ties on created_at are broken by _id for a deterministic order.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, bson.M{"chat_id": chatID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	msgs := []*domain.Message{}
	for cursor.Next(ctx) {
		var d messageDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		m, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, cursor.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, messageID uuid.UUID, userID int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": messageID.String()},
		bson.M{
			"$addToSet": bson.M{"read_by": userID},
			"$set": bson.M{
				"is_read":    true,
				"updated_at": time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) Delete(ctx context.Context, messageID uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": messageID.String()})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) DeleteForChat(ctx context.Context, chatID uuid.UUID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"chat_id": chatID.String()}); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	return nil
}
