package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"messenger_go/internal/domain"
	"messenger_go/internal/provider"
)

// CommandKind tags the in-band bot commands recognized in message content.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandAsk
	CommandPhoto
)

// Command is the parsed form of an in-band directive.
type Command struct {
	Kind  CommandKind
	Query string
}

const (
	askPrefix   = "@ai "
	photoPrefix = "@photo "
)

// ParseCommand inspects message content for a bot command. Matching is
// case-insensitive, requires the trailing space, and the prefixes are mutually
// exclusive with @ai checked first.
func ParseCommand(content string) Command {
	lower := strings.ToLower(content)
	switch {
	case strings.HasPrefix(lower, askPrefix):
		return Command{Kind: CommandAsk, Query: strings.TrimSpace(content[len(askPrefix):])}
	case strings.HasPrefix(lower, photoPrefix):
		return Command{Kind: CommandPhoto, Query: strings.TrimSpace(content[len(photoPrefix):])}
	default:
		return Command{Kind: CommandNone}
	}
}

// CommandDispatcher turns a matched command into a synthetic bot reply by
// calling the external providers. Provider failures are contained: they
// become human-readable reply content instead of errors.
type CommandDispatcher struct {
	asker  provider.Asker
	photos provider.PhotoSearcher
	log    *zap.Logger
}

func NewCommandDispatcher(asker provider.Asker, photos provider.PhotoSearcher, log *zap.Logger) *CommandDispatcher {
	return &CommandDispatcher{
		asker:  asker,
		photos: photos,
		log:    log,
	}
}

// Dispatch evaluates msg's content once and, for a matched command, returns
// the bot reply to persist and broadcast. Non-command content returns nil.
func (d *CommandDispatcher) Dispatch(ctx context.Context, msg *domain.Message) *domain.Message {
	cmd := ParseCommand(msg.Content)

	var content string
	switch cmd.Kind {
	case CommandAsk:
		answer, err := d.asker.Ask(ctx, cmd.Query)
		if err != nil {
			d.log.Warn("ai command failed",
				zap.String("chat_id", msg.ChatID.String()),
				zap.Error(err),
			)
			content = "Sorry, the AI assistant is currently unavailable. Please try again later."
		} else {
			content = answer
		}
	case CommandPhoto:
		imageURL, err := d.photos.Search(ctx, cmd.Query)
		if err != nil {
			d.log.Warn("photo command failed",
				zap.String("chat_id", msg.ChatID.String()),
				zap.Error(err),
			)
			content = "Sorry, no photo could be found for that query."
		} else {
			content = imageURL
		}
	default:
		return nil
	}

	return domain.NewMessage(msg.ChatID, domain.BotSenderID, content)
}
