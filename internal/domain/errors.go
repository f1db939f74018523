package domain

import (
	"errors"
	"fmt"
)

// Base sentinel errors. Handlers translate these to protocol status codes;
// nothing below the transport layer knows about HTTP.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
)

// Specific not-found errors, each distinguishable with errors.Is but still
// matching the ErrNotFound base.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrChatNotFound        = fmt.Errorf("chat %w", ErrNotFound)
	ErrMessageNotFound     = fmt.Errorf("message %w", ErrNotFound)
	ErrPermissionsNotFound = fmt.Errorf("chat permissions %w", ErrNotFound)
)

// Authorization failures, each wrapping ErrForbidden with a specific reason.
var (
	ErrNotChatMember           = fmt.Errorf("%w: user is not a member of this chat", ErrForbidden)
	ErrNotChatOwner            = fmt.Errorf("%w: user is not the owner of this chat", ErrForbidden)
	ErrCannotSendMessages      = fmt.Errorf("%w: user cannot send messages in this chat", ErrForbidden)
	ErrCannotChangePermissions = fmt.Errorf("%w: user cannot change permissions in this chat", ErrForbidden)
	ErrCannotRemoveMembers     = fmt.Errorf("%w: user cannot remove members from this chat", ErrForbidden)
	ErrCannotDeleteMessages    = fmt.Errorf("%w: user cannot delete other users' messages", ErrForbidden)
	ErrSelfPermissionChange    = fmt.Errorf("%w: users cannot change their own permissions", ErrForbidden)
	ErrOwnerNotRemovable       = fmt.Errorf("%w: the chat owner cannot be removed", ErrForbidden)
	ErrOwnerPermissionsFixed   = fmt.Errorf("%w: the owner's permissions cannot be changed", ErrForbidden)
	ErrNotGroupChat            = fmt.Errorf("%w: operation is only valid for group chats", ErrForbidden)
)

// Client-side conflicts.
var (
	ErrSelfChat          = fmt.Errorf("%w: cannot create a private chat with yourself", ErrConflict)
	ErrPrivateChatExists = fmt.Errorf("%w: a private chat between these users already exists", ErrConflict)
	ErrAlreadyChatMember = fmt.Errorf("%w: user is already a member of this chat", ErrConflict)
	ErrTargetNotMember   = fmt.Errorf("%w: target user is not a member of this chat", ErrConflict)
	ErrMessageNotInChat  = fmt.Errorf("%w: message does not belong to this chat", ErrConflict)
	ErrUsernameTaken     = fmt.Errorf("%w: username already registered", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrConflict)
)

// ErrProvider marks failures of external AI/photo providers. These never
// surface to callers of the message pipeline; they are converted into
// synthetic reply messages.
var ErrProvider = errors.New("provider error")
