package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core. Callers match them with errors.Is.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("not enough permissions")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)

// Token decode failures. The session resolver folds all of them into
// ErrUnauthenticated; they never reach a response.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)

var (
	ErrUserNotFound     = newKindError(ErrNotFound, "user not found")
	ErrCategoryNotFound = newKindError(ErrNotFound, "category not found")
	ErrPostNotFound     = newKindError(ErrNotFound, "post not found")
	ErrCommentNotFound  = newKindError(ErrNotFound, "comment not found")
	ErrLikeNotFound     = newKindError(ErrNotFound, "like not found")

	ErrCategoryExists = newKindError(ErrConflict, "category already exists")
	ErrCategoryInUse  = newKindError(ErrConflict, "category still has posts")
	ErrPostTitleTaken = newKindError(ErrConflict, "post title already exists")
	ErrAlreadyLiked   = newKindError(ErrConflict, "post already liked")
)

// KindError is a client-facing error that belongs to one of the kinds above.
// Its message is safe to return in a response.
type KindError struct {
	msg  string
	kind error
}

func newKindError(kind error, msg string) *KindError {
	return &KindError{msg: msg, kind: kind}
}

func (e *KindError) Error() string { return e.msg }

func (e *KindError) Unwrap() error { return e.kind }

// InvalidInput builds an ErrInvalidInput with a client-facing message.
func InvalidInput(msg string) error {
	return newKindError(ErrInvalidInput, msg)
}

// WrapInternal marks err as a server fault. The cause text is kept for logs
// only; responses never see it.
func WrapInternal(err error, op string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

// PublicMessage returns the client-facing message of err, if it carries one.
func PublicMessage(err error) (string, bool) {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.msg, true
	}
	return "", false
}
