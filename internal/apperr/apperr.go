package apperr

import "errors"

// Sentinel errors for business-rule violations. Services wrap these with
// context via fmt.Errorf("...: %w", ...) so handlers can classify them
// with errors.Is while keeping the original message.
var (
	// ErrInvalidArgument marks malformed input rejected before any storage access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateSwipe marks a second swipe on the same (swiper, target) pair.
	// The ledger is append-only; a decision cannot be changed.
	ErrDuplicateSwipe = errors.New("duplicate swipe")

	// ErrDuplicateLike marks a repeated like by the same user on the same post.
	ErrDuplicateLike = errors.New("duplicate like")

	// ErrForbidden marks an access-policy rejection.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing referenced record.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a transient infrastructure failure after retries
	// are exhausted.
	ErrUnavailable = errors.New("storage unavailable")
)

func InvalidArgument(msg string) error {
	return wrapped{msg: msg, sentinel: ErrInvalidArgument}
}

func Forbidden(msg string) error {
	return wrapped{msg: msg, sentinel: ErrForbidden}
}

func NotFound(msg string) error {
	return wrapped{msg: msg, sentinel: ErrNotFound}
}

type wrapped struct {
	msg      string
	sentinel error
}

func (w wrapped) Error() string { return w.msg }
func (w wrapped) Unwrap() error { return w.sentinel }
