package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
)

func TestMatchMembership(t *testing.T) {
	match := &db.Match{ID: "m", LowUserID: "a", HighUserID: "b"}

	assert.NoError(t, policy.CanReadMatch("a", match))
	assert.NoError(t, policy.CanReadMatch("b", match))
	assert.ErrorIs(t, policy.CanReadMatch("c", match), apperr.ErrForbidden)

	assert.NoError(t, policy.CanSendMessage("a", match))
	assert.ErrorIs(t, policy.CanSendMessage("c", match), apperr.ErrForbidden)
}

func TestMarkReadRecipientOnly(t *testing.T) {
	match := &db.Match{ID: "m", LowUserID: "a", HighUserID: "b"}
	msg := &db.Message{ID: "msg", MatchID: "m", SenderID: "a"}

	assert.NoError(t, policy.CanMarkRead("b", match, msg))
	assert.ErrorIs(t, policy.CanMarkRead("a", match, msg), apperr.ErrForbidden)
	assert.ErrorIs(t, policy.CanMarkRead("c", match, msg), apperr.ErrForbidden)
}

func TestOwnershipGuards(t *testing.T) {
	assert.NoError(t, policy.CanUpdateUser("a", "a"))
	assert.ErrorIs(t, policy.CanUpdateUser("a", "b"), apperr.ErrForbidden)

	post := &db.Post{ID: "p", AuthorID: "a"}
	assert.NoError(t, policy.CanDeletePost("a", post))
	assert.ErrorIs(t, policy.CanDeletePost("b", post), apperr.ErrForbidden)

	comment := &db.Comment{ID: "c", AuthorID: "a"}
	assert.NoError(t, policy.CanDeleteComment("a", comment))
	assert.ErrorIs(t, policy.CanDeleteComment("b", comment), apperr.ErrForbidden)
}
