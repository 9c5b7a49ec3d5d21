// Package policy is the row-level authorization layer: pure guards invoked
// by handlers before any business logic runs. No function here mutates state.
package policy

import (
	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// CanReadMatch allows only a member of the match.
func CanReadMatch(callerID string, match *db.Match) error {
	if !match.HasMember(callerID) {
		return apperr.Forbidden("not a member of this match")
	}
	return nil
}

// CanSendMessage allows only a member, and the message must be sent as the
// caller.
func CanSendMessage(callerID string, match *db.Match) error {
	if !match.HasMember(callerID) {
		return apperr.Forbidden("not a member of this match")
	}
	return nil
}

// CanMarkRead allows only the recipient of a message to flip its read flag.
func CanMarkRead(callerID string, match *db.Match, msg *db.Message) error {
	if !match.HasMember(callerID) {
		return apperr.Forbidden("not a member of this match")
	}
	if msg.SenderID == callerID {
		return apperr.Forbidden("sender cannot mark own message read")
	}
	return nil
}

// CanUpdateUser allows only the owner to change their record.
func CanUpdateUser(callerID, userID string) error {
	if callerID != userID {
		return apperr.Forbidden("can only update your own profile")
	}
	return nil
}

// CanDeletePost allows only the author.
func CanDeletePost(callerID string, post *db.Post) error {
	if post.AuthorID != callerID {
		return apperr.Forbidden("not the author of this post")
	}
	return nil
}

// CanDeleteComment allows only the author.
func CanDeleteComment(callerID string, comment *db.Comment) error {
	if comment.AuthorID != callerID {
		return apperr.Forbidden("not the author of this comment")
	}
	return nil
}
