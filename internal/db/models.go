package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque identifier for any entity.
func NewID() string {
	return uuid.NewString()
}

// Direction is a swipe decision.
type Direction string

const (
	DirectionLike      Direction = "like"
	DirectionPass      Direction = "pass"
	DirectionSuperLike Direction = "super_like"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionLike, DirectionPass, DirectionSuperLike:
		return true
	}
	return false
}

// Positive reports whether d counts toward a mutual like.
func (d Direction) Positive() bool {
	return d == DirectionLike || d == DirectionSuperLike
}

// User table
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Gender       string `gorm:"size:16;not null"`
	GenderPrefs  string `gorm:"size:64"` // comma-joined preference set
	Bio          string `gorm:"size:512"`
	Lat          *float64
	Lon          *float64
	LastActiveAt time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Swipe is one directional decision in the append-only ledger.
//
// Composite PK: (SwiperID, TargetID)
//   - At most one row per ordered pair. A second insert for the same pair
//     fails at the storage layer; the ledger is never overwritten.
//
// Index idx_target_swiper_direction(target_id, swiper_id, direction)
// makes the reciprocal lookup in match resolution a point read.
type Swipe struct {
	SwiperID  string    `gorm:"primaryKey;size:36;index:idx_target_swiper_direction,priority:2"`
	TargetID  string    `gorm:"primaryKey;size:36;index:idx_target_swiper_direction,priority:1"`
	Direction Direction `gorm:"size:16;not null;index:idx_target_swiper_direction,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is a bidirectional connection between exactly two users.
//
// The pair is stored canonically (LowUserID < HighUserID by string
// comparison) and idx_match_pair enforces at most one match per unordered
// pair regardless of which swipe triggered resolution. Last-message fields
// are denormalized for list display and mutated only by the chat service.
type Match struct {
	ID              string    `gorm:"primaryKey;size:36"`
	LowUserID       string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:1;index"`
	HighUserID      string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:2;index"`
	LastMessageText *string   `gorm:"size:512"`
	LastMessageAt   *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// HasMember reports whether userID is one of the match's two members.
func (m *Match) HasMember(userID string) bool {
	return m.LowUserID == userID || m.HighUserID == userID
}

// OtherMember returns the member that is not userID.
func (m *Match) OtherMember(userID string) string {
	if m.LowUserID == userID {
		return m.HighUserID
	}
	return m.LowUserID
}

// SortPair returns the canonical (low, high) ordering of two user ids.
// Every code path that constructs or looks up a match pair must go through
// this function; the idx_match_pair uniqueness invariant depends on it.
func SortPair(a, b string) (low, high string) {
	if strings.Compare(a, b) < 0 {
		return a, b
	}
	return b, a
}

// Message belongs to exactly one match.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36"`
	MatchID   string    `gorm:"size:36;not null;index:idx_match_created,priority:1"`
	SenderID  string    `gorm:"size:36;not null"`
	Content   string    `gorm:"size:2048"`
	ImageRef  string    `gorm:"size:512"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_match_created,priority:2,sort:desc"`
}

// Post carries denormalized like/comment counters. The counters are derived
// state: only the community service's like/comment paths may touch them, and
// always via an atomic in-place increment.
type Post struct {
	ID            string    `gorm:"primaryKey;size:36"`
	AuthorID      string    `gorm:"size:36;not null;index"`
	Content       string    `gorm:"type:text;not null"`
	ImageRef      string    `gorm:"size:512"`
	LikesCount    int64     `gorm:"not null;default:0"`
	CommentsCount int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Like is one user's like on a post. idx_post_user prevents double-counting
// from repeated likes by the same user.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_user,priority:1"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_user,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PostID    string    `gorm:"size:36;not null;index"`
	AuthorID  string    `gorm:"size:36;not null"`
	Content   string    `gorm:"size:2048;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Block suppresses future swipes between blocker and blocked, in both
// directions, at the swipe ledger.
type Block struct {
	ID        string    `gorm:"primaryKey;size:36"`
	BlockerID string    `gorm:"size:36;not null;uniqueIndex:idx_blocker_blocked,priority:1"`
	BlockedID string    `gorm:"size:36;not null;uniqueIndex:idx_blocker_blocked,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Report struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ReporterID string    `gorm:"size:36;not null;index"`
	ReportedID string    `gorm:"size:36;not null"`
	Reason     string    `gorm:"size:512;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
