package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords.
//  3. Generates swipes with ~70% likes; every 3rd pair gets a reciprocal
//     like and the canonical match is materialized, matching what the
//     resolver would have produced.
//  4. Seeds a message per early match so last-message summaries render.
//  5. Seeds a few posts with likes/comments, counters kept consistent with
//     the child rows.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "likes", "comments", "posts", "blocks", "reports", "users"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender, prefs := "male", "female"
		if i > 10 {
			gender, prefs = "female", "male"
		}

		user := User{
			ID:           NewID(),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			GenderPrefs:  prefs,
			LastActiveAt: time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Println("Seeded 20 users.")

	// --- Seed Swipes and Matches ---
	seen := map[string]bool{}
	counter := 0
	var matches []Match
	for i := range users {
		for j := 0; j < 12; j++ {
			target := users[r.Intn(len(users))]
			if users[i].ID == target.ID || users[i].Gender == target.Gender {
				continue
			}
			key := users[i].ID + ":" + target.ID
			if seen[key] {
				continue
			}
			seen[key] = true

			direction := DirectionPass
			if r.Intn(100) < 70 {
				direction = DirectionLike
			}

			// guarantee mutual likes every 3rd pair
			reverse := target.ID + ":" + users[i].ID
			if counter%3 == 0 && !seen[reverse] {
				direction = DirectionLike
				seen[reverse] = true
				if err := database.Create(&Swipe{
					SwiperID:  target.ID,
					TargetID:  users[i].ID,
					Direction: DirectionLike,
				}).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal swipe: %w", err)
				}

				low, high := SortPair(users[i].ID, target.ID)
				match := Match{ID: NewID(), LowUserID: low, HighUserID: high}
				if err := database.Create(&match).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}
				matches = append(matches, match)
			}

			if err := database.Create(&Swipe{
				SwiperID:  users[i].ID,
				TargetID:  target.ID,
				Direction: direction,
			}).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			counter++
		}
	}
	log.Printf("Seeded %d swipes, %d matches.", counter, len(matches))

	// --- Seed a first message per early match ---
	for i, match := range matches {
		if i >= 5 {
			break
		}
		msg := Message{
			ID:       NewID(),
			MatchID:  match.ID,
			SenderID: match.LowUserID,
			Content:  "hey!",
		}
		if err := database.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to seed message: %w", err)
		}
		if err := database.Model(&Match{}).Where("id = ?", match.ID).
			UpdateColumns(map[string]any{
				"last_message_text": msg.Content,
				"last_message_at":   msg.CreatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to seed last message: %w", err)
		}
	}

	// --- Seed Posts with consistent counters ---
	for i := 0; i < 5; i++ {
		author := users[r.Intn(len(users))]
		post := Post{
			ID:       NewID(),
			AuthorID: author.ID,
			Content:  fmt.Sprintf("hello from %s", author.Username),
		}
		if err := database.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}

		likers := r.Intn(6)
		for l := 0; l < likers; l++ {
			if err := database.Create(&Like{
				ID:     NewID(),
				PostID: post.ID,
				UserID: users[l].ID,
			}).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
		}
		if err := database.Create(&Comment{
			ID:       NewID(),
			PostID:   post.ID,
			AuthorID: users[r.Intn(len(users))].ID,
			Content:  "nice!",
		}).Error; err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}

		if err := database.Model(&Post{}).Where("id = ?", post.ID).
			UpdateColumns(map[string]any{
				"likes_count":    likers,
				"comments_count": 1,
			}).Error; err != nil {
			return fmt.Errorf("failed to seed counters: %w", err)
		}
	}
	log.Println("Seeded 5 posts.")

	return nil
}
