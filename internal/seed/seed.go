// Package seed populates the database with realistic fake data for local
// development and demos.
package seed

import (
	"fmt"
	"math/rand"

	"echowall/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plaintext password shared by all seeded users.
const Password = "password123"

// Seeder creates fake users, posts and votes.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all seeded data. Votes go first to respect references.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM votes",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}
	return nil
}

// SeedUsers creates n users with unique fake emails and the shared password.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			// Prefix with the index so generated emails never collide.
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates n posts with random owners drawn from users.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed posts without users")
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 12, " "),
			Published: gofakeit.Bool(),
			OwnerID:   users[rand.Intn(len(users))].ID,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("seeding post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedVotes has each user vote for a random subset of posts. Duplicate picks
// are skipped by the composite key, so the exact count varies.
func (s *Seeder) SeedVotes(users []models.User, posts []models.Post, perUser int) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	created := 0
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			vote := models.Vote{
				UserID: user.ID,
				PostID: posts[rand.Intn(len(posts))].ID,
			}
			err := s.db.Create(&vote).Error
			if err != nil {
				// Same (user, post) drawn twice; move on.
				continue
			}
			created++
		}
	}
	return created, nil
}
