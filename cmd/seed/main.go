// Command main runs the database seeder for Echowall.
package main

import (
	"flag"
	"log"

	"echowall/internal/config"
	"echowall/internal/database"
	"echowall/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	votesPerUser := flag.Int("votes", 10, "Votes each user casts")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding: %d users, %d posts, %d votes/user, clean=%v",
		*numUsers, *numPosts, *votesPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	posts, err := s.SeedPosts(users, *numPosts)
	if err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}
	votes, err := s.SeedVotes(users, posts, *votesPerUser)
	if err != nil {
		log.Fatalf("Vote seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d votes", len(users), len(posts), votes)
	log.Printf("All seeded users share the password %q", seed.Password)
}
