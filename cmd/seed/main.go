package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Cinebook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"seats",
		"payments",
		"bookings",
		"movies",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds users and the movie catalog
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedMovies(); err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	// Clear Redis cache so seeded data is read fresh
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one admin and two regular users (password "qwerty")
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		name     string
		email    string
		username string
		role     users.Role
	}{
		{"Admin User", "admin@cinebook.dev", "admin", users.RoleAdmin},
		{"Alice Moreau", "alice@cinebook.dev", "alice", users.RoleUser},
		{"Bruno Keller", "bruno@cinebook.dev", "bruno", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Email:     userData.email,
			Username:  userData.username,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedMovies creates a starter catalog
func (s *Seeder) SeedMovies() error {
	fmt.Println("  🎬 Seeding movies...")

	moviesData := []movies.Movie{
		{Title: "Interstellar", Genre: "Sci-Fi", Duration: "2h 49m", Rating: "PG-13", Description: "A team travels through a wormhole in search of a new home for humanity."},
		{Title: "The Grand Budapest Hotel", Genre: "Comedy", Duration: "1h 39m", Rating: "R", Description: "The adventures of a legendary concierge and his lobby boy."},
		{Title: "Parasite", Genre: "Thriller", Duration: "2h 12m", Rating: "R", Description: "A poor family schemes to become employed by a wealthy household."},
		{Title: "Spirited Away", Genre: "Animation", Duration: "2h 5m", Rating: "PG", Description: "A girl wanders into a world ruled by spirits and witches."},
		{Title: "Mad Max: Fury Road", Genre: "Action", Duration: "2h 0m", Rating: "R", Description: "A woman rebels against a tyrannical ruler in a post-apocalyptic wasteland."},
	}

	for i := range moviesData {
		moviesData[i].ID = uuid.New()
		moviesData[i].CreatedAt = time.Now()
		moviesData[i].UpdatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&moviesData[i]).Error; err != nil {
			return fmt.Errorf("failed to create movie %s: %w", moviesData[i].Title, err)
		}
		fmt.Printf("    ✅ Created movie: %s\n", moviesData[i].Title)
	}

	return nil
}
