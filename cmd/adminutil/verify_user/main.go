package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/storage"
	"github.com/sudo-init-do/contactbook/internal/user"
)

func main() {
	email := flag.String("email", "", "Email of the user to mark as verified")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/verify_user -email user@example.com")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := storage.Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer stores.Close()

	u, err := stores.Users.FindByEmail(ctx, user.NormalizeEmail(*email))
	if errors.Is(err, user.ErrNotFound) {
		log.Fatalf("no user found with email: %s", *email)
	}
	if err != nil {
		log.Fatalf("failed to look up user: %v", err)
	}
	if u.Verify {
		fmt.Printf("User %s is already verified.\n", u.Email)
		return
	}

	if err := stores.Users.MarkVerified(ctx, u.ID); err != nil {
		log.Fatalf("failed to verify user: %v", err)
	}
	fmt.Printf("User %s marked as verified.\n", u.Email)
}
