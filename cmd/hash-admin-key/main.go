package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/service"
)

// Prints a bcrypt hash for ADMIN_KEY_HASH. The key is read without echo.
func main() {
	cfg := config.Load()
	authService := service.NewAuthService(cfg)

	fmt.Fprint(os.Stderr, "Enter admin key: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading key")
		os.Exit(1)
	}
	if len(first) < 8 {
		fmt.Fprintln(os.Stderr, "Error: key must be at least 8 characters")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Repeat admin key: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil || string(first) != string(second) {
		fmt.Fprintln(os.Stderr, "Error: keys do not match")
		os.Exit(1)
	}

	hash, err := authService.HashKey(string(first))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ADMIN_KEY_HASH=%s\n", hash)
}
