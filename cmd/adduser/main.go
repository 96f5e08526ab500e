// Command adduser registers a local user from the terminal. It talks to the
// same database and runs the same validation and hashing as the server.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/solvexa/authgate/internal/server/config"
	"github.com/solvexa/authgate/internal/server/repositories/repomanager"
	"github.com/solvexa/authgate/internal/server/services"
	"golang.org/x/term"
)

func main() {

	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	svc := services.NewAuthService(db, m, nil, cfg)

	reader := bufio.NewReader(os.Stdin)

	username, err := readLine(reader, "Username")
	if err != nil {
		log.Fatalf("%v", err)
	}
	email, err := readLine(reader, "Email")
	if err != nil {
		log.Fatalf("%v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		log.Fatalf("%v", err)
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		log.Fatalf("%v", err)
	}
	if password != confirm {
		log.Fatal("passwords do not match")
	}

	userID, err := svc.Register(ctx, username, email, password)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("created user %s\n", userID)

}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Printf("%s\n> ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
