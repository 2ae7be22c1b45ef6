// Command adduser provisions a user account. The API itself never creates users.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	pkgdb "github.com/Skotchmaster/fieldops/pkg/db"
	"github.com/Skotchmaster/fieldops/pkg/hash"
)

// opener returns the database together with its release func.
type opener func(ctx context.Context, dsn string) (*gorm.DB, func(), error)

func openPostgres(ctx context.Context, dsn string) (*gorm.DB, func(), error) {
	db, err := pkgdb.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { pkgdb.Close(db) }, nil
}

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, openPostgres); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, open opener) error {
	fs := pflag.NewFlagSet("adduser", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "login email")
	role := fs.String("role", "employee", "one of employee, accountant, manager, admin")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	employeeID := fs.String("employee-id", "", "staff number")
	passwordFlag := fs.String("password", "", "password (prompted when omitted)")
	dsn := fs.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
	migrate := fs.Bool("migrate", false, "create or update tables before inserting")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"email", *email},
		{"first-name", *first},
		{"last-name", *last},
		{"database-url", *dsn},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	r, err := roles.Parse(*role)
	if err != nil {
		return err
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		if password, err = readPassword(stdin); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, release, err := open(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer release()

	store := &repo.GormRepo{DB: db}
	if *migrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        *email,
		PasswordHash: pwHash,
		Role:         r.String(),
		FirstName:    strings.TrimSpace(*first),
		LastName:     strings.TrimSpace(*last),
		EmployeeID:   strings.TrimSpace(*employeeID),
		IsActive:     true,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("user %s already exists", u.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s (%s) created with ID %s\n", u.Email, u.Role, u.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
