package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/libreshelf/libreshelf-backend/pkg/migrate"
)

func TestBorrowsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_borrows.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no borrows migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS borrows",
		"FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"WHERE return_date IS NULL",
		"DROP TABLE IF EXISTS borrows",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBookLibrariesMigrationHasNoForeignKeys(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_book_libraries.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no book_libraries migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "FOREIGN KEY") {
		t.Error("book_libraries must not carry foreign keys; links tolerate catalog drift")
	}
	for _, sub := range []string{
		"PRIMARY KEY (book_id, library_id)",
		"CHECK (quantity >= 0)",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAllMigrationsValidate(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir failed: %v", err)
	}
}

func TestUsersMigrationEnforcesUniqueEmail(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no users migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"CONSTRAINT users_username_key UNIQUE (username)",
		"CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email) WHERE email <> ''",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
