package database

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending up migrations from dir against the given
// MySQL database.  It is called once at startup, before the HTTP server
// begins accepting requests.  A database that is already current is not
// an error.
func Migrate(dir, user, pass, host, port, name string) error {
	auth := url.QueryEscape(user)
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", auth, url.QueryEscape(pass))
	}
	dsn := fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s", auth, host, port, name)

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
