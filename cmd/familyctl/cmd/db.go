package cmd

import (
	"github.com/jmoiron/sqlx"

	"github.com/homewatch/dashboard/internal/config"
	"github.com/homewatch/dashboard/internal/db"
)

// openDB connects using only the database settings, so the CLI runs
// without the web server's required secrets.
func openDB() (*sqlx.DB, string, error) {
	driver, connection := config.LoadDatabase()
	database, err := db.Init(driver, connection)
	if err != nil {
		return nil, "", err
	}
	return database, driver, nil
}
