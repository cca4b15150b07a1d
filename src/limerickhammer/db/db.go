package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed scripts/*.sql
var bootstrapScripts embed.FS

// Open opens the sqlite database stored at path, creating it if needed, and runs the bootstrap
// scripts against it.
func Open(path string) (*sql.DB, error) {
	DB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	if err := BootstrapDB(DB); err != nil {
		DB.Close()
		return nil, err
	}
	return DB, nil
}

// BootstrapDB executes all embedded files ending in .sql against the provided database, in
// alphabetical order by filename. If no files are found, an error is returned.
func BootstrapDB(DB *sql.DB) error {
	foundSQLFile := false
	scripts, err := bootstrapScripts.ReadDir("scripts")
	if err != nil {
		return err
	}
	for _, finfo := range scripts {
		if finfo.IsDir() {
			continue
		}
		foundSQLFile = true

		script, err := bootstrapScripts.ReadFile("scripts/" + finfo.Name())
		if err != nil {
			return err
		}
		_, err = DB.Exec(string(script))
		if err != nil {
			log.Printf("could not execute bootstrap script %s: %v", finfo.Name(), err)
			return fmt.Errorf("bootstrap script %s: %w", finfo.Name(), err)
		}
		log.Printf("executed bootstrap script %s", finfo.Name())
	}
	if !foundSQLFile {
		return fmt.Errorf("could not find any *.sql files in schema folder scripts")
	}
	return nil
}
