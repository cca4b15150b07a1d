package limerickhammer

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
	"github.com/zeebo/blake3"
)

// HashSize is the length of a DuplicateHash.
const HashSize = 32

// DuplicateHash hashes a limerick so that copies differing only in case, punctuation or spacing
// within a line collide.
func DuplicateHash(limerick string) [HashSize]byte {
	var lines []string
	for _, line := range ParsePoem(limerick) {
		lines = append(lines, strings.ToUpper(strings.Join(line, " ")))
	}
	return blake3.Sum256([]byte(strings.Join(lines, "\n")))
}

// UpdateHashes ensures all limericks have their hashes loaded into the table. It's intended
// to be run on a separate goroutine on startup.
func UpdateHashes(sqlDB *sql.DB) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("recovered from panic in UpdateHashes: %v", err)
			return
		}
	}()
	log.Println("beginning UpdateHashes.")
	ctx := context.Background()
	rows, err := sqlDB.QueryContext(ctx, `SELECT message_id, content FROM limerick`)
	if err != nil {
		log.Println("encountered error while updating hashes,", err)
		return
	}
	defer rows.Close()

	type entry struct {
		messageID int
		content   string
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.messageID, &e.content); err != nil {
			log.Println("encountered error while scanning hashes,", err)
			return
		}
		entries = append(entries, e)
	}
	rows.Close()

	insertCount := 0
	for _, e := range entries {
		hash := DuplicateHash(e.content)
		count, err := db.LimerickHashDAO.Upsert(ctx, sqlDB, e.messageID, hash[:])
		if err != nil {
			log.Println("could not store limerick hash,", err)
			continue
		}
		if count != 0 {
			insertCount++
		}
	}
	log.Printf("upserted %d limerick hashes", insertCount)
}
