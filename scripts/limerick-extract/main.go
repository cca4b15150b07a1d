// Command limerick-extract seeds a limerick database from an exported chat log. The log is a CSV
// file whose first column is the author and fourth column is the message.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/fileutil"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
)

type CLI struct {
	Chat      string `arg:"" type:"path" help:"Chat log CSV, optionally .gz or .xz compressed."`
	DB        string `name:"db" default:"limerickDB.sqlite3" help:"Database to write limericks to."`
	Dict      string `name:"dict" type:"path" help:"CMU Pronouncing Dictionary to use instead of the embedded one."`
	GuildID   int    `name:"guild" required:"" help:"Guild the chat log was exported from."`
	ChannelID int    `name:"channel" required:"" help:"Channel the chat log was exported from."`
}

func (c *CLI) Run() error {
	dict := cmudict.Default()
	if c.Dict != "" {
		var err error
		if dict, err = cmudict.Open(c.Dict); err != nil {
			return err
		}
	}
	f, err := fileutil.OpenReader(c.Chat)
	if err != nil {
		return err
	}
	defer f.Close()

	DB, err := db.Open(c.DB)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer DB.Close()

	count, err := extract(context.Background(), DB, limerickhammer.NewDetector(dict), f, c.GuildID, c.ChannelID)
	log.Printf("extracted %d limericks", count)
	return err
}

// extract archives every limerick in the chat log. Messages are numbered in the order they appear,
// after every message ID already in the database, so repeated runs never reuse an ID.
func extract(ctx context.Context, DB *sql.DB, d *limerickhammer.Detector, r io.Reader, guildID, channelID int) (int, error) {
	s := csv.NewReader(r)
	s.FieldsPerRecord = -1

	lastID, err := db.LimerickHashDAO.MaxMessageID(ctx, DB)
	if err != nil {
		return 0, fmt.Errorf("could not read message IDs: %w", err)
	}
	messageID, count := int(lastID), 0
	for {
		records, err := s.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(records) < 4 {
			continue
		}
		messageID++
		content := strings.TrimSpace(records[3])

		isLimerick, err := d.IsLimerick(content)
		var lookupErr *limerickhammer.LookupError
		if errors.As(err, &lookupErr) {
			log.Printf("skipping message %d, no pronunciation for %q", messageID, lookupErr.Word)
			continue
		}
		if err != nil || !isLimerick {
			continue
		}
		hash := limerickhammer.DuplicateHash(content)
		if err := db.CheckHash(ctx, DB, messageID, hash[:]); err != nil {
			log.Println("skipping message,", messageID, err)
			continue
		}
		_, err = db.LimerickDAO.Upsert(ctx, DB, db.Limerick{
			GuildID:       guildID,
			ChannelID:     channelID,
			MessageID:     messageID,
			AuthorMention: records[0],
			Content:       content,
		})
		if err != nil {
			return count, fmt.Errorf("couldn't write to db: %w", err)
		}
		count++
	}
	return count, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Name("limerick-extract"), kong.UsageOnError())
	ctx.FatalIfErrorf(ctx.Run())
}
