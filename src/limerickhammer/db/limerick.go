package db

import (
	"context"

	"github.com/jonbodner/proteus"
)

// Limerick is a limerick posted to a guild channel.
type Limerick struct {
	GuildID       int    `prof:"guild_id"`
	ChannelID     int    `prof:"channel_id"`
	MessageID     int    `prof:"message_id"`
	AuthorMention string `prof:"author_mention"`
	Content       string `prof:"content"`
}

var LimerickDAO LimerickDaoImpl

type LimerickDaoImpl struct {
	Upsert func(ctx context.Context, e proteus.ContextExecutor, l Limerick) (int64, error) `proq:"q:upsert" prop:"l"`
	// Random returns an empty Limerick if none were archived for the guild.
	Random func(ctx context.Context, e proteus.ContextQuerier, guildID string) (Limerick, error) `proq:"q:random" prop:"guildID"`
	// FindByID is only intended for testing
	FindByID func(ctx context.Context, e proteus.ContextQuerier, messageID int) (Limerick, error) `proq:"q:findByID" prop:"messageID"`
	Count    func(ctx context.Context, e proteus.ContextQuerier, guildID string) (int64, error)    `proq:"q:count" prop:"guildID"`
}

func init() {
	m := proteus.MapMapper{
		"upsert": `INSERT INTO limerick (guild_id, channel_id, message_id, author_mention, content)
				   VALUES (:l.GuildID:, :l.ChannelID:, :l.MessageID:, :l.AuthorMention:, :l.Content:)
				   ON CONFLICT (guild_id, channel_id, message_id)
				   DO UPDATE SET content = excluded.content`,
		"findByID": `SELECT * FROM limerick WHERE message_id = :messageID:`,
		"random":   `SELECT * FROM limerick WHERE guild_id = :guildID: ORDER BY RANDOM() LIMIT 1`,
		"count":    `SELECT COUNT(*) FROM limerick WHERE guild_id = :guildID:`,
	}
	err := proteus.ShouldBuild(context.Background(), &LimerickDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}
