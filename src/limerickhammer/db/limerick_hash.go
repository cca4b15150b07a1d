package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonbodner/proteus"
)

// ErrDuplicate is returned by CheckHash when the same limerick was already posted as another
// message.
var ErrDuplicate = errors.New("duplicate limerick")

var LimerickHashDAO LimerickHashDaoImpl

type LimerickHashDaoImpl struct {
	Upsert       func(ctx context.Context, e proteus.ContextExecutor, mid int, hash []byte) (int64, error) `proq:"q:upsert" prop:"mid,hash"`
	// FindByHash returns 0 when no message has the hash.
	FindByHash   func(ctx context.Context, e proteus.ContextQuerier, hash []byte) (int64, error)           `proq:"q:findByHash" prop:"hash"`
	// MaxMessageID returns 0 when the table is empty.
	MaxMessageID func(ctx context.Context, e proteus.ContextQuerier) (int64, error)                        `proq:"q:maxMessageID"`
}

func init() {
	m := proteus.MapMapper{
		"upsert":       `INSERT INTO limerick_hash (message_id, hash) VALUES (:mid:, :hash:)
				   ON CONFLICT (message_id)
				   DO UPDATE SET hash = excluded.hash`,
		"findByHash":   `SELECT message_id FROM limerick_hash WHERE hash = :hash: ORDER BY message_id LIMIT 1`,
		"maxMessageID": `SELECT COALESCE(MAX(message_id), 0) FROM limerick_hash`,
	}
	err := proteus.ShouldBuild(context.Background(), &LimerickHashDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}

// CheckHash records hash for message mid. If a different message already has the same hash, an
// error wrapping ErrDuplicate is returned and nothing is stored.
func CheckHash(ctx context.Context, e proteus.ContextWrapper, mid int, hash []byte) error {
	midFound, err := LimerickHashDAO.FindByHash(ctx, e, hash)
	if err != nil {
		return fmt.Errorf("could not look up limerick hash: %w", err)
	}
	if midFound != 0 && midFound != int64(mid) {
		log.Println("limerick was found to be plagiarized; original message_id:", midFound)
		return fmt.Errorf("%w: original message_id %d", ErrDuplicate, midFound)
	}
	_, err = LimerickHashDAO.Upsert(ctx, e, mid, hash)
	if err != nil {
		log.Println("could not store limerick hash in database,", err)
		return fmt.Errorf("error while storing limerick hash: %w", err)
	}
	return nil
}
