package db

import (
	"context"
	"strings"

	"github.com/jonbodner/proteus"
)

// ConfigFlag is a bitmask of enabled bot features.
type ConfigFlag int64

const (
	ConfigReactToLimerick ConfigFlag = 1 << iota
	ConfigReactToNonLimerick
	ConfigDeleteNonLimerick
	ConfigExplainNonLimerick
	ConfigServeRandomLimerick
)

// FeatureNames maps each flag to the name admins use for it.
var FeatureNames = []struct {
	Flag ConfigFlag
	Name string
}{
	{ConfigReactToLimerick, "ReactToLimerick"},
	{ConfigReactToNonLimerick, "ReactToNonLimerick"},
	{ConfigDeleteNonLimerick, "DeleteNonLimerick"},
	{ConfigExplainNonLimerick, "ExplainNonLimerick"},
	{ConfigServeRandomLimerick, "ServeRandomLimerick"},
}

func (f ConfigFlag) ReactToLimerick() bool {
	return f&ConfigReactToLimerick > 0
}

func (f ConfigFlag) ReactToNonLimerick() bool {
	return f&ConfigReactToNonLimerick > 0
}

func (f ConfigFlag) DeleteNonLimerick() bool {
	return f&ConfigDeleteNonLimerick > 0
}

func (f ConfigFlag) ExplainNonLimerick() bool {
	return f&ConfigExplainNonLimerick > 0
}

func (f ConfigFlag) ServeRandomLimerick() bool {
	return f&ConfigServeRandomLimerick > 0
}

func (f ConfigFlag) Or(other ConfigFlag) ConfigFlag {
	return f | other
}

func (f ConfigFlag) And(other ConfigFlag) ConfigFlag {
	return f & other
}

func (f ConfigFlag) String() string {
	var names []string
	for _, feature := range FeatureNames {
		if f&feature.Flag > 0 {
			names = append(names, feature.Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

// GuildFlags returns the features stored for a guild, or defaults if the guild never changed
// them.
func GuildFlags(ctx context.Context, e proteus.ContextQuerier, guildID int, defaults ConfigFlag) (ConfigFlag, error) {
	guildConf, err := GuildConfigDAO.FindByID(ctx, e, guildID)
	if err != nil {
		return 0, err
	}
	if !guildConf.Stored() {
		return defaults, nil
	}
	return guildConf.Flags, nil
}

// LookupFlags returns the features in effect for a channel. A channel's own settings replace its
// guild's, which in turn replace defaults.
func LookupFlags(ctx context.Context, e proteus.ContextQuerier, guildID int, channelID int, defaults ConfigFlag) (ConfigFlag, error) {
	chanConf, err := ChannelConfigDAO.FindByID(ctx, e, channelID)
	if err != nil {
		return 0, err
	}
	if chanConf.Stored() {
		return chanConf.Flags, nil
	}
	return GuildFlags(ctx, e, guildID, defaults)
}

type ChannelConfig struct {
	ChannelID int        `prof:"channel_id"`
	Flags     ConfigFlag `prof:"flags"`
}

// Stored is false for the zero ChannelConfig FindByID returns when the channel has no row.
func (c ChannelConfig) Stored() bool {
	return c.ChannelID != 0
}

var ChannelConfigDAO ChannelConfigDAOImpl

type ChannelConfigDAOImpl struct {
	Upsert   func(ctx context.Context, e proteus.ContextExecutor, channelID int, flags ConfigFlag) (int64, error) `proq:"q:chan_upsert" prop:"channelID,flags"`
	FindByID func(ctx context.Context, e proteus.ContextQuerier, channelID int) (ChannelConfig, error)            `proq:"q:chan_findByID" prop:"channelID"`
	Delete   func(ctx context.Context, e proteus.ContextExecutor, channelID int) (int64, error)                   `proq:"q:chan_delete" prop:"channelID"`
}

type GuildConfig struct {
	GuildID        int        `prof:"guild_id"`
	Flags          ConfigFlag `prof:"flags"`
	PositiveReacts string     `prof:"positive_reacts"`
	NegativeReacts string     `prof:"negative_reacts"`
}

func (c GuildConfig) Stored() bool {
	return c.GuildID != 0
}

// Reacts splits a comma-separated list of emoji stored in the guild config.
func Reacts(list string) []string {
	var result []string
	for _, react := range strings.Split(list, ",") {
		if react = strings.TrimSpace(react); react != "" {
			result = append(result, react)
		}
	}
	return result
}

var GuildConfigDAO GuildConfigDAOImpl

type GuildConfigDAOImpl struct {
	Upsert   func(ctx context.Context, e proteus.ContextExecutor, config GuildConfig) (int64, error) `proq:"q:guild_upsert" prop:"config"`
	FindByID func(ctx context.Context, e proteus.ContextQuerier, guildID int) (GuildConfig, error)   `proq:"q:guild_findByID" prop:"guildID"`
}

func init() {
	ctx := context.Background()
	m := proteus.MapMapper{
		"chan_upsert": `INSERT INTO channel_config (channel_id, flags)
						VALUES (:channelID:, :flags:)
						ON CONFLICT (channel_id)
						DO UPDATE SET flags = excluded.flags`,
		"chan_findByID": `SELECT * FROM channel_config WHERE channel_id = :channelID:`,
		"chan_delete":   `DELETE FROM channel_config WHERE channel_id = :channelID:`,
		"guild_upsert": `INSERT INTO guild_config (guild_id, flags, positive_reacts, negative_reacts)
						VALUES (:config.GuildID:, :config.Flags:, :config.PositiveReacts:, :config.NegativeReacts:)
						ON CONFLICT (guild_id)
						DO UPDATE SET flags = excluded.flags, positive_reacts = excluded.positive_reacts, negative_reacts = excluded.negative_reacts`,
		"guild_findByID": `SELECT * FROM guild_config WHERE guild_id = :guildID:`,
	}
	err := proteus.ShouldBuild(ctx, &ChannelConfigDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
	err = proteus.ShouldBuild(ctx, &GuildConfigDAO, proteus.Sqlite, m)
	if err != nil {
		panic(err)
	}
}
