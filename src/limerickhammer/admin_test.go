package limerickhammer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected Command
	}{
		{" feature on global ReactToLimerick", Command{OpFeatureOn, "global", db.ConfigReactToLimerick}},
		{" feature off global DeleteNonLimerick reacttononlimerick", Command{OpFeatureOff, "global", db.ConfigDeleteNonLimerick | db.ConfigReactToNonLimerick}},
		{" feature on <#704842231> explainnonlimerick ServeRandomLimerick", Command{OpFeatureOn, "704842231", db.ConfigExplainNonLimerick | db.ConfigServeRandomLimerick}},
		{" feature list <#12>", Command{OpFeatureList, "12", 0}},
		{" feature list global", Command{OpFeatureList, "global", 0}},
		{" feature reset <#12>", Command{OpFeatureReset, "12", 0}},
		{" help", Command{Operation: OpHelp}},
	}
	for _, tt := range tests {
		command, err := parseCommand(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, command, tt.input)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		" dance",
		" feature",
		" feature on global",
		" feature off <#12>",
		" feature list",
		" feature on everywhere ReactToLimerick",
		" feature on <#general> ReactToLimerick",
		" feature on global ReactToHaiku",
		" feature reset",
		" feature toggle global ReactToLimerick",
		" feature on <#-5> ReactToLimerick",
	}
	for _, input := range inputs {
		_, err := parseCommand(input)
		assert.Error(t, err, input)
	}
}

func TestParseFeatures(t *testing.T) {
	flags, err := parseFeatures([]string{"REACTTOLIMERICK", "reacttolimerick", "ServeRandomLimerick"})
	assert.NoError(t, err)
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigServeRandomLimerick, flags)

	flags, err = parseFeatures(nil)
	assert.NoError(t, err)
	assert.Equal(t, db.ConfigFlag(0), flags)

	_, err = parseFeatures([]string{"ReactToLimerick", "Haiku"})
	assert.EqualError(t, err, "could not understand 'Haiku' as a valid feature; send `!limerick help` for help")
}

func TestCommand_MentionTarget(t *testing.T) {
	assert.Equal(t, "global", Command{Target: "global"}.MentionTarget())
	assert.Equal(t, "<#12>", Command{Target: "12"}.MentionTarget())
}

func TestFeatureMutators(t *testing.T) {
	current := db.ConfigReactToLimerick | db.ConfigExplainNonLimerick

	assert.Equal(t, current|db.ConfigDeleteNonLimerick, EnableFeatures(current, db.ConfigDeleteNonLimerick))
	assert.Equal(t, current, EnableFeatures(current, db.ConfigReactToLimerick))
	assert.Equal(t, db.ConfigExplainNonLimerick, DisableFeatures(current, db.ConfigReactToLimerick))
	assert.Equal(t, current, DisableFeatures(current, db.ConfigServeRandomLimerick))
	assert.Equal(t, db.ConfigFlag(0), DisableFeatures(current, current))
}

func TestAdminHelp(t *testing.T) {
	assert.NotContains(t, AdminHelp, "~~~")
	for _, feature := range db.FeatureNames {
		assert.Contains(t, AdminHelp, "`"+feature.Name+"`")
	}
}

func newTestHammer(t *testing.T, defaults db.ConfigFlag) *LimerickHammer {
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &LimerickHammer{db: sqlDB, config: Config{ActionFlags: defaults}}
}

func mustParseCommand(t *testing.T, content string) Command {
	command, err := parseCommand(content)
	require.NoError(t, err)
	return command
}

func TestUpdateFeatures_DisableDefault(t *testing.T) {
	defaults := db.ConfigReactToLimerick | db.ConfigExplainNonLimerick | db.ConfigServeRandomLimerick
	h := newTestHammer(t, defaults)

	require.NoError(t, h.updateFeatures("11", mustParseCommand(t, " feature off <#22> ExplainNonLimerick"), DisableFeatures))

	flags := h.lookupFlags("11", "22")
	assert.False(t, flags.ExplainNonLimerick())
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigServeRandomLimerick, flags)
	// other channels keep the defaults
	assert.Equal(t, defaults, h.lookupFlags("11", "23"))

	// turning everything off sticks
	require.NoError(t, h.updateFeatures("11", mustParseCommand(t, " feature off <#22> ReactToLimerick ServeRandomLimerick"), DisableFeatures))
	assert.Equal(t, db.ConfigFlag(0), h.lookupFlags("11", "22"))
}

func TestUpdateFeatures_ChannelOverridesGuild(t *testing.T) {
	h := newTestHammer(t, db.ConfigReactToLimerick)

	require.NoError(t, h.updateFeatures("11", mustParseCommand(t, " feature on global DeleteNonLimerick"), EnableFeatures))
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigDeleteNonLimerick, h.lookupFlags("11", "22"))
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigDeleteNonLimerick, h.lookupFlags("11", "23"))

	require.NoError(t, h.updateFeatures("11", mustParseCommand(t, " feature off <#22> DeleteNonLimerick"), DisableFeatures))
	assert.Equal(t, db.ConfigReactToLimerick, h.lookupFlags("11", "22"))
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigDeleteNonLimerick, h.lookupFlags("11", "23"))

	require.NoError(t, h.resetFeatures(mustParseCommand(t, " feature reset <#22>")))
	assert.Equal(t, db.ConfigReactToLimerick|db.ConfigDeleteNonLimerick, h.lookupFlags("11", "22"))

	assert.Error(t, h.resetFeatures(mustParseCommand(t, " feature reset global")))
}

func TestUpdateFeatures_GuildKeepsReacts(t *testing.T) {
	h := newTestHammer(t, db.ConfigReactToLimerick)
	ctx := context.Background()
	_, err := db.GuildConfigDAO.Upsert(ctx, h.db, db.GuildConfig{GuildID: 11, Flags: db.ConfigReactToLimerick, PositiveReacts: "🎩"})
	require.NoError(t, err)

	require.NoError(t, h.updateFeatures("11", mustParseCommand(t, " feature off global ReactToLimerick"), DisableFeatures))

	conf, err := db.GuildConfigDAO.FindByID(ctx, h.db, 11)
	require.NoError(t, err)
	assert.Equal(t, db.GuildConfig{GuildID: 11, Flags: 0, PositiveReacts: "🎩"}, conf)
	assert.Equal(t, db.ConfigFlag(0), h.lookupFlags("11", "22"))
	assert.Equal(t, []string{"🎩"}, h.positiveReacts("11"))
}

func TestRunCommand(t *testing.T) {
	h := newTestHammer(t, db.ConfigReactToLimerick|db.ConfigExplainNonLimerick)

	assert.Equal(t, "Features enabled for target <#22>: ReactToLimerick ExplainNonLimerick (not set here, inherited)",
		h.runCommand("11", mustParseCommand(t, " feature list <#22>")))
	assert.Equal(t, "Disabled features ExplainNonLimerick for target <#22>",
		h.runCommand("11", mustParseCommand(t, " feature off <#22> explainnonlimerick")))
	assert.Equal(t, "Features enabled for target <#22>: ReactToLimerick",
		h.runCommand("11", mustParseCommand(t, " feature list <#22>")))
	assert.Equal(t, "Features enabled for target global: ReactToLimerick ExplainNonLimerick (not set here, inherited)",
		h.runCommand("11", mustParseCommand(t, " feature list global")))
	assert.Equal(t, "Target <#22> now follows the guild's features",
		h.runCommand("11", mustParseCommand(t, " feature reset <#22>")))
	assert.Equal(t, AdminHelp, h.runCommand("11", mustParseCommand(t, " help")))
}
