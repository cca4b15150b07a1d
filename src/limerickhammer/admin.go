package limerickhammer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
)

const adminPrefix = "!limerick"

// globalTarget names the whole guild in admin commands.
const globalTarget = "global"

// adminCommandPerms is a bitmask for the min permissions required to send admin commands. If any flag is set, the
// user can send LimerickHammer admin commands.
const adminCommandPerms = discordgo.PermissionAdministrator | discordgo.PermissionManageChannels | discordgo.PermissionManageServer

const updateFailedReply = "Could not update features, please try again later."

func (h *LimerickHammer) HandleAdminCommand(s *discordgo.Session, m *discordgo.Message) {
	if m.GuildID == "" {
		h.reply(s, m, "Admin commands must be sent in the guild they are meant to apply to.")
		return
	}
	perms, err := h.Permissions(s, m)
	if err != nil {
		log.Println("could not retrieve permissions for user, ignoring admin command,", err)
		return
	}
	if perms&adminCommandPerms == 0 {
		if h.config.Debug {
			log.Printf("could not verify admin permissions, found perms %d, expected %d", perms, adminCommandPerms)
		}
		h.reply(s, m, fmt.Sprintf("You do not have permissions to manage LimerickHammer in <#%s>", m.ChannelID))
		return
	}
	command, err := parseCommand(strings.TrimPrefix(m.Content, adminPrefix))
	if err != nil {
		h.reply(s, m, err.Error())
		return
	}
	h.reply(s, m, h.runCommand(m.GuildID, command))
}

// runCommand carries out an admin command sent in guildID and returns the reply.
func (h *LimerickHammer) runCommand(guildID string, command Command) string {
	switch command.Operation {
	case OpHelp:
		return AdminHelp
	case OpFeatureList:
		flags, inherited, err := h.targetFlags(guildID, command.Target)
		if err != nil {
			log.Println("could not read feature flags,", err)
			return "Could not read features, please try again later."
		}
		reply := fmt.Sprintf("Features enabled for target %s: %s", command.MentionTarget(), flags)
		if inherited {
			reply += " (not set here, inherited)"
		}
		return reply
	case OpFeatureReset:
		if err := h.resetFeatures(command); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("Target %s now follows the guild's features", command.MentionTarget())
	case OpFeatureOn:
		if err := h.updateFeatures(guildID, command, EnableFeatures); err != nil {
			return updateFailedReply
		}
		return fmt.Sprintf("Enabled features %s for target %s", command.Features, command.MentionTarget())
	case OpFeatureOff:
		if err := h.updateFeatures(guildID, command, DisableFeatures); err != nil {
			return updateFailedReply
		}
		return fmt.Sprintf("Disabled features %s for target %s", command.Features, command.MentionTarget())
	}
	return fmt.Sprintf("could not understand command; send `%s help` for help", adminPrefix)
}

func (h *LimerickHammer) reply(s *discordgo.Session, m *discordgo.Message, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, reference(m)); err != nil {
		log.Println("could not reply to admin command,", err)
	}
}

func (h *LimerickHammer) Permissions(s *discordgo.Session, m *discordgo.Message) (int64, error) {
	g, err := s.Guild(m.GuildID)
	if err != nil {
		return 0, err
	}
	if g.OwnerID == m.Author.ID {
		return discordgo.PermissionAll, nil
	}
	member, err := s.GuildMember(m.GuildID, m.Author.ID)
	if err != nil {
		return 0, err
	}
	roles, err := s.GuildRoles(m.GuildID)
	if err != nil {
		return 0, err
	}
	roleMap := make(map[string]int64)
	for _, role := range roles {
		roleMap[role.ID] = role.Permissions
	}
	permissions := roleMap[m.GuildID] // the @everyone role shares the guild's ID
	for _, role := range member.Roles {
		permissions |= roleMap[role]
	}
	if permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator {
		return discordgo.PermissionAll, nil
	}
	return permissions, nil
}

// targetFlags returns the features in effect for target, and whether they come from further up
// (the guild, or the configured defaults) rather than being stored for target itself.
func (h *LimerickHammer) targetFlags(guildID, target string) (flags db.ConfigFlag, inherited bool, err error) {
	ctx := context.Background()
	gid, err := strconv.Atoi(guildID)
	if err != nil {
		return 0, false, fmt.Errorf("could not parse guildID %q: %w", guildID, err)
	}
	if target == globalTarget {
		conf, err := db.GuildConfigDAO.FindByID(ctx, h.db, gid)
		if err != nil {
			return 0, false, err
		}
		if !conf.Stored() {
			return h.config.ActionFlags, true, nil
		}
		return conf.Flags, false, nil
	}
	cid, err := strconv.Atoi(target)
	if err != nil {
		return 0, false, fmt.Errorf("could not parse channelID %q: %w", target, err)
	}
	conf, err := db.ChannelConfigDAO.FindByID(ctx, h.db, cid)
	if err != nil {
		return 0, false, err
	}
	if conf.Stored() {
		return conf.Flags, false, nil
	}
	flags, err = db.GuildFlags(ctx, h.db, gid, h.config.ActionFlags)
	return flags, true, err
}

type featureMutator func(db.ConfigFlag, db.ConfigFlag) db.ConfigFlag

func EnableFeatures(current db.ConfigFlag, feats db.ConfigFlag) db.ConfigFlag {
	return current.Or(feats)
}

func DisableFeatures(current db.ConfigFlag, feats db.ConfigFlag) db.ConfigFlag {
	return current.And(^feats) // and with bitwise not
}

// updateFeatures applies mutator to the features currently in effect for the command's target and
// stores the result for that target. A channel seen for the first time starts from its guild's
// features, so turning one feature off leaves the others as they were.
func (h *LimerickHammer) updateFeatures(guildID string, command Command, mutator featureMutator) error {
	ctx := context.Background()
	current, _, err := h.targetFlags(guildID, command.Target)
	if err != nil {
		log.Println("could not retrieve features,", err)
		return err
	}
	updated := mutator(current, command.Features)

	if command.Target == globalTarget {
		gid, _ := strconv.Atoi(guildID) // checked by targetFlags
		conf, err := db.GuildConfigDAO.FindByID(ctx, h.db, gid)
		if err != nil {
			log.Println("could not retrieve guild config,", err)
			return err
		}
		conf.GuildID = gid
		conf.Flags = updated
		if _, err = db.GuildConfigDAO.Upsert(ctx, h.db, conf); err != nil {
			log.Println("could not update guild features,", err)
		}
		return err
	}

	cid, _ := strconv.Atoi(command.Target) // checked by targetFlags
	if _, err = db.ChannelConfigDAO.Upsert(ctx, h.db, cid, updated); err != nil {
		log.Println("could not update channel features,", err)
	}
	return err
}

// resetFeatures forgets a channel's own features so it follows its guild again.
func (h *LimerickHammer) resetFeatures(command Command) error {
	if command.Target == globalTarget {
		return errors.New("only channels can be reset; use `feature on` and `feature off` for the guild")
	}
	cid, err := strconv.Atoi(command.Target)
	if err != nil {
		return fmt.Errorf("couldn't parse target '%s' as valid channel", command.Target)
	}
	if _, err := db.ChannelConfigDAO.Delete(context.Background(), h.db, cid); err != nil {
		log.Println("could not reset channel features,", err)
		return errors.New(updateFailedReply)
	}
	return nil
}

type Operation uint8

const (
	OpFeatureOn Operation = iota
	OpFeatureOff
	OpFeatureList
	OpFeatureReset
	OpHelp
)

// featureOps are the `feature` subcommands and the fewest arguments each takes after its name.
var featureOps = map[string]struct {
	op      Operation
	minArgs int
	usage   string
}{
	"on":    {OpFeatureOn, 2, "a target and list of features"},
	"off":   {OpFeatureOff, 2, "a target and list of features"},
	"list":  {OpFeatureList, 1, "a target"},
	"reset": {OpFeatureReset, 1, "a channel"},
}

type Command struct {
	Operation Operation
	Target    string
	Features  db.ConfigFlag
}

func (c Command) MentionTarget() string {
	if c.Target == globalTarget {
		return globalTarget
	}
	return fmt.Sprintf("<#%s>", c.Target)
}

func parseCommand(content string) (Command, error) {
	tokens := strings.Fields(content)
	switch {
	case len(tokens) == 0:
		return Command{}, fmt.Errorf("expected a valid command after `%s`; send `%s help` for help", adminPrefix, adminPrefix)
	case len(tokens) == 1 && tokens[0] == "help":
		return Command{Operation: OpHelp}, nil
	case tokens[0] != "feature" || len(tokens) < 2:
		return Command{}, fmt.Errorf("could not understand command %s", strings.Join(tokens, " "))
	}

	sub, ok := featureOps[tokens[1]]
	if !ok {
		return Command{}, fmt.Errorf("could not understand command feature %s", tokens[1])
	}
	args := tokens[2:]
	if len(args) < sub.minArgs {
		return Command{}, fmt.Errorf("expected %s after `feature %s`; send `%s help` for help", sub.usage, tokens[1], adminPrefix)
	}

	target, err := parseTarget(args[0])
	if err != nil {
		return Command{}, err
	}
	features, err := parseFeatures(args[1:])
	if err != nil {
		return Command{}, err
	}
	return Command{Operation: sub.op, Target: target, Features: features}, nil
}

// parseTarget accepts "global" or a channel mention, which it reduces to the channel ID.
func parseTarget(token string) (string, error) {
	if token == globalTarget {
		return token, nil
	}
	if !strings.HasPrefix(token, "<#") || !strings.HasSuffix(token, ">") {
		return "", fmt.Errorf("couldn't parse target '%s' as valid target", token)
	}
	id, err := strconv.Atoi(token[2 : len(token)-1])
	if err != nil || id <= 0 {
		return "", fmt.Errorf("couldn't parse target '%s' as valid channel mention", token)
	}
	return strconv.Itoa(id), nil
}

func parseFeatures(features []string) (db.ConfigFlag, error) {
	var result db.ConfigFlag
	for _, feature := range features {
		found := false
		for _, known := range db.FeatureNames {
			if strings.EqualFold(feature, known.Name) {
				result |= known.Flag
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("could not understand '%s' as a valid feature; send `%s help` for help", feature, adminPrefix)
		}
	}
	return result, nil
}

var AdminHelp = `All commands must be sent in the guild they are meant to apply to.
  ~~~!limerick feature on [target] [feature feature...]~~~
  ~~~!limerick feature off [target] [feature feature...]~~~
  ~~~!limerick feature list [target]~~~
  ~~~!limerick feature reset [channel]~~~

~~~[target]~~~ can be either a channel mention or ~~~global~~~ to change features for every channel in the guild.
A channel's own features replace the guild's once set; ~~~reset~~~ makes the channel follow the guild again.
~~~[feature feature...]~~~ is a space-separated list of features from the below list.

   - ~~~ReactToLimerick~~~ - adds an emoji reaction to any detected limerick
   - ~~~ReactToNonLimerick~~~ - adds an emoji reaction to any detected non-limerick
   - ~~~DeleteNonLimerick~~~ - deletes any messages which are not valid limericks -- requires MANAGE_MESSAGES permission
   - ~~~ExplainNonLimerick~~~ - respond publicly in channel with an explanation of why a poem is not a limerick
   - ~~~ServeRandomLimerick~~~ - reacts to mentions by publicly quoting some limerick previously detected in the same guild.
`

func init() {
	AdminHelp = strings.ReplaceAll(AdminHelp, "~~~", "`")
}
