package limerickhammer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
)

type Config struct {
	Token          string
	ActionFlags    db.ConfigFlag
	PositiveReacts []string
	NegativeReacts []string
	DBPath         string
	DictPath       string

	Debug bool
}

func (c Config) String() string {
	return fmt.Sprintf("\tActionFlags: %s\n\tDBPath: %s\n\tDictPath: %s\n\tDebug: %t\n",
		c.ActionFlags, c.DBPath, c.DictPath, c.Debug)
}

type LimerickHammer struct {
	session  *discordgo.Session
	db       *sql.DB
	detector *Detector

	config Config

	mu           sync.Mutex
	channelCache map[string]*discordgo.Channel
	dmCache      map[string]*discordgo.Channel
}

func NewLimerickHammer(config Config, detector *Detector) *LimerickHammer {
	log.Printf("Limerick Bot Config:\n%v", config)
	return &LimerickHammer{
		config:       config,
		detector:     detector,
		channelCache: make(map[string]*discordgo.Channel),
		dmCache:      make(map[string]*discordgo.Channel),
	}
}

func (h *LimerickHammer) Open() error {
	var err error
	h.db, err = db.Open(h.config.DBPath)
	if err != nil {
		log.Println("error opening database,", err)
		return err
	}
	go UpdateHashes(h.db)

	h.session, err = discordgo.New("Bot " + h.config.Token)
	if err != nil {
		log.Println("error creating Discord session,", err)
		return err
	}

	if h.config.Debug {
		h.session.LogLevel = discordgo.LogDebug
	}

	h.session.AddHandler(h.ReceiveNewMessage)

	h.session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions | discordgo.IntentsDirectMessageReactions

	err = h.session.Open()
	if err != nil {
		log.Println("error opening connection,", err)
		return err
	}
	return nil
}

func (h *LimerickHammer) Close() error {
	err := h.session.Close()
	if dbErr := h.db.Close(); dbErr != nil {
		log.Println("error closing database,", dbErr)
	}
	return err
}

func (h *LimerickHammer) ReceiveNewMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic on content, %s, panicking on: %v\n%s", escape(m.Content), r, debug.Stack())
		}
	}()
	if m.Author == nil || m.Author.Bot { // prevent SkyNet; don't talk to bots
		return
	}
	if strings.HasPrefix(m.Content, adminPrefix) {
		h.HandleAdminCommand(s, m.Message)
		return
	}
	flags := h.lookupFlags(m.GuildID, m.ChannelID)
	if flags.ServeRandomLimerick() && h.mentionsMe(s, m.Message) {
		h.ServeRandomLimerick(s, m.Message)
		return
	}

	content := cleanEmoji(m.Content)
	if h.config.Debug {
		log.Printf("analyzed message %s:\n%v", m.ID, h.detector.Analyze(content))
	}
	err := h.detector.Check(content)
	if err == nil {
		log.Printf("received limerick: %s\n", escape(m.Content))
		h.HandleLimerick(s, m, flags)
		return
	}
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		log.Println("could not evaluate message,", m.ID, err)
	}
	h.HandleNonLimerick(s, m, flags, err)
}

func (h *LimerickHammer) HandleLimerick(s *discordgo.Session, m *discordgo.MessageCreate, flags db.ConfigFlag) {
	if h.archive(m) && flags.ReactToLimerick() {
		h.react(s, m, randomString(h.positiveReacts(m.GuildID)))
	}
}

func (h *LimerickHammer) HandleNonLimerick(s *discordgo.Session, m *discordgo.MessageCreate, flags db.ConfigFlag, err error) {
	if flags.DeleteNonLimerick() {
		h.Delete(s, m, err)
		return
	}

	if flags.ReactToNonLimerick() {
		h.react(s, m, randomString(h.negativeReacts(m.GuildID)))
		log.Println("reacted to non-limerick,", m.ID, escape(m.Content))
	}

	if flags.ExplainNonLimerick() && isPoemShaped(m.Content) {
		h.ExplainNonLimerick(s, m, err)
	}
}

// archive stores a limerick posted in a guild. It returns false if the limerick is a copy of one
// posted before.
func (h *LimerickHammer) archive(m *discordgo.MessageCreate) bool {
	if m.GuildID == "" { // DMs aren't archived
		return true
	}
	gid, err1 := strconv.Atoi(m.GuildID)
	cid, err2 := strconv.Atoi(m.ChannelID)
	mid, err3 := strconv.Atoi(m.ID)
	if err1 != nil || err2 != nil || err3 != nil {
		log.Println("could not parse message IDs as integers,", m.GuildID, m.ChannelID, m.ID)
		return true
	}
	ctx := context.Background()
	hash := DuplicateHash(m.Content)
	if err := db.CheckHash(ctx, h.db, mid, hash[:]); errors.Is(err, db.ErrDuplicate) {
		log.Println("received duplicate limerick,", m.ID, err)
		return false
	} else if err != nil {
		log.Println("could not check limerick hash,", err)
	}
	_, err := db.LimerickDAO.Upsert(ctx, h.db, db.Limerick{
		GuildID:       gid,
		ChannelID:     cid,
		MessageID:     mid,
		AuthorMention: m.Author.Mention(),
		Content:       m.Content,
	})
	if err != nil {
		log.Println("could not archive limerick,", err)
	}
	return true
}

func (h *LimerickHammer) Delete(s *discordgo.Session, m *discordgo.MessageCreate, reason error) {
	err := s.ChannelMessageDelete(m.ChannelID, m.Message.ID)
	if err != nil {
		log.Println("could not delete message from channel,", err)
		return
	}
	dmChannel, err := h.createDMChannel(s, m.Author.ID)
	if err != nil {
		log.Println("could not create user DM channel,", err)
		return
	}
	c, err := h.lookupChannel(s, m.ChannelID)
	if err != nil {
		log.Println("could not lookup message ChannelID,", err)
		return
	}
	explanation := fmt.Sprintf("I deleted the message you just sent to %s since I didn't think it was a proper limerick (%s):\n%s",
		c.Mention(), explain(reason), quote(m.Content))
	_, err = s.ChannelMessageSend(dmChannel.ID, explanation)
	if err != nil {
		log.Println("could not send message to user DM channel,", err)
		return
	}
	log.Println("deleted message,", m.ID, escape(m.Content))
}

func (h *LimerickHammer) ExplainNonLimerick(s *discordgo.Session, m *discordgo.MessageCreate, explainErr error) {
	if explainErr == nil {
		log.Println("tried to explain a non-limerick without an error,", escape(m.Content))
		return
	}
	_, err := s.ChannelMessageSendReply(m.ChannelID, explain(explainErr), reference(m.Message))
	if err != nil {
		log.Println("could not reply with explanation,", err)
		return
	}
}

func (h *LimerickHammer) ServeRandomLimerick(s *discordgo.Session, m *discordgo.Message) {
	limerick, err := db.LimerickDAO.Random(context.Background(), h.db, m.GuildID)
	if err != nil {
		log.Println("could not read random limerick from database,", err)
		return
	}
	reply := "I haven't seen any limericks here yet."
	if limerick.Content != "" {
		reply = fmt.Sprintf("%s\n  - %s", quote(limerick.Content), limerick.AuthorMention)
	}
	_, err = s.ChannelMessageSendReply(m.ChannelID, reply, reference(m))
	if err != nil {
		log.Println("could not send random limerick,", err)
	}
}

// lookupFlags returns the features in effect for a channel, falling back to the configured defaults
// when neither the channel nor its guild stored any. DMs always use the defaults.
func (h *LimerickHammer) lookupFlags(guildID, channelID string) db.ConfigFlag {
	gid, err1 := strconv.Atoi(guildID)
	cid, err2 := strconv.Atoi(channelID)
	if err1 != nil || err2 != nil { // DMs have no guild
		return h.config.ActionFlags
	}
	flags, err := db.LookupFlags(context.Background(), h.db, gid, cid, h.config.ActionFlags)
	if err != nil {
		log.Println("could not look up feature flags,", err)
		return h.config.ActionFlags
	}
	return flags
}

func (h *LimerickHammer) positiveReacts(guildID string) []string {
	return h.guildReacts(guildID, func(c db.GuildConfig) string { return c.PositiveReacts }, h.config.PositiveReacts)
}

func (h *LimerickHammer) negativeReacts(guildID string) []string {
	return h.guildReacts(guildID, func(c db.GuildConfig) string { return c.NegativeReacts }, h.config.NegativeReacts)
}

func (h *LimerickHammer) guildReacts(guildID string, field func(db.GuildConfig) string, fallback []string) []string {
	gid, err := strconv.Atoi(guildID)
	if err != nil {
		return fallback
	}
	conf, err := db.GuildConfigDAO.FindByID(context.Background(), h.db, gid)
	if err != nil {
		log.Println("could not read guild config from database,", err)
		return fallback
	}
	if reacts := db.Reacts(field(conf)); len(reacts) > 0 {
		return reacts
	}
	return fallback
}

func (h *LimerickHammer) mentionsMe(s *discordgo.Session, m *discordgo.Message) bool {
	if s.State == nil || s.State.User == nil {
		return false
	}
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			return true
		}
	}
	return false
}

func (h *LimerickHammer) react(s *discordgo.Session, m *discordgo.MessageCreate, reaction string) {
	if reaction == "" {
		return
	}
	err := s.MessageReactionAdd(m.ChannelID, m.Message.ID, reaction)
	if err != nil {
		log.Println("could not add emoji reaction,", err)
		return
	}
}

func (h *LimerickHammer) createDMChannel(s *discordgo.Session, authorID string) (*discordgo.Channel, error) {
	h.mu.Lock()
	c, ok := h.dmCache[authorID]
	h.mu.Unlock()
	if ok {
		return c, nil
	}
	c, err := s.UserChannelCreate(authorID)
	if err != nil {
		return nil, err
	}
	log.Println("retrieved new DM channel for user", authorID)
	h.mu.Lock()
	h.channelCache[c.ID] = c
	h.dmCache[authorID] = c
	h.mu.Unlock()
	return c, nil
}

func (h *LimerickHammer) lookupChannel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	h.mu.Lock()
	c, ok := h.channelCache[channelID]
	h.mu.Unlock()
	if ok {
		return c, nil
	}
	c, err := s.Channel(channelID)
	if err != nil {
		return nil, err
	}
	log.Println("looked up channel", channelID)
	h.mu.Lock()
	h.channelCache[channelID] = c
	if c.Type == discordgo.ChannelTypeDM && len(c.Recipients) == 1 {
		h.dmCache[c.Recipients[0].ID] = c
	}
	h.mu.Unlock()
	return c, nil
}

// explain turns a Check error into a message for the poem's author.
func explain(err error) string {
	var lookupErr *LookupError
	switch {
	case errors.As(err, &lookupErr):
		return fmt.Sprintf("I couldn't check your limerick, I don't know how to pronounce %q", lookupErr.Word)
	case errors.Is(err, ErrNotLimerick):
		return "That's not a limerick: " + strings.TrimPrefix(err.Error(), ErrNotLimerick.Error()+": ")
	default:
		return err.Error()
	}
}

// isPoemShaped reports whether a message has enough lines that its author might have meant it as
// a limerick. Only those get explanations.
func isPoemShaped(content string) bool {
	return len(ParsePoem(content)) >= LimerickLines-1
}

func reference(m *discordgo.Message) *discordgo.MessageReference {
	return &discordgo.MessageReference{MessageID: m.ID, ChannelID: m.ChannelID, GuildID: m.GuildID}
}

var EmojiRegex = regexp.MustCompile(`<a?:\w+:\d+>|:\w+:`)

func cleanEmoji(s string) string {
	return strings.TrimSpace(EmojiRegex.ReplaceAllString(s, ""))
}

func randomString(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	return strs[rand.Intn(len(strs))]
}

func quote(str string) string {
	return "> " + strings.ReplaceAll(str, "\n", "\n> ")
}

func escape(str string) string {
	return strings.ReplaceAll(str, "\n", "\\n")
}
