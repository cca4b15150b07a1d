package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kalexmills/limerick-hammer/src/cmudict"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer"
	"github.com/kalexmills/limerick-hammer/src/limerickhammer/db"
	"github.com/spf13/viper"
)

func main() {
	conf := readConfig()

	dict, err := loadDictionary(conf.DictPath)
	if err != nil {
		log.Fatalf("fail error loading dictionary: %v", err)
	}
	log.Printf("loaded pronunciations for %d words", dict.Len())

	lh := limerickhammer.NewLimerickHammer(conf, limerickhammer.NewDetector(dict))

	err = lh.Open()
	if err != nil {
		log.Fatalf("fail error opening bot: %v", err)
	}

	log.Println("Bot is now running.  Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the Discord session.
	err = lh.Close()
	if err != nil {
		log.Println("error closing session,", err)
	}
}

func loadDictionary(path string) (*cmudict.Dictionary, error) {
	if path == "" {
		return cmudict.Default(), nil
	}
	return cmudict.Open(path)
}

func readConfig() limerickhammer.Config {
	viper.SetDefault("reactLimerick", true)
	viper.SetDefault("reactNonLimerick", false)
	viper.SetDefault("deleteNonLimerick", false)
	viper.SetDefault("explainNonLimerick", true)
	viper.SetDefault("serveRandomLimerick", true)
	viper.SetDefault("positiveReacts", []string{"💯", "🎩", "🍀", "🍺", "🎻"})
	viper.SetDefault("negativeReacts", []string{"🚫", "⛔"})
	viper.SetDefault("dbPath", "./limerickDB.sqlite3")
	viper.SetDefault("dictPath", "")
	viper.SetDefault("debug", false)

	viper.SetEnvPrefix("LIMERICK_HAMMER")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/limerickhammer")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		log.Println("no config file found, using defaults,", err)
	}
	return limerickhammer.Config{
		Token:          viper.GetString("token"),
		ActionFlags:    actionFlags(viper.GetViper()),
		PositiveReacts: viper.GetStringSlice("positiveReacts"),
		NegativeReacts: viper.GetStringSlice("negativeReacts"),
		Debug:          viper.GetBool("debug"),
		DBPath:         viper.GetString("dbPath"),
		DictPath:       viper.GetString("dictPath"),
	}
}

func actionFlags(v *viper.Viper) db.ConfigFlag {
	flags := db.ConfigFlag(0)
	if v.GetBool("reactLimerick") {
		flags |= db.ConfigReactToLimerick
	}
	if v.GetBool("reactNonLimerick") {
		flags |= db.ConfigReactToNonLimerick
	}
	if v.GetBool("deleteNonLimerick") {
		flags |= db.ConfigDeleteNonLimerick
	}
	if v.GetBool("explainNonLimerick") {
		flags |= db.ConfigExplainNonLimerick
	}
	if v.GetBool("serveRandomLimerick") {
		flags |= db.ConfigServeRandomLimerick
	}
	return flags
}
