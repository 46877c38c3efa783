package bot

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/enryu8191/Creator-Bot/command"
	"github.com/enryu8191/Creator-Bot/config"
	"github.com/enryu8191/Creator-Bot/db"
	"github.com/enryu8191/Creator-Bot/handler/admin"
	"github.com/enryu8191/Creator-Bot/handler/engagement"
	"github.com/enryu8191/Creator-Bot/tracker"
)

const defaultDBPath = "./data/engagement.db"

var dg *discordgo.Session

// Start 启动机器人
func Start() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to load config")
		return
	}
	if config.Cfg.Token == "" {
		logrus.Error("bot token is empty, check config.yaml")
		return
	}

	dbPath := config.Cfg.DB.Path
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := db.New(dbPath)
	if err != nil {
		logrus.WithError(err).Error("failed to open session store")
		return
	}
	defer store.Close()

	trk := tracker.New(store, config.Cfg.Engagement.StoreTimeout())
	adm := tracker.NewAdmin(trk)

	engagement.RegisterHandlers(trk)
	admin.RegisterHandlers(trk, adm)

	dg, err = discordgo.New("Bot " + config.Cfg.Token)
	if err != nil {
		logrus.WithError(err).Error("failed to create Discord session")
		return
	}

	registerEventHandlers(dg)

	err = dg.Open()
	if err != nil {
		logrus.WithError(err).Error("error opening connection")
		return
	}

	for _, guildID := range config.Cfg.Commands.Allowguils {
		seedGuildDefaults(adm, guildID)

		for _, cmd := range command.AllCommands {
			_, err := dg.ApplicationCommandCreate(dg.State.User.ID, guildID, cmd)
			if err != nil {
				logrus.WithField("command", cmd.Name).WithError(err).Fatal("cannot create command")
			}
		}
	}

	logrus.Info("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}

// seedGuildDefaults pushes the config file's channel setup into the guild's
// session. Values an administrator already configured are left alone.
func seedGuildDefaults(adm *tracker.Admin, guildID string) {
	eng := config.Cfg.Engagement
	err := adm.SeedDefaults(guildID, eng.AllowedChannels(), eng.LogChannelID, eng.ReportChannelID)
	if err != nil {
		logrus.WithField("guild", guildID).WithError(err).Warn("failed to seed guild defaults")
	}
}

// GetSession 返回当前的 Discord 会话
func GetSession() *discordgo.Session {
	return dg
}
