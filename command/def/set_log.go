package def

import (
	"github.com/bwmarrin/discordgo"
)

var SetLogCommand = &discordgo.ApplicationCommand{
	Name:                     "set_log",
	Description:              "Set the log channel (default: current channel)",
	DefaultMemberPermissions: &adminOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel to send log messages to",
			Required:    false,
		},
	},
}
