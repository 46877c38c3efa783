package def

import (
	"github.com/bwmarrin/discordgo"
)

var SetReportCommand = &discordgo.ApplicationCommand{
	Name:                     "set_report",
	Description:              "Set the report channel (default: current channel)",
	DefaultMemberPermissions: &adminOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Channel to send engagement reports to",
			Required:    false,
		},
	},
}
