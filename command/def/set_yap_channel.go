package def

import (
	"github.com/bwmarrin/discordgo"
)

var SetYapChannelCommand = &discordgo.ApplicationCommand{
	Name:                     "set_yap_channel",
	Description:              "Set or add the current channel as an allowed post channel",
	DefaultMemberPermissions: &adminOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "add",
			Description: "If true, add this channel to the allowed list, otherwise replace the list with only this channel",
			Required:    false,
		},
	},
}
