package def

import (
	"github.com/bwmarrin/discordgo"
)

var ResetSessionCommand = &discordgo.ApplicationCommand{
	Name:                     "reset_session",
	Description:              "Reset all engagement data (Admin only)",
	DefaultMemberPermissions: &adminOnly,
}
