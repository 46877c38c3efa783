package def

import (
	"github.com/bwmarrin/discordgo"
)

var adminOnly int64 = discordgo.PermissionAdministrator

var CheckEngagementCommand = &discordgo.ApplicationCommand{
	Name:                     "check_engagement",
	Description:              "Check who hasn't engaged",
	DefaultMemberPermissions: &adminOnly,
}
