package engagement

import (
	"github.com/enryu8191/Creator-Bot/command/def"
	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
)

// RegisterHandlers wires the engagement command handlers to the router.
// The gateway event handlers (MessageCreate, MessageReaction*) are attached
// to the session by the bot package.
func RegisterHandlers(t *tracker.Tracker) {
	trk = t

	handler.AddCommandHandler(def.StatusCommand.Name, statusCommandHandler)
	handler.AddCommandHandler(def.LeaderboardCommand.Name, leaderboardCommandHandler)
	handler.AddCommandHandler(def.ChangeLinkCommand.Name, changeLinkCommandHandler)
}
