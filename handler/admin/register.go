package admin

import (
	"github.com/enryu8191/Creator-Bot/command/def"
	"github.com/enryu8191/Creator-Bot/handler"
	"github.com/enryu8191/Creator-Bot/tracker"
)

// RegisterHandlers wires the admin command and component handlers to the
// router.
func RegisterHandlers(t *tracker.Tracker, a *tracker.Admin) {
	trk = t
	adm = a

	handler.AddCommandHandler(def.CheckEngagementCommand.Name, checkEngagementCommandHandler)
	handler.AddCommandHandler(def.ResetSessionCommand.Name, resetSessionCommandHandler)
	handler.AddCommandHandler(def.SetYapChannelCommand.Name, setYapChannelCommandHandler)
	handler.AddCommandHandler(def.SetLogCommand.Name, setLogCommandHandler)
	handler.AddCommandHandler(def.SetReportCommand.Name, setReportCommandHandler)

	handler.AddComponentHandler("reset_confirm", confirmResetHandler)
	handler.AddComponentHandler("reset_cancel", cancelResetHandler)
}
