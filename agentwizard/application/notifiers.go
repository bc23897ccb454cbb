package application

import (
	"context"
	"strings"

	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/AzielCF/az-console/pkg/wizardmonitor"
	"github.com/sirupsen/logrus"
)

// MonitorNotifier records every wizard event in the monitor.
func MonitorNotifier(m *wizardmonitor.Monitor) wizard.INotifier {
	return wizard.NotifierFunc(func(_ context.Context, e wizard.Event) {
		status := "ok"
		detail := e.Name
		switch e.Kind {
		case wizard.EventDraftSaveFailed, wizard.EventFinalizeFailed:
			status = "error"
			detail = e.Reason
		case wizard.EventValidationFailed:
			detail = strings.Join(e.Errors, "; ")
		}
		m.Record(wizardmonitor.Event{
			SessionID: e.SessionID,
			Kind:      string(e.Kind),
			Step:      string(e.Step),
			Status:    status,
			Detail:    detail,
		})
	})
}

// LogNotifier writes wizard events to the log.
var LogNotifier = wizard.NotifierFunc(func(_ context.Context, e wizard.Event) {
	switch e.Kind {
	case wizard.EventDraftSaveFailed, wizard.EventFinalizeFailed:
		logrus.Warnf("[WIZARD] session %s: %s (%s)", e.SessionID, e.Kind, e.Reason)
	case wizard.EventValidationFailed:
		logrus.Debugf("[WIZARD] session %s: step %s blocked: %v", e.SessionID, e.Step, e.Errors)
	default:
		logrus.Debugf("[WIZARD] session %s: %s", e.SessionID, e.Kind)
	}
})
