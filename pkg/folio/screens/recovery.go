package screens

import (
	"github.com/BrandonKowalski/folio/pkg/folio/activity"
	"github.com/BrandonKowalski/folio/pkg/folio/constants"
)

type recoveryAction int

const (
	recoveryGoHome recoveryAction = iota
	recoveryForgetLastBook
	recoveryReboot
)

// recovery is shown when a screen cannot be built, and from the home menu.
// Forgetting the last book breaks a boot loop on a book that fails to open.
type recovery struct {
	*activity.Base
	deps    Deps
	reason  string
	actions []recoveryAction
	list    *optionList
}

func newRecovery(m *activity.Manager, d Deps, reason string) *recovery {
	rc := &recovery{
		Base:    activity.NewBase("Recovery", m),
		deps:    d,
		reason:  reason,
		actions: []recoveryAction{recoveryGoHome, recoveryForgetLastBook},
	}
	labels := []string{d.Tr.Tr("GoHome"), d.Tr.Tr("ForgetLastBook")}
	if d.Reboot != nil {
		rc.actions = append(rc.actions, recoveryReboot)
		labels = append(labels, d.Tr.Tr("Reboot"))
	}
	rc.list = newOptionList(labels)
	return rc
}

// The device must stay awake while the user reads the failure.
func (rc *recovery) PreventAutoSleep() bool { return true }

func (rc *recovery) Loop() {
	if rc.list.update(rc.Input()) {
		rc.RequestUpdate()
	}
	if !rc.Released(constants.ButtonConfirm) {
		return
	}

	switch rc.actions[rc.list.index()] {
	case recoveryGoHome:
		rc.GoHome()
	case recoveryForgetLastBook:
		if rc.deps.State != nil {
			if err := rc.deps.State.ClearLastBook(); err != nil {
				rc.Logger().Error("Failed to forget last book", "error", err)
			}
		}
		rc.GoHome()
	case recoveryReboot:
		rc.Logger().Info("Rebooting from recovery")
		if err := rc.deps.Reboot(); err != nil {
			rc.Logger().Error("Reboot failed", "error", err)
			rc.Manager().GoToFullScreenMessage(err.Error(), activity.StyleItalic)
			return
		}
		rc.Manager().GoToFullScreenMessage(rc.deps.Tr.Tr("Rebooting"), activity.StyleBold)
	}
}

func (rc *recovery) Render(*activity.RenderLock) {
	r := rc.Renderer()
	r.ClearScreen()
	r.DrawCenteredText(30, rc.deps.Tr.Tr("Recovery"), activity.StyleBold)
	top := 30 + 2*r.LineHeight()
	if rc.reason != "" {
		r.DrawCenteredText(top, rc.reason, activity.StyleItalic)
		top += 2 * r.LineHeight()
	}
	rc.list.draw(r, top)
	drawHints(r, "", rc.deps.Tr.Tr("Confirm"))
	display(rc.Base, constants.FullRefresh)
}
