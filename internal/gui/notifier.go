package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// notifier shows controller messages in the window. The controller may call
// it from any goroutine.
type notifier struct {
	a *Application
}

func (n *notifier) Alert(message string) {
	fyne.Do(func() {
		dialog.ShowInformation("flipgrid", message, n.a.window)
	})
}

func (n *notifier) SetLoading(loading bool) {
	fyne.Do(func() {
		if loading {
			n.a.loadingLabel.Show()
			n.a.updateStatus("Loading vocabulary...")
		} else {
			n.a.loadingLabel.Hide()
		}
	})
}
