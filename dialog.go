package main

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// CatchPanicToContext must be deferred. It turns a panic into the cause of
// ctxCancel so a failed background job ends like any other error.
func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	v := recover()
	if v == nil {
		return
	}

	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	log.Printf("recovered: %v\n%s", err, debug.Stack())
	if ctxCancel != nil {
		ctxCancel(err)
	}
}

// NewErrorDialog reports a failed operation. The message text is selectable
// so paths and shader logs can be copied.
func NewErrorDialog(
	parent gtk.IWindow,
	operation string,
	err error,
) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s failed",
		operation,
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.SetTitle("GLMandel")
	dialog.Connect("response", dialog.Destroy)

	if messageArea, aerr := dialog.GetMessageArea(); aerr == nil {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			widget, ok := item.(*gtk.Widget)
			if !ok {
				return
			}
			if l, err := gtk.WidgetToLabel(widget); err == nil {
				l.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}

// ChooseSaveFile asks for an image path. ok is false if the user cancelled.
func ChooseSaveFile(parent gtk.IWindow, folder, name string) (path string, ok bool) {
	dialog, err := gtk.FileChooserDialogNewWith2Buttons(
		"Save Image",
		parent,
		gtk.FILE_CHOOSER_ACTION_SAVE,
		"_Cancel", gtk.RESPONSE_CANCEL,
		"_Save", gtk.RESPONSE_ACCEPT,
	)
	if err != nil {
		log.Println(err)
		return "", false
	}
	defer dialog.Destroy()

	dialog.SetDoOverwriteConfirmation(true)
	dialog.SetCurrentFolder(folder)
	dialog.SetCurrentName(name)

	if dialog.Run() != gtk.RESPONSE_ACCEPT {
		return "", false
	}

	path = dialog.GetFilename()
	return path, path != ""
}

func NewProgressDialog(
	parentCtx context.Context,
	parentWindow gtk.IWindow,
	title string,
	description string,
	onCancel func(),
) (*ProgressDialog, error) {
	var err error
	dialog := &ProgressDialog{}
	dialog.Dialog, err = gtk.DialogNewWithButtons(
		title,
		parentWindow,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"CANCEL", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return nil, err
	}
	dialog.SetKeepAbove(true)
	dialog.Connect("response", func(dialog *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_CANCEL {
			onCancel()
		}
	})

	ca, err := dialog.GetContentArea()
	if err != nil {
		return nil, err
	}
	dialog.label, err = gtk.LabelNew(description)
	if err != nil {
		return nil, err
	}
	ca.Add(dialog.label)

	dialog.progressBar, err = gtk.ProgressBarNew()
	if err != nil {
		return nil, err
	}
	dialog.progressBar.SetShowText(true)
	dialog.progressBar.SetSizeRequest(500, 80)
	ca.Add(dialog.progressBar)

	go dialog.periodicUpdate(parentCtx)
	return dialog, nil
}

// ProgressDialog shows the progress of the current stage of a background
// job and destroys itself when the job's context is done.
type ProgressDialog struct {
	*gtk.Dialog
	progressBar *gtk.ProgressBar
	label       *gtk.Label

	progressFunc func() float64
}

// AddProgressSupplier switches the dialog to a new stage. It may be called
// from any goroutine.
func (dialog *ProgressDialog) AddProgressSupplier(stage string, supplier func() float64) {
	glib.IdleAdd(func() {
		dialog.progressFunc = supplier
		dialog.progressBar.SetText(stage)
	})
}

func (dialog *ProgressDialog) periodicUpdate(ctx context.Context) {
	ticker := time.NewTicker(time.Second / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			glib.IdleAdd(func() {
				if dialog.progressFunc != nil {
					dialog.progressBar.SetFraction(dialog.progressFunc())
				}
			})
		case <-ctx.Done():
			glib.IdleAdd(func() {
				dialog.Destroy()
			})
			return
		}
	}
}
