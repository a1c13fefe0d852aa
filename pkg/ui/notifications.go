package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"pixivsave/pkg/models"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender uses notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=pixivsave", title, message).Run()
}

// MacOSNotificationSender uses osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender uses a PowerShell toast
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	esc := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("pixivsave").Show($toast)
	`, esc.Replace(title), esc.Replace(message))

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// Notifier sends the end of run notification
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks a sender for the current platform. Unsupported
// platforms get a Notifier that does nothing.
func NewNotifier() *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}

	return &Notifier{sender: sender}
}

// NewNotifierWithSender is used by tests
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// NotifyRunComplete reports the outcome of a finished run. Delivery
// errors are ignored.
func (n *Notifier) NotifyRunComplete(s *models.Summary) {
	if n.sender == nil || s == nil {
		return
	}

	title := "pixivsave: capture completed"
	failed := len(s.FailedLinks())
	if failed > 0 || s.ImagesFailed > 0 {
		title = "pixivsave: capture finished with errors"
	}
	msg := fmt.Sprintf("%d images from %d artworks", s.ImagesWritten, len(s.Results)-s.Count(models.OutcomeSkipped))
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	_ = n.sender.Send(title, msg)
}

// NotifyRunFailed reports a fatal error
func (n *Notifier) NotifyRunFailed(err error) {
	if n.sender == nil || err == nil {
		return
	}
	_ = n.sender.Send("pixivsave: capture failed", err.Error())
}
