package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/frahmantamala/club-finance/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"dollars": money.Format,
}).ParseFS(templateFS, "templates/*.html"))

// DuesNotice carries what every dues email renders.
type DuesNotice struct {
	FirstName     string
	Amount        int64
	DueDate       string
	DaysUntilDue  int
	DaysOverdue   int
	GraceDaysLeft int
}

type Message struct {
	Subject string
	HTML    string
}

func RenderReminder(n DuesNotice) (Message, error) {
	return render("reminder.html", fmt.Sprintf("Membership dues due in %d days", n.DaysUntilDue), n)
}

func RenderOverdue(n DuesNotice) (Message, error) {
	return render("overdue.html", "Membership dues are overdue", n)
}

func RenderInactivated(n DuesNotice) (Message, error) {
	return render("inactivated.html", "Your membership is now inactive", n)
}

func render(name, subject string, data DuesNotice) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{Subject: subject, HTML: buf.String()}, nil
}
