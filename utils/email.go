package utils

import (
	"asaan_shaadi/config"
	"asaan_shaadi/logger"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var mailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type BookingEmailData struct {
	ReferenceCode string
	CustomerName  string
	VenueName     string
	CatererName   string
	EventType     string
	EventDate     string
	StartTime     string
	EndTime       string
	GuestCount    int
	TotalAmount   float64
	Status        string
	DetailLink    string
}

type ContactEmailData struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func MailConfigured() bool {
	return config.Config("SMTP_HOST") != ""
}

func renderTemplate(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

func sendHTML(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", config.Config("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(config.Config("SMTP_HOST"), config.Int("SMTP_PORT"), config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

func sendText(to, subject, text string) error {
	e := email.NewEmail()
	e.From = config.Config("SMTP_FROM")
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)

	host := config.Config("SMTP_HOST")
	addr := fmt.Sprintf("%s:%d", host, config.Int("SMTP_PORT"))
	var auth smtp.Auth
	if user := config.Config("SMTP_USERNAME"); user != "" {
		auth = smtp.PlainAuth("", user, config.Config("SMTP_PASSWORD"), host)
	}
	return e.Send(addr, auth)
}

// SendBookingConfirmationEmail renders and sends the booking mail in the background.
func SendBookingConfirmationEmail(to string, data BookingEmailData) {
	if !MailConfigured() {
		logger.L().Info("smtp not configured, skipping booking email", zap.String("to", to), zap.String("reference", data.ReferenceCode))
		return
	}
	go func() {
		html, err := renderTemplate("booking_confirmation.html", data)
		if err != nil {
			logger.L().Error("render booking email", zap.Error(err))
			return
		}
		if err := sendHTML(to, "Booking "+data.ReferenceCode+" received", html); err != nil {
			logger.L().Error("send booking email", zap.String("to", to), zap.Error(err))
		}
	}()
}

func SendContactNotificationEmail(to string, data ContactEmailData) {
	if !MailConfigured() || to == "" {
		logger.L().Info("contact notification skipped", zap.String("subject", data.Subject))
		return
	}
	go func() {
		html, err := renderTemplate("contact_notification.html", data)
		if err != nil {
			logger.L().Error("render contact email", zap.Error(err))
			return
		}
		if err := sendHTML(to, "[Contact] "+data.Subject, html); err != nil {
			logger.L().Error("send contact email", zap.Error(err))
		}
	}()
}

func SendPasswordResetEmail(to, link string) {
	sendTextAsync(to, "Reset your Asaan Shaadi password",
		fmt.Sprintf("We received a request to reset your password.\n\nOpen this link within one hour to choose a new one:\n%s\n\nIf you did not request this, ignore this email.", link))
}

func SendVerificationEmail(to, link string) {
	sendTextAsync(to, "Verify your Asaan Shaadi account",
		fmt.Sprintf("Welcome to Asaan Shaadi!\n\nConfirm your email address by opening:\n%s", link))
}

func sendTextAsync(to, subject, text string) {
	if !MailConfigured() {
		logger.L().Info("smtp not configured, skipping email", zap.String("to", to), zap.String("subject", subject))
		return
	}
	go func() {
		if err := sendText(to, subject, text); err != nil {
			logger.L().Error("send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		}
	}()
}
