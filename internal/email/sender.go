package email

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

//go:generate mockgen -source=sender.go -destination=mock/sender_mock.go -package=mock
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPSender() Sender {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &smtpSender{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)

	return d.DialAndSend(m)
}

// InvitationBody renders the invitation email for a company invite.
func InvitationBody(companyName, invitationCode string) string {
	return fmt.Sprintf(
		"<p>You have been invited to join <b>%s</b> on Evalyze.</p><p>Your invitation code: <b>%s</b></p><p>The code expires in 7 days.</p>",
		companyName, invitationCode,
	)
}

// ActivationBody renders the employee activation-code email.
func ActivationBody(fullName, activationCode string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Evalyze activation code: <b>%s</b></p><p>Use it to sign in, no password needed.</p>",
		fullName, activationCode,
	)
}

// VerificationBody renders the passwordless login code email.
func VerificationBody(code string) string {
	return fmt.Sprintf(
		"<p>Your Evalyze login code: <b>%s</b></p><p>The code expires in 10 minutes.</p>",
		code,
	)
}
