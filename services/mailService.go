package services

import (
	"fmt"
	"net/smtp"
	"os"
)

// Mailer delivers verification codes. The SMTP implementation reads its
// credentials from the environment; nothing is hardcoded.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

func SMTPMailerFromEnv() *SMTPMailer {
	return &SMTPMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		from:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	subject := "Votre code de vérification AmCbunq"
	body := fmt.Sprintf("Bonjour,\n\nVotre code de vérification est : %s\n\nIl expire dans 15 minutes.", code)

	msg := "From: " + m.from + "\n" +
		"To: " + to + "\n" +
		"Subject: " + subject + "\n\n" +
		body

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg))
}
