package services

import (
	"fmt"
	"log"
	"net/smtp"

	"nagoyameshi/internal/config"
)

// Mailer はパスワードリセットメールを送信します。
type Mailer interface {
	SendPasswordReset(to, resetURL string) error
}

// SMTPMailer は SMTP (開発時は Mailtrap) 経由でメールを送ります。
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, resetURL string) error {
	// 件名と本文
	message := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: パスワードリセット\r\n\r\n以下のURLからパスワードを再設定してください。\r\n%s",
		m.from, to, resetURL,
	))

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message); err != nil {
		log.Printf("Failed to send reset email: %v", err)
		return err
	}
	return nil
}
