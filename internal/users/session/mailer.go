// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"time"
)

// Mailer delivers login codes to readers.
type Mailer interface {
	SendLoginCode(context context.Context, email, code string, expiresIn time.Duration) error
}

// LogMailer writes login codes to the log instead of sending mail.
// It is meant for local development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendLoginCode logs the code.
func (mailer *LogMailer) SendLoginCode(context context.Context, email, code string, expiresIn time.Duration) error {
	mailer.logger.InfoContext(context, "login_code_issued",
		slog.String("email", email),
		slog.String("code", code),
		slog.Duration("expires_in", expiresIn),
	)
	return nil
}
