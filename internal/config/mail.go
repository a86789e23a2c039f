package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/and161185/wzs-web/internal/errs"
)

// Mail configures the SMTP sender.
type Mail struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// NotifyTo receives mail whose To list is empty.
	NotifyTo []string
}

// MailFromEnv reads the SMTP_* variables and NOTIFY_TO_EMAIL.
// Host, port, username, password and from-address are required.
func MailFromEnv(get Lookup) (Mail, error) {
	require := func(key string) (string, error) {
		v, ok := get(key)
		if !ok {
			return "", fmt.Errorf("%w: %s not set", errs.ErrConfig, key)
		}
		return v, nil
	}

	var (
		m   Mail
		err error
	)
	if m.Host, err = require("SMTP_HOST"); err != nil {
		return Mail{}, err
	}
	port, err := require("SMTP_PORT")
	if err != nil {
		return Mail{}, err
	}
	p, err := strconv.ParseUint(strings.TrimSpace(port), 10, 16)
	if err != nil {
		return Mail{}, fmt.Errorf("%w: SMTP_PORT parse error: %v", errs.ErrConfig, err)
	}
	m.Port = int(p)
	if m.Username, err = require("SMTP_USERNAME"); err != nil {
		return Mail{}, err
	}
	if m.Password, err = require("SMTP_PASSWORD"); err != nil {
		return Mail{}, err
	}
	if m.FromEmail, err = require("SMTP_FROM_EMAIL"); err != nil {
		return Mail{}, err
	}

	m.FromName = readString(get, "SMTP_FROM_NAME", "Notifier")
	m.NotifyTo = splitList(readString(get, "NOTIFY_TO_EMAIL", ""))
	return m, nil
}
