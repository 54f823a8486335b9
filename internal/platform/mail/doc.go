// Package mail delivers reminder messages over SMTP using go-mail. Each
// message carries an HTML body, a plain-text alternative, and an iCalendar
// invite for the occurrence.
package mail
