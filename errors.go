/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}

// ErrorKind is the stable failure taxonomy surfaced to callers. The
// presentation layer maps kinds to user-facing messages; the detail
// string is advisory only.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindForbidden           ErrorKind = "forbidden"
	KindInvalidTransition   ErrorKind = "invalid_transition"
	KindInsufficientPlayers ErrorKind = "insufficient_players"
	KindRoomClosed          ErrorKind = "room_closed"
	KindValidationFailed    ErrorKind = "validation_failed"
)

type GameError struct {
	Kind   ErrorKind
	Detail string
}

func (e *GameError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

func gameErr(kind ErrorKind, format string, args ...any) *GameError {
	return &GameError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// errKind extracts the taxonomy kind from an error chain, or "" if the
// error is not a GameError.
func errKind(err error) ErrorKind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
