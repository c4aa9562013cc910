package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error codes quoted by users to support staff:
//
//	SCR001 - Unknown screen: the requested list screen does not exist
//	PRM001 - Invalid parameters: the page, sort or filter request was malformed
//	DB001  - Connection refused: unable to reach the database
//	DB002  - Timeout: the query did not finish in time
//	DB003  - Schema: a table or column is missing (migrations not applied)
//	DB004  - Connection lost: the database connection was interrupted
//	EXP001 - Export failed: the file could not be generated
//	GEN001 - Unknown error: check the application logs for the technical error

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgUnknownScreen = UserMessage{
		Message: "This screen does not exist",
		Action:  "Pick a screen from the dashboard",
		Code:    "SCR001",
	}
	msgInvalidParams = UserMessage{
		Message: "The table request could not be understood",
		Action:  "Clear the search and filters and try again",
		Code:    "PRM001",
	}
	msgTimeout = UserMessage{
		Message: "The query took too long",
		Action:  "Narrow the search or filters and try again",
		Code:    "DB002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages. The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{pattern: "timeout", msg: msgTimeout},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The database schema is out of date",
			Action:  "Ask an administrator to run the migrations",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "conn closed",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "export",
		msg: UserMessage{
			Message: "The export could not be generated",
			Action:  "Try again or export fewer rows",
			Code:    "EXP001",
		},
	},
}

// defaultMessage is returned when nothing matches (GEN001).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "GEN001",
}

// MapError converts a technical error to a user-friendly message.
// Sentinel errors are matched first, then known error text. Unmatched
// errors map to GEN001.
func MapError(err error) UserMessage {
	switch {
	case err == nil:
		return UserMessage{}
	case errors.Is(err, ErrUnknownScreen):
		return msgUnknownScreen
	case errors.Is(err, ErrInvalidParams):
		return msgInvalidParams
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
