package models

import "strings"

// QueryType enumerates the read-only questions the chat channel answers.
type QueryType string

const (
	QueryStock   QueryType = "stock"
	QueryLow     QueryType = "low"
	QueryTop     QueryType = "top"
	QueryHelp    QueryType = "help"
	QueryUnknown QueryType = "unknown"
)

// Query is a parsed chat message.
type Query struct {
	Type QueryType
	Raw  string
	Args []string
}

// ParseQuery derives a Query from a free-form text message.
func ParseQuery(message string) Query {
	normalized := strings.TrimSpace(strings.ToLower(message))
	query := Query{Raw: message, Type: QueryUnknown}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return query
	}

	switch head := QueryType(strings.TrimPrefix(tokens[0], "/")); head {
	case QueryStock, QueryLow, QueryTop, QueryHelp:
		query.Type = head
	}

	if len(tokens) > 1 {
		query.Args = tokens[1:]
	}

	return query
}
