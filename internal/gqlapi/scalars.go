package gqlapi

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// dateTimeLayout is ISO-8601 in UTC with millisecond precision.
const dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateTime serializes time.Time values and parses ISO-8601 strings.
var DateTime = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "ISO-8601 timestamp in UTC with millisecond precision",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return formatDateTime(v)
		case *time.Time:
			if v == nil {
				return nil
			}
			return formatDateTime(*v)
		case string:
			return v
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case string:
			return parseDateTime(v)
		case *string:
			if v == nil {
				return nil
			}
			return parseDateTime(*v)
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseDateTime(v.Value)
		}
		return nil
	},
})

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

// parseDateTime accepts RFC 3339 with or without fractional seconds.
// Unparseable input yields nil, which graphql-go reports as an invalid value.
func parseDateTime(s string) interface{} {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return t.UTC()
}
