package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// Columns lists the db tag values of a struct in field order. Untagged
// fields and fields tagged "-" are skipped; embedded structs are flattened.
func Columns(input any) []string {
	var out []string
	walkColumns(structValue(input), func(column string, _ reflect.Value) {
		out = append(out, column)
	})
	return out
}

// ColumnValues maps db tag values to the field values of a struct, for use
// with squirrel SetMap.
func ColumnValues(input any) map[string]any {
	out := make(map[string]any)
	walkColumns(structValue(input), func(column string, v reflect.Value) {
		out[column] = v.Interface()
	})
	return out
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return v
}

func walkColumns(v reflect.Value, fn func(column string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Tag.Get(ColumnTag) == "" {
			walkColumns(v.Field(i), fn)
			continue
		}

		if field.PkgPath != "" {
			continue
		}

		tag := field.Tag.Get(ColumnTag)
		if tag == "" || tag == "-" {
			continue
		}

		fn(tag, v.Field(i))
	}
}

const columnPrefixFmt = "%s.%s"

// PrefixColumns qualifies each column with a table alias, leaving ignored
// columns out.
func PrefixColumns(prefix string, columns []string, ignore ...string) []string {
	out := make([]string, 0, len(columns))

columnloop:
	for _, c := range columns {
		for _, ignored := range ignore {
			if c == ignored {
				continue columnloop
			}
		}

		out = append(out, fmt.Sprintf(columnPrefixFmt, prefix, c))
	}
	return out
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
