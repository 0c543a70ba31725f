package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the rendering used for every date leaving the service.
const DateLayout = "2006-01-02T15:04:05"

// DefaultCloseColumn is used when an observation does not record its source column.
const DefaultCloseColumn = "close"

func init() {
	// Closing values are numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Day is a calendar timestamp rendered with DateLayout.
type Day time.Time

// MarshalJSON implements json.Marshaler.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(DateLayout))
}

// Time returns the underlying time.Time.
func (d Day) Time() time.Time {
	return time.Time(d)
}

// Field is a passthrough column carried unchanged from the source table.
// Value is a float64, a string, or nil for an empty cell.
type Field struct {
	Name  string
	Value interface{}
}

// Observation is one dated data point for an index.
type Observation struct {
	IndexName   string
	Date        time.Time
	Close       decimal.Decimal
	CloseColumn string
	Fields      []Field
}

// MarshalJSON renders the observation as a flat record: index_name,
// index_date, the close column under its source name, then passthrough
// columns in source order.
func (o Observation) MarshalJSON() ([]byte, error) {
	closeKey := o.CloseColumn
	if closeKey == "" {
		closeKey = DefaultCloseColumn
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value interface{}) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write("index_name", o.IndexName); err != nil {
		return nil, err
	}
	if err := write("index_date", o.Date.Format(DateLayout)); err != nil {
		return nil, err
	}
	if err := write(closeKey, o.Close); err != nil {
		return nil, err
	}
	for _, f := range o.Fields {
		if err := write(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Field returns the passthrough value stored under name.
func (o Observation) Field(name string) (interface{}, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
