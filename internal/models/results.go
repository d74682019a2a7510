package models

import (
	"encoding/json"
	"errors"
)

// Results is a page of a collection endpoint. Offset-paginated routes fill
// Offset; cursor-paginated routes such as /tasks fill From and Next.
type Results[T any] struct {
	Results []T
	Total   int
	Limit   int
	Offset  *int
	From    *int
	Next    *int
}

type resultsWire[T any] struct {
	Results *[]T `json:"results"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  *int `json:"offset"`
	From    *int `json:"from"`
	Next    *int `json:"next"`
}

func (r *Results[T]) UnmarshalJSON(data []byte) error {
	var wire resultsWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Results == nil {
		return errors.New("results: missing results array")
	}

	*r = Results[T]{
		Results: *wire.Results,
		Total:   wire.Total,
		Limit:   wire.Limit,
		Offset:  wire.Offset,
		From:    wire.From,
		Next:    wire.Next,
	}
	return nil
}

// HasNext reports whether the server advertised another page.
func (r *Results[T]) HasNext() bool {
	return r.Next != nil
}
