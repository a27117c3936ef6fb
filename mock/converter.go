package mock

import "github.com/fwojciec/scholarly"

var _ scholarly.Converter = (*Converter)(nil)

// Converter is a mock implementation of scholarly.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
