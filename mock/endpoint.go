package mock

import (
	"context"

	"github.com/fwojciec/scholarly"
)

var _ scholarly.EndpointSource = (*EndpointSource)(nil)

// EndpointSource is a mock implementation of scholarly.EndpointSource.
type EndpointSource struct {
	LoadFn func(ctx context.Context) ([]string, error)
}

func (s *EndpointSource) Load(ctx context.Context) ([]string, error) {
	return s.LoadFn(ctx)
}
