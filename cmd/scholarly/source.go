package main

import (
	"context"

	"github.com/fwojciec/scholarly"
)

// Compile-time interface verification.
var _ scholarly.EndpointSource = (*CompositeSource)(nil)

// CompositeSource implements scholarly.EndpointSource by reading the local
// list first and falling back to the remote list if the file is missing
// or empty.
type CompositeSource struct {
	local  scholarly.EndpointSource
	remote scholarly.EndpointSource
}

// NewCompositeSource creates a new CompositeSource. The remote source may
// be nil, in which case only the local list is used.
func NewCompositeSource(local, remote scholarly.EndpointSource) *CompositeSource {
	return &CompositeSource{
		local:  local,
		remote: remote,
	}
}

// Load implements scholarly.EndpointSource.
func (s *CompositeSource) Load(ctx context.Context) ([]string, error) {
	endpoints, err := s.local.Load(ctx)
	if err != nil && scholarly.ErrorCode(err) != scholarly.ENOTFOUND {
		return nil, err
	}

	if len(endpoints) > 0 {
		return endpoints, nil
	}

	if s.remote != nil {
		return s.remote.Load(ctx)
	}

	return nil, err
}
