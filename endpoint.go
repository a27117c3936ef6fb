package scholarly

import "context"

// EndpointSource loads the ordered list of candidate endpoints.
// Implementations hide whether the list comes from a local file or a remote list.
type EndpointSource interface {
	Load(ctx context.Context) ([]string, error)
}
