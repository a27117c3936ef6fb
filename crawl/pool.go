package crawl

import (
	"container/list"

	"github.com/fwojciec/scholarly"
)

// EndpointPool is a cyclic rotation over proxy endpoints.
// Next moves the head to the tail; DiscardLastReturned drops the element
// most recently returned by Next in constant time.
//
// EndpointPool is not safe for concurrent use: it assumes a single cursor.
type EndpointPool struct {
	ring *list.List
	last *list.Element
}

// NewEndpointPool creates a pool rotating over endpoints in the given order.
func NewEndpointPool(endpoints []string) *EndpointPool {
	ring := list.New()
	for _, e := range endpoints {
		ring.PushBack(e)
	}
	return &EndpointPool{ring: ring}
}

// Next returns the head of the rotation and moves it to the tail.
// Returns EEXHAUSTED if the pool is empty.
func (p *EndpointPool) Next() (string, error) {
	head := p.ring.Front()
	if head == nil {
		return "", scholarly.Errorf(scholarly.EEXHAUSTED, "endpoint pool is empty")
	}
	p.ring.MoveToBack(head)
	p.last = head
	endpoint, _ := head.Value.(string)
	return endpoint, nil
}

// DiscardLastReturned removes the endpoint most recently returned by Next.
// It is a no-op if nothing has been returned since the last discard.
func (p *EndpointPool) DiscardLastReturned() {
	if p.last == nil {
		return
	}
	p.ring.Remove(p.last)
	p.last = nil
}

// Len returns the number of endpoints left in the pool.
func (p *EndpointPool) Len() int {
	return p.ring.Len()
}
