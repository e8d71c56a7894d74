package provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nevishq/genforge/internal/domain"
)

// Directory maps provider refs to their configured clients. It is built
// once at startup with every credentialed backend the deployment carries
// and immutable afterwards.
type Directory struct {
	clients map[domain.ProviderRef]Client
}

// NewDirectory builds a Directory from the given clients. At least one
// client is required, and a nil client for a ref is a wiring mistake
// surfaced at construction.
func NewDirectory(clients map[domain.ProviderRef]Client) (*Directory, error) {
	if len(clients) == 0 {
		return nil, errors.New("directory requires at least one provider client")
	}

	d := &Directory{clients: make(map[domain.ProviderRef]Client, len(clients))}
	for ref, client := range clients {
		if client == nil {
			return nil, fmt.Errorf("nil client for provider ref %q", ref)
		}
		d.clients[ref] = client
	}

	return d, nil
}

// Client returns the client registered for the given ref, or
// ErrUnknownProvider.
func (d *Directory) Client(ref domain.ProviderRef) (Client, error) {
	client, ok := d.clients[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, ref)
	}
	return client, nil
}

// Refs returns the registered refs in lexical order.
func (d *Directory) Refs() []domain.ProviderRef {
	refs := make([]domain.ProviderRef, 0, len(d.clients))
	for ref := range d.clients {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}
