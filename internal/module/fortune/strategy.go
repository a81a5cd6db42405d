package fortune

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hierfortune/server/internal/module/user"
)

// Strategy is the kind-specific half of a generation: it renders the
// prompt, invokes the generator, maps the model's payload to an entity,
// and persists it. The surrounding cache lookup, quota gate, and telemetry
// belong to the service, not to strategies.
type Strategy interface {
	Kind() Kind
	Generate(ctx context.Context, u *user.User, req any) (Result, error)
}

// Registry dispatches to the strategy registered for a kind.
type Registry struct {
	byKind map[Kind]Strategy
}

// NewRegistry builds a registry from the given strategies. Registering two
// strategies for the same kind is a wiring bug and panics at startup.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{byKind: make(map[Kind]Strategy, len(strategies))}
	for _, s := range strategies {
		if _, dup := r.byKind[s.Kind()]; dup {
			panic(fmt.Sprintf("duplicate strategy for kind %s", s.Kind()))
		}
		r.byKind[s.Kind()] = s
	}
	return r
}

// Get returns the strategy for the kind.
func (r *Registry) Get(k Kind) (Strategy, error) {
	s, ok := r.byKind[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return s, nil
}

// birthParams renders the prompt parameters shared by the kinds that read
// the user's stored birth facts.
func birthParams(u *user.User) map[string]string {
	return map[string]string{
		"name":       u.Name,
		"birthYear":  strconv.Itoa(u.BirthInfo.BirthYear),
		"birthMonth": strconv.Itoa(u.BirthInfo.BirthMonth),
		"birthDay":   strconv.Itoa(u.BirthInfo.BirthDay),
		"birthTime":  string(u.BirthInfo.BirthSlot),
		"sex":        string(u.Sex),
	}
}
