package cashflow

import (
	"context"

	"github.com/pkg/errors"
)

// entityService implements EntityService
type entityService struct {
	client *Client
}

// List returns the entities of one kind
func (s *entityService) List(ctx context.Context, kind Kind) ([]Entity, error) {
	if _, err := NewState().listFor(kind); err != nil {
		return nil, err
	}

	var out []Entity
	s.client.read(func(st *State) {
		out = cloneEntities(st.Entities(kind))
	})
	return out, nil
}

// Get retrieves a single entity
func (s *entityService) Get(ctx context.Context, id string) (*Entity, error) {
	var found *Entity
	s.client.read(func(st *State) {
		if e, ok := st.FindEntity(id); ok {
			clone := cloneEntities([]Entity{*e})[0]
			found = &clone
		}
	})
	if found == nil {
		return nil, errors.Wrapf(ErrNotFound, "entity %s", id)
	}
	return found, nil
}

// Add stores a new entity
func (s *entityService) Add(ctx context.Context, entity Entity, kind Kind) (*Entity, error) {
	var added Entity
	err := s.client.mutate(ctx, func(st *State) error {
		e, err := st.AddEntity(entity, kind)
		if err != nil {
			return err
		}
		added = *e
		return nil
	})
	if added.ID == "" {
		return nil, err
	}
	return &added, err
}

// Update replaces an existing entity
func (s *entityService) Update(ctx context.Context, entity Entity) error {
	return s.client.mutate(ctx, func(st *State) error {
		if err := st.UpdateEntity(entity); err != nil {
			return errors.Wrapf(err, "update entity %s", entity.ID)
		}
		return nil
	})
}

// Remove deletes an entity
func (s *entityService) Remove(ctx context.Context, id string) error {
	return s.client.mutate(ctx, func(st *State) error {
		if err := st.RemoveEntity(id); err != nil {
			return errors.Wrapf(err, "remove entity %s", id)
		}
		return nil
	})
}

// SetBalances sets the opening balances
func (s *entityService) SetBalances(ctx context.Context, initialBalance, initialSavings float64) error {
	return s.client.mutate(ctx, func(st *State) error {
		st.InitialBalance = initialBalance
		st.InitialSavings = initialSavings
		return nil
	})
}
