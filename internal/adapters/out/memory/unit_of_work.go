package memory

import (
	"context"
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside of Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over a shared OrderStore.
type UnitOfWorkFactory struct {
	store *OrderStore
}

// NewUnitOfWorkFactory creates a factory writing to store.
func NewUnitOfWorkFactory(store *OrderStore) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create produces a fresh unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

type stagedWrite struct {
	order           *order.Order
	expectedVersion int64
	isNew           bool
}

// UnitOfWork stages writes and applies them to the store on Commit, all or nothing.
// Version checks run again under the store lock at commit time, so two units of work
// updating the same order from the same version cannot both commit.
// A UnitOfWork is meant for one goroutine.
type UnitOfWork struct {
	store  *OrderStore
	active bool
	staged []stagedWrite
}

// Begin starts collecting writes. Calling it twice is a no-op.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

// Commit verifies every staged write against the store and applies them together.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer uow.reset()

	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()

	for _, w := range uow.staged {
		if err := uow.store.checkWriteLocked(w); err != nil {
			return err
		}
	}

	for _, w := range uow.staged {
		clone, err := cloneOrder(w.order)
		if err != nil {
			return err
		}
		uow.store.orders[clone.ID().Bytes()] = clone
	}
	return nil
}

// Rollback discards every staged write.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.reset()
	return nil
}

// OrderRepository returns a repository staging its writes into this unit of work.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	uow.active = false
	uow.staged = nil
}

func (uow *UnitOfWork) stage(w stagedWrite) error {
	clone, err := cloneOrder(w.order)
	if err != nil {
		return err
	}
	w.order = clone

	if !uow.active {
		// outside of a transaction writes apply immediately, like the gorm adapter
		uow.store.mu.Lock()
		defer uow.store.mu.Unlock()
		if err = uow.store.checkWriteLocked(w); err != nil {
			return err
		}
		uow.store.orders[clone.ID().Bytes()] = clone
		return nil
	}

	uow.staged = append(uow.staged, w)
	return nil
}

func (uow *UnitOfWork) stagedOrder(id kernel.UUID) (*order.Order, bool) {
	for i := len(uow.staged) - 1; i >= 0; i-- {
		if uow.staged[i].order.ID().IsEqual(id) {
			return uow.staged[i].order, true
		}
	}
	return nil, false
}

// checkWriteLocked must be called with s.mu held.
func (s *OrderStore) checkWriteLocked(w stagedWrite) error {
	current, exists := s.orders[w.order.ID().Bytes()]
	if w.isNew {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("order",
				fmt.Errorf("order %s already exists", w.order.ID()))
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", w.order.ID().String())
	}
	if current.Version() != w.expectedVersion {
		return errs.NewConcurrencyConflictError("order", w.order.ID().String(), w.expectedVersion)
	}
	return nil
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.stage(stagedWrite{order: aggregate, isNew: true})
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.stage(stagedWrite{order: aggregate, expectedVersion: expectedVersion})
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if staged, ok := r.uow.stagedOrder(id); ok {
		return cloneOrder(staged)
	}
	return r.uow.store.Get(ctx, id)
}
