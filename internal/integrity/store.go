package integrity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/vendora/pkg/db"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
	"github.com/angelmondragon/vendora/pkg/logger"
	"github.com/angelmondragon/vendora/pkg/metrics"
)

const (
	defaultOperationTimeout = 5 * time.Second

	opCreate       = "create"
	opGet          = "get"
	opUpdate       = "update"
	opDelete       = "delete"
	opSetDefault   = "set_default"
	opClearDefault = "clear_default"
	opTransition   = "transition"

	lockUpdate = "UPDATE"
	lockShare  = "SHARE"
)

// Locker serialises work on a key across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (func(context.Context) error, error)
}

// Params groups dependencies for the integrity store.
type Params struct {
	DB               *db.Client
	Logger           *logger.Logger
	Metrics          *metrics.IntegrityMetrics
	Locker           Locker
	OperationTimeout time.Duration
}

// Store applies every mutation of the marketplace schema inside a short
// transaction after checking the invariants of the foreign-key graph.
type Store struct {
	db      *db.Client
	logg    *logger.Logger
	metrics *metrics.IntegrityMetrics
	locker  Locker
	timeout time.Duration
}

// New builds a Store.
func New(params Params) (*Store, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	timeout := params.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	return &Store{
		db:      params.DB,
		logg:    logg,
		metrics: params.Metrics,
		locker:  params.Locker,
		timeout: timeout,
	}, nil
}

// Tx scopes integrity operations to one enclosing transaction.
type Tx struct {
	store *Store
	ctx   context.Context
	db    *gorm.DB
}

// Context returns the bounded context of the transaction.
func (t *Tx) Context() context.Context { return t.ctx }

// DB exposes the transaction for reads.
func (t *Tx) DB() *gorm.DB { return t.db }

// Create validates and inserts entity inside the transaction.
func (t *Tx) Create(entity models.Entity) error {
	return t.store.create(t.db, entity)
}

// Get loads a row inside the transaction.
func (t *Tx) Get(kind enums.EntityKind, id uuid.UUID) (models.Entity, error) {
	spec, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	return t.store.load(t.db, spec, id, false)
}

// Delete applies the delete policy of kind inside the transaction.
func (t *Tx) Delete(kind enums.EntityKind, id uuid.UUID) error {
	spec, err := lookup(kind)
	if err != nil {
		return err
	}
	return t.store.remove(t.db, spec, id)
}

// Update applies mutate to the row inside the transaction.
func (t *Tx) Update(kind enums.EntityKind, id uuid.UUID, mutate func(models.Entity) error) (models.Entity, error) {
	spec, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if mutate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mutation is required")
	}
	return t.store.update(t.db, spec, id, mutate)
}

// Transition moves an order product to next inside the transaction.
func (t *Tx) Transition(orderProductID uuid.UUID, next enums.OrderProductStatus) (*models.OrderProduct, error) {
	return t.store.transition(t.db, orderProductID, next)
}

// SetDefault points the user's default address or card at targetID inside the
// transaction. The cross-process default lock is not taken.
func (t *Tx) SetDefault(userID uuid.UUID, kind enums.EntityKind, targetID uuid.UUID) (*models.User, error) {
	return t.store.setDefault(t.db, userID, kind, &targetID)
}

// Atomic runs fn in one transaction so several integrity operations commit or
// roll back together.
func (s *Store) Atomic(ctx context.Context, name string, fn func(tx *Tx) error) error {
	return s.run(ctx, name, "", "", func(ctx context.Context, tx *gorm.DB) error {
		return fn(&Tx{store: s, ctx: ctx, db: tx})
	})
}

// run bounds fn with the operation timeout, executes it in a transaction and
// translates the outcome into the error taxonomy.
func (s *Store) run(ctx context.Context, op string, kind enums.EntityKind, id string, fn func(ctx context.Context, tx *gorm.DB) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx = s.logg.WithEntity(ctx, kind.String(), id)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	if err != nil && ctx.Err() != nil && pkgerrors.As(err) == nil {
		err = ctx.Err()
	}
	err = db.TranslateError(err, kind.String())

	s.observe(ctx, op, kind, err, time.Since(start))
	return err
}

func (s *Store) observe(ctx context.Context, op string, kind enums.EntityKind, err error, elapsed time.Duration) {
	code := metrics.OutcomeOK
	if err != nil {
		code = string(pkgerrors.CodeOf(err))
	}
	s.metrics.Observe(op, kind.String(), code, elapsed)

	ctx = s.logg.WithFields(ctx, map[string]any{"operation": op, "code": code, "elapsed_ms": elapsed.Milliseconds()})
	switch {
	case err == nil:
		s.logg.Debug(ctx, "integrity operation committed")
	case pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).Retryable:
		s.logg.Error(ctx, "integrity operation failed", err)
	default:
		s.logg.Debug(ctx, "integrity operation rejected")
	}
}

// locking adds a row lock on Postgres; SQLite serialises writers on its own.
func (s *Store) locking(tx *gorm.DB, strength string) *gorm.DB {
	if s.db.Dialect() != "postgres" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: strength})
}

func (s *Store) load(tx *gorm.DB, spec kindSpec, id uuid.UUID, forUpdate bool) (models.Entity, error) {
	entity, _ := models.New(spec.kind)
	query := tx
	if forUpdate {
		query = s.locking(tx, lockUpdate)
	}
	if err := query.Where("id = ?", id).First(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(spec.kind, id)
		}
		return nil, err
	}
	return entity, nil
}

func notFound(kind enums.EntityKind, id uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, kind.String()+" not found").
		WithDetails(map[string]any{"kind": kind.String(), "id": id.String()})
}
