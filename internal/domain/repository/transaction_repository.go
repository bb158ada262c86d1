package repository

import (
	"context"
	"time"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
)

// TransactionFilter narrows an owner-scoped listing. Absent fields impose
// no constraint; all present fields are combined with AND.
type TransactionFilter struct {
	Category string
	Start    *time.Time
	End      *time.Time
}

// TransactionRepository defines transaction persistence. Every read and
// mutation is scoped by the owning user id; a record id alone never
// authorizes access.
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*entity.Transaction, error)
	List(ctx context.Context, userID string, f TransactionFilter) ([]*entity.Transaction, error)
	Update(ctx context.Context, t *entity.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	ExpenseByCategory(ctx context.Context, userID string, start, end *time.Time) ([]entity.CategoryTotal, error)
}
