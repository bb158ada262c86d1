package application

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	"github.com/moneta-app/moneta-server/pkg/helpers"
)

// TransactionService is the query/aggregation engine and mutation service
// for transactions. Every operation takes the authenticated user id and
// the repository scopes all reads and writes by it.
type TransactionService struct {
	Repo   repository.TransactionRepository
	Logger *logrus.Logger
}

func NewTransactionService(repo repository.TransactionRepository, logger *logrus.Logger) *TransactionService {
	return &TransactionService{Repo: repo, Logger: logger}
}

// Totals is the triad derived by folding a filtered transaction set.
// Summation is exact; balance is always income minus expense.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ListResult pairs the ordered record set with its totals.
type ListResult struct {
	Items  []*entity.Transaction
	Totals Totals
}

// List retrieves the caller's transactions matching the filter, ordered by
// date descending with creation time breaking ties, and folds them into
// totals. An empty result yields zero totals. A start bound after the end
// bound is not an error; it simply matches nothing.
func (s *TransactionService) List(ctx context.Context, userID string, f repository.TransactionFilter) (*ListResult, error) {
	items, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("list transactions failed")
		}
		return nil, err
	}

	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	for _, t := range items {
		switch t.Type {
		case entity.TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case entity.TypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)

	return &ListResult{Items: items, Totals: totals}, nil
}

// Get returns a single transaction under the ownership-scoped predicate.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*entity.Transaction, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

// Breakdown groups the caller's Expense records by category and sums each
// group. Income is excluded from this view by definition.
func (s *TransactionService) Breakdown(ctx context.Context, userID string, start, end *time.Time) ([]entity.CategoryTotal, error) {
	return s.Repo.ExpenseByCategory(ctx, userID, start, end)
}

// RecurringInput carries the optional recurring descriptor of a payload.
type RecurringInput struct {
	Enabled   bool
	Frequency string
}

// CreateTransactionInput is the full field set for a new transaction.
// Date is the raw wire string so its validity is reported together with
// every other violated field.
type CreateTransactionInput struct {
	Title     string
	Amount    *decimal.Decimal
	Type      string
	Category  string
	Date      string
	Notes     string
	Recurring *RecurringInput
}

// Create validates all fields, stamps ownership and persists the record.
// On invalid input it fails with a ValidationError listing every violated
// field, before any storage call.
func (s *TransactionService) Create(ctx context.Context, userID string, in CreateTransactionInput) (*entity.Transaction, error) {
	fields := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Amount == nil {
		fields["amount"] = "is required"
	} else if in.Amount.IsNegative() {
		fields["amount"] = "must be greater than or equal to 0"
	}
	if !entity.TransactionType(in.Type).Valid() {
		fields["type"] = "must be one of: Income, Expense"
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "is required"
	}
	var date time.Time
	if in.Date == "" {
		fields["date"] = "is required"
	} else {
		d, err := helpers.ParseDate(in.Date)
		if err != nil {
			fields["date"] = "must be a valid date (YYYY-MM-DD)"
		} else {
			date = d
		}
	}
	recurring := entity.Recurring{Frequency: entity.FrequencyMonthly}
	if in.Recurring != nil {
		recurring.Enabled = in.Recurring.Enabled
		if in.Recurring.Frequency != "" {
			if !entity.ValidFrequency(in.Recurring.Frequency) {
				fields["recurring.frequency"] = "must be one of: weekly, monthly, yearly"
			} else {
				recurring.Frequency = in.Recurring.Frequency
			}
		}
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	t := &entity.Transaction{
		UserID:    userID,
		Title:     strings.TrimSpace(in.Title),
		Amount:    *in.Amount,
		Type:      entity.TransactionType(in.Type),
		Category:  strings.TrimSpace(in.Category),
		Date:      date,
		Notes:     in.Notes,
		Recurring: recurring,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("create transaction failed")
		}
		return nil, err
	}
	return t, nil
}

// UpdateTransactionInput is a partial patch; nil fields are left untouched.
type UpdateTransactionInput struct {
	Title     *string
	Amount    *decimal.Decimal
	Type      *string
	Category  *string
	Date      *string
	Notes     *string
	Recurring *RecurringInput
}

// Update applies the supplied fields to the record matching (id, owner).
// Validation covers only the fields present in the patch. A miss on the
// ownership-scoped lookup is a plain not-found, whether the record is
// absent or belongs to someone else.
func (s *TransactionService) Update(ctx context.Context, userID, id string, in UpdateTransactionInput) (*entity.Transaction, error) {
	fields := map[string]string{}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		fields["amount"] = "must be greater than or equal to 0"
	}
	if in.Type != nil && !entity.TransactionType(*in.Type).Valid() {
		fields["type"] = "must be one of: Income, Expense"
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		fields["category"] = "must not be empty"
	}
	var date *time.Time
	if in.Date != nil {
		d, err := helpers.ParseDate(*in.Date)
		if err != nil {
			fields["date"] = "must be a valid date (YYYY-MM-DD)"
		} else {
			date = &d
		}
	}
	if in.Recurring != nil && in.Recurring.Frequency != "" && !entity.ValidFrequency(in.Recurring.Frequency) {
		fields["recurring.frequency"] = "must be one of: weekly, monthly, yearly"
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	t, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Type != nil {
		t.Type = entity.TransactionType(*in.Type)
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if date != nil {
		t.Date = *date
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if in.Recurring != nil {
		t.Recurring.Enabled = in.Recurring.Enabled
		if in.Recurring.Frequency != "" {
			t.Recurring.Frequency = in.Recurring.Frequency
		}
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the record matching (id, owner). Deletion is unconditional
// once matched; transactions have no dependents.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}
