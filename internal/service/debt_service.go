package service

import (
	"context"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/money"
	"fintrack/pkg/timeutil"

	"gorm.io/gorm"
)

type DebtInput struct {
	Title   string        `json:"title" binding:"required,max=200"`
	Amount  *money.Amount `json:"amount" binding:"required,min=0,max=1000000000000000"`
	DueDate string        `json:"dueDate"`
	Note    string        `json:"note" binding:"max=1000"`
}

type DebtPatch struct {
	Title   *string       `json:"title" binding:"omitempty,max=200"`
	Amount  *money.Amount `json:"amount" binding:"omitempty,min=0,max=1000000000000000"`
	DueDate *string       `json:"dueDate"` // "" clears the due date
	Done    *bool         `json:"done"`
	Note    *string       `json:"note" binding:"omitempty,max=1000"`
}

type DebtContributionInput struct {
	Amount *money.Amount `json:"amount" binding:"required,gt=0,max=1000000000000000"`
	Date   string        `json:"date"`
	Note   string        `json:"note" binding:"max=1000"`
}

// DebtService tracks payables and their partial payments. Debts never touch
// wallet balances.
type DebtService struct {
	db    *gorm.DB
	debts *repository.DebtRepository
	loc   *time.Location
}

func NewDebtService(db *gorm.DB, debts *repository.DebtRepository, loc *time.Location) *DebtService {
	if loc == nil {
		loc = time.UTC
	}
	return &DebtService{db: db, debts: debts, loc: loc}
}

func (s *DebtService) repo(ctx context.Context) *repository.DebtRepository {
	return s.debts.WithTx(s.db.WithContext(ctx))
}

func fillPaid(d *models.Debt, paid money.Amount) {
	d.PaidAmount = paid
	d.Remaining = d.Amount - paid
	if d.Remaining < 0 {
		d.Remaining = 0
	}
}

func (s *DebtService) List(ctx context.Context, f repository.DebtFilter) ([]models.Debt, error) {
	repo := s.repo(ctx)
	list, err := repo.List(f)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(list))
	for i, d := range list {
		ids[i] = d.ID
	}
	paid, err := repo.PaidAmounts(ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		fillPaid(&list[i], paid[list[i].ID])
	}
	return list, nil
}

func (s *DebtService) Get(ctx context.Context, id uint) (*models.Debt, error) {
	return s.get(s.repo(ctx), id)
}

func (s *DebtService) get(repo *repository.DebtRepository, id uint) (*models.Debt, error) {
	d, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	paid, err := repo.PaidAmounts([]uint{id})
	if err != nil {
		return nil, err
	}
	fillPaid(d, paid[id])
	return d, nil
}

// parseDue reads a due date; a bare date is midnight UTC.
func (s *DebtService) parseDue(v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := timeutil.Parse(v, time.UTC)
	if err != nil {
		return nil, invalid("dueDate", err.Error())
	}
	d = d.UTC()
	return &d, nil
}

func (s *DebtService) Create(ctx context.Context, in DebtInput) (*models.Debt, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Amount == nil || *in.Amount < 0 {
		return nil, invalid("amount", "must be >= 0")
	}
	if !in.Amount.Within() {
		return nil, tooLarge("amount")
	}
	due, err := s.parseDue(in.DueDate)
	if err != nil {
		return nil, err
	}
	d := &models.Debt{Title: title, Amount: *in.Amount, DueDate: due, Note: strings.TrimSpace(in.Note)}
	if err := s.repo(ctx).Create(d); err != nil {
		return nil, err
	}
	fillPaid(d, 0)
	return d, nil
}

func (s *DebtService) Update(ctx context.Context, id uint, p DebtPatch) (*models.Debt, error) {
	repo := s.repo(ctx)
	d, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		if d.Title, err = requireText("title", *p.Title); err != nil {
			return nil, err
		}
	}
	if p.Amount != nil {
		if *p.Amount < 0 {
			return nil, invalid("amount", "must be >= 0")
		}
		if !p.Amount.Within() {
			return nil, tooLarge("amount")
		}
		d.Amount = *p.Amount
	}
	if p.DueDate != nil {
		if d.DueDate, err = s.parseDue(*p.DueDate); err != nil {
			return nil, err
		}
	}
	if p.Done != nil {
		d.Done = *p.Done
	}
	if p.Note != nil {
		d.Note = strings.TrimSpace(*p.Note)
	}
	if err := repo.Save(d); err != nil {
		return nil, err
	}
	return s.get(repo, id)
}

func (s *DebtService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.debts.WithTx(tx)
		if _, err := repo.GetByID(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
}

func (s *DebtService) ListContributions(ctx context.Context, debtID uint) ([]models.DebtContribution, error) {
	repo := s.repo(ctx)
	if _, err := repo.GetByID(debtID); err != nil {
		return nil, err
	}
	return repo.ListContributions(debtID)
}

// AddContribution records a partial payment. Once payments cover the debt it
// is marked done.
func (s *DebtService) AddContribution(ctx context.Context, debtID uint, in DebtContributionInput) (*models.DebtContribution, error) {
	if in.Amount == nil || *in.Amount <= 0 {
		return nil, invalid("amount", "must be > 0")
	}
	if !in.Amount.Within() {
		return nil, tooLarge("amount")
	}
	date := time.Now().UTC()
	if strings.TrimSpace(in.Date) != "" {
		d, err := timeutil.Parse(in.Date, s.loc)
		if err != nil {
			return nil, invalid("date", err.Error())
		}
		date = d.UTC()
	}
	c := &models.DebtContribution{DebtID: debtID, Amount: *in.Amount, Date: date, Note: strings.TrimSpace(in.Note)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.debts.WithTx(tx)
		if _, err := repo.GetByID(debtID); err != nil {
			return err
		}
		if err := repo.CreateContribution(c); err != nil {
			return err
		}
		return s.syncDone(repo, debtID)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DebtService) DeleteContribution(ctx context.Context, debtID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.debts.WithTx(tx)
		c, err := repo.GetContribution(debtID, id)
		if err != nil {
			return err
		}
		if err := repo.DeleteContribution(c.ID); err != nil {
			return err
		}
		return s.syncDone(repo, debtID)
	})
}

// syncDone sets Done when payments cover the amount and clears it when they
// no longer do.
func (s *DebtService) syncDone(repo *repository.DebtRepository, debtID uint) error {
	d, err := s.get(repo, debtID)
	if err != nil {
		return err
	}
	done := d.PaidAmount >= d.Amount && d.PaidAmount > 0
	if done == d.Done {
		return nil
	}
	d.Done = done
	return repo.Save(d)
}
