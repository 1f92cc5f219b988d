package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/money"
	"fintrack/pkg/timeutil"

	"gorm.io/gorm"
)

const maxNoteLen = 1000

// LedgerInput holds the fields shared by incomes, expenses and tips.
type LedgerInput struct {
	Amount   *money.Amount `json:"amount" binding:"required,min=0,max=1000000000000000"`
	Date     string        `json:"date"` // RFC 3339, datetime-local or YYYY-MM-DD; empty means now
	Note     string        `json:"note" binding:"max=1000"`
	WalletID *uint         `json:"walletId"` // nil falls back to the default wallet
}

type EntryInput struct {
	Source string `json:"source" binding:"required,max=200"`
	LedgerInput
}

type TipInput struct {
	Customer string `json:"customer" binding:"max=200"`
	Received bool   `json:"received"`
	LedgerInput
}

// LedgerPatch holds optional updates; nil fields are left untouched.
type LedgerPatch struct {
	Amount   *money.Amount `json:"amount" binding:"omitempty,min=0,max=1000000000000000"`
	Date     *string       `json:"date"`
	Note     *string       `json:"note" binding:"omitempty,max=1000"`
	WalletID *uint         `json:"walletId"`
}

type EntryPatch struct {
	Source *string `json:"source" binding:"omitempty,max=200"`
	LedgerPatch
}

type TipPatch struct {
	Customer *string `json:"customer" binding:"omitempty,max=200"`
	Received *bool   `json:"received"`
	LedgerPatch
}

// stamp is a validated LedgerInput or LedgerPatch.
type stamp struct {
	amount *money.Amount
	date   *time.Time
	note   *string
}

func (st stamp) apply(amount *money.Amount, date *time.Time, localDate, note *string, loc *time.Location) {
	if st.amount != nil {
		*amount = *st.amount
	}
	if st.date != nil {
		*date = st.date.UTC()
		*localDate = timeutil.LocalDate(*st.date, loc)
	}
	if st.note != nil {
		*note = *st.note
	}
}

// LedgerService creates, updates and deletes incomes, expenses and tips,
// keeping wallet balances in step through BalanceService.Mutate.
type LedgerService struct {
	balances *BalanceService
	wallets  *repository.WalletRepository
	incomes  *repository.IncomeRepository
	expenses *repository.ExpenseRepository
	tips     *repository.TipRepository
	loc      *time.Location
}

func NewLedgerService(
	balances *BalanceService,
	wallets *repository.WalletRepository,
	incomes *repository.IncomeRepository,
	expenses *repository.ExpenseRepository,
	tips *repository.TipRepository,
	loc *time.Location,
) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{balances: balances, wallets: wallets, incomes: incomes, expenses: expenses, tips: tips, loc: loc}
}

func (s *LedgerService) validateInput(in LedgerInput) (stamp, error) {
	if in.Amount == nil {
		return stamp{}, invalid("amount", "is required")
	}
	now := time.Now()
	date := &now
	if strings.TrimSpace(in.Date) != "" {
		d, err := timeutil.Parse(in.Date, s.loc)
		if err != nil {
			return stamp{}, invalid("date", err.Error())
		}
		date = &d
	}
	note := in.Note
	return s.validateStamp(stamp{amount: in.Amount, date: date, note: &note})
}

func (s *LedgerService) validatePatch(p LedgerPatch) (stamp, error) {
	st := stamp{amount: p.Amount, note: p.Note}
	if p.Date != nil {
		d, err := timeutil.Parse(*p.Date, s.loc)
		if err != nil {
			return stamp{}, invalid("date", err.Error())
		}
		st.date = &d
	}
	return s.validateStamp(st)
}

func (s *LedgerService) validateStamp(st stamp) (stamp, error) {
	if st.amount != nil && *st.amount < 0 {
		return stamp{}, invalid("amount", "must be >= 0")
	}
	if st.amount != nil && !st.amount.Within() {
		return stamp{}, tooLarge("amount")
	}
	if st.note != nil {
		n := strings.TrimSpace(*st.note)
		if len(n) > maxNoteLen {
			return stamp{}, invalid("note", "is too long")
		}
		st.note = &n
	}
	return st, nil
}

// resolveWallet picks the wallet for a new row: the requested one, else the
// default. With no active wallets at all the row is stored walletless and is
// picked up by the first wallet created.
func resolveWallet(wallets *repository.WalletRepository, requested *uint) (*uint, error) {
	if requested != nil {
		return requireWallet(wallets, *requested)
	}
	def, err := wallets.GetDefault()
	if err == nil {
		return &def.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	n, err := wallets.CountActive()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return nil, &ValidationError{Field: "walletId", Msg: ErrNoDefaultWallet.Error(), Err: ErrNoDefaultWallet}
}

// requireWallet checks that a wallet referenced by a payload exists and is active.
func requireWallet(wallets *repository.WalletRepository, id uint) (*uint, error) {
	w, err := wallets.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ValidationError{Field: "walletId", Msg: "wallet not found", Err: ErrWalletNotFound}
	}
	if err != nil {
		return nil, err
	}
	if w.Archived {
		return nil, &ValidationError{Field: "walletId", Msg: "wallet is archived", Err: ErrWalletArchived}
	}
	return &w.ID, nil
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "is required")
	}
	return v, nil
}

// Incomes

func (s *LedgerService) ListIncomes(ctx context.Context, f repository.EntryFilter) ([]models.Income, error) {
	return s.incomes.WithTx(s.balances.db.WithContext(ctx)).List(f)
}

func (s *LedgerService) CreateIncome(ctx context.Context, in EntryInput) (*models.Income, error) {
	source, err := requireText("source", in.Source)
	if err != nil {
		return nil, err
	}
	st, err := s.validateInput(in.LedgerInput)
	if err != nil {
		return nil, err
	}
	inc := &models.Income{Source: source}
	st.apply(&inc.Amount, &inc.Date, &inc.LocalDate, &inc.Note, s.loc)
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wid, err := resolveWallet(s.wallets.WithTx(tx), in.WalletID)
		if err != nil {
			return nil, err
		}
		inc.WalletID = wid
		if err := s.incomes.WithTx(tx).Create(inc); err != nil {
			return nil, err
		}
		return affected(inc.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, id uint, p EntryPatch) (*models.Income, error) {
	st, err := s.validatePatch(p.LedgerPatch)
	if err != nil {
		return nil, err
	}
	if p.Source != nil {
		if _, err := requireText("source", *p.Source); err != nil {
			return nil, err
		}
	}
	var inc *models.Income
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.incomes.WithTx(tx)
		var err error
		if inc, err = repo.GetByID(id); err != nil {
			return nil, err
		}
		if inc.TransferID != nil {
			return nil, ErrTransferLeg
		}
		oldWallet := inc.WalletID
		if p.WalletID != nil {
			if inc.WalletID, err = requireWallet(s.wallets.WithTx(tx), *p.WalletID); err != nil {
				return nil, err
			}
		}
		if p.Source != nil {
			inc.Source = strings.TrimSpace(*p.Source)
		}
		st.apply(&inc.Amount, &inc.Date, &inc.LocalDate, &inc.Note, s.loc)
		if err := repo.Save(inc); err != nil {
			return nil, err
		}
		return affected(oldWallet, inc.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.incomes.WithTx(tx)
		inc, err := repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if inc.TransferID != nil {
			return nil, ErrTransferLeg
		}
		if err := repo.Delete(id); err != nil {
			return nil, err
		}
		return affected(inc.WalletID), nil
	})
}

// Expenses

func (s *LedgerService) ListExpenses(ctx context.Context, f repository.EntryFilter) ([]models.Expense, error) {
	return s.expenses.WithTx(s.balances.db.WithContext(ctx)).List(f)
}

func (s *LedgerService) CreateExpense(ctx context.Context, in EntryInput) (*models.Expense, error) {
	source, err := requireText("source", in.Source)
	if err != nil {
		return nil, err
	}
	st, err := s.validateInput(in.LedgerInput)
	if err != nil {
		return nil, err
	}
	exp := &models.Expense{Source: source}
	st.apply(&exp.Amount, &exp.Date, &exp.LocalDate, &exp.Note, s.loc)
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wid, err := resolveWallet(s.wallets.WithTx(tx), in.WalletID)
		if err != nil {
			return nil, err
		}
		exp.WalletID = wid
		if err := s.expenses.WithTx(tx).Create(exp); err != nil {
			return nil, err
		}
		return affected(exp.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, id uint, p EntryPatch) (*models.Expense, error) {
	st, err := s.validatePatch(p.LedgerPatch)
	if err != nil {
		return nil, err
	}
	if p.Source != nil {
		if _, err := requireText("source", *p.Source); err != nil {
			return nil, err
		}
	}
	var exp *models.Expense
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.expenses.WithTx(tx)
		var err error
		if exp, err = repo.GetByID(id); err != nil {
			return nil, err
		}
		if exp.TransferID != nil {
			return nil, ErrTransferLeg
		}
		oldWallet := exp.WalletID
		if p.WalletID != nil {
			if exp.WalletID, err = requireWallet(s.wallets.WithTx(tx), *p.WalletID); err != nil {
				return nil, err
			}
		}
		if p.Source != nil {
			exp.Source = strings.TrimSpace(*p.Source)
		}
		st.apply(&exp.Amount, &exp.Date, &exp.LocalDate, &exp.Note, s.loc)
		if err := repo.Save(exp); err != nil {
			return nil, err
		}
		return affected(oldWallet, exp.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.expenses.WithTx(tx)
		exp, err := repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if exp.TransferID != nil {
			return nil, ErrTransferLeg
		}
		if err := repo.Delete(id); err != nil {
			return nil, err
		}
		return affected(exp.WalletID), nil
	})
}

// Tips

func (s *LedgerService) ListTips(ctx context.Context, f repository.EntryFilter) ([]models.Tip, error) {
	return s.tips.WithTx(s.balances.db.WithContext(ctx)).List(f)
}

func (s *LedgerService) CreateTip(ctx context.Context, in TipInput) (*models.Tip, error) {
	st, err := s.validateInput(in.LedgerInput)
	if err != nil {
		return nil, err
	}
	tip := &models.Tip{Customer: strings.TrimSpace(in.Customer), Received: in.Received}
	st.apply(&tip.Amount, &tip.Date, &tip.LocalDate, &tip.Note, s.loc)
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wid, err := resolveWallet(s.wallets.WithTx(tx), in.WalletID)
		if err != nil {
			return nil, err
		}
		tip.WalletID = wid
		if err := s.tips.WithTx(tx).Create(tip); err != nil {
			return nil, err
		}
		return affected(tip.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return tip, nil
}

// UpdateTip also toggles Received, which moves the tip in or out of its
// wallet's balance.
func (s *LedgerService) UpdateTip(ctx context.Context, id uint, p TipPatch) (*models.Tip, error) {
	st, err := s.validatePatch(p.LedgerPatch)
	if err != nil {
		return nil, err
	}
	var tip *models.Tip
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.tips.WithTx(tx)
		var err error
		if tip, err = repo.GetByID(id); err != nil {
			return nil, err
		}
		oldWallet := tip.WalletID
		if p.WalletID != nil {
			if tip.WalletID, err = requireWallet(s.wallets.WithTx(tx), *p.WalletID); err != nil {
				return nil, err
			}
		}
		if p.Customer != nil {
			tip.Customer = strings.TrimSpace(*p.Customer)
		}
		if p.Received != nil {
			tip.Received = *p.Received
		}
		st.apply(&tip.Amount, &tip.Date, &tip.LocalDate, &tip.Note, s.loc)
		if err := repo.Save(tip); err != nil {
			return nil, err
		}
		return affected(oldWallet, tip.WalletID), nil
	})
	if err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *LedgerService) DeleteTip(ctx context.Context, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		repo := s.tips.WithTx(tx)
		tip, err := repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if err := repo.Delete(id); err != nil {
			return nil, err
		}
		return affected(tip.WalletID), nil
	})
}
