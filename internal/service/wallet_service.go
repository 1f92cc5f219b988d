package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/money"
	"fintrack/pkg/timeutil"

	"gorm.io/gorm"
)

type WalletInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	Type      string `json:"type" binding:"omitempty,oneof=cash bank ewallet other"`
	Currency  string `json:"currency" binding:"omitempty,len=3,alpha"`
	IsDefault bool   `json:"isDefault"`
	Note      string `json:"note" binding:"max=500"`
}

type WalletPatch struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Type      *string `json:"type" binding:"omitempty,oneof=cash bank ewallet other"`
	Currency  *string `json:"currency" binding:"omitempty,len=3,alpha"`
	IsDefault *bool   `json:"isDefault"`
	Archived  *bool   `json:"archived"`
	Note      *string `json:"note" binding:"omitempty,max=500"`
}

type TransferInput struct {
	FromWalletID uint          `json:"fromWalletId" binding:"required"`
	ToWalletID   uint          `json:"toWalletId" binding:"required"`
	Amount       *money.Amount `json:"amount" binding:"required,gt=0,max=1000000000000000"`
	Date         string        `json:"date"`
	Note         string        `json:"note" binding:"max=500"`
}

type WalletService struct {
	balances  *BalanceService
	wallets   *repository.WalletRepository
	ledger    *repository.LedgerRepository
	incomes   *repository.IncomeRepository
	expenses  *repository.ExpenseRepository
	transfers *repository.TransferRepository
	currency  string
	loc       *time.Location
}

func NewWalletService(
	balances *BalanceService,
	wallets *repository.WalletRepository,
	ledger *repository.LedgerRepository,
	incomes *repository.IncomeRepository,
	expenses *repository.ExpenseRepository,
	transfers *repository.TransferRepository,
	currency string,
	loc *time.Location,
) *WalletService {
	if loc == nil {
		loc = time.UTC
	}
	return &WalletService{
		balances:  balances,
		wallets:   wallets,
		ledger:    ledger,
		incomes:   incomes,
		expenses:  expenses,
		transfers: transfers,
		currency:  currency,
		loc:       loc,
	}
}

func (s *WalletService) db(ctx context.Context) *gorm.DB {
	return s.balances.db.WithContext(ctx)
}

// List returns wallets with balances derived fresh from the ledger rather
// than read from the cache.
func (s *WalletService) List(ctx context.Context, includeArchived bool) ([]models.Wallet, error) {
	db := s.db(ctx)
	list, err := s.wallets.WithTx(db).List(includeArchived)
	if err != nil {
		return nil, err
	}
	for i := range list {
		bal, err := s.balances.Recompute(db, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Balance = bal
	}
	return list, nil
}

func (s *WalletService) Get(ctx context.Context, id uint) (*models.Wallet, error) {
	w, err := s.wallets.WithTx(s.db(ctx)).GetByID(id)
	if err != nil {
		return nil, walletLookupErr(err)
	}
	return w, nil
}

func normalizeWalletType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return domain.WalletTypeCash
	}
	return t
}

func normalizeCurrency(c, fallback string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return fallback
	}
	return c
}

// Create inserts a wallet and, in the same transaction, runs MigrateOrphans
// with the number of active wallets that existed before the insert.
func (s *WalletService) Create(ctx context.Context, in WalletInput) (*models.Wallet, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return nil, err
	}
	w := &models.Wallet{
		Name:      name,
		Type:      normalizeWalletType(in.Type),
		Currency:  normalizeCurrency(in.Currency, s.currency),
		IsDefault: in.IsDefault,
		Note:      strings.TrimSpace(in.Note),
	}
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wallets := s.wallets.WithTx(tx)
		activeBefore, err := wallets.CountActive()
		if err != nil {
			return nil, err
		}
		if err := wallets.Create(w); err != nil {
			return nil, err
		}
		if w.IsDefault {
			if err := wallets.ClearDefaults(w.ID); err != nil {
				return nil, err
			}
		}
		return s.MigrateOrphans(tx, w, activeBefore)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, w.ID)
}

// MigrateOrphans is the one-time backfill run when a wallet is created.
//
// With no active wallet before the insert, created becomes the default and
// absorbs every income, expense and tip. Otherwise, if exactly one active
// wallet remains, walletless rows are attached to it. It returns the wallets
// whose balances must be recomputed.
func (s *WalletService) MigrateOrphans(tx *gorm.DB, created *models.Wallet, activeBefore int64) ([]uint, error) {
	wallets := s.wallets.WithTx(tx)
	ledger := s.ledger.WithTx(tx)
	if activeBefore == 0 {
		previous, err := ledger.WalletIDsInUse()
		if err != nil {
			return nil, err
		}
		if err := ledger.AssignAll(created.ID); err != nil {
			return nil, err
		}
		if !created.IsDefault {
			created.IsDefault = true
			if err := wallets.Save(created); err != nil {
				return nil, err
			}
			if err := wallets.ClearDefaults(created.ID); err != nil {
				return nil, err
			}
		}
		log.Printf("[Wallet] first wallet %d absorbed records from %d wallets", created.ID, len(previous))
		return append(previous, created.ID), nil
	}
	active, err := wallets.List(false)
	if err != nil {
		return nil, err
	}
	if len(active) != 1 {
		return []uint{created.ID}, nil
	}
	n, err := ledger.AssignOrphans(active[0].ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.Printf("[Wallet] attached %d orphan records to wallet %d", n, active[0].ID)
	}
	return []uint{created.ID, active[0].ID}, nil
}

// Update edits wallet metadata. Archiving clears the wallet's default flag
// without promoting another wallet; setting IsDefault goes through the same
// path as SetDefault.
func (s *WalletService) Update(ctx context.Context, id uint, p WalletPatch) (*models.Wallet, error) {
	var w *models.Wallet
	err := s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wallets := s.wallets.WithTx(tx)
		var err error
		if w, err = wallets.GetByID(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWalletNotFound
			}
			return nil, err
		}
		if p.Name != nil {
			if w.Name, err = requireText("name", *p.Name); err != nil {
				return nil, err
			}
		}
		if p.Type != nil {
			w.Type = normalizeWalletType(*p.Type)
		}
		if p.Currency != nil {
			w.Currency = normalizeCurrency(*p.Currency, w.Currency)
		}
		if p.Note != nil {
			w.Note = strings.TrimSpace(*p.Note)
		}
		if p.Archived != nil {
			w.Archived = *p.Archived
			if w.Archived {
				w.IsDefault = false
			}
		}
		if p.IsDefault != nil {
			if *p.IsDefault && w.Archived {
				return nil, &ValidationError{Field: "isDefault", Msg: "an archived wallet cannot be the default", Err: ErrWalletArchived}
			}
			w.IsDefault = *p.IsDefault
		}
		if w.IsDefault {
			if err := wallets.ClearDefaults(w.ID); err != nil {
				return nil, err
			}
		}
		if err := wallets.Save(w); err != nil {
			return nil, err
		}
		return []uint{w.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, w.ID)
}

// Archive hides a wallet from the active list. Its rows keep pointing at it.
func (s *WalletService) Archive(ctx context.Context, id uint) (*models.Wallet, error) {
	archived := true
	return s.Update(ctx, id, WalletPatch{Archived: &archived})
}

// SetDefault makes id the only active default wallet.
func (s *WalletService) SetDefault(ctx context.Context, id uint) (*models.Wallet, error) {
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		wallets := s.wallets.WithTx(tx)
		w, err := wallets.GetByID(id)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && w.Archived) {
			return ErrWalletNotFound
		}
		if err != nil {
			return err
		}
		if err := wallets.ClearDefaults(w.ID); err != nil {
			return err
		}
		w.IsDefault = true
		return wallets.Save(w)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Transfer moves amount between two active wallets. The source's cached
// balance must cover the amount. The transfer is stored with an expense leg
// on the source and an income leg on the destination so that recomputing
// either wallet reproduces the move.
func (s *WalletService) Transfer(ctx context.Context, in TransferInput) (*models.Transfer, error) {
	if in.FromWalletID == in.ToWalletID {
		return nil, &ValidationError{Msg: ErrSameWallet.Error(), Err: ErrSameWallet}
	}
	if in.Amount == nil || *in.Amount <= 0 {
		return nil, invalid("amount", "must be > 0")
	}
	if !in.Amount.Within() {
		return nil, tooLarge("amount")
	}
	date := time.Now()
	if strings.TrimSpace(in.Date) != "" {
		d, err := timeutil.Parse(in.Date, s.loc)
		if err != nil {
			return nil, invalid("date", err.Error())
		}
		date = d
	}
	t := &models.Transfer{
		FromWalletID: in.FromWalletID,
		ToWalletID:   in.ToWalletID,
		Amount:       *in.Amount,
		Date:         date.UTC(),
		Note:         strings.TrimSpace(in.Note),
	}
	err := s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		wallets := s.wallets.WithTx(tx)
		locked, err := wallets.LockByIDs(t.FromWalletID, t.ToWalletID)
		if err != nil {
			return nil, err
		}
		from, to := locked[t.FromWalletID], locked[t.ToWalletID]
		if from == nil || to == nil {
			return nil, ErrWalletNotFound
		}
		if from.Archived || to.Archived {
			return nil, ErrWalletArchived
		}
		if err := wallets.Debit(from, t.Amount); err != nil {
			return nil, err
		}
		if err := wallets.Credit(to, t.Amount); err != nil {
			return nil, err
		}
		if err := s.transfers.WithTx(tx).Create(t); err != nil {
			return nil, err
		}
		localDate := timeutil.LocalDate(date, s.loc)
		outLeg := &models.Expense{
			Source:     fmt.Sprintf("Transfer to %s", to.Name),
			Amount:     t.Amount,
			Date:       t.Date,
			LocalDate:  localDate,
			Note:       t.Note,
			WalletID:   &from.ID,
			TransferID: &t.ID,
		}
		if err := s.expenses.WithTx(tx).Create(outLeg); err != nil {
			return nil, err
		}
		inLeg := &models.Income{
			Source:     fmt.Sprintf("Transfer from %s", from.Name),
			Amount:     t.Amount,
			Date:       t.Date,
			LocalDate:  localDate,
			Note:       t.Note,
			WalletID:   &to.ID,
			TransferID: &t.ID,
		}
		if err := s.incomes.WithTx(tx).Create(inLeg); err != nil {
			return nil, err
		}
		return []uint{from.ID, to.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Wallet] transfer %d: %d from wallet %d to wallet %d", t.ID, t.Amount, t.FromWalletID, t.ToWalletID)
	return t, nil
}

func (s *WalletService) ListTransfers(ctx context.Context, walletID *uint, limit, offset int) ([]models.Transfer, error) {
	return s.transfers.WithTx(s.db(ctx)).List(walletID, limit, offset)
}

// DeleteTransfer removes a transfer and both of its legs.
func (s *WalletService) DeleteTransfer(ctx context.Context, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		transfers := s.transfers.WithTx(tx)
		t, err := transfers.GetByID(id)
		if err != nil {
			return nil, err
		}
		if err := s.incomes.WithTx(tx).DeleteByTransfer(t.ID); err != nil {
			return nil, err
		}
		if err := s.expenses.WithTx(tx).DeleteByTransfer(t.ID); err != nil {
			return nil, err
		}
		if err := transfers.Delete(t.ID); err != nil {
			return nil, err
		}
		return []uint{t.FromWalletID, t.ToWalletID}, nil
	})
}

func (s *WalletService) RecomputeAll(ctx context.Context) (int, error) {
	return s.balances.RecomputeAll(ctx)
}

func walletLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWalletNotFound
	}
	return err
}
