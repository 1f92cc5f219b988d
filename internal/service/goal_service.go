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

type GoalInput struct {
	Name         string        `json:"name" binding:"required,max=200"`
	TargetAmount *money.Amount `json:"targetAmount" binding:"required,gt=0,max=1000000000000000"`
	Note         string        `json:"note" binding:"max=1000"`
}

type GoalPatch struct {
	Name         *string       `json:"name" binding:"omitempty,max=200"`
	TargetAmount *money.Amount `json:"targetAmount" binding:"omitempty,gt=0,max=1000000000000000"`
	Note         *string       `json:"note" binding:"omitempty,max=1000"`
}

// ContributionInput deposits into a goal; a negative Amount withdraws back
// into the wallet.
type ContributionInput struct {
	Amount   *money.Amount `json:"amount" binding:"required,ne=0,min=-1000000000000000,max=1000000000000000"`
	WalletID *uint         `json:"walletId"`
	Date     string        `json:"date"`
	Note     string        `json:"note" binding:"max=1000"`
}

type ContributionPatch struct {
	Amount   *money.Amount `json:"amount" binding:"omitempty,ne=0,min=-1000000000000000,max=1000000000000000"`
	WalletID *uint         `json:"walletId"`
	Date     *string       `json:"date"`
	Note     *string       `json:"note" binding:"omitempty,max=1000"`
}

type GoalService struct {
	balances *BalanceService
	wallets  *repository.WalletRepository
	goals    *repository.GoalRepository
	loc      *time.Location
}

func NewGoalService(balances *BalanceService, wallets *repository.WalletRepository, goals *repository.GoalRepository, loc *time.Location) *GoalService {
	if loc == nil {
		loc = time.UTC
	}
	return &GoalService{balances: balances, wallets: wallets, goals: goals, loc: loc}
}

func (s *GoalService) repo(ctx context.Context) *repository.GoalRepository {
	return s.goals.WithTx(s.balances.db.WithContext(ctx))
}

// List returns goals newest first with SavedAmount filled in.
func (s *GoalService) List(ctx context.Context) ([]models.Goal, error) {
	repo := s.repo(ctx)
	list, err := repo.List()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(list))
	for i, g := range list {
		ids[i] = g.ID
	}
	saved, err := repo.SavedAmounts(ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].SavedAmount = saved[list[i].ID]
	}
	return list, nil
}

func (s *GoalService) Get(ctx context.Context, id uint) (*models.Goal, error) {
	repo := s.repo(ctx)
	g, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	saved, err := repo.SavedAmounts([]uint{id})
	if err != nil {
		return nil, err
	}
	g.SavedAmount = saved[id]
	return g, nil
}

func (s *GoalService) Create(ctx context.Context, in GoalInput) (*models.Goal, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return nil, err
	}
	if in.TargetAmount == nil || *in.TargetAmount <= 0 {
		return nil, invalid("targetAmount", "must be > 0")
	}
	if !in.TargetAmount.Within() {
		return nil, tooLarge("targetAmount")
	}
	g := &models.Goal{Name: name, TargetAmount: *in.TargetAmount, Note: strings.TrimSpace(in.Note)}
	if err := s.repo(ctx).Create(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) Update(ctx context.Context, id uint, p GoalPatch) (*models.Goal, error) {
	repo := s.repo(ctx)
	g, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if g.Name, err = requireText("name", *p.Name); err != nil {
			return nil, err
		}
	}
	if p.TargetAmount != nil {
		if *p.TargetAmount <= 0 {
			return nil, invalid("targetAmount", "must be > 0")
		}
		if !p.TargetAmount.Within() {
			return nil, tooLarge("targetAmount")
		}
		g.TargetAmount = *p.TargetAmount
	}
	if p.Note != nil {
		g.Note = strings.TrimSpace(*p.Note)
	}
	if err := repo.Save(g); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a goal with its contributions and rebalances the wallets
// those contributions drew from.
func (s *GoalService) Delete(ctx context.Context, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		goals := s.goals.WithTx(tx)
		if _, err := goals.GetByID(id); err != nil {
			return nil, err
		}
		walletIDs, err := goals.DeleteContributions(id)
		if err != nil {
			return nil, err
		}
		if err := goals.Delete(id); err != nil {
			return nil, err
		}
		return walletIDs, nil
	})
}

func (s *GoalService) ListContributions(ctx context.Context, goalID uint) ([]models.GoalContribution, error) {
	repo := s.repo(ctx)
	if _, err := repo.GetByID(goalID); err != nil {
		return nil, err
	}
	return repo.ListContributions(goalID)
}

func validateContributionAmount(a *money.Amount) error {
	if a == nil {
		return invalid("amount", "is required")
	}
	if *a == 0 {
		return invalid("amount", "must not be zero")
	}
	if !a.Within() {
		return tooLarge("amount")
	}
	return nil
}

func (s *GoalService) parseDate(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Now().UTC(), nil
	}
	d, err := timeutil.Parse(v, s.loc)
	if err != nil {
		return time.Time{}, invalid("date", err.Error())
	}
	return d.UTC(), nil
}

func (s *GoalService) CreateContribution(ctx context.Context, goalID uint, in ContributionInput) (*models.GoalContribution, error) {
	if err := validateContributionAmount(in.Amount); err != nil {
		return nil, err
	}
	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	c := &models.GoalContribution{GoalID: goalID, Amount: *in.Amount, Date: date, Note: strings.TrimSpace(in.Note)}
	err = s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		goals := s.goals.WithTx(tx)
		if _, err := goals.GetByID(goalID); err != nil {
			return nil, err
		}
		wid, err := resolveWallet(s.wallets.WithTx(tx), in.WalletID)
		if err != nil {
			return nil, err
		}
		if wid == nil {
			return nil, &ValidationError{Field: "walletId", Msg: "a wallet is required for goal contributions", Err: ErrWalletNotFound}
		}
		c.WalletID = *wid
		if err := goals.CreateContribution(c); err != nil {
			return nil, err
		}
		return []uint{c.WalletID}, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GoalService) UpdateContribution(ctx context.Context, goalID, id uint, p ContributionPatch) (*models.GoalContribution, error) {
	if p.Amount != nil {
		if err := validateContributionAmount(p.Amount); err != nil {
			return nil, err
		}
	}
	var date *time.Time
	if p.Date != nil {
		d, err := s.parseDate(*p.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}
	var c *models.GoalContribution
	err := s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		goals := s.goals.WithTx(tx)
		var err error
		if c, err = goals.GetContribution(goalID, id); err != nil {
			return nil, err
		}
		oldWallet := c.WalletID
		if p.WalletID != nil {
			wid, err := requireWallet(s.wallets.WithTx(tx), *p.WalletID)
			if err != nil {
				return nil, err
			}
			c.WalletID = *wid
		}
		if p.Amount != nil {
			c.Amount = *p.Amount
		}
		if date != nil {
			c.Date = *date
		}
		if p.Note != nil {
			c.Note = strings.TrimSpace(*p.Note)
		}
		if err := goals.SaveContribution(c); err != nil {
			return nil, err
		}
		return []uint{oldWallet, c.WalletID}, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GoalService) DeleteContribution(ctx context.Context, goalID, id uint) error {
	return s.balances.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		goals := s.goals.WithTx(tx)
		c, err := goals.GetContribution(goalID, id)
		if err != nil {
			return nil, err
		}
		if err := goals.DeleteContribution(c.ID); err != nil {
			return nil, err
		}
		return []uint{c.WalletID}, nil
	})
}
