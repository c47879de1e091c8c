package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"spotnet/src/model"
	"spotnet/src/repository"
	"spotnet/src/tokens"
)

var ErrUnknownWallet = errors.New("no user registered for wallet")

// Portfolio prints the stored positions and pending airdrops of a wallet.
type Portfolio struct {
	Log       *logger.Entry
	Users     *repository.UserRepository
	Positions *repository.PositionRepository
	AirDrops  *repository.AirDropRepository
	// Tokens resolves position symbols to token addresses. Optional.
	Tokens    *tokens.Registry
	Out       io.Writer
}

type positionView struct {
	model.Position
	TokenAddress string `json:"token_address,omitempty"`
}

type positionsView struct {
	WalletID  string         `json:"wallet_id"`
	Positions []positionView `json:"positions"`
}

type airDropsView struct {
	WalletID string          `json:"wallet_id"`
	AirDrops []model.AirDrop `json:"airdrops"`
}

func (p *Portfolio) user(ctx context.Context, walletID string) (*model.User, error) {
	user, err := p.Users.GetByWalletID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWallet, walletID)
	}
	return user, nil
}

// ListPositions writes the wallet's positions, optionally filtered by status.
func (p *Portfolio) ListPositions(ctx context.Context, walletID, status string) error {
	user, err := p.user(ctx, walletID)
	if err != nil {
		return err
	}

	var filter *model.PositionStatus
	if status != "" {
		s := model.PositionStatus(status)
		if !s.IsValid() {
			return fmt.Errorf("%w: %q", repository.ErrInvalidStatus, status)
		}
		filter = &s
	}

	positions, err := p.Positions.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return err
	}
	views := make([]positionView, 0, len(positions))
	for _, position := range positions {
		view := positionView{Position: position}
		if p.Tokens != nil {
			if token, ok := p.Tokens.BySymbol(position.TokenSymbol); ok {
				view.TokenAddress = token.Address
			}
		}
		views = append(views, view)
	}

	p.Log.WithFields(logger.Fields{"wallet_id": walletID, "count": len(views)}).Debug("Positions loaded")
	return p.write(positionsView{WalletID: walletID, Positions: views})
}

// ListAirDrops writes the wallet's unclaimed airdrops.
func (p *Portfolio) ListAirDrops(ctx context.Context, walletID string) error {
	user, err := p.user(ctx, walletID)
	if err != nil {
		return err
	}

	airdrops, err := p.AirDrops.ListUnclaimedByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if airdrops == nil {
		airdrops = []model.AirDrop{}
	}

	p.Log.WithFields(logger.Fields{"wallet_id": walletID, "count": len(airdrops)}).Debug("Airdrops loaded")
	return p.write(airDropsView{WalletID: walletID, AirDrops: airdrops})
}

func (p *Portfolio) write(v interface{}) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
