// Package users reads and updates the profile of the authenticated user.
package users

import (
	"context"
	"strings"

	"github.com/nikhil/taskflow/internal/logger"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/store"
)

type ProfileService struct {
	Store store.Store
	Log   *logger.Logger
}

func NewProfileService(st store.Store, log *logger.Logger) *ProfileService {
	return &ProfileService{Store: st, Log: log.Service("profile-service")}
}

func (p *ProfileService) GetProfile(ctx context.Context, userID int64) (*usermodels.User, error) {
	var user *usermodels.User
	err := p.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	return user, err
}

// UpdateProfile changes the display name. Email and password are not
// editable here.
func (p *ProfileService) UpdateProfile(ctx context.Context, userID int64, req usermodels.UpdateProfileRequest) (*usermodels.User, error) {
	var user *usermodels.User
	err := p.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.FirstName = strings.TrimSpace(req.FirstName)
		user.LastName = strings.TrimSpace(req.LastName)
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	p.Log.WithContext(ctx).WithUser(userID).Info("Profile updated")
	return user, nil
}
