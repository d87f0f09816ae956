package auth

import (
	"fmt"
	"net/http"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/commands"
	"presence/backend/internal/repository/postgres/device"
	"presence/backend/internal/repository/postgres/user"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Controller struct {
	user           User
	device         Device
	privatePemPath string
}

func NewController(user User, device Device, privatePemPath string) *Controller {
	return &Controller{user: user, device: device, privatePemPath: privatePemPath}
}

func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	err := c.BindFunc(&data, "StaffID", "Password")
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetByStaffID(c.Ctx, data.StaffID)
	if err != nil {
		return c.RespondError(err)
	}

	if detail.Password == nil {
		return c.RespondError(&web.Error{
			Err:    errors.New("staff not found"),
			Status: http.StatusNotFound,
		})
	}

	if err = bcrypt.CompareHashAndPassword([]byte(*detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errors.New(fmt.Sprintf("incorrect password. error: %v", err)), http.StatusBadRequest))
	}

	claims := commands.AuthClaims{
		ID:   detail.ID,
		Role: *detail.Role,
	}
	if detail.OrganizationID != nil {
		claims.OrganizationID = *detail.OrganizationID
	}

	accessToken, refreshToken, err := commands.GenToken(claims, uc.privatePemPath)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"error": nil,
	}, http.StatusOK)
}

// DeviceSignIn exchanges a kiosk pairing token for a JWT pair scoped to the
// device's branch.
func (uc Controller) DeviceSignIn(c *web.Context) error {
	var data device.SignInRequest

	err := c.BindFunc(&data, "Token")
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.device.GetByToken(c.Ctx, data.Token)
	if err != nil {
		return c.RespondError(err)
	}

	claims := commands.AuthClaims{
		DeviceID: detail.ID,
		Role:     auth.RoleDevice,
	}
	if detail.OrganizationID != nil {
		claims.OrganizationID = *detail.OrganizationID
	}

	accessToken, refreshToken, err := commands.GenToken(claims, uc.privatePemPath)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"device_id":     detail.ID,
			"branch_id":     detail.BranchID,
		},
		"error": nil,
	}, http.StatusOK)
}

func (uc Controller) RefreshToken(c *web.Context) error {
	var data user.RefreshTokenRequest

	err := c.BindFunc(&data, "AccessToken", "RefreshToken")
	if err != nil {
		return c.RespondError(err)
	}

	_, refreshTokenClaims, err := commands.VerifyTokens(data.AccessToken, data.RefreshToken, uc.privatePemPath)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	userClaims := commands.AuthClaims{
		ID:             refreshTokenClaims.UserId,
		DeviceID:       refreshTokenClaims.DeviceId,
		OrganizationID: refreshTokenClaims.OrganizationId,
		Role:           refreshTokenClaims.Role,
	}

	accessToken, refreshToken, err := commands.GenToken(userClaims, uc.privatePemPath)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating new tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"error": nil,
	}, http.StatusOK)
}
