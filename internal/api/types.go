package api

import "github.com/tradeoff/gameclient/internal/model"

// Operation names used in CommandError.
const (
	OpLogin         = "login"
	OpRefresh       = "refresh"
	OpOpenPosition  = "open-position"
	OpClosePosition = "close-position"
)

// loginRequest is the body for POST /login.
type loginRequest struct {
	Username string `json:"username"`
}

// refreshRequest is the body for POST /refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// positionRequest is the body for POST /position.
type positionRequest struct {
	Type model.PositionType `json:"type"`
}

// AuthResponse is the server's answer to login and refresh.
type AuthResponse struct {
	User         model.Identity `json:"user"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
}
