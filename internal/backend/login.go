package backend

import (
	"context"
	"net/http"
	"time"

	"clicker/pkg/domain"
)

const (
	pathUserLogin     = "/logins/user_login"
	pathRequestOTP    = "/logins/request_otp"
	pathVerifyOTP     = "/logins/verify_and_login"
	pathUpdateClicker = "/logins/update_user_login_clicker"
)

type userLoginRequest struct {
	MobileNumber string `json:"mobileNumber"`
}

type userLoginResponse struct {
	LoginUUID string `json:"loginUuid"`
}

type requestOTPRequest struct {
	LoginUUID string `json:"loginUuid"`
}

type verifyOTPRequest struct {
	OTP       string `json:"otp"`
	LoginUUID string `json:"loginUuid"`
}

type verifyOTPResponse struct {
	SessionToken string `json:"sessionToken"`
	// TTL is the session expiry in unix seconds.
	TTL *int64 `json:"ttl"`
}

type bindClickerRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type bindClickerResponse struct {
	ClickerUUID string  `json:"clickerUuid"`
	Username    *string `json:"username"`
}

// RequestLogin starts a login for mobileNumber.
func (c *Client) RequestLogin(ctx context.Context, mobileNumber string) (domain.LoginID, error) {
	body, err := c.do(ctx, call{
		operation: "user_login",
		method:    http.MethodPost,
		path:      pathUserLogin,
		body:      userLoginRequest{MobileNumber: mobileNumber},
	})
	if err != nil {
		return domain.LoginID{}, err
	}
	var resp userLoginResponse
	if err := c.decode(ctx, "user_login", body, &resp); err != nil {
		return domain.LoginID{}, err
	}
	id, err := domain.ParseLoginID(resp.LoginUUID)
	if err != nil {
		return domain.LoginID{}, c.protocolViolation(ctx, &ProtocolError{
			Operation: "user_login", Status: http.StatusOK, Reason: "loginUuid", Err: err,
		})
	}
	return id, nil
}

// RequestOTP asks the service to send a one-time password for the login.
func (c *Client) RequestOTP(ctx context.Context, loginID domain.LoginID) error {
	_, err := c.do(ctx, call{
		operation: "request_otp",
		method:    http.MethodPost,
		path:      pathRequestOTP,
		body:      requestOTPRequest{LoginUUID: loginID.String()},
	})
	return err
}

// VerifyOTP exchanges the one-time password for a session.
func (c *Client) VerifyOTP(ctx context.Context, loginID domain.LoginID, otp string) (domain.Session, error) {
	body, err := c.do(ctx, call{
		operation: "verify_otp",
		method:    http.MethodPost,
		path:      pathVerifyOTP,
		body:      verifyOTPRequest{OTP: otp, LoginUUID: loginID.String()},
	})
	if err != nil {
		return domain.Session{}, err
	}
	var resp verifyOTPResponse
	if err := c.decode(ctx, "verify_otp", body, &resp); err != nil {
		return domain.Session{}, err
	}
	if resp.SessionToken == "" || resp.TTL == nil {
		return domain.Session{}, c.protocolViolation(ctx, &ProtocolError{
			Operation: "verify_otp", Status: http.StatusOK, Reason: "sessionToken and ttl are required",
		})
	}
	return domain.Session{Token: resp.SessionToken, ExpiresAt: time.Unix(*resp.TTL, 0).UTC()}, nil
}

// BindClicker binds the logged-in user to the clicker of a branch.
func (c *Client) BindClicker(ctx context.Context, sessionToken, branchCode, username string) (domain.ClickerBinding, error) {
	body, err := c.do(ctx, call{
		operation:    "bind_clicker",
		method:       http.MethodPost,
		path:         pathUpdateClicker,
		sessionToken: sessionToken,
		body:         bindClickerRequest{Code: branchCode, Name: username},
	})
	if err != nil {
		return domain.ClickerBinding{}, err
	}
	var resp bindClickerResponse
	if err := c.decode(ctx, "bind_clicker", body, &resp); err != nil {
		return domain.ClickerBinding{}, err
	}
	id, err := domain.ParseClickerID(resp.ClickerUUID)
	if err != nil || resp.Username == nil {
		return domain.ClickerBinding{}, c.protocolViolation(ctx, &ProtocolError{
			Operation: "bind_clicker", Status: http.StatusOK, Reason: "clickerUuid and username are required", Err: err,
		})
	}
	return domain.ClickerBinding{ClickerID: id, Username: *resp.Username}, nil
}
