package backend

import (
	"context"
	"net/http"

	"coachdash/internal/domain"
)

func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	r, err := jsonRequest("coach.login", http.MethodPost, "/coach/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return domain.LoginResult{}, err
	}
	var res domain.LoginResult
	_, err = c.do(ctx, r, &res)
	return res, err
}

func (c *Client) ForgetPassword(ctx context.Context, email string) (string, error) {
	r, err := jsonRequest("coach.forget_password", http.MethodPost, "/coach/forget-password", "", map[string]string{
		"email": email,
	})
	if err != nil {
		return "", err
	}
	return c.do(ctx, r, nil)
}

func (c *Client) VerifyCode(ctx context.Context, email, otp string) (string, error) {
	r, err := jsonRequest("auth.verify_code", http.MethodPost, "/auth/verify-code", "", map[string]string{
		"email": email,
		"otp":   otp,
	})
	if err != nil {
		return "", err
	}
	return c.do(ctx, r, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	r, err := jsonRequest("coach.reset_password", http.MethodPost, "/coach/reset-password", "", map[string]string{
		"email":       email,
		"newPassword": newPassword,
	})
	if err != nil {
		return "", err
	}
	return c.do(ctx, r, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (string, error) {
	r, err := jsonRequest("coach.change_password", http.MethodPost, "/coach/change-password", token, map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	})
	if err != nil {
		return "", err
	}
	return c.do(ctx, r, nil)
}
