package backend

import (
	"context"
	"net/http"
	"net/url"

	"coachdash/internal/domain"
)

// Register posts the assembled registration. It is called once per submit.
func (c *Client) Register(ctx context.Context, p *RegistrationPayload) (string, error) {
	contentType, body, err := p.Encode()
	if err != nil {
		return "", err
	}
	return c.do(ctx, request{
		endpoint:    "coach.register",
		method:      http.MethodPost,
		path:        "/coach/register",
		contentType: contentType,
		body:        body,
	}, nil)
}

func (c *Client) GetCoach(ctx context.Context, token, id string) (domain.Coach, error) {
	var coach domain.Coach
	_, err := c.do(ctx, request{
		endpoint: "coach.get",
		method:   http.MethodGet,
		path:     "/coach/" + url.PathEscape(id),
		token:    token,
	}, &coach)
	return coach, err
}

func (c *Client) GetUser(ctx context.Context, token, id string) (domain.User, error) {
	var user domain.User
	_, err := c.do(ctx, request{
		endpoint: "user.get",
		method:   http.MethodGet,
		path:     "/user/" + url.PathEscape(id),
		token:    token,
	}, &user)
	return user, err
}

// UpdateCoach sends JSON, or multipart when an avatar is attached.
func (c *Client) UpdateCoach(ctx context.Context, token, id string, u domain.ProfileUpdate, avatar *domain.Avatar) (domain.Coach, error) {
	var (
		r   request
		err error
	)
	path := "/coach/" + url.PathEscape(id)

	if avatar != nil {
		r = request{endpoint: "coach.update", method: http.MethodPut, path: path, token: token}
		r.contentType, r.body, err = encodeProfileUpdate(u, avatar)
	} else {
		r, err = jsonRequest("coach.update", http.MethodPut, path, token, u)
	}
	if err != nil {
		return domain.Coach{}, err
	}

	var coach domain.Coach
	_, err = c.do(ctx, r, &coach)
	return coach, err
}

func (c *Client) Services(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	_, err := c.do(ctx, request{
		endpoint: "service.list",
		method:   http.MethodGet,
		path:     "/service/all-services",
	}, &services)
	return services, err
}
