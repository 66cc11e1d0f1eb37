package ownership

import (
	"context"
	"fmt"

	"revloans/core"
	"revloans/pkg/resthttp"
)

type ownershipService struct {
	endpoint  string
	authToken string
}

// New new ownership service backed by the position registry.
func New(cfg *core.Config) core.IOwnershipService {
	return &ownershipService{
		endpoint:  cfg.Node.Endpoint,
		authToken: cfg.Node.AuthToken,
	}
}

func (s *ownershipService) OwnerOf(ctx context.Context, loanID uint64) (string, error) {
	url := fmt.Sprintf("%s/api/positions/%d/owner", s.endpoint, loanID)

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).Get(url)
	if err != nil {
		return "", err
	}

	var out struct {
		Owner string `json:"owner"`
	}
	if err := resthttp.ParseResponse(resp, &out); err != nil {
		return "", err
	}

	return out.Owner, nil
}

func (s *ownershipService) Mint(ctx context.Context, owner string, loanID uint64) error {
	url := fmt.Sprintf("%s/api/positions/%d/mint", s.endpoint, loanID)

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).
		SetBody(map[string]interface{}{"owner": owner}).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}

func (s *ownershipService) Burn(ctx context.Context, loanID uint64) error {
	url := fmt.Sprintf("%s/api/positions/%d/burn", s.endpoint, loanID)

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}
