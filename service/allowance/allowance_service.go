package allowance

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fox-one/pkg/logger"

	"revloans/core"
	"revloans/pkg/resthttp"
)

type allowanceService struct {
	endpoint  string
	authToken string
	account   string
}

// New new allowance service. Pulls try the payer's standing allowance
// for the facility account first, then fall back to the signed
// allowance if one is attached.
func New(cfg *core.Config) core.IAllowanceService {
	return &allowanceService{
		endpoint:  cfg.Node.Endpoint,
		authToken: cfg.Node.AuthToken,
		account:   cfg.App.Account,
	}
}

func (s *allowanceService) Pull(ctx context.Context, payer, token string, amount core.Amount, allowance *core.Allowance) error {
	url := fmt.Sprintf("%s/api/allowances/pull", s.endpoint)

	body := map[string]interface{}{
		"payer":     payer,
		"token":     token,
		"amount":    amount,
		"recipient": s.account,
	}

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).SetBody(body).Post(url)
	if err != nil {
		return err
	}

	if resp.IsSuccess() {
		return nil
	}

	// No standing allowance; redeem the signed one.
	if resp.StatusCode() != http.StatusPaymentRequired || allowance == nil {
		return resthttp.ParseResponse(resp, nil)
	}

	if allowance.Token != token || allowance.Amount.Cmp(amount) < 0 {
		return core.ErrExcessiveAllowance
	}

	logger.FromContext(ctx).Debugln("allowance: falling back to signed allowance")

	body["allowance"] = allowance
	resp, err = resthttp.Request(ctx).SetAuthToken(s.authToken).SetBody(body).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}

func (s *allowanceService) Refund(ctx context.Context, recipient, token string, amount core.Amount) error {
	url := fmt.Sprintf("%s/api/allowances/refund", s.endpoint)

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).SetBody(map[string]interface{}{
		"from":      s.account,
		"token":     token,
		"amount":    amount,
		"recipient": recipient,
	}).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}
