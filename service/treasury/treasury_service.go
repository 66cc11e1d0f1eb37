package treasury

import (
	"context"
	"fmt"

	"github.com/fox-one/pkg/logger"

	"revloans/core"
	"revloans/pkg/resthttp"
)

type treasuryService struct {
	endpoint  string
	authToken string
}

// New new treasury service moving tokens through the issuance-protocol
// node.
func New(cfg *core.Config) core.ITreasuryService {
	return &treasuryService{
		endpoint:  cfg.Node.Endpoint,
		authToken: cfg.Node.AuthToken,
	}
}

func (s *treasuryService) Mint(ctx context.Context, revnetID uint64, amount core.Amount, beneficiary string) error {
	return s.post(ctx, fmt.Sprintf("%s/api/revnets/%d/mint", s.endpoint, revnetID), map[string]interface{}{
		"amount":      amount,
		"beneficiary": beneficiary,
	})
}

func (s *treasuryService) Burn(ctx context.Context, revnetID uint64, holder string, amount core.Amount) error {
	return s.post(ctx, fmt.Sprintf("%s/api/revnets/%d/burn", s.endpoint, revnetID), map[string]interface{}{
		"holder": holder,
		"amount": amount,
	})
}

func (s *treasuryService) PullAllowance(ctx context.Context, source *core.LoanSource, amount core.Amount, beneficiary string) error {
	return s.post(ctx, fmt.Sprintf("%s/api/terminals/%s/use-allowance", s.endpoint, source.Terminal), map[string]interface{}{
		"revnet_id":   source.RevnetID,
		"token":       source.Token,
		"amount":      amount,
		"beneficiary": beneficiary,
	})
}

func (s *treasuryService) Pay(ctx context.Context, source *core.LoanSource, amount core.Amount, beneficiary, memo string) error {
	return s.post(ctx, fmt.Sprintf("%s/api/terminals/%s/pay", s.endpoint, source.Terminal), map[string]interface{}{
		"revnet_id":   source.RevnetID,
		"token":       source.Token,
		"amount":      amount,
		"beneficiary": beneficiary,
		"memo":        memo,
	})
}

func (s *treasuryService) AddToBalance(ctx context.Context, source *core.LoanSource, amount core.Amount, memo string) error {
	return s.post(ctx, fmt.Sprintf("%s/api/terminals/%s/add-to-balance", s.endpoint, source.Terminal), map[string]interface{}{
		"revnet_id": source.RevnetID,
		"token":     source.Token,
		"amount":    amount,
		"memo":      memo,
	})
}

func (s *treasuryService) Transfer(ctx context.Context, token string, amount core.Amount, recipient string) error {
	return s.post(ctx, fmt.Sprintf("%s/api/transfers", s.endpoint), map[string]interface{}{
		"token":     token,
		"amount":    amount,
		"recipient": recipient,
	})
}

func (s *treasuryService) post(ctx context.Context, url string, body interface{}) error {
	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).SetBody(body).Post(url)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("treasury:", url)
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}
