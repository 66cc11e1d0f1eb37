package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"

	"revloans/core"
	"revloans/pkg/resthttp"
)

type oracleService struct {
	endpoint  string
	authToken string

	// accounting contexts are immutable per source; a small LRU keeps
	// the hot ones off the wire.
	contexts gcache.Cache
}

// New new oracle service backed by the issuance-protocol node.
func New(cfg *core.Config) core.IOracleService {
	return &oracleService{
		endpoint:  cfg.Node.Endpoint,
		authToken: cfg.Node.AuthToken,
		contexts:  gcache.New(512).LRU().Expiration(time.Hour).Build(),
	}
}

type amountResponse struct {
	Amount core.Amount `json:"amount"`
}

func (s *oracleService) SurplusOf(ctx context.Context, revnetID uint64, sources []*core.LoanSource, decimals uint32, currency string) (core.Amount, error) {
	url := fmt.Sprintf("%s/api/revnets/%d/surplus?decimals=%d&currency=%s", s.endpoint, revnetID, decimals, currency)

	body := map[string]interface{}{"sources": sources}
	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).SetBody(body).Post(url)
	if err != nil {
		return core.Amount{}, err
	}

	var out amountResponse
	if err := resthttp.ParseResponse(resp, &out); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracle: surplus")
		return core.Amount{}, err
	}

	return out.Amount, nil
}

func (s *oracleService) PriceRatio(ctx context.Context, revnetID uint64, fromCurrency, toCurrency string, decimals uint32) (core.Amount, error) {
	url := fmt.Sprintf("%s/api/revnets/%d/price?from=%s&to=%s&decimals=%d", s.endpoint, revnetID, fromCurrency, toCurrency, decimals)

	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).Get(url)
	if err != nil {
		return core.Amount{}, err
	}

	var out amountResponse
	if err := resthttp.ParseResponse(resp, &out); err != nil {
		return core.Amount{}, err
	}

	return out.Amount, nil
}

func (s *oracleService) CirculatingSupply(ctx context.Context, revnetID uint64) (core.Amount, error) {
	return s.fetchAmount(ctx, fmt.Sprintf("%s/api/revnets/%d/supply", s.endpoint, revnetID))
}

func (s *oracleService) PendingIssuance(ctx context.Context, revnetID uint64) (core.Amount, error) {
	return s.fetchAmount(ctx, fmt.Sprintf("%s/api/revnets/%d/pending-issuance", s.endpoint, revnetID))
}

func (s *oracleService) AccountingContext(ctx context.Context, source *core.LoanSource) (*core.AccountingContext, error) {
	key := fmt.Sprintf("%d/%s/%s", source.RevnetID, source.Terminal, source.Token)
	if v, err := s.contexts.Get(key); err == nil {
		return v.(*core.AccountingContext), nil
	}

	url := fmt.Sprintf("%s/api/terminals/%s/context?revnet=%d&token=%s", s.endpoint, source.Terminal, source.RevnetID, source.Token)
	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).Get(url)
	if err != nil {
		return nil, err
	}

	var out core.AccountingContext
	if err := resthttp.ParseResponse(resp, &out); err != nil {
		return nil, err
	}

	_ = s.contexts.Set(key, &out)
	return &out, nil
}

func (s *oracleService) fetchAmount(ctx context.Context, url string) (core.Amount, error) {
	resp, err := resthttp.Request(ctx).SetAuthToken(s.authToken).Get(url)
	if err != nil {
		return core.Amount{}, err
	}

	var out amountResponse
	if err := resthttp.ParseResponse(resp, &out); err != nil {
		return core.Amount{}, err
	}

	return out.Amount, nil
}
