package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	runOnce     sync.Once
	restyClient *resty.Client
)

// Client shared resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request bound to ctx
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// ParseResponse decode the response body into obj; non-2xx responses
// surface the body as the error.
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return fmt.Errorf("resthttp: %s: %s", r.Status(), r.Body())
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}
