package param

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
}

// Binding binds query values and, for json requests, the body into v.
func Binding(r *http.Request, v interface{}) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	if len(r.Form) > 0 {
		if err := decoder.Decode(v, r.Form); err != nil {
			return err
		}
	}

	if typ := r.Header.Get("Content-Type"); strings.HasPrefix(typ, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	return nil
}
