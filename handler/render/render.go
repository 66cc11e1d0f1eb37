package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"revloans/core"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.Errorln(err)
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	if err := enc.Encode(H{"code": errCode, "msg": err.Error()}); err != nil {
		logrus.Errorln(err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// Coded writes a domain error with its code and the matching http status.
func Coded(w http.ResponseWriter, err error) {
	var code core.ErrorCode
	if !errors.As(err, &code) {
		Error(w, http.StatusInternalServerError, int(core.ErrUnknown), err)
		return
	}

	Error(w, statusOf(code), int(code), err)
}

func statusOf(code core.ErrorCode) int {
	switch code {
	case core.ErrLoanNotFound:
		return http.StatusNotFound
	case core.ErrUnauthorized:
		return http.StatusUnauthorized
	case core.ErrOperationForbidden:
		return http.StatusForbidden
	case core.ErrUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
