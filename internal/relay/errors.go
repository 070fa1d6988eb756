package relay

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mercadopago/sdk-go/pkg/mperror"

	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// ChargeError is a relay failure with the HTTP status to answer with.
// Upstream gateway failures keep the gateway's own status code.
type ChargeError struct {
	StatusCode      int         `json:"-"`
	Status          int         `json:"status,omitempty"`
	Message         string      `json:"error"`
	Cause           string      `json:"cause,omitempty"`
	Details         interface{} `json:"details,omitempty"`
	GatewayResponse string      `json:"gateway_response,omitempty"`
}

func (e *ChargeError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("relay charge failed (%d): %s: %s", e.StatusCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("relay charge failed (%d): %s", e.StatusCode, e.Message)
}

func badRequest(msg string) *ChargeError {
	return &ChargeError{StatusCode: http.StatusBadRequest, Message: msg}
}

func transportFailure(gw Gateway, err error) *ChargeError {
	return &ChargeError{
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("%s request failed: %v", gw, err),
	}
}

// upstreamFailure mirrors a non-2xx gateway answer.
func upstreamFailure(resp *httpclient.Response) *ChargeError {
	return gatewayFailure(resp.StatusCode, resp.Body)
}

// mercadoPagoFailure keeps the status and text of an SDK response error.
// Anything else failed before Mercado Pago answered.
func mercadoPagoFailure(err error) *ChargeError {
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode > 0 {
		return gatewayFailure(respErr.StatusCode, []byte(respErr.Message))
	}
	return &ChargeError{
		StatusCode: http.StatusBadGateway,
		Status:     http.StatusBadGateway,
		Message:    "mercadopago request failed",
		Cause:      err.Error(),
	}
}

func gatewayFailure(status int, raw []byte) *ChargeError {
	e := &ChargeError{
		StatusCode: status,
		Status:     status,
		Message:    "failed to process payment",
	}
	body, err := (&httpclient.Response{StatusCode: status, Body: raw}).JSON()
	if err != nil {
		e.Details = utils.Truncate(string(raw), 300)
		return e
	}
	e.Message = utils.FirstNonEmpty(fields.String(body, "message", "error.message", "error"), e.Message)
	e.Cause = fields.String(body, "cause.0.description", "cause", "error_description")
	e.Details = body
	return e
}

func invalidResponse(resp *httpclient.Response) *ChargeError {
	return &ChargeError{
		StatusCode:      http.StatusInternalServerError,
		Message:         "gateway returned an invalid response",
		GatewayResponse: utils.Truncate(string(resp.Body), 300),
	}
}
