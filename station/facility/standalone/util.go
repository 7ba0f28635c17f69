// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"go.gasstation.io/station/model"
)

type ErrorType int

const (
	ClientInvalidRequest ErrorType = iota
	ResourceNotFound
	ResourceConflict
	TooManyCustomers
	StationUnavailable
)

func (t ErrorType) String() string {
	switch t {
	case ClientInvalidRequest:
		return "Client.InvalidRequest"
	case ResourceNotFound:
		return "Client.NotFound"
	case ResourceConflict:
		return "Client.Conflict"
	case TooManyCustomers:
		return "Client.TooManyCustomers"
	case StationUnavailable:
		return "Station.Unavailable"
	}
	return fmt.Sprintf("Cannot stringify standalone.ErrorType.%d", int(t))
}

func (t ErrorType) httpStatus() int {
	switch t {
	case ClientInvalidRequest:
		return http.StatusBadRequest
	case ResourceNotFound:
		return http.StatusNotFound
	case ResourceConflict:
		return http.StatusConflict
	case TooManyCustomers:
		return http.StatusTooManyRequests
	}
	return http.StatusServiceUnavailable
}

type ErrorReply struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	status       int
}

func newErrorReply(errType ErrorType, errMsg string) *ErrorReply {
	return &ErrorReply{ErrorType: errType.String(), ErrorMessage: errMsg, status: errType.httpStatus()}
}

func (e *ErrorReply) Send(w http.ResponseWriter, r *http.Request) {
	render.Status(r, e.status)
	render.JSON(w, r, e)
}

func pumpIDParam(r *http.Request) (int, *ErrorReply) {
	raw := chi.URLParam(r, "pumpID")
	pumpID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newErrorReply(ClientInvalidRequest, fmt.Sprintf("Invalid pump id %q", raw))
	}
	return pumpID, nil
}

func gradeParam(r *http.Request) (model.FuelGrade, *ErrorReply) {
	grade, err := model.ParseGrade(chi.URLParam(r, "grade"))
	if err != nil {
		return model.InvalidGrade, newErrorReply(ClientInvalidRequest, err.Error())
	}
	return grade, nil
}
