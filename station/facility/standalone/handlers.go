// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/facility"
	"go.gasstation.io/station/registry"
	"go.gasstation.io/station/statejson"
)

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

func ShutdownHandler(w http.ResponseWriter, r *http.Request, shutdownFunc context.CancelFunc) {
	log.Info("Shutdown requested")
	w.WriteHeader(http.StatusAccepted)
	shutdownFunc()
}

func StateHandler(w http.ResponseWriter, r *http.Request, s StationServer) {
	state := s.Describe()
	w.Header().Set("Content-Type", "application/json")
	w.Write(state.AsJSON())
}

func PumpRecordHandler(w http.ResponseWriter, r *http.Request, s StationServer) {
	pumpID, lerr := pumpIDParam(r)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}

	record, err := s.PublishedRecord(pumpID)
	if err != nil {
		errorReplyFor(err).Send(w, r)
		return
	}
	render.JSON(w, r, record.Describe())
}

type authorizeResponse struct {
	PumpID   int  `json:"pumpId"`
	Approved bool `json:"approved"`
}

// AuthorizeHandler serves both approve and decline.
func AuthorizeHandler(w http.ResponseWriter, r *http.Request, decide func(int) (bool, error)) {
	pumpID, lerr := pumpIDParam(r)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}

	decided, err := decide(pumpID)
	if err != nil {
		errorReplyFor(err).Send(w, r)
		return
	}
	if !decided {
		newErrorReply(ResourceConflict, "No transaction awaiting authorization").Send(w, r)
		return
	}
	render.JSON(w, r, &authorizeResponse{PumpID: pumpID, Approved: decided})
}

func RefillHandler(ctx context.Context, w http.ResponseWriter, r *http.Request, s StationServer) {
	grade, lerr := gradeParam(r)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}

	go func() {
		if err := s.RefillTank(ctx, grade); err != nil && ctx.Err() == nil {
			log.WithError(err).WithField("grade", grade).Warn("Refill failed")
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}

type priceRequest struct {
	Price float64 `json:"price"`
}

func PriceHandler(w http.ResponseWriter, r *http.Request, s StationServer) {
	grade, lerr := gradeParam(r)
	if lerr != nil {
		lerr.Send(w, r)
		return
	}

	var req priceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		newErrorReply(ClientInvalidRequest, "Invalid json: "+err.Error()).Send(w, r)
		return
	}
	if err := s.SetUnitPrice(grade, req.Price); err != nil {
		newErrorReply(ClientInvalidRequest, err.Error()).Send(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type customerResponse struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
}

func CustomersHandler(w http.ResponseWriter, r *http.Request, s StationServer) {
	c, err := s.SpawnCustomer()
	if err != nil {
		errorReplyFor(err).Send(w, r)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &customerResponse{Index: c.Index(), Status: c.Status()})
}

func HistoryHandler(w http.ResponseWriter, r *http.Request, s StationServer) {
	records := []statejson.RecordDescription{}
	for _, record := range s.History() {
		records = append(records, record.Describe())
	}
	render.JSON(w, r, records)
}

func errorReplyFor(err error) *ErrorReply {
	switch {
	case errors.Is(err, registry.ErrOutOfRange):
		return newErrorReply(ResourceNotFound, err.Error())
	case errors.Is(err, facility.ErrTooManyCustomers):
		return newErrorReply(TooManyCustomers, err.Error())
	}
	return newErrorReply(StationUnavailable, err.Error())
}
