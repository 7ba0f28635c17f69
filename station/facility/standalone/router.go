// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package standalone serves the station admin API over HTTP.
package standalone

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/statejson"
)

type StationServer interface {
	ApproveTransaction(pumpID int) (bool, error)
	DeclineTransaction(pumpID int) (bool, error)
	RefillTank(ctx context.Context, grade model.FuelGrade) error
	SetUnitPrice(grade model.FuelGrade, unitPrice float64) error
	PublishedRecord(pumpID int) (model.TransactionRecord, error)
	History() []model.TransactionRecord
	SpawnCustomer() (*customer.Customer, error)
	Describe() statejson.StationDescription
}

// NewHTTPRouter returns the admin API router. Background work started by a
// request, like a tank refill, is bound to ctx.
func NewHTTPRouter(ctx context.Context, s StationServer, shutdownFunc context.CancelFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestIDDecorator)
	r.Use(standaloneAccessLogDecorator)

	r.Get("/test/ping", func(w http.ResponseWriter, r *http.Request) { PingHandler(w, r) })
	r.Post("/test/shutdown", func(w http.ResponseWriter, r *http.Request) { ShutdownHandler(w, r, shutdownFunc) })
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) { StateHandler(w, r, s) })
	r.Get("/pumps/{pumpID}", func(w http.ResponseWriter, r *http.Request) { PumpRecordHandler(w, r, s) })
	r.Post("/pumps/{pumpID}/approve", func(w http.ResponseWriter, r *http.Request) { AuthorizeHandler(w, r, s.ApproveTransaction) })
	r.Post("/pumps/{pumpID}/decline", func(w http.ResponseWriter, r *http.Request) { AuthorizeHandler(w, r, s.DeclineTransaction) })
	r.Post("/tanks/{grade}/refill", func(w http.ResponseWriter, r *http.Request) { RefillHandler(ctx, w, r, s) })
	r.Put("/prices/{grade}", func(w http.ResponseWriter, r *http.Request) { PriceHandler(w, r, s) })
	r.Post("/customers", func(w http.ResponseWriter, r *http.Request) { CustomersHandler(w, r, s) })
	r.Get("/history", func(w http.ResponseWriter, r *http.Request) { HistoryHandler(w, r, s) })
	return r
}
