// Package http exposes the parking service as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"urbanpark/internal/log"
	"urbanpark/internal/services"
)

type Server struct {
	http.Server
	svc    *services.ParkingService
	logger *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, svc *services.ParkingService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		svc:    svc,
		logger: logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("POST /api/passes", s.handleSellPass)
	mux.HandleFunc("POST /api/entry", s.handleEntry)
	mux.HandleFunc("POST /api/exit", s.handleExit)
	mux.HandleFunc("GET /api/receipts/{ticket}", s.handleGetReceipt)

	mux.HandleFunc("GET /api/reports/pass-sales", s.handlePassSaleReport)
	mux.HandleFunc("GET /api/reports/vehicles", s.handleVehicleReport)
	mux.HandleFunc("GET /api/reports/revenue", s.handleRevenueReport)
	mux.HandleFunc("GET /api/reports/expenses", s.handleExpenseReport)
	mux.HandleFunc("GET /api/reports/profit", s.handleProfitReport)

	mux.HandleFunc("POST /api/finance/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /api/finance/summary", s.handleFinanceSummary)
	mux.HandleFunc("POST /api/finance/debtors", s.handleAddDebtor)
	mux.HandleFunc("GET /api/finance/debtors/overdue", s.handleOverdueDebtors)
	mux.HandleFunc("POST /api/finance/creditors", s.handleAddCreditor)
	mux.HandleFunc("GET /api/finance/creditors", s.handleCreditors)

	mux.HandleFunc("GET /api/lot", s.handleLotStatus)

	handler := log.Middleware(logger)(log.RequestLogger(logger)(mux))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts the server down, at most once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
