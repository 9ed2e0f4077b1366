package http

import (
	"net/http"
	"time"

	"urbanpark/internal/core"
)

type passResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Plate     string `json:"plate"`
	ValidFrom string `json:"valid_from,omitempty"`
	ValidTo   string `json:"valid_to,omitempty"`
}

func toPassResponse(p *core.Pass) passResponse {
	resp := passResponse{ID: p.ID, Kind: string(p.Kind), Plate: p.Plate}
	if p.Kind.IsRange() {
		resp.ValidFrom = p.ValidFrom.Format("2006-01-02")
		resp.ValidTo = p.ValidTo.Format("2006-01-02")
	}
	return resp
}

type sessionResponse struct {
	TicketID  string `json:"ticket_id"`
	Plate     string `json:"plate"`
	Category  string `json:"category"`
	SpotID    int    `json:"spot_id"`
	EntryTime string `json:"entry_time"`
	PassID    string `json:"pass_id,omitempty"`
}

type receiptResponse struct {
	TicketID  string `json:"ticket_id"`
	Plate     string `json:"plate"`
	Category  string `json:"category"`
	SpotID    int    `json:"spot_id"`
	EntryTime string `json:"entry_time"`
	ExitTime  string `json:"exit_time"`
	Fee       string `json:"fee"`
	FeeCents  int64  `json:"fee_cents"`
	Rule      string `json:"rule"`
	PassInfo  string `json:"pass_info"`
}

func toReceiptResponse(r *core.Receipt) receiptResponse {
	return receiptResponse{
		TicketID:  r.TicketID,
		Plate:     r.Plate,
		Category:  string(r.Category),
		SpotID:    r.SpotID,
		EntryTime: r.EntryTime.Format(time.RFC3339),
		ExitTime:  r.ExitTime.Format(time.RFC3339),
		Fee:       r.Fee.String(),
		FeeCents:  r.Fee.Cents,
		Rule:      r.Rule,
		PassInfo:  r.PassInfo,
	}
}

func (s *Server) handleSellPass(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind      string `json:"kind"`
		Plate     string `json:"plate"`
		ValidFrom string `json:"valid_from"`
		ValidTo   string `json:"valid_to"`
		Price     string `json:"price"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	from, err := parseDate(req.ValidFrom)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid valid_from: " + err.Error()})
		return
	}
	to, err := parseDate(req.ValidTo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid valid_to: " + err.Error()})
		return
	}

	pass, err := s.svc.SellPass(r.Context(), req.Kind, req.Plate, from, to, core.Money{Cents: cents})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPassResponse(pass))
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		Plate    string `json:"plate"`
		PassID   string `json:"pass_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := s.svc.VehicleEntry(r.Context(), req.Category, req.Plate, req.PassID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		TicketID:  session.TicketID,
		Plate:     session.Vehicle.Plate,
		Category:  string(session.Vehicle.Category),
		SpotID:    session.SpotID,
		EntryTime: session.EntryTime.Format(time.RFC3339),
		PassID:    session.PassID,
	})
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		// Ticket id or plate.
		Identifier string `json:"identifier"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Identifier == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "identifier is required"})
		return
	}

	receipt, err := s.svc.VehicleExit(r.Context(), req.Identifier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.svc.Receipt(r.Context(), r.PathValue("ticket"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

func (s *Server) handlePassSaleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.PassSaleReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleVehicleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.VehicleReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRevenueReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.RevenueReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moneyMapResponse(report))
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.ExpenseReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moneyMapResponse(report))
}

func moneyMapResponse(in map[string]core.Money) map[string]string {
	out := make(map[string]string, len(in))
	for key, amount := range in {
		out[key] = amount.String()
	}
	return out
}

func (s *Server) handleProfitReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.ProfitReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	type profitRow struct {
		Month    string `json:"month"`
		Revenue  string `json:"revenue"`
		Expenses string `json:"expenses"`
		Profit   string `json:"profit"`
	}
	out := make([]profitRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, profitRow{
			Month:    row.Month,
			Revenue:  row.Revenue.String(),
			Expenses: row.Expenses.String(),
			Profit:   row.Profit.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string `json:"date"`
		Amount string `json:"amount"`
		Label  string `json:"label"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + err.Error()})
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.svc.AddExpense(r.Context(), date, core.Money{Cents: cents}, req.Label); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.FinanceSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"total_revenue":  summary.TotalRevenue.String(),
		"total_expenses": summary.TotalExpenses.String(),
		"profit":         summary.Profit.String(),
	})
}

func (s *Server) handleAddDebtor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Amount  string `json:"amount"`
		DueDate string `json:"due_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid due_date: " + err.Error()})
		return
	}

	d := core.Debtor{Name: req.Name, Amount: core.Money{Cents: cents}, DueDate: due}
	if err := s.svc.AddDebtor(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleOverdueDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := s.svc.OverdueDebtors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	type debtorRow struct {
		Name    string `json:"name"`
		Amount  string `json:"amount"`
		DueDate string `json:"due_date"`
	}
	out := make([]debtorRow, 0, len(debtors))
	for _, d := range debtors {
		out = append(out, debtorRow{
			Name:    d.Name,
			Amount:  d.Amount.String(),
			DueDate: d.DueDate.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddCreditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Amount      string `json:"amount"`
		PayableDate string `json:"payable_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	payable, err := parseDate(req.PayableDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payable_date: " + err.Error()})
		return
	}

	c := core.Creditor{Name: req.Name, Amount: core.Money{Cents: cents}, PayableDate: payable}
	if err := s.svc.AddCreditor(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleCreditors(w http.ResponseWriter, r *http.Request) {
	creditors, err := s.svc.Creditors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	type creditorRow struct {
		Name        string `json:"name"`
		Amount      string `json:"amount"`
		PayableDate string `json:"payable_date"`
	}
	out := make([]creditorRow, 0, len(creditors))
	for _, c := range creditors {
		out = append(out, creditorRow{
			Name:        c.Name,
			Amount:      c.Amount.String(),
			PayableDate: c.PayableDate.Format("2006-01-02"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLotStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.LotStatus())
}
