package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bonnetje/internal/core"
	"bonnetje/internal/middleware/trace"
)

// dashboardData drives the main page template.
type dashboardData struct {
	LoggedIn  bool
	Error     string
	Summaries []core.MonthlySummary
	Receipts  []core.Receipt
	Stats     core.ReceiptStats
	HasStats  bool
}

func (s *Server) dashboardData(r *http.Request, loginErr string) dashboardData {
	data := dashboardData{
		LoggedIn: s.session.LoggedIn(r.Context()),
		Error:    loginErr,
	}
	if data.LoggedIn {
		data.Summaries = s.session.Summaries()
		data.Receipts = s.session.Receipts()
		data.Stats, data.HasStats = s.session.Stats()
	}
	return data
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, "dashboard.html", s.dashboardData(r, ""))
}

// handleLogin drives the browser automation flow with the submitted
// credentials. Failures re-render the dashboard with the error inline so
// the user can retry without losing the page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	pair, err := s.login.Login(r.Context(), username, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed",
			"request_id", trace.GetRequestID(r.Context()),
			"error", err)
		s.render(w, r, "dashboard.html", s.dashboardData(r, loginErrorMessage(err)))
		return
	}

	if err := s.session.SetTokens(r.Context(), pair); err != nil {
		slog.ErrorContext(r.Context(), "Failed to store session", "error", err)
		s.render(w, r, "dashboard.html", s.dashboardData(r, "Inloggen gelukt, maar de sessie kon niet worden opgeslagen."))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrMissingCredentials):
		return "Vul gebruikersnaam en wachtwoord in."
	case errors.Is(err, core.ErrLoginTimeout):
		return "Inloggen duurde te lang. Mogelijk staat er een captcha in de weg, probeer het later opnieuw."
	default:
		return "Inloggen mislukt. Controleer je gegevens en probeer het opnieuw."
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.session.Logout(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Logout failed", "error", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReceipts renders the receipt list fragment, newest first as the API
// returns them.
func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.session.LoggedIn(r.Context()) {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	s.render(w, r, "receipts.html", struct {
		Receipts []core.Receipt
	}{Receipts: s.session.Receipts()})
}

// handleReceiptDetail serves the itemized view for one transaction. Details
// are fetched lazily and cached; the upstream receipt never changes after
// checkout so a TTL measured in minutes is plenty.
func (s *Server) handleReceiptDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transactionID := strings.TrimPrefix(r.URL.Path, "/receipts/")
	if transactionID == "" || strings.Contains(transactionID, "/") {
		http.NotFound(w, r)
		return
	}

	detail, ok := s.detailCache.Get(transactionID)
	if !ok {
		var err error
		detail, err = s.details.ReceiptDetail(r.Context(), transactionID)
		if err != nil {
			if errors.Is(err, core.ErrNotAuthenticated) {
				http.Error(w, "not authenticated", http.StatusUnauthorized)
				return
			}
			slog.ErrorContext(r.Context(), "Failed to fetch receipt detail",
				"transaction_id", transactionID,
				"error", err)
			http.Error(w, "failed to fetch receipt", http.StatusBadGateway)
			return
		}
		s.detailCache.Set(transactionID, detail)
	}

	s.render(w, r, "receipt_detail.html", struct {
		TransactionID string
		Items         []core.ReceiptUIItem
	}{
		TransactionID: transactionID,
		Items:         renderableItems(detail.ReceiptUIItems),
	})
}

// renderableItems drops line types this UI has no rendering for. Unknown
// tags appear whenever the retailer ships a new app version and must never
// break the page.
func renderableItems(items []core.ReceiptUIItem) []core.ReceiptUIItem {
	out := make([]core.ReceiptUIItem, 0, len(items))
	for _, it := range items {
		switch it.Type {
		case core.ItemLogo, core.ItemText, core.ItemSpacer, core.ItemProductsHeader,
			core.ItemDivider, core.ItemProduct, core.ItemSubtotal, core.ItemTotal,
			core.ItemFourColumn, core.ItemVAT, core.ItemTechInfo:
			out = append(out, it)
		}
	}
	return out
}

// handleSummaries feeds the spending chart.
func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.session.LoggedIn(r.Context()) {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	summaries := s.session.Summaries()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode summaries", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// render executes into a buffer first so a template error yields a clean
// 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template rendering failed",
			"template", name,
			"error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
