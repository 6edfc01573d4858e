package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// TokenPair is the credential pair issued by the mobile-auth service.
	// Both tokens are opaque strings; expiry fields are carried verbatim
	// from the issuer and never inspected locally.
	TokenPair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type,omitempty"`
		ExpiresIn    int64  `json:"expires_in,omitempty"`
	}

	// Amount is a monetary value as the receipts API serializes it.
	Amount struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}

	// ReceiptTotal nests the amount one level deeper than the discount does,
	// mirroring the upstream payload shape.
	ReceiptTotal struct {
		Amount Amount `json:"amount"`
	}

	// Receipt is one entry of the receipts list endpoint.
	Receipt struct {
		TransactionID     string       `json:"transactionId"`
		TransactionMoment time.Time    `json:"transactionMoment"`
		Total             ReceiptTotal `json:"total"`
		TotalDiscount     Amount       `json:"totalDiscount"`
	}

	// ReceiptUIItem is a single line of the printable receipt. Lines are
	// tagged by Type and only carry the fields relevant to their tag.
	// Renderers must skip unknown types instead of rejecting the receipt.
	ReceiptUIItem struct {
		Type        string  `json:"type"`
		Description string  `json:"description,omitempty"`
		Quantity    string  `json:"quantity,omitempty"`
		Amount      string  `json:"amount,omitempty"`
		Price       string  `json:"price,omitempty"`
		Label       string  `json:"label,omitempty"`
		Value       string  `json:"value,omitempty"`
		Text        string  `json:"text,omitempty"`
		Alignment   string  `json:"alignment,omitempty"`
		IsBold      bool    `json:"isBold,omitempty"`
		Style       string  `json:"style,omitempty"`
		First       string  `json:"first,omitempty"`
		Second      string  `json:"second,omitempty"`
		Third       string  `json:"third,omitempty"`
		Fourth      string  `json:"fourth,omitempty"`
		Left        string  `json:"left,omitempty"`
		Center      string  `json:"center,omitempty"`
		Right       string  `json:"right,omitempty"`
		Store       int     `json:"store,omitempty"`
		Lane        int     `json:"lane,omitempty"`
		Transaction int     `json:"transaction,omitempty"`
		Operator    *string `json:"operator,omitempty"`
	}

	// DetailedReceipt is the itemized receipt for a single transaction.
	DetailedReceipt struct {
		ReceiptUIItems    []ReceiptUIItem `json:"receiptUiItems"`
		StoreID           int             `json:"storeId,omitempty"`
		TransactionMoment string          `json:"transactionMoment,omitempty"`
	}

	// MonthlySummary aggregates spend, discount and visit count for one
	// calendar month.
	MonthlySummary struct {
		SortKey    string    `json:"sortKey"` // YYYY-MM
		Month      string    `json:"month"`   // display name, e.g. "januari 2024"
		MonthStart time.Time `json:"monthStart"`
		Total      float64   `json:"total"`
		Discount   float64   `json:"discount"`
		Count      int       `json:"count"`
	}
)

// Line item types observed on real receipts. The upstream API adds new ones
// without notice.
const (
	ItemLogo           = "logo"
	ItemText           = "text"
	ItemSpacer         = "spacer"
	ItemProductsHeader = "products-header"
	ItemDivider        = "divider"
	ItemProduct        = "product"
	ItemSubtotal       = "subtotal"
	ItemTotal          = "total"
	ItemFourColumn     = "four-text-column"
	ItemVAT            = "vat"
	ItemTechInfo       = "tech-info"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrLoginTimeout       = errors.New("timed out waiting for authorization code")
)

// Valid reports whether the pair can be used for an authenticated call.
func (p *TokenPair) Valid() bool {
	return p != nil && strings.TrimSpace(p.AccessToken) != ""
}

// MonthKey returns the YYYY-MM grouping key for the receipt, computed in the
// calendar of the transaction moment itself rather than UTC.
func (r Receipt) MonthKey() string {
	return r.TransactionMoment.Format("2006-01")
}

// MonthStart returns midnight on the first day of the receipt's month, in the
// transaction moment's own zone.
func (r Receipt) MonthStart() time.Time {
	t := r.TransactionMoment
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
