package apiclient

import (
	"time"

	"github.com/rankwise/dashboard/pkg/credstore"
	"github.com/rankwise/dashboard/pkg/session"
)

// ============================================================================
// Envelope Types
// ============================================================================

// PageMeta describes the position of a page within a paginated collection.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginated is the list envelope every collection endpoint returns.
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ListOptions are the common query parameters for collection endpoints.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the credential exchange payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by POST /auth/login: the identity triple plus the
// initial token pair.
type AuthResponse struct {
	User          session.User           `json:"user"`
	Organization  session.Organization   `json:"organization"`
	Organizations []session.Organization `json:"organizations"`
	Tokens        credstore.Credential   `json:"tokens"`
}

// MeResponse is returned by GET /auth/me, used once per process start to
// hydrate session state from a persisted credential.
type MeResponse struct {
	User          session.User           `json:"user"`
	Organization  session.Organization   `json:"organization"`
	Organizations []session.Organization `json:"organizations"`
}

// ============================================================================
// Site Types
// ============================================================================

type SiteStatus string

const (
	SiteStatusActive   SiteStatus = "active"
	SiteStatusInactive SiteStatus = "inactive"
	SiteStatusPending  SiteStatus = "pending"
)

// Site is a customer website managed through the dashboard.
type Site struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	LicenseKey     string     `json:"licenseKey,omitempty"`
	Status         SiteStatus `json:"status"`
	LastSyncAt     *time.Time `json:"lastSyncAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CreateSiteRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type UpdateSiteRequest struct {
	Name   string     `json:"name,omitempty"`
	URL    string     `json:"url,omitempty"`
	Status SiteStatus `json:"status,omitempty"`
}

// ============================================================================
// Business Types
// ============================================================================

// Business is a local business listing attached to a site.
type Business struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	Category  string    `json:"category,omitempty"`
	PlaceID   string    `json:"placeId,omitempty"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ============================================================================
// License Types
// ============================================================================

type Plugin string

const (
	PluginRapidScan   Plugin = "rapidscan"
	PluginRapidBuild  Plugin = "rapidbuild"
	PluginRapidReport Plugin = "rapidreport"
	PluginRapidGBP    Plugin = "rapidgbp"
)

type LicenseStatus string

const (
	LicenseStatusActive   LicenseStatus = "active"
	LicenseStatusInactive LicenseStatus = "inactive"
	LicenseStatusExpired  LicenseStatus = "expired"
)

// License is a plugin license key owned by an organization, optionally bound
// to a site.
type License struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organizationId"`
	Key            string        `json:"key"`
	Plugin         Plugin        `json:"plugin"`
	Status         LicenseStatus `json:"status"`
	ActivatedAt    *time.Time    `json:"activatedAt,omitempty"`
	ExpiresAt      *time.Time    `json:"expiresAt,omitempty"`
	SiteID         string        `json:"siteId,omitempty"`
	Site           *Site         `json:"site,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type CreateLicenseRequest struct {
	Plugin Plugin `json:"plugin"`
}

// ============================================================================
// Credits Types
// ============================================================================

// CreditsBalance is the organization's current credit position.
type CreditsBalance struct {
	Balance      int `json:"balance"`
	MonthlyUsage int `json:"monthlyUsage"`
	MonthlyLimit int `json:"monthlyLimit"`
}

type CreditTransactionType string

const (
	CreditPurchase CreditTransactionType = "purchase"
	CreditUsage    CreditTransactionType = "usage"
	CreditRefund   CreditTransactionType = "refund"
	CreditBonus    CreditTransactionType = "bonus"
)

// CreditTransaction is one ledger entry against the credit balance.
type CreditTransaction struct {
	ID             string                `json:"id"`
	OrganizationID string                `json:"organizationId"`
	Amount         int                   `json:"amount"`
	Type           CreditTransactionType `json:"type"`
	Description    string                `json:"description"`
	Action         string                `json:"action,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ============================================================================
// Billing Types
// ============================================================================

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
)

// Subscription is the organization's current billing plan.
type Subscription struct {
	ID                 string             `json:"id"`
	OrganizationID     string             `json:"organizationId"`
	Tier               session.Tier       `json:"tier"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time          `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool               `json:"cancelAtPeriodEnd"`
}

type InvoiceStatus string

const (
	InvoicePaid InvoiceStatus = "paid"
	InvoiceOpen InvoiceStatus = "open"
	InvoiceVoid InvoiceStatus = "void"
)

// Invoice is one billing statement.
type Invoice struct {
	ID        string        `json:"id"`
	Amount    int           `json:"amount"`
	Status    InvoiceStatus `json:"status"`
	PDFURL    string        `json:"pdfUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}
