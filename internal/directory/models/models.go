package models

import (
	"errors"

	id "africonnect/pkg/domain"
)

// ErrInsufficientFunds is returned when a delta marked NoOverdraft would take
// a wallet below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
)

// User is a marketplace participant. Profiles are managed elsewhere; this
// system reads them and mutates only the wallet balance.
type User struct {
	ID                 id.UserID          `json:"id"`
	Name               string             `json:"name"`
	Role               Role               `json:"role"`
	ProfessionalType   string             `json:"professional_type,omitempty"`
	Country            string             `json:"country"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Wallet             Wallet             `json:"wallet"`
}

// Wallet balances are minor units of Currency.
type Wallet struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

func (u *User) IsVerified() bool {
	return u.VerificationStatus == VerificationVerified
}

type ServiceStatus string

const (
	ServiceActive        ServiceStatus = "active"
	ServiceInactive      ServiceStatus = "inactive"
	ServicePendingReview ServiceStatus = "pending_review"
)

// Service is a listing a contract is drawn up against.
type Service struct {
	ID          id.ServiceID  `json:"id"`
	ProviderID  id.UserID     `json:"provider_id"`
	Title       string        `json:"title"`
	Category    string        `json:"category"`
	SubCategory string        `json:"sub_category"`
	Status      ServiceStatus `json:"status"`
}

// IsContractEligible reports whether new contracts may reference the listing.
// Listings under review remain eligible; only deactivated ones are not.
func (s *Service) IsContractEligible() bool {
	return s.Status != ServiceInactive
}

// WalletDelta is a signed balance change in the wallet's own currency. A
// NoOverdraft delta fails instead of leaving the balance negative.
type WalletDelta struct {
	UserID      id.UserID
	Amount      int64
	NoOverdraft bool
}
