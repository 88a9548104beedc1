package models

// Conversation statuses. The empty string means the user is idle: signup is
// finished (or not applicable) and no confirmation is pending.
const (
	StatusIdle = ""

	StatusPendingTerms               = "pending_terms"
	StatusAcceptedTerms              = "accepted_terms"
	StatusPendingDocumentType        = "pending_document_type"
	StatusPendingDocument            = "pending_document"
	StatusPendingDocumentConfirm     = "pending_document_confirmation"
	StatusPendingName                = "pending_name"
	StatusPendingNameConfirm         = "pending_name_confirmation"
	StatusPendingEmail               = "pending_email"
	StatusPendingEmailConfirm        = "pending_email_confirmation"
	StatusPendingAddress             = "pending_address"
	StatusPendingAddressConfirm      = "pending_address_confirmation"
	StatusPendingCity                = "pending_city"
	StatusPendingCityConfirm         = "pending_city_confirmation"
	StatusPendingOfferConfirm        = "pending_offer_confirmation"
	StatusPendingNotificationConfig  = "pending_notification_configuration"
)

// Identity document types accepted for a rental contract.
var DocumentTypes = map[string]string{
	"CC":  "Cédula de Ciudadanía",
	"CE":  "Cédula de Extranjería",
	"PPT": "Permiso por Protección Temporal",
}

// DocumentTypeOrder keeps button rendering deterministic.
var DocumentTypeOrder = []string{"CC", "CE", "PPT"}

type User struct {
	Phone          string   `json:"phone"`
	Status         string   `json:"status"`
	DocumentType   string   `json:"document_type"`
	Document       string   `json:"document"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	DraftBid       int64    `json:"draft_bid"`
	SubscriptionID string   `json:"subscription_id"`
	Verified       bool     `json:"verified"`
	TermsDocuments []string `json:"terms_documents"`
	CreatedAt      int64    `json:"created_at"`
	LastMessage    int64    `json:"last_message"`
}
