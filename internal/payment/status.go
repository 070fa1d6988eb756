package payment

import "strings"

// Status is the canonical charge lifecycle state. Values a provider map does
// not know pass through unchanged, so a Status may hold a native string.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether polling should stop on this status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsCanonical reports whether s is one of the five canonical values.
func (s Status) IsCanonical() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusRefunded, StatusExpired:
		return true
	}
	return false
}

// Vocabulary maps a provider's native status strings to canonical ones.
type Vocabulary map[string]Status

// Map translates native. Unknown values are returned literally; canonical
// values map to themselves, so mapping is idempotent.
func (v Vocabulary) Map(native string) Status {
	if native == "" {
		return ""
	}
	if s, ok := v[native]; ok {
		return s
	}
	if s, ok := v[strings.ToLower(native)]; ok {
		return s
	}
	return Status(native)
}

var (
	checkoutVocabulary = Vocabulary{
		"pending":    StatusPending,
		"in_process": StatusPending,
		"approved":   StatusPaid,
		"cancelled":  StatusCancelled,
		"refunded":   StatusRefunded,
		"expired":    StatusExpired,
		"rejected":   StatusExpired,
	}

	gerencianetVocabulary = Vocabulary{
		"ATIVA":                          StatusPending,
		"CONCLUIDA":                      StatusPaid,
		"REMOVIDA_PELO_USUARIO_RECEBEDOR": StatusCancelled,
		"REMOVIDA_PELO_PSP":              StatusExpired,
	}

	pagarmeVocabulary = Vocabulary{
		"pending":  StatusPending,
		"paid":     StatusPaid,
		"canceled": StatusCancelled,
		"failed":   StatusExpired,
		"refunded": StatusRefunded,
	}

	asaasVocabulary = Vocabulary{
		"PENDING":   StatusPending,
		"RECEIVED":  StatusPaid,
		"CONFIRMED": StatusPaid,
		"OVERDUE":   StatusExpired,
		"REFUNDED":  StatusRefunded,
	}

	cashInVocabulary = Vocabulary{
		"waiting_payment": StatusPending,
		"processing":      StatusPending,
		"pending":         StatusPending,
		"paid":            StatusPaid,
		"approved":        StatusPaid,
		"refused":         StatusExpired,
		"failed":          StatusExpired,
		"expired":         StatusExpired,
		"cancelled":       StatusCancelled,
		"canceled":        StatusCancelled,
		"refunded":        StatusRefunded,
		"chargeback":      StatusRefunded,
	}
)

// VocabularyFor returns the status map of provider. Unknown providers use the
// custom map.
func VocabularyFor(p Provider) Vocabulary {
	switch p {
	case ProviderVegas, ProviderMercadoPago:
		return checkoutVocabulary
	case ProviderGerencianet:
		return gerencianetVocabulary
	case ProviderPagarme:
		return pagarmeVocabulary
	case ProviderAsaas:
		return asaasVocabulary
	default:
		return cashInVocabulary
	}
}
