package registration

import "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"

// AggregateTypeRegistration is the aggregate type of business registrations
const AggregateTypeRegistration = "BusinessRegistration"

// EventTypeRegistrationSubmitted is published after a public submission is stored
const EventTypeRegistrationSubmitted = "registration.submitted"

// RegistrationSubmittedEvent carries what notification handlers need
type RegistrationSubmittedEvent struct {
	shared.BaseDomainEvent
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	EmailEmpresa string `json:"email_empresa"`
	SocioNome    string `json:"socio_nome"`
	Folder       string `json:"folder"`
	PDFKey       string `json:"pdf_key"`
}

// NewRegistrationSubmittedEvent creates a RegistrationSubmittedEvent
func NewRegistrationSubmittedEvent(r *BusinessRegistration) *RegistrationSubmittedEvent {
	return &RegistrationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegistrationSubmitted, AggregateTypeRegistration, r.ID),
		RazaoSocial:     r.RazaoSocial,
		NomeFantasia:    r.NomeFantasia,
		EmailEmpresa:    r.EmailEmpresa,
		SocioNome:       r.PrimaryPartnerName(),
		Folder:          r.DriveFolder,
		PDFKey:          r.PDFKey,
	}
}
