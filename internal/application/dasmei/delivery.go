package dasmei

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// guideLinkTTL is how long links to archived guides stay valid
const guideLinkTTL = 168 * time.Hour

var (
	errNoPhone          = shared.NewDomainError("NO_PHONE", "Cliente sem telefone cadastrado")
	errGuiaUnavailable  = shared.NewDomainError("GUIA_UNAVAILABLE", "Guia DAS não disponível para envio")
	errClienteInactive  = shared.NewDomainError("CLIENTE_INACTIVE", "Cliente MEI inativo")
	errUnknownOperation = errors.New("unknown retry operation")
)

// channels pairs the WhatsApp and e-mail log types of one kind of message
type channels struct {
	whatsapp dasmei.EnvioTipo
	email    dasmei.EnvioTipo
	audit    string
}

var (
	deliveryChannels = channels{whatsapp: dasmei.EnvioWhatsApp, email: dasmei.EnvioEmail, audit: opEnvioWhatsApp}
	reminderChannels = channels{whatsapp: dasmei.EnvioLembreteWhatsApp, email: dasmei.EnvioLembreteEmail, audit: opLembreteWhatsApp}
	// retries resend the WhatsApp message only
	whatsAppOnly     = channels{whatsapp: dasmei.EnvioWhatsApp, audit: opEnvioWhatsApp}
)

// sender resolves the active Evolution instance, falling back to the
// statically configured one
func (s *AutomationService) sender(ctx context.Context) (ports.WhatsAppSender, error) {
	inst, err := s.repos.Instances.FindActive(ctx)
	if err == nil {
		return s.whatsapp.ForInstance(inst.ServerURL, inst.InstanceName, inst.Token), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if sender, ok := s.whatsapp.Default(); ok {
		return sender, nil
	}
	return nil, fmt.Errorf("whatsapp: %w", shared.ErrNotConfigured)
}

// SendScheduled delivers every scheduled guide due on or before date.
// Failed WhatsApp deliveries are queued for retry.
func (s *AutomationService) SendScheduled(ctx context.Context, date time.Time) (*DeliverySummary, error) {
	due, err := s.repos.Programacoes.FindDue(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list scheduled deliveries: %w", err)
	}
	summary := &DeliverySummary{Total: len(due)}
	if len(due) == 0 {
		return summary, nil
	}
	sender, err := s.sender(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if p.Status != dasmei.ProgramacaoAgendado {
			summary.Skipped++
			continue
		}
		g, c, err := s.loadGuia(ctx, p.GuiaID)
		if err != nil {
			s.logger.Warn("Scheduled delivery without guia", zap.String("programacao_id", p.ID.String()), zap.Error(err))
			p.Cancel()
			s.updateProgramacao(ctx, p)
			summary.Skipped++
			continue
		}
		if !g.IsAvailable() || !c.IsActive {
			p.Cancel()
			s.updateProgramacao(ctx, p)
			summary.Skipped++
			continue
		}

		tipo, ch := g.DeliveryTemplate(), deliveryChannels
		if p.Tipo == dasmei.ProgramacaoLembrete {
			tipo, ch = dasmei.TemplateLembreteVencimento, reminderChannels
		}
		_, err = s.deliver(ctx, sender, g, c, tipo, ch, dasmei.OperadorAutomatico)
		tally(summary, err)
		if err != nil && !errors.Is(err, errNoPhone) && ch == deliveryChannels {
			s.enqueueRetry(ctx, dasmei.OperacaoEnvioWhatsApp, c.ID, map[string]any{
				"guia_id": g.ID.String(),
				"periodo": g.Periodo,
			}, err)
		}
		p.MarkProcessed(s.now())
		s.updateProgramacao(ctx, p)
	}

	s.logger.Info("Scheduled DAS delivery finished",
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// SendPending delivers the guides of periodo that have no successful
// WhatsApp delivery yet and cancels their pending schedule.
func (s *AutomationService) SendPending(ctx context.Context, periodo string) (*DeliverySummary, error) {
	periodo, err := s.ResolvePeriodo(periodo)
	if err != nil {
		return nil, err
	}
	guias, err := s.repos.Guias.FindWithoutDelivery(ctx, periodo, dasmei.EnvioWhatsApp)
	if err != nil {
		return nil, fmt.Errorf("list undelivered guias: %w", err)
	}
	summary := &DeliverySummary{Total: len(guias)}
	if len(guias) == 0 {
		return summary, nil
	}
	sender, err := s.sender(ctx)
	if err != nil {
		return nil, err
	}

	for _, g := range guias {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		c, err := s.repos.Clientes.FindByID(ctx, g.ClienteMeiID)
		if err != nil || !c.IsActive || !g.IsAvailable() {
			summary.Skipped++
			continue
		}
		_, err = s.deliver(ctx, sender, g, c, g.DeliveryTemplate(), deliveryChannels, dasmei.OperadorAutomatico)
		tally(summary, err)
		if err == nil {
			if err := s.repos.Programacoes.CancelByGuia(ctx, g.ID); err != nil {
				s.logger.Warn("Failed to cancel schedule", zap.String("guia_id", g.ID.String()), zap.Error(err))
			}
		}
	}
	return summary, nil
}

// SendReminders sends a due-date reminder for every unpaid guide due within
// the reminder window. Nothing is sent on weekends and holidays, and each
// guide gets at most one reminder.
func (s *AutomationService) SendReminders(ctx context.Context, date time.Time) (*DeliverySummary, error) {
	day := dateOnly(date.In(s.opts.Location))
	cal := s.calendar(ctx, day, day.AddDate(0, 0, 1))
	if !cal.IsBusinessDay(day) {
		return &DeliverySummary{NotBusinessDay: true}, nil
	}
	days := s.setting(ctx, dasmei.SettingDiasLembrete).Int(s.opts.ReminderDays)

	guias, err := s.repos.Guias.FindDueBetween(ctx, day, day.AddDate(0, 0, days+1))
	if err != nil {
		return nil, fmt.Errorf("list guias due: %w", err)
	}
	summary := &DeliverySummary{Total: len(guias)}
	if len(guias) == 0 {
		return summary, nil
	}
	sender, err := s.sender(ctx)
	if err != nil {
		return nil, err
	}

	for _, g := range guias {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if g.IsPaid() {
			summary.Skipped++
			continue
		}
		sent, err := s.repos.Envios.ExistsSent(ctx, g.ID, dasmei.EnvioLembreteWhatsApp)
		if err != nil || sent {
			summary.Skipped++
			continue
		}
		c, err := s.repos.Clientes.FindByID(ctx, g.ClienteMeiID)
		if err != nil || !c.IsActive {
			summary.Skipped++
			continue
		}
		_, err = s.deliver(ctx, sender, g, c, dasmei.TemplateLembreteVencimento, reminderChannels, dasmei.OperadorAutomatico)
		tally(summary, err)
	}

	s.logger.Info("DAS reminders finished",
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// SendGuide delivers one guide on demand and returns the delivery logs it
// wrote. A failed WhatsApp delivery is reported in the logs, not as an error.
func (s *AutomationService) SendGuide(ctx context.Context, guiaID uuid.UUID, operador string) ([]EnvioLogResponse, error) {
	g, c, err := s.loadGuia(ctx, guiaID)
	if err != nil {
		return nil, err
	}
	if !g.IsAvailable() {
		return nil, errGuiaUnavailable
	}
	if !c.IsActive {
		return nil, errClienteInactive
	}
	sender, err := s.sender(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.deliver(ctx, sender, g, c, g.DeliveryTemplate(), deliveryChannels, operador)
	if errors.Is(err, errNoPhone) {
		return nil, err
	}
	out := make([]EnvioLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ToEnvioLogResponse(l)
	}
	return out, nil
}

func tally(summary *DeliverySummary, err error) {
	switch {
	case err == nil:
		summary.Sent++
	case errors.Is(err, errNoPhone):
		summary.Skipped++
	default:
		summary.Failed++
	}
}

func (s *AutomationService) loadGuia(ctx context.Context, id uuid.UUID) (*dasmei.DasGuia, *dasmei.ClienteMei, error) {
	g, err := s.repos.Guias.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.repos.Clientes.FindByID(ctx, g.ClienteMeiID)
	if err != nil {
		return nil, nil, err
	}
	return g, c, nil
}

func (s *AutomationService) updateProgramacao(ctx context.Context, p *dasmei.ProgramacaoEnvio) {
	if err := s.repos.Programacoes.Update(ctx, p); err != nil {
		s.logger.Error("Failed to update schedule", zap.String("programacao_id", p.ID.String()), zap.Error(err))
	}
}

// deliver sends the message over WhatsApp and, when enabled and the client
// has an address, by e-mail. The returned error is the WhatsApp outcome.
func (s *AutomationService) deliver(
	ctx context.Context,
	sender ports.WhatsAppSender,
	g *dasmei.DasGuia,
	c *dasmei.ClienteMei,
	tipo dasmei.TemplateType,
	ch channels,
	operador string,
) ([]*dasmei.EnvioLog, error) {
	if c.Telefone == "" {
		s.logger.Warn("MEI client has no phone", zap.String("cliente_id", c.ID.String()))
		return nil, errNoPhone
	}
	text := s.message(ctx, tipo, g, c)
	var logs []*dasmei.EnvioLog

	wa := dasmei.NewEnvioLog(g.ID, ch.whatsapp, text)
	number, err := valueobject.NormalizeWhatsAppNumber(c.Telefone)
	if err == nil {
		var id string
		if id, err = sender.SendText(ctx, number, text); err == nil {
			wa.MarkSent(id, s.now())
		}
	}
	if err != nil {
		wa.MarkFailed(err)
	}
	s.recordEnvio(ctx, wa)
	logs = append(logs, wa)

	detalhes := map[string]any{"guia_id": g.ID.String(), "template": string(tipo)}
	if err != nil {
		detalhes["erro"] = err.Error()
		s.audit(ctx, ch.audit, &c.ID, dasmei.LogFailed, detalhes, g.Periodo, operador)
		s.logger.Warn("WhatsApp delivery failed",
			zap.String("cliente_id", c.ID.String()),
			zap.String("guia_id", g.ID.String()),
			zap.Error(err))
	} else {
		detalhes["message_id"] = wa.MessageID
		s.audit(ctx, ch.audit, &c.ID, dasmei.LogSuccess, detalhes, g.Periodo, operador)
	}

	if mail := s.sendEmail(ctx, g, c, tipo, ch, text, operador); mail != nil {
		logs = append(logs, mail)
	}
	return logs, err
}

func (s *AutomationService) sendEmail(
	ctx context.Context,
	g *dasmei.DasGuia,
	c *dasmei.ClienteMei,
	tipo dasmei.TemplateType,
	ch channels,
	text, operador string,
) *dasmei.EnvioLog {
	if ch.email == "" || s.mailer == nil || c.Email == "" || !s.setting(ctx, dasmei.SettingEnviarEmail).Bool(s.opts.SendEmail) {
		return nil
	}
	msg := ports.EmailMessage{
		To:      []string{c.Email},
		Subject: emailSubject(tipo, g),
		Body:    text,
	}
	if att := s.guideAttachment(ctx, g); att != nil {
		msg.Attachments = append(msg.Attachments, *att)
	}

	entry := dasmei.NewEnvioLog(g.ID, ch.email, msg.Subject)
	id, err := s.mailer.Send(ctx, msg)
	status := dasmei.LogSuccess
	if err != nil {
		entry.MarkFailed(err)
		status = dasmei.LogFailed
		s.logger.Warn("DAS e-mail failed", zap.String("cliente_id", c.ID.String()), zap.Error(err))
	} else {
		entry.MarkSent(id, s.now())
	}
	s.recordEnvio(ctx, entry)
	s.audit(ctx, opEnvioEmail, &c.ID, status, map[string]any{"guia_id": g.ID.String(), "email": c.Email}, g.Periodo, operador)
	return entry
}

func (s *AutomationService) recordEnvio(ctx context.Context, l *dasmei.EnvioLog) {
	if err := s.repos.Envios.Create(ctx, l); err != nil {
		s.logger.Error("Failed to record delivery", zap.String("guia_id", l.GuiaID.String()), zap.Error(err))
	}
}

func emailSubject(tipo dasmei.TemplateType, g *dasmei.DasGuia) string {
	periodo := dasmei.FormatPeriodo(g.Periodo)
	switch tipo {
	case dasmei.TemplateBoletoPago:
		return "DAS-MEI " + periodo + " quitado"
	case dasmei.TemplateLembreteVencimento:
		return "Lembrete: vencimento do DAS-MEI " + periodo
	}
	return "DAS-MEI " + periodo + " disponível"
}

// message renders the active template of tipo, or the built-in body when
// none is stored
func (s *AutomationService) message(ctx context.Context, tipo dasmei.TemplateType, g *dasmei.DasGuia, c *dasmei.ClienteMei) string {
	content := dasmei.DefaultContent(tipo)
	t, err := s.repos.Templates.FindActiveByTipo(ctx, tipo)
	switch {
	case err == nil:
		content = t.Conteudo
	case !errors.Is(err, shared.ErrNotFound):
		s.logger.Warn("Failed to load message template", zap.String("tipo", string(tipo)), zap.Error(err))
	}
	return dasmei.RenderTemplate(content, s.templateVars(ctx, g, c))
}

func (s *AutomationService) templateVars(ctx context.Context, g *dasmei.DasGuia, c *dasmei.ClienteMei) map[string]string {
	vencimento := "-"
	if g.DataVencimento != nil {
		vencimento = g.DataVencimento.Format("02/01/2006")
	}
	return map[string]string{
		dasmei.VarNome:        c.Nome,
		dasmei.VarRazaoSocial: c.Nome,
		dasmei.VarValor:       valueobject.FormatBRL(g.Valor),
		dasmei.VarVencimento:  vencimento,
		dasmei.VarURLBoleto:   s.guideURL(ctx, g),
		dasmei.VarPeriodo:     dasmei.FormatPeriodo(g.Periodo),
	}
}

// guideURL prefers a signed link to the archived PDF over the provider URL
func (s *AutomationService) guideURL(ctx context.Context, g *dasmei.DasGuia) string {
	if g.StorageKey != "" && s.storage != nil {
		url, err := s.storage.DownloadURL(ctx, g.StorageKey, guideLinkTTL)
		if err == nil {
			return url
		}
		if !errors.Is(err, storage.ErrNotServed) {
			s.logger.Warn("Failed to sign guide link", zap.String("key", g.StorageKey), zap.Error(err))
		}
	}
	return g.URL
}

func (s *AutomationService) guideAttachment(ctx context.Context, g *dasmei.DasGuia) *ports.Attachment {
	if g.StorageKey == "" || s.storage == nil {
		return nil
	}
	rc, err := s.storage.Download(ctx, g.StorageKey)
	if err != nil {
		s.logger.Warn("Archived guide not attached", zap.String("key", g.StorageKey), zap.Error(err))
		return nil
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return &ports.Attachment{FileName: g.FileName, ContentType: "application/pdf", Content: content}
}
