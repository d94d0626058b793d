package dasmei

import (
	"context"
	"fmt"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"go.uber.org/zap"
)

// ProcessRetryQueue re-runs every pending retry item that is due. Items out
// of attempts are closed as failed; failures are rescheduled with
// exponential backoff.
func (s *AutomationService) ProcessRetryQueue(ctx context.Context) (*RetrySummary, error) {
	items, err := s.repos.Retries.FindDue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list due retries: %w", err)
	}
	summary := &RetrySummary{}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Processed++

		if err := item.Begin(s.now()); err != nil {
			summary.Exhausted++
			s.saveRetry(ctx, item)
			s.audit(ctx, opRetryEsgotado, &item.ClienteID, dasmei.LogFailed, map[string]any{
				"operacao":   item.TipoOperacao,
				"tentativas": item.Tentativas,
				"erro":       item.Erro,
			}, item.Periodo(), dasmei.OperadorAutomatico)
			continue
		}
		s.saveRetry(ctx, item)

		if err := s.runRetry(ctx, item); err != nil {
			item.Fail(err, s.now(), s.opts.RetryBaseDelay)
			summary.Failed++
			s.logger.Warn("Retry attempt failed",
				zap.String("retry_id", item.ID.String()),
				zap.String("operacao", item.TipoOperacao),
				zap.Int("tentativas", item.Tentativas),
				zap.Error(err))
		} else {
			item.Succeed(s.now())
			summary.Succeeded++
		}
		s.saveRetry(ctx, item)
	}
	if summary.Processed > 0 {
		s.logger.Info("Retry queue processed",
			zap.Int("processed", summary.Processed),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Int("exhausted", summary.Exhausted))
	}
	return summary, nil
}

func (s *AutomationService) saveRetry(ctx context.Context, item *dasmei.RetryItem) {
	if err := s.repos.Retries.Update(ctx, item); err != nil {
		s.logger.Error("Failed to update retry item", zap.String("retry_id", item.ID.String()), zap.Error(err))
	}
}

func (s *AutomationService) runRetry(ctx context.Context, item *dasmei.RetryItem) error {
	switch item.TipoOperacao {
	case dasmei.OperacaoGeracaoGuia:
		return s.retryGeneration(ctx, item)
	case dasmei.OperacaoEnvioWhatsApp:
		return s.retryDelivery(ctx, item)
	}
	return fmt.Errorf("%w: %s", errUnknownOperation, item.TipoOperacao)
}

func (s *AutomationService) retryGeneration(ctx context.Context, item *dasmei.RetryItem) error {
	periodo := item.Periodo()
	if !dasmei.IsValidPeriodo(periodo) {
		return fmt.Errorf("retry %s: invalid periodo %q", item.ID, periodo)
	}
	c, err := s.repos.Clientes.FindByID(ctx, item.ClienteID)
	if err != nil {
		return err
	}
	existing, err := s.findGuia(ctx, c, periodo)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == dasmei.GuiaSuccess {
		return nil
	}
	provider, err := s.providers.Active(ctx)
	if err != nil {
		return err
	}
	today := s.today()
	cal := s.calendar(ctx, today, today.AddDate(0, 2, 0))
	_, err = s.generate(ctx, provider, cal, c, periodo, existing, dasmei.OperadorAutomatico)
	return err
}

func (s *AutomationService) retryDelivery(ctx context.Context, item *dasmei.RetryItem) error {
	guiaID, ok := item.GuiaID()
	if !ok {
		return fmt.Errorf("retry %s: missing guia_id", item.ID)
	}
	sent, err := s.repos.Envios.ExistsSent(ctx, guiaID, dasmei.EnvioWhatsApp)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}
	g, c, err := s.loadGuia(ctx, guiaID)
	if err != nil {
		return err
	}
	sender, err := s.sender(ctx)
	if err != nil {
		return err
	}
	_, err = s.deliver(ctx, sender, g, c, g.DeliveryTemplate(), whatsAppOnly, dasmei.OperadorAutomatico)
	return err
}
