package dasmei

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// GuideStorageKey is where an archived guide PDF is stored
func GuideStorageKey(periodo, fileName string) string {
	return storage.JoinKey("das-mei", periodo, fileName)
}

// GenerateGuides fetches the guide of periodo for every active MEI client
// that has no successful guide yet. Failures are persisted, logged and
// queued for retry; they do not stop the run.
func (s *AutomationService) GenerateGuides(ctx context.Context, periodo, operador string) (*GenerationSummary, error) {
	periodo, err := s.ResolvePeriodo(periodo)
	if err != nil {
		return nil, err
	}
	provider, err := s.providers.Active(ctx)
	if err != nil {
		return nil, err
	}
	clientes, err := s.repos.Clientes.FindAll(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("list clientes mei: %w", err)
	}

	today := s.today()
	cal := s.calendar(ctx, today, today.AddDate(0, 2, 0))
	summary := &GenerationSummary{
		Periodo:  periodo,
		Provider: provider.Name(),
		Total:    len(clientes),
		Errors:   []GenerationError{},
	}

	s.logger.Info("Starting DAS generation",
		zap.String("periodo", periodo),
		zap.String("provider", provider.Name()),
		zap.Int("clientes", len(clientes)))

	for _, c := range clientes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		existing, err := s.findGuia(ctx, c, periodo)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, generationError(c, err))
			continue
		}
		if existing != nil && existing.Status == dasmei.GuiaSuccess {
			summary.Skipped++
			continue
		}
		if _, err := s.generate(ctx, provider, cal, c, periodo, existing, operador); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, generationError(c, err))
			s.enqueueRetry(ctx, dasmei.OperacaoGeracaoGuia, c.ID, map[string]any{"periodo": periodo}, err)
			continue
		}
		summary.Generated++
	}

	s.logger.Info("DAS generation finished",
		zap.String("periodo", periodo),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func generationError(c *dasmei.ClienteMei, err error) GenerationError {
	return GenerationError{ClienteMeiID: c.ID, Nome: c.Nome, CNPJ: c.CNPJ, Erro: err.Error()}
}

// findGuia returns nil without error when the client has no guide for the
// period
func (s *AutomationService) findGuia(ctx context.Context, c *dasmei.ClienteMei, periodo string) (*dasmei.DasGuia, error) {
	g, err := s.repos.Guias.FindByClientePeriodo(ctx, c.ID, periodo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// generate runs the provider for one client, persists the outcome and, on
// success, schedules the delivery
func (s *AutomationService) generate(
	ctx context.Context,
	provider ports.DASProvider,
	cal *dasmei.BusinessCalendar,
	c *dasmei.ClienteMei,
	periodo string,
	existing *dasmei.DasGuia,
	operador string,
) (*dasmei.DasGuia, error) {
	guia := existing
	if guia == nil {
		guia = dasmei.NewPendingGuia(c.ID, periodo, provider.Name())
	}

	data, err := provider.GenerateGuide(ctx, c.CNPJ, periodo)
	if err != nil {
		guia.MarkFailed(err)
		if saveErr := s.repos.Guias.Save(ctx, guia); saveErr != nil {
			s.logger.Error("Failed to save failed guia", zap.String("cnpj", c.CNPJ), zap.Error(saveErr))
		}
		s.audit(ctx, opGeracaoGuia, &c.ID, dasmei.LogFailed, map[string]any{
			"erro":     err.Error(),
			"provider": provider.Name(),
		}, periodo, operador)
		s.logger.Warn("DAS generation failed",
			zap.String("cnpj", c.CNPJ),
			zap.String("periodo", periodo),
			zap.Error(err))
		return nil, err
	}

	guia.MarkSuccess(c.CNPJ, data, provider.Name())
	s.archive(ctx, provider, guia)
	if err := s.repos.Guias.Save(ctx, guia); err != nil {
		return nil, fmt.Errorf("save guia: %w", err)
	}

	sendDate := cal.SendDate(s.now().In(s.opts.Location), c.DiaEnvio)
	if err := s.repos.Programacoes.Create(ctx, dasmei.NewProgramacaoEnvio(guia.ID, sendDate, dasmei.ProgramacaoEnvioDAS)); err != nil {
		s.logger.Error("Failed to schedule DAS delivery", zap.String("guia_id", guia.ID.String()), zap.Error(err))
	}

	detalhes := map[string]any{
		"guia_id":    guia.ID.String(),
		"valor":      valueobject.FormatBRL(guia.Valor),
		"provider":   provider.Name(),
		"data_envio": sendDate.Format("2006-01-02"),
	}
	if guia.DataVencimento != nil {
		detalhes["vencimento"] = guia.DataVencimento.Format("2006-01-02")
	}
	s.audit(ctx, opGeracaoGuia, &c.ID, dasmei.LogSuccess, detalhes, periodo, operador)
	return guia, nil
}

// archive copies the provider PDF into object storage. Failures leave the
// guide with its provider URL only.
func (s *AutomationService) archive(ctx context.Context, provider ports.DASProvider, guia *dasmei.DasGuia) {
	if !s.opts.ArchivePDFs || s.storage == nil || guia.URL == "" {
		return
	}
	pdf, err := provider.Download(ctx, guia.URL)
	if err != nil {
		s.logger.Warn("Failed to download DAS PDF", zap.String("guia_id", guia.ID.String()), zap.Error(err))
		return
	}
	key := GuideStorageKey(guia.Periodo, guia.FileName)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		s.logger.Warn("Failed to archive DAS PDF", zap.String("key", key), zap.Error(err))
		return
	}
	guia.StorageKey = key
}
