package dasmei

import (
	"context"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"golang.org/x/sync/errgroup"
)

// Statistics returns the automation counters of periodo
func (s *AutomationService) Statistics(ctx context.Context, periodo string) (*dasmei.Statistics, error) {
	periodo, err := s.ResolvePeriodo(periodo)
	if err != nil {
		return nil, err
	}
	stats := &dasmei.Statistics{Periodo: periodo}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ClientesAtivos, err = s.repos.Clientes.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.GuiasGeradas, err = s.repos.Guias.CountByStatus(gctx, periodo, dasmei.GuiaSuccess)
		return err
	})
	g.Go(func() (err error) {
		stats.GuiasFalhas, err = s.repos.Guias.CountByStatus(gctx, periodo, dasmei.GuiaFailed)
		return err
	})
	g.Go(func() (err error) {
		stats.WhatsAppEnviados, err = s.repos.Envios.CountByPeriodo(gctx, periodo, dasmei.EnvioWhatsApp, dasmei.EnvioSent)
		return err
	})
	g.Go(func() (err error) {
		stats.EmailsEnviados, err = s.repos.Envios.CountByPeriodo(gctx, periodo, dasmei.EnvioEmail, dasmei.EnvioSent)
		return err
	})
	g.Go(func() (err error) {
		stats.EnviosFalhas, err = s.repos.Envios.CountByPeriodo(gctx, periodo, dasmei.EnvioWhatsApp, dasmei.EnvioFailed)
		return err
	})
	g.Go(func() (err error) {
		stats.RetryPendentes, err = s.repos.Retries.CountByStatus(gctx, dasmei.RetryPending)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// StatusByCNPJs reports, for each requested CNPJ, whether a downloadable
// guide exists. Without periodo the client's most recent guide is used.
// Unknown CNPJs are reported as unavailable.
func (s *AutomationService) StatusByCNPJs(ctx context.Context, cnpjs []string, periodo string) (map[string]CNPJStatus, error) {
	out := make(map[string]CNPJStatus, len(cnpjs))
	if len(cnpjs) == 0 {
		return out, nil
	}
	if periodo != "" {
		var err error
		if periodo, err = dasmei.NormalizePeriodo(periodo); err != nil {
			return nil, err
		}
	}

	digits := make([]string, len(cnpjs))
	for i, c := range cnpjs {
		digits[i] = valueobject.OnlyDigits(c)
	}
	clientes, err := s.repos.Clientes.FindByCNPJs(ctx, digits)
	if err != nil {
		return nil, err
	}
	byCNPJ := make(map[string]*dasmei.ClienteMei, len(clientes))
	for _, c := range clientes {
		byCNPJ[c.CNPJ] = c
	}

	for i, raw := range cnpjs {
		out[raw] = CNPJStatus{}
		c, ok := byCNPJ[digits[i]]
		if !ok {
			continue
		}
		g, err := s.latestGuia(ctx, c, periodo)
		if err != nil || g == nil || !g.IsAvailable() {
			continue
		}
		out[raw] = CNPJStatus{Disponivel: true, Periodo: g.Periodo, FileName: g.FileName}
	}
	return out, nil
}

func (s *AutomationService) latestGuia(ctx context.Context, c *dasmei.ClienteMei, periodo string) (*dasmei.DasGuia, error) {
	if periodo != "" {
		return s.findGuia(ctx, c, periodo)
	}
	id := c.ID
	guias, err := s.repos.Guias.FindAll(ctx, dasmei.GuiaFilter{ClienteMeiID: &id})
	if err != nil || len(guias) == 0 {
		return nil, err
	}
	return guias[0], nil
}
