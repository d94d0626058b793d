// Package seed creates the default records the application needs on a fresh
// database: task templates, message templates, automation settings, national
// holidays and the administrator account.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	appregistration "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

//go:embed data.yaml
var defaultData []byte

// TaskTemplate is a default registration task
type TaskTemplate struct {
	Department    string `yaml:"department"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Order         int    `yaml:"order"`
	EstimatedDays int    `yaml:"estimated_days"`
	Required      bool   `yaml:"required"`
}

// MessageTemplate is a default WhatsApp message. An empty Conteudo uses the
// built-in body of the type.
type MessageTemplate struct {
	Tipo     dasmei.TemplateType `yaml:"tipo"`
	Nome     string              `yaml:"nome"`
	Conteudo string              `yaml:"conteudo"`
}

// Setting is a default automation setting
type Setting struct {
	Chave     string `yaml:"chave"`
	Valor     string `yaml:"valor"`
	Tipo      string `yaml:"tipo"`
	Descricao string `yaml:"descricao"`
}

// FixedHoliday falls on the same MM-DD every year
type FixedHoliday struct {
	Date      string `yaml:"date"`
	Descricao string `yaml:"descricao"`
}

// MovableHoliday is placed relative to Easter Sunday
type MovableHoliday struct {
	EasterOffset int    `yaml:"easter_offset"`
	Descricao    string `yaml:"descricao"`
}

// Data is the parsed seed file
type Data struct {
	TaskTemplates    []TaskTemplate    `yaml:"task_templates"`
	MessageTemplates []MessageTemplate `yaml:"message_templates"`
	Settings         []Setting         `yaml:"settings"`
	Holidays         struct {
		Fixed   []FixedHoliday   `yaml:"fixed"`
		Movable []MovableHoliday `yaml:"movable"`
	} `yaml:"holidays"`
}

// Load parses the embedded seed file
func Load() (*Data, error) {
	return Parse(defaultData)
}

// Parse decodes a seed file
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("seed: failed to parse data: %w", err)
	}
	for _, m := range d.MessageTemplates {
		if !m.Tipo.IsValid() {
			return nil, fmt.Errorf("seed: unknown message template type %q", m.Tipo)
		}
	}
	for _, h := range d.Holidays.Fixed {
		if _, err := time.Parse("01-02", h.Date); err != nil {
			return nil, fmt.Errorf("seed: invalid holiday date %q: %w", h.Date, err)
		}
	}
	return &d, nil
}

// HolidaysOf returns the holidays of year in date order of the file
func (d *Data) HolidaysOf(year int, loc *time.Location) []*dasmei.Feriado {
	var out []*dasmei.Feriado
	for _, h := range d.Holidays.Fixed {
		md, _ := time.Parse("01-02", h.Date)
		f, err := dasmei.NewFeriado(time.Date(year, md.Month(), md.Day(), 0, 0, 0, 0, loc), h.Descricao, true)
		if err == nil {
			out = append(out, f)
		}
	}
	easter := Easter(year, loc)
	for _, h := range d.Holidays.Movable {
		f, err := dasmei.NewFeriado(easter.AddDate(0, 0, h.EasterOffset), h.Descricao, true)
		if err == nil {
			out = append(out, f)
		}
	}
	return out
}

// Easter returns Easter Sunday of year (Gregorian calendar)
func Easter(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// TemplateSeeder stores default task templates
type TemplateSeeder interface {
	SeedDefaults(ctx context.Context, defaults []appregistration.TaskTemplateRequest) (int, error)
}

// AdminSeeder creates the administrator account
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, password string) (bool, error)
}

// Result counts the records created by a run
type Result struct {
	TaskTemplates    int
	MessageTemplates int
	Settings         int
	Holidays         int
	Admin            bool
}

// Seeder applies Data to the stores
type Seeder struct {
	data          *Data
	tasks         TemplateSeeder
	users         AdminSeeder
	messages      dasmei.MessageTemplateRepository
	settings      dasmei.SettingRepository
	feriados      dasmei.FeriadoRepository
	adminPassword string
	location      *time.Location
	logger        *zap.Logger
}

// Stores groups the repositories the seeder writes to
type Stores struct {
	Tasks    TemplateSeeder
	Users    AdminSeeder
	Messages dasmei.MessageTemplateRepository
	Settings dasmei.SettingRepository
	Feriados dasmei.FeriadoRepository
}

// NewSeeder creates a seeder. An empty adminPassword skips the admin account.
func NewSeeder(data *Data, stores Stores, adminPassword string, loc *time.Location, logger *zap.Logger) *Seeder {
	if loc == nil {
		loc = time.Local
	}
	return &Seeder{
		data:          data,
		tasks:         stores.Tasks,
		users:         stores.Users,
		messages:      stores.Messages,
		settings:      stores.Settings,
		feriados:      stores.Feriados,
		adminPassword: adminPassword,
		location:      loc,
		logger:        logger,
	}
}

// Run creates every missing default record. Holidays are seeded for each of
// years.
func (s *Seeder) Run(ctx context.Context, years ...int) (*Result, error) {
	res := &Result{}
	var err error

	if res.TaskTemplates, err = s.tasks.SeedDefaults(ctx, s.taskRequests()); err != nil {
		return nil, fmt.Errorf("seed task templates: %w", err)
	}
	if res.MessageTemplates, err = s.seedMessages(ctx); err != nil {
		return nil, fmt.Errorf("seed message templates: %w", err)
	}
	if res.Settings, err = s.seedSettings(ctx); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	for _, year := range years {
		n, err := s.seedHolidays(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("seed holidays %d: %w", year, err)
		}
		res.Holidays += n
	}
	if s.adminPassword != "" {
		if res.Admin, err = s.users.EnsureAdmin(ctx, s.adminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	s.logger.Info("Seed finished",
		zap.Int("task_templates", res.TaskTemplates),
		zap.Int("message_templates", res.MessageTemplates),
		zap.Int("settings", res.Settings),
		zap.Int("holidays", res.Holidays),
		zap.Bool("admin_created", res.Admin),
	)
	return res, nil
}

func (s *Seeder) taskRequests() []appregistration.TaskTemplateRequest {
	out := make([]appregistration.TaskTemplateRequest, len(s.data.TaskTemplates))
	for i, t := range s.data.TaskTemplates {
		out[i] = appregistration.TaskTemplateRequest{
			Name:          t.Name,
			Description:   t.Description,
			Department:    t.Department,
			Order:         t.Order,
			EstimatedDays: t.EstimatedDays,
			IsRequired:    t.Required,
		}
	}
	return out
}

func (s *Seeder) seedMessages(ctx context.Context) (int, error) {
	created := 0
	for _, m := range s.data.MessageTemplates {
		_, err := s.messages.FindActiveByTipo(ctx, m.Tipo)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, err
		}
		conteudo := m.Conteudo
		if conteudo == "" {
			conteudo = dasmei.DefaultContent(m.Tipo)
		}
		tpl, err := dasmei.NewMessageTemplate(m.Nome, m.Tipo, conteudo)
		if err != nil {
			return created, err
		}
		if err := s.messages.Create(ctx, tpl); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedSettings(ctx context.Context) (int, error) {
	created := 0
	for _, st := range s.data.Settings {
		_, err := s.settings.FindByChave(ctx, st.Chave)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, err
		}
		if err := s.settings.Upsert(ctx, &dasmei.AutomationSetting{
			ID:        uuid.New(),
			Chave:     st.Chave,
			Valor:     st.Valor,
			Tipo:      st.Tipo,
			Descricao: st.Descricao,
			UpdatedAt: time.Now(),
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedHolidays(ctx context.Context, year int) (int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.location)
	existing, err := s.feriados.FindBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.Data.Format(time.DateOnly)] = true
	}

	created := 0
	for _, f := range s.data.HolidaysOf(year, s.location) {
		day := f.Data.Format(time.DateOnly)
		if known[day] {
			continue
		}
		if err := s.feriados.Create(ctx, f); err != nil {
			return created, err
		}
		known[day] = true
		created++
	}
	return created, nil
}
