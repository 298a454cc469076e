// Package subscribers manages the newsletter subscriber list.
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

var (
	// ErrAlreadySubscribed is returned when the email is already active.
	ErrAlreadySubscribed = errors.New("subscribers: email already subscribed")
	// ErrNotFound is returned when the email is not on the list.
	ErrNotFound = errors.New("subscribers: subscriber not found")
	// ErrInvalidEmail is returned for malformed addresses.
	ErrInvalidEmail = errors.New("subscribers: invalid email address")
)

// Mailer sends the transactional welcome and goodbye messages. The email
// channel satisfies it; a nil mailer skips them.
type Mailer interface {
	SendMail(to, subject, body string, html bool) error
}

// Service owns the subscriber list.
type Service struct {
	store  store.Store
	mailer Mailer
	log    *logger.Logger
	now    func() time.Time
}

// NewService wires the list. mailer may be nil when email is disabled.
func NewService(st store.Store, mailer Mailer, log *logger.Logger) *Service {
	return &Service{
		store:  st,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

var _ Mailer = (*notify.EmailChannel)(nil)

func (s *Service) load(ctx context.Context) ([]contracts.Subscriber, error) {
	var subs []contracts.Subscriber
	if err := s.store.Get(ctx, store.KeySubscribers, &subs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []contracts.Subscriber{}, nil
		}
		return nil, err
	}
	return subs, nil
}

// Add subscribes an email and sends the welcome message. A previously
// unsubscribed address is reactivated in place.
func (s *Service) Add(ctx context.Context, email, name, phone string) (*contracts.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	// Bare addresses only, no display names.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}

	subs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range subs {
		if subs[i].Email != email {
			continue
		}
		if subs[i].Active {
			return nil, ErrAlreadySubscribed
		}
		subs[i].Active = true
		subs[i].SubscribedAt = s.now()
		subs[i].UnsubscribedAt = nil
		if name != "" {
			subs[i].Name = name
		}
		if err := s.store.Put(ctx, store.KeySubscribers, subs); err != nil {
			return nil, err
		}
		s.sendWelcome(subs[i].Email, subs[i].Name)
		return &subs[i], nil
	}

	sub := contracts.Subscriber{
		Email:        email,
		Name:         name,
		Phone:        phone,
		Active:       true,
		SubscribedAt: s.now(),
	}
	subs = append(subs, sub)

	if err := s.store.Put(ctx, store.KeySubscribers, subs); err != nil {
		return nil, err
	}

	s.log.WithField("email", email).Info("Subscriber added")
	s.sendWelcome(email, name)
	return &sub, nil
}

// Remove deactivates a subscriber and sends the goodbye message. The
// record stays for history.
func (s *Service) Remove(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range subs {
		if subs[i].Email != email || !subs[i].Active {
			continue
		}
		subs[i].Active = false
		now := s.now()
		subs[i].UnsubscribedAt = &now

		if err := s.store.Put(ctx, store.KeySubscribers, subs); err != nil {
			return err
		}

		s.log.WithField("email", email).Info("Subscriber removed")
		s.sendGoodbye(email, subs[i].Name)
		return nil
	}
	return ErrNotFound
}

// ListActive returns the current recipients.
func (s *Service) ListActive(ctx context.Context) ([]contracts.Subscriber, error) {
	subs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]contracts.Subscriber, 0, len(subs))
	for _, sub := range subs {
		if sub.Active {
			active = append(active, sub)
		}
	}
	return active, nil
}

func greeting(name string) string {
	if name != "" {
		return "Olá, " + name
	}
	return "Olá"
}

func (s *Service) sendWelcome(email, name string) {
	if s.mailer == nil {
		return
	}
	subject := "Bem-vindo à Newsletter da Clearview Capital"
	body := fmt.Sprintf(welcomeBody, subject, greeting(name))
	if err := s.mailer.SendMail(email, subject, body, true); err != nil {
		s.log.WithError(err).WithField("email", email).Warn("Failed to send welcome email")
	}
}

func (s *Service) sendGoodbye(email, name string) {
	if s.mailer == nil {
		return
	}
	subject := "Confirmação de cancelamento da Newsletter da Clearview Capital"
	body := fmt.Sprintf(goodbyeBody, subject, greeting(name))
	if err := s.mailer.SendMail(email, subject, body, true); err != nil {
		s.log.WithError(err).WithField("email", email).Warn("Failed to send unsubscribe confirmation")
	}
}

const welcomeBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #0047AB; text-align: center;">Bem-vindo à Clearview Capital</h1>
<div style="padding: 20px; background-color: #f9f9f9; border-radius: 5px;">
<p>%s,</p>
<p>Seja bem-vindo à newsletter da <strong>Clearview Capital</strong>!</p>
<p>A partir de agora, você receberá diariamente:</p>
<ul>
<li>Análises de mercado</li>
<li>Recomendações de investimentos</li>
<li>Oportunidades identificadas por nossa IA</li>
<li>Notícias relevantes do mundo financeiro</li>
</ul>
<p>Nossa plataforma utiliza inteligência artificial para analisar o mercado e identificar as melhores oportunidades de investimento com base em critérios fundamentalistas.</p>
<p>Fique atento à sua caixa de entrada para receber nossa primeira newsletter!</p>
<p>Atenciosamente,<br>Equipe Clearview Capital</p>
</div>
<p style="text-align: center; font-size: 12px; color: #777;">© Clearview Capital. Todos os direitos reservados.</p>
</body>
</html>`

const goodbyeBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #0047AB; text-align: center;">Cancelamento Confirmado</h1>
<div style="padding: 20px; background-color: #f9f9f9; border-radius: 5px;">
<p>%s,</p>
<p>Confirmamos o cancelamento da sua inscrição na newsletter da <strong>Clearview Capital</strong>.</p>
<p>Sentimos muito por vê-lo partir. Se quiser compartilhar o motivo do cancelamento ou sugerir melhorias, basta responder a este e-mail.</p>
<p>Caso mude de ideia, você pode se inscrever novamente a qualquer momento em nosso site.</p>
<p>Atenciosamente,<br>Equipe Clearview Capital</p>
</div>
<p style="text-align: center; font-size: 12px; color: #777;">© Clearview Capital. Todos os direitos reservados.</p>
</body>
</html>`
