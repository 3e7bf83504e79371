package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/pagination"
)

// Service accepts contact form submissions and lists them for the admin.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Message, error)
	List(ctx context.Context, params pagination.Params) (*MessageList, error)
}

type service struct {
	repo            Repository
	defaultLanguage enums.Language
	logg            *logger.Logger
}

func NewService(repo Repository, defaultLanguage enums.Language, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if !defaultLanguage.IsValid() {
		defaultLanguage = enums.LanguageEnglish
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, defaultLanguage: defaultLanguage, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Message, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Message)

	details := map[string]string{}
	if name == "" {
		details["name"] = "is required"
	}
	if email == "" {
		details["email"] = "is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid email"
	}
	if subject == "" {
		details["subject"] = "is required"
	}
	if body == "" {
		details["message"] = "is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	lang := s.defaultLanguage
	if strings.TrimSpace(req.Language) != "" {
		parsed, err := enums.ParseLanguage(req.Language)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"language": "is not supported"})
		}
		lang = parsed
	}

	created, err := s.repo.Create(ctx, &models.ContactMessage{
		Name:     name,
		Email:    email,
		Subject:  subject,
		Message:  body,
		Language: lang,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store contact message")
	}
	s.logg.Info(s.logg.WithField(ctx, "contact_message_id", created.ID.String()), "contact.received")
	out := messageFromModel(*created)
	return &out, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*MessageList, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contact messages")
	}
	out := &MessageList{Messages: make([]Message, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		out.Messages = append(out.Messages, messageFromModel(row))
	}
	return out, nil
}
