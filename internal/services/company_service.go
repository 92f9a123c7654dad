package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recrutai/platform/internal/auth"
	"github.com/recrutai/platform/internal/models"
	pgrepo "github.com/recrutai/platform/internal/repositories/postgres"
	"github.com/recrutai/platform/internal/storage"
	"github.com/recrutai/platform/internal/utils"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordLengthMessage = "password must be between 6 and 72 bytes"

type CompanyFields struct {
	Name        *string `json:"nome"`
	Phone       *string `json:"telefone"`
	Sector      *string `json:"setor"`
	Size        *string `json:"porte"`
	Website     *string `json:"website"`
	Location    *string `json:"localizacao"`
	Description *string `json:"descricao"`
	Headline    *string `json:"headline"`
}

type RegisterCompanyInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	CNPJ     *string `json:"cnpj"`
	CompanyFields
}

type UpdateCompanyInput struct {
	Email           *string `json:"email"`
	CNPJ            *string `json:"cnpj"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	CompanyFields
}

type CompanySession struct {
	Company   *models.Company
	Token     string
	ExpiresAt time.Time
}

type CompanyService interface {
	Register(ctx context.Context, in RegisterCompanyInput) (*models.Company, error)
	Login(ctx context.Context, email, password string) (*CompanySession, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	UpdateProfile(ctx context.Context, id string, in UpdateCompanyInput) (*models.Company, error)
	UploadLogo(ctx context.Context, id, contentType string, r io.Reader) (*models.Company, error)
}

type companyService struct {
	companies pgrepo.CompanyRepository
	tokens    TokenIssuer
	uploader  storage.Uploader
	log       *logrus.Logger
}

func NewCompanyService(companies pgrepo.CompanyRepository, tokens TokenIssuer, uploader storage.Uploader, log *logrus.Logger) CompanyService {
	return &companyService{companies: companies, tokens: tokens, uploader: uploader, log: log}
}

func (s *companyService) Register(ctx context.Context, in RegisterCompanyInput) (*models.Company, error) {
	const op = "CompanyService.Register"

	email := normEmail(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid email", nil)
	}
	if !utils.PasswordLengthValid(in.Password) {
		return nil, utils.E(utils.CodeInvalidArgument, op, passwordLengthMessage, nil)
	}
	cnpj, err := normCNPJ(in.CNPJ)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	if err := s.checkUnique(ctx, op, &email, cnpj, ""); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	c := &models.Company{
		ID:           uuid.NewString(),
		Email:        &email,
		CNPJ:         cnpj,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyCompanyFields(c, in.CompanyFields)

	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email or cnpj already registered", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	s.log.WithField("company_id", c.ID).Info("company registered")
	return c, nil
}

// Login fails the same way for an unknown email and a wrong password.
func (s *companyService) Login(ctx context.Context, email, password string) (*CompanySession, error) {
	const op = "CompanyService.Login"
	invalid := utils.E(utils.CodeUnauthorized, op, "invalid email or password", nil)

	email = normEmail(email)
	if email == "" || password == "" {
		return nil, invalid
	}

	c, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, invalid
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	if err := utils.CheckPassword(c.PasswordHash, password); err != nil {
		return nil, invalid
	}

	tok, exp, err := s.tokens.Issue(auth.KindCompany, c.ID, email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &CompanySession{Company: c, Token: tok, ExpiresAt: exp}, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*models.Company, error) {
	const op = "CompanyService.Get"

	if !validID(id) {
		return nil, utils.E(utils.CodeNotFound, op, "company not found", nil)
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get company", err)
	}
	return c, nil
}

func (s *companyService) UpdateProfile(ctx context.Context, id string, in UpdateCompanyInput) (*models.Company, error) {
	const op = "CompanyService.UpdateProfile"

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var email *string
	if in.Email != nil {
		e := normEmail(*in.Email)
		if !emailPattern.MatchString(e) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid email", nil)
		}
		email = &e
	}
	var cnpj *string
	if in.CNPJ != nil {
		if cnpj, err = normCNPJ(in.CNPJ); err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
		}
	}

	if in.NewPassword != nil {
		if in.CurrentPassword == nil || utils.CheckPassword(c.PasswordHash, *in.CurrentPassword) != nil {
			return nil, utils.E(utils.CodeUnauthorized, op, "current password is incorrect", nil)
		}
		if !utils.PasswordLengthValid(*in.NewPassword) {
			return nil, utils.E(utils.CodeInvalidArgument, op, passwordLengthMessage, nil)
		}
	}

	if err := s.checkUnique(ctx, op, email, cnpj, c.ID); err != nil {
		return nil, err
	}

	if email != nil {
		c.Email = email
	}
	if in.CNPJ != nil {
		c.CNPJ = cnpj
	}
	if in.NewPassword != nil {
		hash, err := utils.HashPassword(*in.NewPassword)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
		}
		c.PasswordHash = hash
	}
	applyCompanyFields(c, in.CompanyFields)
	c.UpdatedAt = time.Now().UTC()

	if err := s.companies.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, utils.ErrDuplicate):
			return nil, utils.E(utils.CodeConflict, op, "email or cnpj already registered", err)
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update company", err)
	}
	return c, nil
}

func (s *companyService) UploadLogo(ctx context.Context, id, contentType string, r io.Reader) (*models.Company, error) {
	const op = "CompanyService.UploadLogo"

	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "uploads are not configured", nil)
	}
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "logo must be png, jpeg, webp or svg", nil)
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, storage.LogoObjectName(c.ID, ext, time.Now()), contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload logo", err)
	}

	c.LogoURL = &url
	c.UpdatedAt = time.Now().UTC()
	if err := s.companies.Update(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save logo", err)
	}
	return c, nil
}

// checkUnique reports a conflict when email or cnpj belongs to a company
// other than exceptID. Nil values are skipped.
func (s *companyService) checkUnique(ctx context.Context, op string, email, cnpj *string, exceptID string) error {
	if email != nil {
		taken, err := s.companies.EmailTaken(ctx, *email, exceptID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to check email", err)
		}
		if taken {
			return utils.E(utils.CodeConflict, op, "email already registered", nil)
		}
	}
	if cnpj != nil {
		taken, err := s.companies.CNPJTaken(ctx, *cnpj, exceptID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to check cnpj", err)
		}
		if taken {
			return utils.E(utils.CodeConflict, op, "cnpj already registered", nil)
		}
	}
	return nil
}

// normCNPJ strips punctuation. Blank maps to nil.
func normCNPJ(v *string) (*string, error) {
	if isBlank(v) {
		return nil, nil
	}
	var b strings.Builder
	for _, r := range *v {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '/' || r == '-' || r == ' ':
		default:
			return nil, errors.New("cnpj must contain only digits")
		}
	}
	out := b.String()
	if len(out) != 14 {
		return nil, errors.New("cnpj must have 14 digits")
	}
	return &out, nil
}

func applyCompanyFields(c *models.Company, f CompanyFields) {
	if f.Name != nil {
		c.Name = strings.TrimSpace(*f.Name)
	}
	set := func(dst **string, v *string) {
		if v != nil {
			*dst = trimPtr(v)
		}
	}
	set(&c.Phone, f.Phone)
	set(&c.Sector, f.Sector)
	set(&c.Size, f.Size)
	set(&c.Website, f.Website)
	set(&c.Location, f.Location)
	set(&c.Description, f.Description)
	set(&c.Headline, f.Headline)
}
