package marketplace

import (
	"context"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/skillshop/internal/core/session"
	"github.com/hay-kot/skillshop/internal/core/validate"
)

// Login validates the credentials locally, then authenticates against the API.
// API errors are returned unchanged.
func (s *Service) Login(ctx context.Context, creds session.Credentials) (session.User, error) {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Identifier(creds.Identifier); err != nil {
		errs = errs.Append("identifier", err)
	}
	if err := validate.Password(creds.Password); err != nil {
		errs = errs.Append("password", err)
	}
	if err := errs.ToError(); err != nil {
		return session.User{}, err
	}

	if err := s.session.Login(ctx, creds); err != nil {
		return session.User{}, err
	}

	user, _ := s.session.User()
	s.log.Info().Str("user", user.ID.String()).Bool("admin", user.IsAdmin).Msg("logged in")
	return user, nil
}

// Register validates the form locally, then creates the account and logs in.
func (s *Service) Register(ctx context.Context, reg session.Registration) (session.User, error) {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Required("first name", reg.FirstName); err != nil {
		errs = errs.Append("firstName", err)
	}
	if err := validate.Required("last name", reg.LastName); err != nil {
		errs = errs.Append("lastName", err)
	}
	if err := validate.Email(reg.Email); err != nil {
		errs = errs.Append("email", err)
	}
	if err := validate.NewPassword(reg.Password); err != nil {
		errs = errs.Append("password", err)
	}
	if err := errs.ToError(); err != nil {
		return session.User{}, err
	}

	if err := s.session.Register(ctx, reg); err != nil {
		return session.User{}, err
	}

	user, _ := s.session.User()
	s.log.Info().Str("user", user.ID.String()).Msg("registered")
	return user, nil
}

// Logout ends the session. The cart is kept.
func (s *Service) Logout(ctx context.Context) {
	s.session.Logout(ctx)
	s.log.Info().Msg("logged out")
}
