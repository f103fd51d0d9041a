package user

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/secret"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/pkg/database"
)

// Store is an open connection to the user table.
type Store interface {
	GetByID(ctx context.Context, id string) (entity.Record, error)
	Create(ctx context.Context, in entity.UserInput) error
	Update(ctx context.Context, id string, in entity.UserInput) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Opener acquires a Store for the duration of one request.
type Opener interface {
	Open(ctx context.Context) (Store, error)
}

// CredentialResolver looks up database credentials by secret id.
type CredentialResolver interface {
	Resolve(ctx context.Context, secretID string) (secret.Credentials, error)
}

// DBOpener resolves credentials and connects on every Open. Nothing is
// shared between calls.
type DBOpener struct {
	resolver CredentialResolver
	secretID string
	db       database.Config
	table    string
}

func NewDBOpener(cfg config.DatabaseConfig, resolver CredentialResolver) *DBOpener {
	return &DBOpener{
		resolver: resolver,
		secretID: cfg.SecretName,
		db: database.Config{
			Dialect: database.Dialect(cfg.Engine),
			Host:    cfg.Host,
			Port:    cfg.Port,
			Name:    cfg.Name,
			Timeout: cfg.ConnectTimeout,
		},
		table: cfg.Table,
	}
}

func (o *DBOpener) Open(ctx context.Context) (Store, error) {
	creds, err := o.resolver.Resolve(ctx, o.secretID)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(ctx, o.db, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	return userrepo.NewUserRepo(db, o.table), nil
}

// UserService runs exactly one statement per call on a freshly opened store.
type UserService struct {
	opener Opener
	logger *zap.SugaredLogger
}

func NewUserService(opener Opener, logger *zap.SugaredLogger) *UserService {
	return &UserService{opener: opener, logger: logger}
}

// withStore opens a store, runs fn, and closes the store on every path.
func (s *UserService) withStore(ctx context.Context, fn func(Store) error) error {
	st, err := s.opener.Open(ctx)
	if err != nil {
		return externalError(err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			s.logger.Warnw("close db connection", "err", cerr)
		}
	}()
	return fn(st)
}

// Get returns the user row or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (entity.Record, error) {
	var rec entity.Record
	err := s.withStore(ctx, func(st Store) error {
		r, err := st.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return externalError(err)
		}
		rec = r
		return nil
	})
	return rec, err
}

func (s *UserService) Create(ctx context.Context, in entity.UserInput) error {
	return s.withStore(ctx, func(st Store) error {
		if err := st.Create(ctx, in); err != nil {
			return externalError(err)
		}
		return nil
	})
}

// Update does not report whether a row matched.
func (s *UserService) Update(ctx context.Context, id string, in entity.UserInput) error {
	return s.withStore(ctx, func(st Store) error {
		if err := st.Update(ctx, id, in); err != nil {
			return externalError(err)
		}
		return nil
	})
}

// Delete does not report whether a row existed.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.withStore(ctx, func(st Store) error {
		if err := st.Delete(ctx, id); err != nil {
			return externalError(err)
		}
		return nil
	})
}
