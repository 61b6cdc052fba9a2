// Package httpapi exposes the scmexpert services over a JSON HTTP API.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"
)

type PrincipalResolver interface {
	Resolve(ctx context.Context, cookieToken, headerToken string) (*auth.Principal, error)
}

type UserAPI interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	IssueAPIToken(ctx context.Context, email, password string) (string, error)
	TokenTTL() time.Duration
	Account(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, actor, email string, upd services.UserUpdate) error
	AssignAdmin(ctx context.Context, actor, email string) error
	DeleteUser(ctx context.Context, actor, email string) error
}

type ResetAPI interface {
	RequestReset(ctx context.Context, email string) string
	ValidateResetToken(token string) error
	ConsumeReset(ctx context.Context, token, newPassword, confirmPassword string) error
}

type ShipmentAPI interface {
	Create(ctx context.Context, actor string, in models.ShipmentInput) (*models.Shipment, error)
	List(ctx context.Context) ([]*models.Shipment, error)
	Update(ctx context.Context, actor, shipmentID string, upd services.ShipmentUpdate) error
	Delete(ctx context.Context, actor, shipmentID string) error
	Export(ctx context.Context, actor string) (*services.Export, error)
}

type DeviceDataAPI interface {
	List(ctx context.Context, deviceID string) (*services.DeviceData, error)
}

// Deps are the collaborators of the HTTP API. Health may be nil, in which
// case /healthz always reports OK.
type Deps struct {
	Resolver     PrincipalResolver
	Users        UserAPI
	Resets       ResetAPI
	Shipments    ShipmentAPI
	Devices      DeviceDataAPI
	Health       func(ctx context.Context) error
	CookieSecure bool
	Logger       logging.Logger
}

// API holds the handlers. Build the router with NewRouter.
type API struct {
	resolver     PrincipalResolver
	users        UserAPI
	resets       ResetAPI
	shipments    ShipmentAPI
	devices      DeviceDataAPI
	health       func(ctx context.Context) error
	cookieSecure bool
	logger       logging.Logger
}

func newAPI(d Deps) *API {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &API{
		resolver:     d.Resolver,
		users:        d.Users,
		resets:       d.Resets,
		shipments:    d.Shipments,
		devices:      d.Devices,
		health:       d.Health,
		cookieSecure: d.CookieSecure,
		logger:       logger.With("module", "httpapi"),
	}
}
