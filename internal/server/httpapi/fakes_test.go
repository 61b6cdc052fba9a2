package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/server/auth"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/services"
)

// fakeResolver knows a fixed set of tokens.
type fakeResolver struct {
	tokens map[string]*auth.Principal
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, cookieToken, headerToken string) (*auth.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	token := auth.SelectToken(cookieToken, headerToken)
	if token == "" {
		return nil, common.ErrMissingToken
	}
	p, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return p, nil
}

type fakeUsers struct {
	signup    func(in services.SignupInput) (*models.User, error)
	login     func(email, password string) (*services.LoginResult, error)
	apiToken  func(email, password string) (string, error)
	list      []*models.User
	listErr   error
	get       func(email string) (*models.User, error)
	mutateErr error

	calls []string
}

func (f *fakeUsers) Signup(_ context.Context, in services.SignupInput) (*models.User, error) {
	return f.signup(in)
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	return f.login(email, password)
}

func (f *fakeUsers) IssueAPIToken(_ context.Context, email, password string) (string, error) {
	return f.apiToken(email, password)
}

func (f *fakeUsers) TokenTTL() time.Duration { return 10 * time.Minute }

func (f *fakeUsers) Account(_ context.Context, email string) (*models.User, error) {
	return f.get(email)
}

func (f *fakeUsers) GetUser(_ context.Context, email string) (*models.User, error) {
	return f.get(email)
}

func (f *fakeUsers) ListUsers(context.Context) ([]*models.User, error) {
	return f.list, f.listErr
}

func (f *fakeUsers) UpdateUser(_ context.Context, actor, email string, upd services.UserUpdate) error {
	f.calls = append(f.calls, "update "+actor+" "+email+" "+upd.Role)
	return f.mutateErr
}

func (f *fakeUsers) AssignAdmin(_ context.Context, actor, email string) error {
	f.calls = append(f.calls, "assign "+actor+" "+email)
	return f.mutateErr
}

func (f *fakeUsers) DeleteUser(_ context.Context, actor, email string) error {
	f.calls = append(f.calls, "delete "+actor+" "+email)
	return f.mutateErr
}

type fakeResets struct {
	requested []string
	consume   func(token, pw, confirm string) error
}

func (f *fakeResets) RequestReset(_ context.Context, email string) string {
	f.requested = append(f.requested, email)
	return services.ResetRequestedMessage
}

func (f *fakeResets) ValidateResetToken(token string) error {
	if token == "" {
		return common.ErrInvalidOrExpiredResetToken
	}
	return nil
}

func (f *fakeResets) ConsumeReset(_ context.Context, token, pw, confirm string) error {
	return f.consume(token, pw, confirm)
}

type fakeShipments struct {
	create    func(actor string, in models.ShipmentInput) (*models.Shipment, error)
	list      []*models.Shipment
	mutateErr error
	export    *services.Export
	exportErr error

	calls []string
}

func (f *fakeShipments) Create(_ context.Context, actor string, in models.ShipmentInput) (*models.Shipment, error) {
	return f.create(actor, in)
}

func (f *fakeShipments) List(context.Context) ([]*models.Shipment, error) {
	return f.list, nil
}

func (f *fakeShipments) Update(_ context.Context, actor, id string, upd services.ShipmentUpdate) error {
	f.calls = append(f.calls, "update "+actor+" "+id+" "+upd.Status)
	return f.mutateErr
}

func (f *fakeShipments) Delete(_ context.Context, actor, id string) error {
	f.calls = append(f.calls, "delete "+actor+" "+id)
	return f.mutateErr
}

func (f *fakeShipments) Export(_ context.Context, actor string) (*services.Export, error) {
	f.calls = append(f.calls, "export "+actor)
	return f.export, f.exportErr
}

type fakeDevices struct {
	gotID string
}

func (f *fakeDevices) List(_ context.Context, deviceID string) (*services.DeviceData, error) {
	f.gotID = deviceID
	return &services.DeviceData{
		Readings:  []*models.DeviceReading{{DeviceID: "1150", BatteryLevel: 3.2}},
		DeviceIDs: []string{"1150", "1151"},
		Selected:  deviceID,
	}, nil
}
