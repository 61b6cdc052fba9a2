package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/common"
	"github.com/dmitrijs2005/scmexpert/internal/dbx"
	"github.com/dmitrijs2005/scmexpert/internal/server/models"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/devicedata"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/logins"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/shipments"
	"github.com/dmitrijs2005/scmexpert/internal/server/repositories/users"
)

// memUsers is an in-memory users.Repository.
type memUsers struct {
	mu    sync.Mutex
	byKey map[string]*models.User
	err   error
}

func newMemUsers() *memUsers {
	return &memUsers{byKey: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.byKey[u.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	cp := *u
	m.byKey[u.Email] = &cp
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byKey[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) List(context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.User, 0, len(m.byKey))
	for _, u := range m.byKey {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, email, name, newEmail string, role models.Role, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byKey[email]
	if !ok {
		return common.ErrorNotFound
	}
	if _, taken := m.byKey[newEmail]; taken && newEmail != email {
		return common.ErrDuplicateEmail
	}
	delete(m.byKey, email)
	u.Name, u.Email, u.Role, u.UpdatedAt = name, newEmail, role, now
	m.byKey[newEmail] = u
	return nil
}

func (m *memUsers) mutate(email string, fn func(u *models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.byKey[email]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func (m *memUsers) UpdateRole(_ context.Context, email string, role models.Role, now time.Time) error {
	return m.mutate(email, func(u *models.User) { u.Role, u.UpdatedAt = role, now })
}

func (m *memUsers) UpdatePassword(_ context.Context, email, hash string, now time.Time) error {
	return m.mutate(email, func(u *models.User) { u.PasswordHash, u.UpdatedAt = hash, now })
}

func (m *memUsers) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[email]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byKey, email)
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, email, tokenHash string, expiresAt, now time.Time) error {
	return m.mutate(email, func(u *models.User) {
		h, exp := tokenHash, expiresAt
		u.ResetTokenHash, u.ResetTokenExpiresAt, u.UpdatedAt = &h, &exp, now
	})
}

func (m *memUsers) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	for _, u := range m.byKey {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash, u.ResetTokenExpiresAt = nil, nil
			u.UpdatedAt = now
			return u.Email, nil
		}
	}
	return "", common.ErrorNotFound
}

type memLogins struct {
	mu      sync.Mutex
	records []models.LoginRecord
	err     error
}

func (m *memLogins) Create(_ context.Context, rec *models.LoginRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *rec)
	return nil
}

type memShipments struct {
	mu    sync.Mutex
	items []*models.Shipment
	err   error
}

func (m *memShipments) Create(_ context.Context, s *models.Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, it := range m.items {
		if it.ShipmentID == s.ShipmentID {
			return common.ErrDuplicateShipmentID
		}
	}
	cp := *s
	m.items = append(m.items, &cp)
	return nil
}

func (m *memShipments) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, it := range m.items {
		if it.ShipmentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memShipments) List(context.Context) ([]*models.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.Shipment, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		cp := *m.items[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memShipments) Update(_ context.Context, id string, ch shipments.Changes, by string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ShipmentID == id {
			it.Status, it.Destination, it.ExpectedDeliveryDate = ch.Status, ch.Destination, ch.ExpectedDeliveryDate
			t := now
			it.LastUpdated, it.UpdatedBy = &t, by
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memShipments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ShipmentID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memDevices struct {
	readings []*models.DeviceReading
	err      error

	gotDevice string
	gotLimit  int
}

func (m *memDevices) DistinctDeviceIDs(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]struct{}{}
	var ids []string
	for _, r := range m.readings {
		if _, ok := seen[r.DeviceID]; !ok {
			seen[r.DeviceID] = struct{}{}
			ids = append(ids, r.DeviceID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memDevices) List(_ context.Context, deviceID string, limit int) ([]*models.DeviceReading, error) {
	m.gotDevice, m.gotLimit = deviceID, limit
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.DeviceReading
	for _, r := range m.readings {
		if deviceID == "" || r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRepoManager struct {
	users     *memUsers
	logins    *memLogins
	shipments *memShipments
	devices   *memDevices
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newMemUsers(),
		logins:    &memLogins{},
		shipments: &memShipments{},
		devices:   &memDevices{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Logins(dbx.DBTX) logins.Repository            { return m.logins }
func (m *fakeRepoManager) Shipments(dbx.DBTX) shipments.Repository      { return m.shipments }
func (m *fakeRepoManager) DeviceData(dbx.DBTX) devicedata.Repository    { return m.devices }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
