package handlers

import (
	"context"
	"errors"
	"time"

	"mannequins/backend/internal/models"
	"mannequins/backend/internal/storage"
)

var errNotImplemented = errors.New("not implemented")

// mockStore implements Store with overridable funcs per method.
type mockStore struct {
	createUserFunc  func(ctx context.Context, in storage.UserNew, role models.Role, signInType models.SignInType, verified bool) (string, error)
	getUserFunc     func(ctx context.Context, filter storage.UserFilter) (*models.User, error)
	verifyUserFunc  func(ctx context.Context, filter storage.UserFilter) (*models.User, error)
	updateUserFunc  func(ctx context.Context, filter storage.UserFilter, patch storage.UserPatch) error
	deleteUserFunc  func(ctx context.Context, filter storage.UserFilter) error

	createProjectFunc func(ctx context.Context, in storage.ProjectNew, userID string) (string, error)
	getProjectFunc    func(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error)
	verifyProjectFunc func(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error)
	listProjectsFunc  func(ctx context.Context, filter storage.ProjectFilter, req storage.PageRequest) (*storage.Page[models.Project], error)
	updateProjectFunc func(ctx context.Context, filter storage.ProjectFilter, patch storage.ProjectPatch) error
	grantAccessFunc   func(ctx context.Context, filter storage.ProjectFilter, userID string) error
	revokeAccessFunc  func(ctx context.Context, filter storage.ProjectFilter, userID string) error
	deleteProjectFunc func(ctx context.Context, filter storage.ProjectFilter) error

	createFileFunc func(ctx context.Context, data []byte, in storage.FileNew) (string, error)
	getFileFunc    func(ctx context.Context, filter storage.FileFilter) (*models.File, error)
	verifyFileFunc func(ctx context.Context, filter storage.FileFilter) (*models.File, error)
	listFilesFunc  func(ctx context.Context, filter storage.FileFilter) ([]models.File, error)
	fileDataFunc   func(ctx context.Context, filter storage.FileFilter) ([]byte, *models.File, error)
	updateFileFunc func(ctx context.Context, filter storage.FileFilter, patch storage.FilePatch) error
	deleteFileFunc func(ctx context.Context, filter storage.FileFilter) error
}

func (m *mockStore) CreateUser(ctx context.Context, in storage.UserNew, role models.Role, signInType models.SignInType, verified bool) (string, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, in, role, signInType, verified)
	}
	return "", errNotImplemented
}

func (m *mockStore) GetUser(ctx context.Context, filter storage.UserFilter) (*models.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) VerifyUser(ctx context.Context, filter storage.UserFilter) (*models.User, error) {
	if m.verifyUserFunc != nil {
		return m.verifyUserFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) UpdateUser(ctx context.Context, filter storage.UserFilter, patch storage.UserPatch) error {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, filter, patch)
	}
	return errNotImplemented
}

func (m *mockStore) DeleteUser(ctx context.Context, filter storage.UserFilter) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, filter)
	}
	return errNotImplemented
}

func (m *mockStore) CreateProject(ctx context.Context, in storage.ProjectNew, userID string) (string, error) {
	if m.createProjectFunc != nil {
		return m.createProjectFunc(ctx, in, userID)
	}
	return "", errNotImplemented
}

func (m *mockStore) GetProject(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error) {
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) VerifyProject(ctx context.Context, filter storage.ProjectFilter) (*models.Project, error) {
	if m.verifyProjectFunc != nil {
		return m.verifyProjectFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) ListProjects(ctx context.Context, filter storage.ProjectFilter, req storage.PageRequest) (*storage.Page[models.Project], error) {
	if m.listProjectsFunc != nil {
		return m.listProjectsFunc(ctx, filter, req)
	}
	return nil, errNotImplemented
}

func (m *mockStore) UpdateProject(ctx context.Context, filter storage.ProjectFilter, patch storage.ProjectPatch) error {
	if m.updateProjectFunc != nil {
		return m.updateProjectFunc(ctx, filter, patch)
	}
	return errNotImplemented
}

func (m *mockStore) GrantProjectAccess(ctx context.Context, filter storage.ProjectFilter, userID string) error {
	if m.grantAccessFunc != nil {
		return m.grantAccessFunc(ctx, filter, userID)
	}
	return errNotImplemented
}

func (m *mockStore) RevokeProjectAccess(ctx context.Context, filter storage.ProjectFilter, userID string) error {
	if m.revokeAccessFunc != nil {
		return m.revokeAccessFunc(ctx, filter, userID)
	}
	return errNotImplemented
}

func (m *mockStore) DeleteProject(ctx context.Context, filter storage.ProjectFilter) error {
	if m.deleteProjectFunc != nil {
		return m.deleteProjectFunc(ctx, filter)
	}
	return errNotImplemented
}

func (m *mockStore) CreateFile(ctx context.Context, data []byte, in storage.FileNew) (string, error) {
	if m.createFileFunc != nil {
		return m.createFileFunc(ctx, data, in)
	}
	return "", errNotImplemented
}

func (m *mockStore) GetFile(ctx context.Context, filter storage.FileFilter) (*models.File, error) {
	if m.getFileFunc != nil {
		return m.getFileFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) VerifyFile(ctx context.Context, filter storage.FileFilter) (*models.File, error) {
	if m.verifyFileFunc != nil {
		return m.verifyFileFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) ListFiles(ctx context.Context, filter storage.FileFilter) ([]models.File, error) {
	if m.listFilesFunc != nil {
		return m.listFilesFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockStore) FileData(ctx context.Context, filter storage.FileFilter) ([]byte, *models.File, error) {
	if m.fileDataFunc != nil {
		return m.fileDataFunc(ctx, filter)
	}
	return nil, nil, errNotImplemented
}

func (m *mockStore) UpdateFile(ctx context.Context, filter storage.FileFilter, patch storage.FilePatch) error {
	if m.updateFileFunc != nil {
		return m.updateFileFunc(ctx, filter, patch)
	}
	return errNotImplemented
}

func (m *mockStore) DeleteFile(ctx context.Context, filter storage.FileFilter) error {
	if m.deleteFileFunc != nil {
		return m.deleteFileFunc(ctx, filter)
	}
	return errNotImplemented
}

// mockResets is an in-memory stand-in for the redis reset registry.
type mockResets struct {
	registered map[string]bool
}

func newMockResets() *mockResets {
	return &mockResets{registered: make(map[string]bool)}
}

func (m *mockResets) Register(ctx context.Context, jti string, ttl time.Duration) error {
	m.registered[jti] = true
	return nil
}

func (m *mockResets) Consume(ctx context.Context, jti string) (bool, error) {
	if m.registered[jti] {
		delete(m.registered, jti)
		return true, nil
	}
	return false, nil
}

// mockMailer records the last reset email instead of sending one.
type mockMailer struct {
	lastTo    string
	lastToken string
	err       error
}

func (m *mockMailer) SendResetEmail(to, token string) error {
	if m.err != nil {
		return m.err
	}
	m.lastTo = to
	m.lastToken = token
	return nil
}
