package folder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/user"
	"family-dues-go/internal/storage"
	"family-dues-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	folders       map[string]*Folder
	owners        map[string]user.User
	failFileWrite bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{folders: make(map[string]*Folder), owners: make(map[string]user.User)}
}

func (r *fakeRepo) visible(folder *Folder, scope access.Filter) bool {
	owner := r.owners[folder.UserID]
	for key, value := range scope {
		var got *string
		switch key {
		case access.KeyID:
			got = &owner.ID
		case access.KeyRamaID:
			got = owner.RamaID
		case access.KeyFamilyID:
			got = owner.FamilyID
		}
		if value == nil || got == nil || *got != value {
			return false
		}
	}
	return true
}

func (r *fakeRepo) List(_ context.Context, scope access.Filter) ([]Folder, error) {
	var out []Folder
	for _, folder := range r.folders {
		if r.visible(folder, scope) {
			out = append(out, *folder)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string, scope access.Filter) (*Folder, error) {
	folder, ok := r.folders[id]
	if !ok || !r.visible(folder, scope) {
		return nil, ErrFolderNotFound
	}
	copied := *folder
	copied.Files = append([]File(nil), folder.Files...)
	return &copied, nil
}

func (r *fakeRepo) Create(_ context.Context, folder *Folder) error {
	for _, existing := range r.folders {
		if existing.UserID == folder.UserID {
			return ErrFolderExists
		}
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.folders, id)
	return nil
}

func (r *fakeRepo) CreateFile(_ context.Context, file *File) error {
	if r.failFileWrite {
		return errors.New("insert failed")
	}
	folder := r.folders[file.FolderID]
	folder.Files = append(folder.Files, *file)
	return nil
}

func (r *fakeRepo) GetFile(_ context.Context, folderID, fileID string) (*File, error) {
	folder, ok := r.folders[folderID]
	if !ok {
		return nil, ErrFolderNotFound
	}
	for _, file := range folder.Files {
		if file.ID == fileID {
			copied := file
			return &copied, nil
		}
	}
	return nil, ErrFileNotFound
}

func (r *fakeRepo) DeleteFile(_ context.Context, fileID string) error {
	for _, folder := range r.folders {
		for i, file := range folder.Files {
			if file.ID == fileID {
				folder.Files = append(folder.Files[:i], folder.Files[i+1:]...)
				return nil
			}
		}
	}
	return ErrFileNotFound
}

type fakeUsers struct {
	repo *fakeRepo
}

func (f fakeUsers) Get(_ context.Context, _ *access.SessionUser, id string) (*user.User, error) {
	owner, ok := f.repo.owners[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &owner, nil
}

type fakeRecorder struct {
	actions []actionlog.ActionType
	errs    []error
}

func (r *fakeRecorder) Track(ctx context.Context, actionType actionlog.ActionType, _ access.Actor, _ actionlog.Extra, op func(context.Context) (actionlog.Metadata, error)) error {
	_, err := op(ctx)
	r.actions = append(r.actions, actionType)
	r.errs = append(r.errs, err)
	return err
}

func strPtr(value string) *string {
	return &value
}

func newTestService() (*Service, *fakeRepo, *storage.Memory, *fakeRecorder) {
	repo := newFakeRepo()
	repo.owners["u-1"] = user.User{ID: "u-1", Name: "Lucía Gómez", RamaID: strPtr("r-1"), FamilyID: strPtr("f-1")}
	repo.owners["u-2"] = user.User{ID: "u-2", Name: "Tomás Ruiz", RamaID: strPtr("r-2"), FamilyID: strPtr("f-2")}
	store := storage.NewMemory("http://files.local")
	recorder := &fakeRecorder{}
	return NewService(repo, fakeUsers{repo: repo}, store, recorder, logger.Discard()), repo, store, recorder
}

func upload(name, body string) Upload {
	return Upload{Filename: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestCreateFolderDefaultsNameAndIsUniquePerUser(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	folder, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "Lucía Gómez", folder.Name)

	_, err = service.Create(ctx, nil, CreateInput{UserID: "u-1", Name: "Otra"})
	assert.ErrorIs(t, err, ErrFolderExists)

	_, err = service.Create(ctx, nil, CreateInput{UserID: "nobody"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = service.Create(ctx, nil, CreateInput{})
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestUploadStoresObjectAndPresignsOnGet(t *testing.T) {
	service, _, store, recorder := newTestService()
	ctx := context.Background()

	folder, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)

	file, err := service.Upload(ctx, nil, folder.ID, upload("../../ficha médica.pdf", "%PDF-1.7"), access.UserActor("admin"))
	require.NoError(t, err)
	assert.Equal(t, "ficha médica.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(file.ObjectKey, "folders/"+folder.ID+"/"))

	data, contentType, ok := store.Object(file.ObjectKey)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []actionlog.ActionType{actionlog.ActionFolderUpload}, recorder.actions)

	got, err := service.Get(ctx, nil, folder.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.Contains(t, got.Files[0].URL, "http://files.local/")
}

func TestUploadValidation(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()
	folder, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)
	actor := access.UserActor("admin")

	_, err = service.Upload(ctx, nil, folder.ID, upload("", "x"), actor)
	assert.ErrorIs(t, err, ErrFilenameRequired)
	_, err = service.Upload(ctx, nil, folder.ID, upload("a.pdf", ""), actor)
	assert.ErrorIs(t, err, ErrEmptyFile)

	big := upload("a.pdf", "x")
	big.Size = MaxUploadSize + 1
	_, err = service.Upload(ctx, nil, folder.ID, big, actor)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = service.Upload(ctx, nil, "missing", upload("a.pdf", "x"), actor)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestUploadRemovesObjectWhenRowFails(t *testing.T) {
	service, repo, store, recorder := newTestService()
	ctx := context.Background()
	folder, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)

	repo.failFileWrite = true
	_, err = service.Upload(ctx, nil, folder.ID, upload("a.pdf", "%PDF"), access.UserActor("admin"))
	require.EqualError(t, err, "insert failed")

	assert.Zero(t, store.Len())
	assert.Empty(t, repo.folders[folder.ID].Files)
	require.Len(t, recorder.errs, 1)
	assert.Error(t, recorder.errs[0])
}

func TestFoldersAreScopedByRole(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()
	mine, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)
	_, err = service.Create(ctx, nil, CreateInput{UserID: "u-2"})
	require.NoError(t, err)

	dirigente := &access.SessionUser{ID: "d-1", Role: access.RoleDirigente, RamaID: strPtr("r-1")}
	folders, err := service.List(ctx, dirigente)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, mine.ID, folders[0].ID)

	beneficiary := &access.SessionUser{ID: "u-2", Role: access.RoleBeneficiario}
	_, err = service.Get(ctx, beneficiary, mine.ID)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestDeleteFileAndFolderRemoveObjects(t *testing.T) {
	service, repo, store, _ := newTestService()
	ctx := context.Background()
	actor := access.UserActor("admin")
	folder, err := service.Create(ctx, nil, CreateInput{UserID: "u-1"})
	require.NoError(t, err)

	first, err := service.Upload(ctx, nil, folder.ID, upload("a.pdf", "a"), actor)
	require.NoError(t, err)
	second, err := service.Upload(ctx, nil, folder.ID, upload("b.pdf", "b"), actor)
	require.NoError(t, err)

	require.NoError(t, service.DeleteFile(ctx, folder.ID, first.ID))
	_, _, ok := store.Object(first.ObjectKey)
	assert.False(t, ok)
	assert.ErrorIs(t, service.DeleteFile(ctx, folder.ID, first.ID), ErrFileNotFound)

	require.NoError(t, service.Delete(ctx, folder.ID))
	_, _, ok = store.Object(second.ObjectKey)
	assert.False(t, ok)
	assert.Empty(t, repo.folders)
}
