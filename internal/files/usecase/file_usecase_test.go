package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

func TestFileUseCase_UploadAndRetrieve(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	mallory := h.users.add("mallory")

	file := h.upload(t, alice, "hello.txt", "hello")

	t.Run("ciphertext differs from plaintext", func(t *testing.T) {
		stored, err := h.blobs.Get(ctx, file.BlobKey())
		require.NoError(t, err)
		assert.NotContains(t, string(stored), "hello")
		assert.Len(t, stored, len("hello")+16)
	})

	t.Run("owner gets plaintext", func(t *testing.T) {
		content, err := h.fileUC.GetContent(ctx, file.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), content.Data)
		assert.Equal(t, "hello.txt", content.FileName)
		assert.Equal(t, "text/plain", content.MimeType)
	})

	t.Run("unrelated user is told the file does not exist", func(t *testing.T) {
		_, err := h.fileUC.GetContent(ctx, file.ID, mallory)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, filesDomain.ErrFileNotFound.Error(), err.Error())

		_, err = h.fileUC.GetMetadata(ctx, file.ID, mallory)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)
	})

	t.Run("anonymous requester has no access", func(t *testing.T) {
		_, err := h.fileUC.GetMetadata(ctx, file.ID, uuid.Nil)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := h.fileUC.GetContent(ctx, uuid.Must(uuid.NewV7()), alice)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("owner metadata", func(t *testing.T) {
		metadata, err := h.fileUC.GetMetadata(ctx, file.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, filesDomain.AccessOwner, metadata.AccessLevel)
		assert.Equal(t, file.Salt, metadata.Salt)
		assert.Equal(t, file.Nonce, metadata.Nonce)
		assert.Equal(t, "text/plain", metadata.MimeType)
	})

	t.Run("tampered ciphertext fails authentication", func(t *testing.T) {
		other := h.upload(t, alice, "secret.bin", "top secret")
		h.corruptBlob(t, other)

		_, err := h.fileUC.GetContent(ctx, other.ID, alice)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.ErrorIs(t, err, apperrors.ErrCrypto)
	})
}

func TestFileUseCase_Upload_Validation(t *testing.T) {
	h := newHarness(t)
	alice := h.users.add("alice")

	valid := func() UploadInput {
		return UploadInput{
			OwnerID:  alice,
			FileName: "a.txt",
			Content:  []byte("data"),
			Salt:     randomBytes(t, cryptoDomain.SaltSize),
			Nonce:    randomBytes(t, cryptoDomain.NonceSize),
		}
	}

	tests := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{"short salt", func(in *UploadInput) { in.Salt = in.Salt[:8] }},
		{"long nonce", func(in *UploadInput) { in.Nonce = randomBytes(t, 16) }},
		{"missing nonce", func(in *UploadInput) { in.Nonce = nil }},
		{"empty content", func(in *UploadInput) { in.Content = nil }},
		{"blank name", func(in *UploadInput) { in.FileName = "   " }},
		{"no owner", func(in *UploadInput) { in.OwnerID = uuid.Nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)

			_, err := h.fileUC.Upload(context.Background(), input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestFileUseCase_Upload_SaltReuse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	salt := randomBytes(t, cryptoDomain.SaltSize)

	_, err := h.fileUC.Upload(ctx, UploadInput{
		OwnerID: alice, FileName: "a.txt", Content: []byte("a"),
		Salt: salt, Nonce: randomBytes(t, cryptoDomain.NonceSize),
	})
	require.NoError(t, err)

	_, err = h.fileUC.Upload(ctx, UploadInput{
		OwnerID: alice, FileName: "b.txt", Content: []byte("b"),
		Salt: salt, Nonce: randomBytes(t, cryptoDomain.NonceSize),
	})
	assert.ErrorIs(t, err, filesDomain.ErrSaltInUse)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFileUseCase_Upload_RowFailureRemovesBlob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	h.files.createErr = errors.New("database down")

	_, err := h.fileUC.Upload(ctx, UploadInput{
		OwnerID: alice, FileName: "a.txt", Content: []byte("a"),
		Salt:  randomBytes(t, cryptoDomain.SaltSize),
		Nonce: randomBytes(t, cryptoDomain.NonceSize),
	})
	require.Error(t, err)

	_, err = h.bucket.List(nil).Next(ctx)
	assert.ErrorIs(t, err, io.EOF, "no blob may survive a failed upload")
}

func TestFileUseCase_ShareLevels(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	bob := h.users.add("bob")
	carol := h.users.add("carol")
	file := h.upload(t, alice, "report", "quarterly numbers")

	outcomes, err := h.fileUC.Share(ctx, file.ID, alice, []filesDomain.ShareRequest{
		{Username: "bob", AccessLevel: "view"},
		{Username: "carol", AccessLevel: "download"},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}

	t.Run("view grant reads metadata but not content", func(t *testing.T) {
		metadata, err := h.fileUC.GetMetadata(ctx, file.ID, bob)
		require.NoError(t, err)
		assert.Equal(t, filesDomain.AccessView, metadata.AccessLevel)
		assert.Equal(t, filesDomain.DefaultMetadataMimeType, metadata.MimeType)

		_, err = h.fileUC.GetContent(ctx, file.ID, bob)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)
	})

	t.Run("download grant reads content", func(t *testing.T) {
		content, err := h.fileUC.GetContent(ctx, file.ID, carol)
		require.NoError(t, err)
		assert.Equal(t, []byte("quarterly numbers"), content.Data)
		assert.Equal(t, filesDomain.DefaultContentMimeType, content.MimeType)
	})

	t.Run("re-sharing replaces the level", func(t *testing.T) {
		_, err := h.fileUC.Share(ctx, file.ID, alice, []filesDomain.ShareRequest{
			{Username: "bob", AccessLevel: "download"},
		})
		require.NoError(t, err)

		_, err = h.fileUC.GetContent(ctx, file.ID, bob)
		assert.NoError(t, err)
		assert.Equal(t, 2, h.grants.count())
	})

	t.Run("grantees cannot manage", func(t *testing.T) {
		_, err := h.fileUC.Share(ctx, file.ID, carol, []filesDomain.ShareRequest{
			{Username: "bob", AccessLevel: "view"},
		})
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)

		_, err = h.fileUC.ListShares(ctx, file.ID, carol)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)

		err = h.fileUC.Delete(ctx, file.ID, carol)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)
	})

	t.Run("list and revoke shares", func(t *testing.T) {
		grants, err := h.fileUC.ListShares(ctx, file.ID, alice)
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, "bob", grants[0].Username)

		require.NoError(t, h.fileUC.RevokeShare(ctx, file.ID, alice, "carol"))
		_, err = h.fileUC.GetMetadata(ctx, file.ID, carol)
		assert.ErrorIs(t, err, filesDomain.ErrAccessDenied)

		err = h.fileUC.RevokeShare(ctx, file.ID, alice, "carol")
		assert.ErrorIs(t, err, filesDomain.ErrGrantNotFound)
		err = h.fileUC.RevokeShare(ctx, file.ID, alice, "nobody")
		assert.ErrorIs(t, err, filesDomain.ErrGrantNotFound)
	})
}

func TestFileUseCase_Share_InvalidEntries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	h.users.add("bob")
	file := h.upload(t, alice, "doc.pdf", "pdf bytes")

	outcomes, err := h.fileUC.Share(ctx, file.ID, alice, []filesDomain.ShareRequest{
		{Username: "", AccessLevel: "view"},
		{Username: "ghost", AccessLevel: "view"},
		{Username: "bob", AccessLevel: "admin"},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	expected := []error{
		filesDomain.ErrUsernameRequired,
		filesDomain.ErrShareUserNotFound,
		filesDomain.ErrInvalidAccessLevel,
	}
	for i, o := range outcomes {
		var entryErr *filesDomain.ShareEntryError
		require.ErrorAs(t, o.Err, &entryErr)
		assert.Equal(t, i, entryErr.Index)
		assert.ErrorIs(t, o.Err, expected[i])
		assert.ErrorIs(t, o.Err, apperrors.ErrInvalidInput)
	}
	assert.Zero(t, h.grants.count())
}

func TestFileUseCase_Share_MixedEntries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	bob := h.users.add("bob")
	file := h.upload(t, alice, "notes.md", "# notes")

	outcomes, err := h.fileUC.Share(ctx, file.ID, alice, []filesDomain.ShareRequest{
		{Username: "alice", AccessLevel: "view"},
		{Username: "bob", AccessLevel: "VIEW"},
		{Username: " bob ", AccessLevel: "download"},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.ErrorIs(t, outcomes[0].Err, filesDomain.ErrShareWithOwner)
	assert.ErrorIs(t, outcomes[1].Err, filesDomain.ErrInvalidAccessLevel, "access types are case sensitive")
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, "bob", outcomes[2].Username)
	assert.Equal(t, filesDomain.AccessDownload, outcomes[2].AccessLevel)

	_, err = h.fileUC.GetContent(ctx, file.ID, bob)
	assert.NoError(t, err)

	_, err = h.fileUC.Share(ctx, file.ID, alice, nil)
	assert.ErrorIs(t, err, filesDomain.ErrNoShareEntries)
}

func TestFileUseCase_List(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	bob := h.users.add("bob")

	owned := h.upload(t, alice, "mine.txt", "a")
	shared := h.upload(t, bob, "theirs.txt", "b")
	h.upload(t, bob, "private.txt", "c")

	_, err := h.fileUC.Share(ctx, shared.ID, bob, []filesDomain.ShareRequest{{Username: "alice", AccessLevel: "view"}})
	require.NoError(t, err)
	_, err = h.linkUC.Issue(ctx, shared.ID, bob, 1)
	require.NoError(t, err)
	_, err = h.linkUC.Issue(ctx, owned.ID, alice, 1)
	require.NoError(t, err)

	summaries, err := h.fileUC.List(ctx, alice, 0, 50)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[uuid.UUID]*filesDomain.FileSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	require.Contains(t, byID, owned.ID)
	require.Contains(t, byID, shared.ID)

	assert.Equal(t, filesDomain.AccessOwner, byID[owned.ID].AccessLevel)
	assert.NotNil(t, byID[owned.ID].PublicToken)

	assert.Equal(t, filesDomain.AccessView, byID[shared.ID].AccessLevel)
	assert.Equal(t, "bob", byID[shared.ID].OwnerUsername)
	assert.Nil(t, byID[shared.ID].PublicToken, "link details are only shown to the owner")
}

func TestFileUseCase_Delete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.users.add("alice")
	h.users.add("bob")
	file := h.upload(t, alice, "gone.txt", "bye")

	_, err := h.fileUC.Share(ctx, file.ID, alice, []filesDomain.ShareRequest{{Username: "bob", AccessLevel: "view"}})
	require.NoError(t, err)

	require.NoError(t, h.fileUC.Delete(ctx, file.ID, alice))

	_, err = h.fileUC.GetMetadata(ctx, file.ID, alice)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, h.grants.count())

	_, err = h.blobs.Get(ctx, file.BlobKey())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccessResolver(t *testing.T) {
	ctx := context.Background()
	grants := newMemGrantRepository()
	resolver := NewAccessResolver(grants)

	owner := uuid.Must(uuid.NewV7())
	viewer := uuid.Must(uuid.NewV7())
	downloader := uuid.Must(uuid.NewV7())
	stranger := uuid.Must(uuid.NewV7())
	file := &filesDomain.File{ID: uuid.Must(uuid.NewV7()), OwnerID: owner}

	require.NoError(t, grants.Upsert(ctx, &filesDomain.ShareGrant{
		FileID: file.ID, UserID: viewer, AccessLevel: filesDomain.AccessView,
	}))
	require.NoError(t, grants.Upsert(ctx, &filesDomain.ShareGrant{
		FileID: file.ID, UserID: downloader, AccessLevel: filesDomain.AccessDownload,
	}))
	require.NoError(t, grants.Upsert(ctx, &filesDomain.ShareGrant{
		FileID: file.ID, UserID: owner, AccessLevel: filesDomain.AccessView,
	}))

	tests := []struct {
		name      string
		requester uuid.UUID
		expected  filesDomain.AccessLevel
	}{
		{"owner wins over grant", owner, filesDomain.AccessOwner},
		{"view grant", viewer, filesDomain.AccessView},
		{"download grant", downloader, filesDomain.AccessDownload},
		{"stranger", stranger, filesDomain.AccessNone},
		{"anonymous", uuid.Nil, filesDomain.AccessNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := resolver.ResolveAccess(ctx, file, tt.requester)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}
