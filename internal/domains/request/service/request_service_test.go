package service

import (
	"context"
	"testing"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/request/model"
	"inkdrop-backend/internal/domains/request/repository"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoBooks struct {
	repo *bookRepo.MemoryRepository
}

func (b repoBooks) Get(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	return b.repo.GetByID(ctx, id)
}

func newService() (ServiceInterface, *bookRepo.MemoryRepository) {
	books := bookRepo.NewMemoryRepository()
	return NewRequestService(repository.NewMemoryRepository(), repoBooks{books}, nil), books
}

type sentNote struct {
	userID  uuid.UUID
	kind    string
	message string
}

type recordingNotifier struct {
	sent []sentNote
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, kind, message string) error {
	n.sent = append(n.sent, sentNote{userID: userID, kind: kind, message: message})
	return n.err
}

func strPtr(s string) *string { return &s }

func TestCreateRequest(t *testing.T) {
	svc, _ := newService()
	actor := &types.Actor{UserID: uuid.New(), Email: "reader@inkdrop.test"}

	req, err := svc.Create(context.Background(), actor, model.CreateRequest{
		Title:    "  Dune ",
		Category: "Fiction",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", req.Title)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, actor.UserID, req.RequestedBy)

	_, err = svc.Create(context.Background(), actor, model.CreateRequest{Title: "Dune"})
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, "category", appErr.Field)

	_, err = svc.Create(context.Background(), nil, model.CreateRequest{Title: "Dune", Category: "Fiction"})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestListMineAndAll(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	me := &types.Actor{UserID: uuid.New()}
	other := &types.Actor{UserID: uuid.New()}

	first, err := svc.Create(ctx, me, model.CreateRequest{Title: "Dune", Category: "Fiction"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, me, model.CreateRequest{Title: "Emma", Category: "Fiction"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, model.CreateRequest{Title: "Ulysses", Category: "Fiction"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, me)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Emma", mine[0].Title)

	_, err = svc.Update(ctx, first.ID, model.UpdateRequest{Status: "declined"})
	require.NoError(t, err)

	rejected, err := svc.ListAll(ctx, "rejected")
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "Dune", rejected[0].Title)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListAll(ctx, "archived")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestFulfilledRequiresExistingBook(t *testing.T) {
	svc, books := newService()
	ctx := context.Background()

	req, err := svc.Create(ctx, &types.Actor{UserID: uuid.New()}, model.CreateRequest{Title: "Dune", Category: "Fiction"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Fulfilled"})
	assert.ErrorIs(t, err, model.ErrFulfilledNoBook)

	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Fulfilled", FulfilledBookID: strPtr(uuid.NewString())})
	assert.ErrorIs(t, err, model.ErrFulfilledUnknown)

	book := &bookModel.Book{ID: uuid.New(), Title: "Dune", FileURL: "https://x.test/dune.pdf", FileSize: 1}
	require.NoError(t, books.Create(ctx, book))

	updated, err := svc.Update(ctx, req.ID, model.UpdateRequest{
		Status:          "Fulfilled",
		AdminNotes:      strPtr(" Added to the library "),
		FulfilledBookID: strPtr(book.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFulfilled, updated.Status)
	assert.Equal(t, "Added to the library", updated.AdminNotes)
	require.NotNil(t, updated.FulfilledBookID)
	assert.Equal(t, book.ID, *updated.FulfilledBookID)
}

func TestUpdateFulfilledBookID(t *testing.T) {
	svc, books := newService()
	ctx := context.Background()

	req, err := svc.Create(ctx, &types.Actor{UserID: uuid.New()}, model.CreateRequest{Title: "Dune", Category: "Fiction"})
	require.NoError(t, err)

	book := &bookModel.Book{ID: uuid.New(), Title: "Dune", FileURL: "https://x.test/dune.pdf", FileSize: 1}
	require.NoError(t, books.Create(ctx, book))

	linked, err := svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Approved", FulfilledBookID: strPtr(book.ID.String())})
	require.NoError(t, err)
	require.NotNil(t, linked.FulfilledBookID)

	cleared, err := svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Approved", FulfilledBookID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.FulfilledBookID)

	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Fulfilled", FulfilledBookID: strPtr("")})
	assert.ErrorIs(t, err, model.ErrFulfilledNoBook)

	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Approved", FulfilledBookID: strPtr("not-a-uuid")})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestUpdateMissingRequest(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Update(context.Background(), uuid.New(), model.UpdateRequest{Status: "Approved"})
	assert.ErrorIs(t, err, model.ErrRequestNotFound)
}

func TestUpdateNotifiesRequesterOnStatusChange(t *testing.T) {
	notes := &recordingNotifier{}
	svc := NewRequestService(repository.NewMemoryRepository(), repoBooks{bookRepo.NewMemoryRepository()}, notes)
	ctx := context.Background()
	actor := &types.Actor{UserID: uuid.New()}

	req, err := svc.Create(ctx, actor, model.CreateRequest{Title: "Dune", Category: "Fiction"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, notes.sent, 1)
	assert.Equal(t, actor.UserID, notes.sent[0].userID)
	assert.Equal(t, "success", notes.sent[0].kind)
	assert.Equal(t, `Your request for "Dune" is now approved`, notes.sent[0].message)

	// Notes only; status unchanged.
	_, err = svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Approved", AdminNotes: strPtr("on order")})
	require.NoError(t, err)
	assert.Len(t, notes.sent, 1)

	notes.err = assert.AnError
	updated, err := svc.Update(ctx, req.ID, model.UpdateRequest{Status: "Rejected"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)
	require.Len(t, notes.sent, 2)
	assert.Equal(t, "warning", notes.sent[1].kind)
}
