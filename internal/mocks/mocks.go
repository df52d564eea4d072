package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatter-service/internal/auth"
	"chatter-service/internal/models"
	"chatter-service/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) SaveMessage(ctx context.Context, sender, content string) (models.Message, error) {
	args := m.Called(ctx, sender, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) LastMessages(ctx context.Context, limit int) ([]models.Message, error) {
	args := m.Called(ctx, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) FindByID(ctx context.Context, id int64) (models.FriendLink, error) {
	args := m.Called(ctx, id)
	var link models.FriendLink
	if val := args.Get(0); val != nil {
		link = val.(models.FriendLink)
	}
	return link, args.Error(1)
}

func (m *FriendRepositoryMock) FindFriendship(ctx context.Context, userID, otherID string) (models.FriendLink, error) {
	args := m.Called(ctx, userID, otherID)
	var link models.FriendLink
	if val := args.Get(0); val != nil {
		link = val.(models.FriendLink)
	}
	return link, args.Error(1)
}

func (m *FriendRepositoryMock) Create(ctx context.Context, requesterID, recipientID string) (models.FriendLink, error) {
	args := m.Called(ctx, requesterID, recipientID)
	var link models.FriendLink
	if val := args.Get(0); val != nil {
		link = val.(models.FriendLink)
	}
	return link, args.Error(1)
}

func (m *FriendRepositoryMock) UpdateStatus(ctx context.Context, id int64, status models.FriendStatus) (models.FriendLink, error) {
	args := m.Called(ctx, id, status)
	var link models.FriendLink
	if val := args.Get(0); val != nil {
		link = val.(models.FriendLink)
	}
	return link, args.Error(1)
}

func (m *FriendRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListPendingFor(ctx context.Context, userID string) ([]models.FriendLink, error) {
	args := m.Called(ctx, userID)
	var links []models.FriendLink
	if val := args.Get(0); val != nil {
		links = val.([]models.FriendLink)
	}
	return links, args.Error(1)
}

func (m *FriendRepositoryMock) ListAcceptedFor(ctx context.Context, userID string) ([]models.FriendLink, error) {
	args := m.Called(ctx, userID)
	var links []models.FriendLink
	if val := args.Get(0); val != nil {
		links = val.([]models.FriendLink)
	}
	return links, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Upsert(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var saved models.User
	if val := args.Get(0); val != nil {
		saved = val.(models.User)
	}
	return saved, args.Error(1)
}

type IdentityProviderMock struct {
	mock.Mock
}

func (m *IdentityProviderMock) Verify(ctx context.Context, credential string) (auth.Identity, error) {
	args := m.Called(ctx, credential)
	var identity auth.Identity
	if val := args.Get(0); val != nil {
		identity = val.(auth.Identity)
	}
	return identity, args.Error(1)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ auth.IdentityProvider = (*IdentityProviderMock)(nil)
