package services_test

import (
	"fmt"
	"testing"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSubscriberRepository is a mock implementation of repositories.SubscriberRepository
type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) GetByEmail(email string) (*models.Subscriber, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *MockSubscriberRepository) Create(subscriber *models.Subscriber) error {
	args := m.Called(subscriber)
	return args.Error(0)
}

// stubMailer records welcome sends and can be told to fail.
type stubMailer struct {
	sent []string
	err  error
}

func (s *stubMailer) SendWelcome(to string) error {
	s.sent = append(s.sent, to)
	return s.err
}

func TestNewsletterService_Subscribe(t *testing.T) {
	mockRepo := new(MockSubscriberRepository)
	mailer := &stubMailer{}
	svc := services.NewNewsletterService(mockRepo, mailer)

	mockRepo.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Subscriber")).Return(nil).Once()

	created, err := svc.Subscribe("new@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"new@example.com"}, mailer.sent)
	mockRepo.AssertExpectations(t)
}

func TestNewsletterService_SubscribeDuplicateIsNoOp(t *testing.T) {
	mockRepo := new(MockSubscriberRepository)
	mailer := &stubMailer{}
	svc := services.NewNewsletterService(mockRepo, mailer)

	mockRepo.On("GetByEmail", "known@example.com").
		Return(&models.Subscriber{ID: "sub-1", Email: "known@example.com"}, nil).Once()

	created, err := svc.Subscribe("known@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	// No new row and no repeat welcome mail.
	assert.Empty(t, mailer.sent)
	mockRepo.AssertExpectations(t)
}

func TestNewsletterService_ConcurrentDuplicateHitsUniqueIndex(t *testing.T) {
	mockRepo := new(MockSubscriberRepository)
	mailer := &stubMailer{}
	svc := services.NewNewsletterService(mockRepo, mailer)

	// The email lookup misses but the insert trips the unique index, as
	// happens when two subscribes for the same address race.
	mockRepo.On("GetByEmail", "racer@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Subscriber")).Return(repositories.ErrDuplicate).Once()

	created, err := svc.Subscribe("racer@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, mailer.sent)
	mockRepo.AssertExpectations(t)
}

func TestNewsletterService_MailFailureDoesNotFailSubscribe(t *testing.T) {
	mockRepo := new(MockSubscriberRepository)
	mailer := &stubMailer{err: fmt.Errorf("smtp unreachable")}
	svc := services.NewNewsletterService(mockRepo, mailer)

	mockRepo.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Subscriber")).Return(nil).Once()

	created, err := svc.Subscribe("new@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	mockRepo.AssertExpectations(t)
}

func TestNewsletterService_NilMailer(t *testing.T) {
	mockRepo := new(MockSubscriberRepository)
	svc := services.NewNewsletterService(mockRepo, nil)

	mockRepo.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Subscriber")).Return(nil).Once()

	created, err := svc.Subscribe("new@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	mockRepo.AssertExpectations(t)
}
