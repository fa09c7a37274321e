package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	pkgjwt "github.com/ksobremonte/sentiment-slice/pkg/jwt"
)

// MockOperatorRepository is a mock implementation of OperatorRepository
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) FindByEmail(email string) (*domain.Operator, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindByID(id string) (*domain.Operator, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockOperatorRepository) Create(operator *domain.Operator) error {
	args := m.Called(operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) UpdatePassword(id, hashed string) error {
	args := m.Called(id, hashed)
	return args.Error(0)
}

func (m *MockOperatorRepository) UpdateLoginTime(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func testOperator(password string) *domain.Operator {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.Operator{
		ID:       "op-1",
		Email:    "owner@slice.test",
		Name:     "Owner",
		Password: string(hashed),
	}
}

func newAuthService(repo *MockOperatorRepository) AuthService {
	return NewAuthService(repo, pkgjwt.NewManager("test-secret", 30, 60), nil)
}

func TestSignIn_Success(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByEmail", "owner@slice.test").Return(testOperator("hunter22!"), nil)
	repo.On("UpdateLoginTime", "op-1").Return(nil).Maybe()

	svc := newAuthService(repo)

	resp, err := svc.SignIn(context.Background(), "owner@slice.test", "hunter22!")
	assert.NoError(t, err)
	assert.Equal(t, "owner@slice.test", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	repo.AssertExpectations(t)
}

func TestSignIn_WrongPassword(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByEmail", "owner@slice.test").Return(testOperator("hunter22!"), nil)

	svc := newAuthService(repo)

	_, err := svc.SignIn(context.Background(), "owner@slice.test", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestSignIn_UnknownAccount(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByEmail", "ghost@slice.test").Return(nil, common.ErrUserNotFound)

	svc := newAuthService(repo)

	_, err := svc.SignIn(context.Background(), "ghost@slice.test", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("ExistsByEmail", "owner@slice.test").Return(true, nil)

	svc := newAuthService(repo)

	_, err := svc.SignUp(context.Background(), &SignUpRequest{
		Email:    "owner@slice.test",
		Password: "hunter22!",
	})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestSignUp_HashesPassword(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("ExistsByEmail", "new@slice.test").Return(false, nil)
	repo.On("Create", mock.MatchedBy(func(op *domain.Operator) bool {
		return op.Email == "new@slice.test" &&
			op.Password != "hunter22!" &&
			bcrypt.CompareHashAndPassword([]byte(op.Password), []byte("hunter22!")) == nil
	})).Return(nil)

	svc := newAuthService(repo)

	resp, err := svc.SignUp(context.Background(), &SignUpRequest{
		Email:    "new@slice.test",
		Password: "hunter22!",
		Name:     "New Owner",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	repo.AssertExpectations(t)
}

func TestSignUp_ShortPassword(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("ExistsByEmail", "new@slice.test").Return(false, nil)

	svc := newAuthService(repo)

	_, err := svc.SignUp(context.Background(), &SignUpRequest{
		Email:    "new@slice.test",
		Password: "short",
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRefresh_RoundTrip(t *testing.T) {
	repo := new(MockOperatorRepository)
	operator := testOperator("hunter22!")
	repo.On("FindByEmail", operator.Email).Return(operator, nil)
	repo.On("FindByID", operator.ID).Return(operator, nil)
	repo.On("UpdateLoginTime", operator.ID).Return(nil).Maybe()

	svc := newAuthService(repo)

	resp, err := svc.SignIn(context.Background(), operator.Email, "hunter22!")
	assert.NoError(t, err)

	pair, err := svc.Refresh(resp.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc := newAuthService(new(MockOperatorRepository))

	_, err := svc.Refresh("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestResetPassword_UnknownEmailIsSilent(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByEmail", "ghost@slice.test").Return(nil, common.ErrUserNotFound)

	svc := newAuthService(repo)

	assert.NoError(t, svc.ResetPassword(context.Background(), "ghost@slice.test"))
}
