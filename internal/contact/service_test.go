package contact

import (
	"context"
	"errors"
	"testing"

	"libreria-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, c NewContact) (*Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contact), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, page *int32) ([]*Contact, error) {
	args := m.Called(ctx, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Contact), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(c *Contact) error {
	args := m.Called(c)
	return args.Error(0)
}

func validInput() NewContact {
	return NewContact{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Quisiera consultar por un libro.",
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores And Notifies", func(t *testing.T) {
		repo := new(MockRepository)
		mailer := new(MockMailer)
		svc := NewService(repo, mailer)

		stored := &Contact{ID: 1, Name: "Ana", Email: "ana@example.com"}
		repo.On("Insert", ctx, validInput()).Return(stored, nil)
		mailer.On("Send", stored).Return(nil)

		c, err := svc.Submit(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, uint(1), c.ID)
		mailer.AssertExpectations(t)
	})

	t.Run("Mailer Failure Does Not Fail Intake", func(t *testing.T) {
		repo := new(MockRepository)
		mailer := new(MockMailer)
		svc := NewService(repo, mailer)

		stored := &Contact{ID: 1}
		repo.On("Insert", ctx, validInput()).Return(stored, nil)
		mailer.On("Send", stored).Return(errors.New("smtp down"))

		c, err := svc.Submit(ctx, validInput())
		assert.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockMailer))

		cases := []struct {
			name  string
			input NewContact
		}{
			{"Empty Name", NewContact{Email: "a@b.com", Message: "hola"}},
			{"Empty Email", NewContact{Name: "Ana", Message: "hola"}},
			{"Email Without At", NewContact{Name: "Ana", Email: "not-an-email", Message: "hola"}},
			{"Empty Message", NewContact{Name: "Ana", Email: "a@b.com"}},
			{"Whitespace Message", NewContact{Name: "Ana", Email: "a@b.com", Message: "   "}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Submit(ctx, tc.input)

				var verr *utils.ValidationError
				assert.ErrorAs(t, err, &verr)
			})
		}
	})

	t.Run("Repository Error Propagates", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockMailer))

		repo.On("Insert", ctx, validInput()).Return(nil, errors.New("db down"))

		_, err := svc.Submit(ctx, validInput())
		assert.Error(t, err)
	})
}
