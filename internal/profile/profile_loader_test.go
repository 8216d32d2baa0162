package profile_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"go-clockin/internal/apiclient"
	apiMock "go-clockin/internal/apiclient/mock"
	"go-clockin/internal/domain"
	"go-clockin/internal/profile"
	profileerrors "go-clockin/internal/profile/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		want := domain.UserProfile{Username: "alice", AllowedLocations: []domain.WorkLocation{{ID: 4}}}
		client.EXPECT().Me(gomock.Any()).Return(want, nil).Times(1)

		got, err := profile.NewLoader(client).Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, "Hello, alice", profile.Greeting(got))
	})

	t.Run("non-success status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		client.EXPECT().Me(gomock.Any()).Return(domain.UserProfile{}, &apiclient.HTTPError{StatusCode: http.StatusUnauthorized})

		_, err := profile.NewLoader(client).Load(ctx)
		assert.True(t, errors.Is(err, profileerrors.ErrProfileFetchFailed))
		assert.Equal(t, "Could not load user profile (401)", profile.Status(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		client.EXPECT().Me(gomock.Any()).Return(domain.UserProfile{}, &url.Error{Op: "Get", URL: "http://x/me", Err: errors.New("connection refused")})

		_, err := profile.NewLoader(client).Load(ctx)
		assert.True(t, errors.Is(err, profileerrors.ErrProfileFetchFailed))
		assert.Equal(t, "Profile error: connection refused", profile.Status(err))
	})
}
