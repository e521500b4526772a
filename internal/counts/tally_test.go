package counts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clicker/internal/counts"
	"clicker/internal/counts/mocks"
	"clicker/pkg/domain"
)

func TestTally(t *testing.T) {
	creds := domain.StaticCredentials{SessionToken: "token", Username: "gate-1"}

	t.Run("requires a fetcher", func(t *testing.T) {
		_, err := counts.NewTally(nil, creds)
		require.Error(t, err)
	})

	t.Run("refresh caches details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockDetailsFetcher(ctrl)
		fetcher.EXPECT().ClickerDetails(gomock.Any(), domain.Credentials(creds)).
			Return(&counts.ClickerDetails{Count: 42, Name: "Main Hall"}, nil)

		tally, err := counts.NewTally(fetcher, creds)
		require.NoError(t, err)

		_, loaded := tally.Current()
		assert.False(t, loaded)

		details, err := tally.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, counts.ClickerDetails{Count: 42, Name: "Main Hall"}, details)

		tally.Observe(43)
		current, loaded := tally.Current()
		assert.True(t, loaded)
		assert.Equal(t, 43, current.Count)
		assert.Equal(t, "Main Hall", current.Name)
	})

	t.Run("refresh error leaves cache untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockDetailsFetcher(ctrl)
		fetcher.EXPECT().ClickerDetails(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		tally, err := counts.NewTally(fetcher, creds)
		require.NoError(t, err)

		_, err = tally.Refresh(context.Background())
		require.Error(t, err)
		_, loaded := tally.Current()
		assert.False(t, loaded)
	})
}
