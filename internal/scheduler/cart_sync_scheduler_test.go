package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCart(t *testing.T) (service.CartService, *atomic.Int32) {
	var fetches atomic.Int32
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/carts" {
			fetches.Add(1)
		}
		w.Write([]byte(`{"status":true,"data":[{"id":1,"items":[{"id":3,"qty":1,"product":{"id":9,"real_price":5}}]}]}`))
	}))
	t.Cleanup(remote.Close)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	client, err := storeapi.NewClient(storeapi.Config{BaseURL: remote.URL, DefaultLanguage: "en"})
	require.NoError(t, err)

	session := service.NewSessionService(repository.NewStorageRepository(testDB), "en")
	require.NoError(t, session.SaveLogin(context.Background(), "tok", &model.User{ID: 1}))

	return service.NewCartService(client, session, service.NewNotificationService(nil)), &fetches
}

func TestCartSyncScheduler_Sync(t *testing.T) {
	cart, fetches := setupCart(t)
	s := NewCartSyncScheduler(cart)

	s.Sync()

	assert.Equal(t, int32(1), fetches.Load())
	assert.Equal(t, 1, cart.Count())
}

func TestCartSyncScheduler_StartRunsJob(t *testing.T) {
	cart, fetches := setupCart(t)
	s := NewCartSyncScheduler(cart)

	require.NoError(t, s.Start("@every 1s"))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return fetches.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestCartSyncScheduler_Disabled(t *testing.T) {
	cart, fetches := setupCart(t)
	s := NewCartSyncScheduler(cart)

	require.NoError(t, s.Start(Disabled))
	require.NoError(t, s.Start(""))
	s.Stop()

	assert.Equal(t, int32(0), fetches.Load())
}

func TestCartSyncScheduler_InvalidSpec(t *testing.T) {
	cart, _ := setupCart(t)
	s := NewCartSyncScheduler(cart)

	assert.Error(t, s.Start("every now and then"))
}
