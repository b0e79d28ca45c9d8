package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method        string
	Path          string
	Query         url.Values
	Form          map[string]string
	Files         map[string]string
	JSON          map[string]interface{}
	Authorization string
	Lang          string
}

// fakeAPI is an httptest stand-in for the remote bookstore API.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []recordedCall
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{t: t, routes: make(map[string]http.HandlerFunc)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	call := recordedCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Form:          map[string]string{},
		Files:         map[string]string{},
		Authorization: r.Header.Get("Authorization"),
		Lang:          r.Header.Get("lang"),
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for name, values := range r.MultipartForm.Value {
				call.Form[name] = values[0]
			}
			for name, headers := range r.MultipartForm.File {
				call.Files[name] = headers[0].Filename
			}
		}
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		json.NewDecoder(r.Body).Decode(&call.JSON)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	handler, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"not found"}`))
		return
	}
	handler(w, r)
}

func (f *fakeAPI) handle(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = handler
}

func (f *fakeAPI) reply(method, path string, status int, body string) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func (f *fakeAPI) callsTo(method, path string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, call := range f.calls {
		if call.Method == method && call.Path == path {
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) client() *storeapi.Client {
	client, err := storeapi.NewClient(storeapi.Config{BaseURL: f.server.URL, DefaultLanguage: "en"})
	require.NoError(f.t, err)
	return client
}

func newTestStorage(t *testing.T) repository.StorageRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return repository.NewStorageRepository(testDB)
}

func newTestSession(t *testing.T) SessionService {
	return NewSessionService(newTestStorage(t), "en")
}

func login(t *testing.T, session SessionService, token string) {
	require.NoError(t, session.SaveLogin(context.Background(), token, &model.User{ID: 1, Name: "Student"}))
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) Publish(event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events...)
}
