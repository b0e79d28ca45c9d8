package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

const DefaultFilterDebounce = 350 * time.Millisecond

// ShopFilters are the selected dropdown values. Zero means "any".
type ShopFilters struct {
	SubjectID uint `json:"subject_id"`
	TeacherID uint `json:"teacher_id"`
	GradeID   uint `json:"grade_id"`
}

func (f ShopFilters) any() bool {
	return f.SubjectID != 0 || f.TeacherID != 0 || f.GradeID != 0
}

// FilterUpdate changes only the fields that are set
type FilterUpdate struct {
	SubjectID *uint `json:"subject_id"`
	TeacherID *uint `json:"teacher_id"`
	GradeID   *uint `json:"grade_id"`
}

// ShopState is a snapshot of the filter page
type ShopState struct {
	Subjects        []model.Subject `json:"subjects"`
	Teachers        []model.Teacher `json:"teachers"`
	Grades          []model.Grade   `json:"grades"`
	Filters         ShopFilters     `json:"filters"`
	Products        []model.Product `json:"products"`
	Page            int             `json:"page"`
	LastPage        int             `json:"last_page"`
	Total           int             `json:"total"`
	LoadingMeta     bool            `json:"loading_meta"`
	LoadingProducts bool            `json:"loading_products"`
	Error           string          `json:"error,omitempty"`
}

// ShopService drives the filterable book listing. Filter changes are
// debounced; a newer product request cancels the older one and only the
// latest request may update the state.
type ShopService interface {
	Open(ctx context.Context) ShopState
	UpdateFilters(update FilterUpdate) ShopState
	ChangePage(page int) (ShopState, bool)
	State() ShopState
	Close()
}

type shopService struct {
	api      StoreAPI
	session  SessionService
	debounce time.Duration

	mu             sync.Mutex
	root           context.Context
	rootCancel     context.CancelFunc
	closed         bool
	metaCancel     context.CancelFunc
	productsCancel context.CancelFunc
	timer          *time.Timer
	generation     uint64

	subjects        []model.Subject
	teachers        []model.Teacher
	grades          []model.Grade
	filters         ShopFilters
	products        []model.Product
	page            int
	lastPage        int
	total           int
	loadingMeta     bool
	loadingProducts bool
	errMessage      string
}

func NewShopService(api StoreAPI, session SessionService, debounce time.Duration) ShopService {
	if debounce <= 0 {
		debounce = DefaultFilterDebounce
	}
	s := &shopService{
		api:      api,
		session:  session,
		debounce: debounce,
		page:     1,
		lastPage: 1,
		products: []model.Product{},
	}
	session.OnLanguageChange(func(_ context.Context, lang string) {
		s.mu.Lock()
		open := s.root != nil && !s.closed
		s.mu.Unlock()
		if open {
			go s.Open(context.Background())
		}
	})
	return s
}

// ensureRoot must be called with mu held.
func (s *shopService) ensureRoot() {
	if s.root == nil || s.root.Err() != nil {
		s.root, s.rootCancel = context.WithCancel(context.Background())
	}
}

// Open loads subjects, teachers and grades concurrently, each tolerating its
// own failure, then loads the first page of products.
func (s *shopService) Open(ctx context.Context) ShopState {
	s.mu.Lock()
	s.closed = false
	s.ensureRoot()
	if s.metaCancel != nil {
		s.metaCancel()
	}
	metaCtx, cancel := context.WithCancel(s.root)
	s.metaCancel = cancel
	s.loadingMeta = true
	s.errMessage = ""
	s.mu.Unlock()
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	opts := []storeapi.RequestOption{storeapi.WithLanguage(s.session.Language(ctx))}

	var subjects []model.Subject
	var teachers []model.Teacher
	var grades []model.Grade

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.loadList(metaCtx, "/settings/subjects", opts, &subjects)
	}()
	go func() {
		defer wg.Done()
		s.loadList(metaCtx, "/settings/teachers", opts, &teachers)
	}()
	go func() {
		defer wg.Done()
		s.loadList(metaCtx, "/settings/grades", opts, &grades)
	}()
	wg.Wait()

	if metaCtx.Err() != nil {
		return s.State()
	}

	s.mu.Lock()
	s.subjects = emptyIfNil(subjects)
	s.teachers = emptyIfNil(teachers)
	s.grades = emptyIfNil(grades)
	s.loadingMeta = false
	s.mu.Unlock()

	s.fetchProducts(1)
	return s.State()
}

func (s *shopService) loadList(ctx context.Context, path string, opts []storeapi.RequestOption, out interface{}) {
	env, err := s.api.Get(ctx, path, nil, opts...)
	if err != nil {
		if !storeapi.IsCanceled(err) {
			logger.Warn("Failed to load shop filter options", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return
	}
	if err := env.DecodeData(out); err != nil {
		logger.Warn("Unexpected shop filter options payload", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// UpdateFilters applies update, resets to page 1 and re-arms the debounce.
// Selecting a subject always clears the teacher.
func (s *shopService) UpdateFilters(update FilterUpdate) ShopState {
	s.mu.Lock()
	if update.SubjectID != nil {
		s.filters.SubjectID = *update.SubjectID
		s.filters.TeacherID = 0
	}
	if update.TeacherID != nil {
		s.filters.TeacherID = *update.TeacherID
	}
	if update.GradeID != nil {
		s.filters.GradeID = *update.GradeID
	}
	s.scheduleLocked()
	s.mu.Unlock()

	return s.State()
}

// scheduleLocked must be called with mu held.
func (s *shopService) scheduleLocked() {
	if s.closed {
		return
	}
	s.page = 1
	if s.timer != nil {
		s.timer.Stop()
	}
	// A response for the previous filters must not land while the new
	// request waits out the debounce.
	if s.productsCancel != nil {
		s.productsCancel()
	}
	s.generation++
	s.loadingProducts = true
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fetchProducts(1)
	})
}

// ChangePage loads page right away. Out-of-range pages and the current page
// are ignored and report false.
func (s *shopService) ChangePage(page int) (ShopState, bool) {
	s.mu.Lock()
	if s.closed || page < 1 || page > s.lastPage || page == s.page {
		s.mu.Unlock()
		return s.State(), false
	}
	s.page = page
	s.mu.Unlock()

	s.fetchProducts(page)
	return s.State(), true
}

type productResult struct {
	products []model.Product
	page     int
	lastPage int
	total    int
}

func (s *shopService) fetchProducts(page int) {
	lang := s.session.Language(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ensureRoot()
	if s.productsCancel != nil {
		s.productsCancel()
	}
	ctx, cancel := context.WithCancel(s.root)
	s.productsCancel = cancel
	s.generation++
	generation := s.generation
	filters := s.filters
	s.loadingProducts = true
	s.errMessage = ""
	s.mu.Unlock()
	defer cancel()

	result, err := s.queryProducts(ctx, filters, page, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	if err != nil && (storeapi.IsCanceled(err) || ctx.Err() != nil) {
		return
	}

	s.loadingProducts = false
	if err != nil {
		logger.Warn("Failed to fetch shop products", map[string]interface{}{
			"page":  page,
			"error": err.Error(),
		})
		s.errMessage = i18n.T(lang, i18n.ShopFetchProductsFailed)
		return
	}

	s.products = result.products
	s.page = result.page
	s.lastPage = result.lastPage
	s.total = result.total
}

func (s *shopService) queryProducts(ctx context.Context, filters ShopFilters, page int, lang string) (productResult, error) {
	path := "/products"
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("lang", lang)

	if filters.any() {
		path = "/products/filter"
		if filters.SubjectID != 0 {
			query.Set("subject_id", strconv.FormatUint(uint64(filters.SubjectID), 10))
		}
		if filters.TeacherID != 0 {
			query.Set("teacher_id", strconv.FormatUint(uint64(filters.TeacherID), 10))
		}
		if filters.GradeID != 0 {
			query.Set("grade_id", strconv.FormatUint(uint64(filters.GradeID), 10))
		}
	}

	empty := productResult{products: []model.Product{}, page: page, lastPage: 1}

	env, err := s.api.Get(ctx, path, query, storeapi.WithLanguage(lang))
	if err != nil {
		if errors.Is(err, storeapi.ErrRejected) {
			return empty, nil
		}
		return productResult{}, err
	}
	if !env.HasData() {
		return empty, nil
	}
	return decodeProductPayload(env, page)
}

// decodeProductPayload accepts a bare array, {books_data}, {products_data}
// or a single product object.
func decodeProductPayload(env *storeapi.Envelope, page int) (productResult, error) {
	var list []model.Product
	if err := json.Unmarshal(env.Data, &list); err == nil {
		return withPagination(list, env.Pagination, page), nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &object); err != nil {
		return productResult{}, err
	}

	var pagination *storeapi.Pagination
	if raw, ok := object["pagination"]; ok {
		pagination = &storeapi.Pagination{}
		if err := json.Unmarshal(raw, pagination); err != nil {
			pagination = nil
		}
	}

	for _, key := range []string{"books_data", "products_data"} {
		raw, ok := object[key]
		if !ok {
			continue
		}
		var products []model.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return productResult{}, err
		}
		return withPagination(products, pagination, page), nil
	}

	var single model.Product
	if err := json.Unmarshal(env.Data, &single); err != nil {
		return productResult{}, err
	}
	return productResult{products: []model.Product{single}, page: page, lastPage: 1, total: 1}, nil
}

func withPagination(products []model.Product, pagination *storeapi.Pagination, page int) productResult {
	result := productResult{products: emptyIfNil(products), page: page, lastPage: 1, total: len(products)}
	if pagination == nil {
		return result
	}
	if pagination.CurrentPage > 0 {
		result.page = pagination.CurrentPage
	}
	if pagination.LastPage > 0 {
		result.lastPage = pagination.LastPage
	}
	if pagination.Total > 0 {
		result.total = pagination.Total
	}
	return result
}

func (s *shopService) State() ShopState {
	s.mu.Lock()
	defer s.mu.Unlock()

	teachers := make([]model.Teacher, 0, len(s.teachers))
	for _, teacher := range s.teachers {
		if s.filters.SubjectID == 0 || teacher.SubjectID == s.filters.SubjectID {
			teachers = append(teachers, teacher)
		}
	}

	return ShopState{
		Subjects:        append([]model.Subject{}, s.subjects...),
		Teachers:        teachers,
		Grades:          append([]model.Grade{}, s.grades...),
		Filters:         s.filters,
		Products:        append([]model.Product{}, s.products...),
		Page:            s.page,
		LastPage:        s.lastPage,
		Total:           s.total,
		LoadingMeta:     s.loadingMeta,
		LoadingProducts: s.loadingProducts,
		Error:           s.errMessage,
	}
}

// Close stops the debounce timer and cancels every in-flight request.
func (s *shopService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.rootCancel != nil {
		s.rootCancel()
	}
	s.loadingMeta = false
	s.loadingProducts = false
}
