package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

var (
	ErrUnknownSection   = errors.New("unknown catalog section")
	ErrQuantityRequired = errors.New("quantity must be greater than zero")
	ErrProductNotFound  = errors.New("product not found")
)

// Section names a paginated home listing
type Section string

const (
	SectionOffers       Section = "offers"
	SectionTeacherBooks Section = "teacher-books"
	SectionMostSelling  Section = "most-selling"
)

var sectionPaths = map[Section]string{
	SectionOffers:       "/home/offers-books-section",
	SectionTeacherBooks: "/home/teacher-books-section",
	SectionMostSelling:  "/home/best-seller-books-section",
}

// Sections lists the home sections in display order
func Sections() []Section {
	return []Section{SectionOffers, SectionTeacherBooks, SectionMostSelling}
}

// HomePage aggregates the first page of every section.
type HomePage struct {
	Sections map[Section]*model.ProductPage `json:"sections"`
	Errors   map[Section]string             `json:"errors,omitempty"`
}

type CatalogService interface {
	SectionPage(ctx context.Context, section Section, page int) (*model.ProductPage, error)
	Home(ctx context.Context) *HomePage
	Product(ctx context.Context, id uint) (*model.Product, error)
	Shelf(section Section) (*Shelf, error)
}

type catalogService struct {
	api           StoreAPI
	session       SessionService
	cart          CartService
	notifications NotificationService

	mu      sync.Mutex
	shelves map[Section]*Shelf
}

func NewCatalogService(api StoreAPI, session SessionService, cart CartService, notifications NotificationService) CatalogService {
	return &catalogService{
		api:           api,
		session:       session,
		cart:          cart,
		notifications: notifications,
		shelves:       make(map[Section]*Shelf),
	}
}

func (s *catalogService) SectionPage(ctx context.Context, section Section, page int) (*model.ProductPage, error) {
	path, ok := sectionPaths[section]
	if !ok {
		return nil, ErrUnknownSection
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	env, err := s.api.Get(ctx, path, query, requestOptions(ctx, s.session)...)
	if err != nil {
		logger.Warn("Failed to fetch catalog section", map[string]interface{}{
			"section": section,
			"page":    page,
			"error":   err.Error(),
		})
		return nil, err
	}

	result := &model.ProductPage{}
	if err := env.DecodeData(result); err != nil {
		return nil, fmt.Errorf("failed to decode %s page: %w", section, err)
	}
	if result.Products == nil {
		result.Products = []model.Product{}
	}
	return result, nil
}

// Home fetches all sections concurrently. A failing section is reported in
// Errors and does not affect the others.
func (s *catalogService) Home(ctx context.Context) *HomePage {
	home := &HomePage{
		Sections: make(map[Section]*model.ProductPage),
		Errors:   make(map[Section]string),
	}
	lang := s.session.Language(ctx)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, section := range Sections() {
		wg.Add(1)
		go func(section Section) {
			defer wg.Done()
			page, err := s.SectionPage(ctx, section, 1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				home.Errors[section] = userMessage(err, lang, i18n.ShelfFetchFailed)
				home.Sections[section] = &model.ProductPage{Products: []model.Product{}}
				return
			}
			home.Sections[section] = page
		}(section)
	}
	wg.Wait()
	return home
}

func (s *catalogService) Product(ctx context.Context, id uint) (*model.Product, error) {
	env, err := s.api.Get(ctx, fmt.Sprintf("/products/%d", id), nil, requestOptions(ctx, s.session)...)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, ErrProductNotFound
	}

	var product model.Product
	if err := env.DecodeData(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &product, nil
}

// Shelf returns the page state holder for section, creating it once.
func (s *catalogService) Shelf(section Section) (*Shelf, error) {
	if _, ok := sectionPaths[section]; !ok {
		return nil, ErrUnknownSection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shelf, ok := s.shelves[section]
	if !ok {
		shelf = newShelf(section, s, s.cart, s.session, s.notifications)
		s.shelves[section] = shelf
	}
	return shelf, nil
}
