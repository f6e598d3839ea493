package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/repository"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrNoCategoryProducts  = errors.New("no products for category")
	ErrNoWeeklyDeals       = errors.New("no weekly deals")
	ErrMissingFilterQuery  = errors.New("category or search query required")
	ErrMissingCategoryName = errors.New("category is required")
)

const productCacheTTL = 60 * time.Second

type CatalogService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewCatalogService(productRepo repository.ProductRepository, redisClient *redis.Client) *CatalogService {
	return &CatalogService{productRepo: productRepo, redisClient: redisClient}
}

// Normalize lowercases a term and strips all spaces. Category comparison and
// free-text search both operate on normalized strings, so "Smart Watch",
// "smartwatch" and "SMART WATCH" are equivalent.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

func (s *CatalogService) Popular(ctx context.Context, category string) ([]model.Product, error) {
	products, err := s.productRepo.Popular(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	return products, nil
}

// ByCategory requires a category and treats an empty result as not-found:
// category browsing surfaces a 404, unlike free search.
func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	if category == "" {
		return nil, ErrMissingCategoryName
	}
	products, err := s.productRepo.ByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoCategoryProducts
	}
	return products, nil
}

func (s *CatalogService) WeeklyDeals(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.WeeklyDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("weekly deals: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoWeeklyDeals
	}
	return products, nil
}

// Search matches the normalized term against normalized product names and
// categories. An empty result is a valid "no results" state, not an error.
func (s *CatalogService) Search(ctx context.Context, term string) ([]model.Product, error) {
	normalized := Normalize(strings.TrimSpace(term))
	products, err := s.productRepo.Search(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	cacheKey := "product:" + strconv.FormatInt(id, 10)

	// Try cache
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := ToProductResponse(product)

	// Write to cache
	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return &resp, nil
}

func (s *CatalogService) Variants(ctx context.Context, name string) ([]model.Product, error) {
	products, err := s.productRepo.VariantsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("product variants: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Similar(ctx context.Context, category string, excludeID int64) ([]model.Product, error) {
	products, err := s.productRepo.Similar(ctx, category, excludeID)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	return products, nil
}

// Facets resolves a category or free-text query to a row set and derives
// the refinement facets from it. Resolution precedence: an explicit
// category wins; free text that exactly equals a known category (after
// normalization) is treated as that category; anything else falls back to a
// name substring match.
func (s *CatalogService) Facets(ctx context.Context, category, search string) (*dto.FiltersResponse, error) {
	var facetRows []model.FacetRow
	var err error

	switch {
	case category != "":
		facetRows, err = s.productRepo.FacetsByCategory(ctx, Normalize(category))
	case search != "":
		normalized := Normalize(search)
		var isCategory bool
		isCategory, err = s.productRepo.CategoryExists(ctx, normalized)
		if err != nil {
			break
		}
		if isCategory {
			facetRows, err = s.productRepo.FacetsByCategory(ctx, normalized)
		} else {
			facetRows, err = s.productRepo.FacetsByName(ctx, strings.ToLower(search))
		}
	default:
		return nil, ErrMissingFilterQuery
	}
	if err != nil {
		return nil, fmt.Errorf("facet rows: %w", err)
	}

	resp := deriveFacets(facetRows)
	return &resp, nil
}

// CategoryName resolves a free-text query to the category of the first
// matching product name, "" when blank or unmatched.
func (s *CatalogService) CategoryName(ctx context.Context, search string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	name, err := s.productRepo.CategoryForName(ctx, search)
	if err != nil {
		return "", fmt.Errorf("category name: %w", err)
	}
	return name, nil
}

func deriveFacets(rows []model.FacetRow) dto.FiltersResponse {
	resp := dto.FiltersResponse{
		Brands:      []string{},
		Ratings:     []int{},
		PriceRanges: []float64{},
	}
	if len(rows) == 0 {
		return resp
	}

	seenBrand := make(map[string]bool)
	seenRating := make(map[int]bool)
	minPrice := math.Inf(1)
	maxPrice := math.Inf(-1)

	for _, row := range rows {
		if row.Brand != "" && !seenBrand[row.Brand] {
			seenBrand[row.Brand] = true
			resp.Brands = append(resp.Brands, row.Brand)
		}
		bucket := int(math.Floor(row.Ratings))
		if bucket >= 2 && bucket <= 4 && !seenRating[bucket] {
			seenRating[bucket] = true
			resp.Ratings = append(resp.Ratings, bucket)
		}
		price, _ := row.ActualPrice.Float64()
		minPrice = math.Min(minPrice, price)
		maxPrice = math.Max(maxPrice, price)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(resp.Ratings)))
	resp.PriceRanges = PriceBreakpoints(minPrice, maxPrice)
	return resp
}

// PriceBreakpoints derives 3-4 human-friendly "Under $X" breakpoints from a
// price range. The span picks the split offsets, each value is then rounded
// up to a band-dependent granularity, and the result is deduplicated and
// sorted ascending.
func PriceBreakpoints(min, max float64) []float64 {
	span := max - min

	var raw []float64
	switch {
	case span < 100:
		raw = []float64{min, min + span/4, min + span/2, max}
	case span < 500:
		raw = []float64{min, min + 100, min + 250, max}
	case span < 1000:
		raw = []float64{min, min + 250, min + 500, max}
	default:
		raw = []float64{min, min + 500, min + 1000, max}
	}

	seen := make(map[float64]bool)
	points := make([]float64, 0, len(raw))
	for _, v := range raw {
		rounded := roundBreakpoint(v)
		if !seen[rounded] {
			seen[rounded] = true
			points = append(points, rounded)
		}
	}
	sort.Float64s(points)
	return points
}

func roundBreakpoint(v float64) float64 {
	switch {
	case v < 100:
		return math.Ceil(v/10) * 10
	case v < 500:
		return math.Ceil(v/50) * 50
	default:
		return math.Ceil(v/100) * 100
	}
}

// ToProductResponse maps a product row onto the wire shape shared by every
// listing endpoint.
func ToProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Brand:          p.Brand,
		ColorName:      p.ColorName,
		ActualPrice:    p.ActualPrice,
		StrikePrice:    p.StrikePrice,
		TrendingScore:  p.TrendingScore,
		ViewsCount:     p.ViewsCount,
		Ratings:        p.Ratings,
		Reviews:        p.Reviews,
		Description:    p.Description,
		InBoxContent:   p.InBoxContent,
		Specifications: p.Specifications,
		Offers:         p.Offers,
		Stocks:         p.Stocks,
		ColorImage:     p.ColorImage,
	}
}
