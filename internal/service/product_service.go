package service

import (
	"strings"

	"github.com/bitekart/bitekart/internal/models"
	"github.com/bitekart/bitekart/internal/repository"
)

// ProductService 菜单商品服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建菜单商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// MenuItemInput 商品创建/更新输入
type MenuItemInput struct {
	Slug        string                 `json:"slug"`
	Title       map[string]interface{} `json:"title"`
	Description map[string]interface{} `json:"description"`
	Category    string                 `json:"category"`
	Price       string                 `json:"price"`
	Images      []string               `json:"images"`
	Tags        []string               `json:"tags"`
	IsActive    *bool                  `json:"is_active"`
	SortOrder   int                    `json:"sort_order"`
}

// ListPublic 前台菜单列表（仅上架商品）
func (s *ProductService) ListPublic(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   category,
		Search:     search,
		OnlyActive: true,
	})
}

// GetPublicBySlug 前台商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return nil, ErrNotFound
	}
	product, err := s.repo.GetBySlug(normalized, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListAdmin 后台商品列表（含下架商品）
func (s *ProductService) ListAdmin(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
}

// GetAdminByID 后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input MenuItemInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" || len(input.Title) == 0 {
		return nil, ErrInvalidProduct
	}
	price, err := models.NewMoneyFromString(input.Price)
	if err != nil {
		return nil, ErrInvalidProduct
	}

	exist, err := s.repo.GetBySlug(slug, false)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := &models.Product{
		Slug:            slug,
		TitleJSON:       models.JSON(input.Title),
		DescriptionJSON: models.JSON(input.Description),
		Category:        strings.TrimSpace(input.Category),
		PriceAmount:     price,
		Images:          models.StringArray(input.Images),
		Tags:            models.StringArray(input.Tags),
		IsActive:        isActive,
		SortOrder:       input.SortOrder,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input MenuItemInput) (*models.Product, error) {
	product, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != product.Slug {
		exist, err := s.repo.GetBySlug(slug, false)
		if err != nil {
			return nil, err
		}
		if exist != nil && exist.ID != product.ID {
			return nil, ErrSlugExists
		}
		product.Slug = slug
	}
	if len(input.Title) > 0 {
		product.TitleJSON = models.JSON(input.Title)
	}
	if input.Description != nil {
		product.DescriptionJSON = models.JSON(input.Description)
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		product.Category = category
	}
	if strings.TrimSpace(input.Price) != "" {
		price, err := models.NewMoneyFromString(input.Price)
		if err != nil {
			return nil, ErrInvalidProduct
		}
		product.PriceAmount = price
	}
	if input.Images != nil {
		product.Images = models.StringArray(input.Images)
	}
	if input.Tags != nil {
		product.Tags = models.StringArray(input.Tags)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != 0 {
		product.SortOrder = input.SortOrder
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（软删除，已在购物车中的条目保留捕获价）
func (s *ProductService) Delete(id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
