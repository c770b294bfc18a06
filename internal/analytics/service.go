package analytics

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Engine expone las tres consultas analíticas
type Engine interface {
	BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error)
	CategoryRatings(ctx context.Context) ([]models.CategoryRating, error)
	OrderHistory(ctx context.Context, userID string) ([]models.OrderHistoryEntry, error)
}

// Source son las primitivas de lectura del almacén que necesita el pipeline en memoria
type Source interface {
	Orders(ctx context.Context) ([]models.Order, error)
	OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	Reviews(ctx context.Context) ([]models.Review, error)
	ProductsByID(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	CategoriesByID(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
}

// Service ejecuta las consultas como pipelines explícitos en memoria
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// BestSellers ranking de productos por unidades vendidas
func (s *Service) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}

	orders, err := s.source.Orders(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.BestSeller{}, nil
	}

	products, err := s.source.ProductsByID(ctx, distinctRefs(orders, orderProductIDs))
	if err != nil {
		return nil, err
	}

	return RankBestSellers(orders, products, limit), nil
}

// CategoryRatings valoración media por categoría
func (s *Service) CategoryRatings(ctx context.Context) ([]models.CategoryRating, error) {
	reviews, err := s.source.Reviews(ctx)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return []models.CategoryRating{}, nil
	}

	products, err := s.source.ProductsByID(ctx, distinctRefs(reviews, func(r models.Review) []primitive.ObjectID {
		return []primitive.ObjectID{r.Product}
	}))
	if err != nil {
		return nil, err
	}

	categories, err := s.source.CategoriesByID(ctx, distinctRefs(products, func(p models.Product) []primitive.ObjectID {
		return []primitive.ObjectID{p.Category}
	}))
	if err != nil {
		return nil, err
	}

	return AggregateCategoryRatings(reviews, products, categories), nil
}

// OrderHistory pedidos del usuario con los productos resueltos
func (s *Service) OrderHistory(ctx context.Context, userID string) ([]models.OrderHistoryEntry, error) {
	uid, ok := ParseUserID(userID)
	if !ok {
		return []models.OrderHistoryEntry{}, nil
	}

	orders, err := s.source.OrdersByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.OrderHistoryEntry{}, nil
	}

	products, err := s.source.ProductsByID(ctx, distinctRefs(orders, orderProductIDs))
	if err != nil {
		return nil, err
	}

	return BuildOrderHistory(orders, products, uid), nil
}
