package analytics

import (
	"bytes"
	"cmp"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

type soldUnits struct {
	product  primitive.ObjectID
	quantity int
}

type ratedReview struct {
	rating   float64
	category primitive.ObjectID
}

type ratingSum struct {
	sum   float64
	count int
}

func compareIDs(a, b primitive.ObjectID) int {
	return bytes.Compare(a[:], b[:])
}

// RankBestSellers ordena los productos por unidades vendidas (desc, desempate por productId asc).
// Los grupos cuyo producto ya no existe se excluyen antes de aplicar el límite.
func RankBestSellers(orders []models.Order, products []models.Product, limit int) []models.BestSeller {
	items := Unwind(orders, func(o models.Order) []models.OrderItem { return o.Items })

	groups := Group(items,
		func(i models.OrderItem) primitive.ObjectID { return i.Product },
		func(total int, i models.OrderItem) int { return total + i.Quantity },
	)

	ranked := Sort(groups, func(a, b Grouped[primitive.ObjectID, int]) int {
		if c := cmp.Compare(b.Acc, a.Acc); c != 0 {
			return c
		}
		return compareIDs(a.Key, b.Key)
	})

	byID := Index(products, func(p models.Product) primitive.ObjectID { return p.ID })
	joined := Lookup(ranked,
		func(g Grouped[primitive.ObjectID, int]) primitive.ObjectID { return g.Key },
		byID,
		func(g Grouped[primitive.ObjectID, int], p models.Product) models.BestSeller {
			return models.BestSeller{
				ProductID:    g.Key,
				ProductName:  p.Name,
				ProductImage: p.FirstImage(),
				TotalSold:    g.Acc,
			}
		},
	)

	return Limit(joined, limit)
}

// AggregateCategoryRatings calcula la valoración media y el número de reviews por categoría
// (desc por media, desempate por nombre asc). Reviews sin producto o categoría se descartan.
func AggregateCategoryRatings(reviews []models.Review, products []models.Product, categories []models.Category) []models.CategoryRating {
	productsByID := Index(products, func(p models.Product) primitive.ObjectID { return p.ID })
	categoriesByID := Index(categories, func(c models.Category) primitive.ObjectID { return c.ID })

	withProduct := Lookup(reviews,
		func(r models.Review) primitive.ObjectID { return r.Product },
		productsByID,
		func(r models.Review, p models.Product) ratedReview {
			return ratedReview{rating: r.Rating, category: p.Category}
		},
	)

	type namedReview struct {
		rating float64
		name   string
	}
	withCategory := Lookup(withProduct,
		func(r ratedReview) primitive.ObjectID { return r.category },
		categoriesByID,
		func(r ratedReview, c models.Category) namedReview {
			return namedReview{rating: r.rating, name: c.Name}
		},
	)

	groups := Group(withCategory,
		func(r namedReview) string { return r.name },
		func(acc ratingSum, r namedReview) ratingSum {
			return ratingSum{sum: acc.sum + r.rating, count: acc.count + 1}
		},
	)

	rows := Project(groups, func(g Grouped[string, ratingSum]) models.CategoryRating {
		return models.CategoryRating{
			CategoryName:  g.Key,
			AverageRating: g.Acc.sum / float64(g.Acc.count),
			TotalReviews:  g.Acc.count,
		}
	})

	return Sort(rows, func(a, b models.CategoryRating) int {
		if c := cmp.Compare(b.AverageRating, a.AverageRating); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryName, b.CategoryName)
	})
}

// BuildOrderHistory devuelve los pedidos del usuario, más recientes primero, con cada
// producto resuelto. Un producto borrado deja Product en nil sin descartar el item.
func BuildOrderHistory(orders []models.Order, products []models.Product, userID primitive.ObjectID) []models.OrderHistoryEntry {
	mine := Filter(orders, func(o models.Order) bool { return o.User == userID })

	sorted := Sort(mine, func(a, b models.Order) int {
		if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})

	byID := Index(products, func(p models.Product) primitive.ObjectID { return p.ID })

	return Project(sorted, func(o models.Order) models.OrderHistoryEntry {
		return models.OrderHistoryEntry{
			ID:          o.ID,
			User:        o.User,
			TotalAmount: o.TotalAmount,
			OrderDate:   o.OrderDate,
			Status:      o.Status,
			Items: Project(o.Items, func(i models.OrderItem) models.HistoryItem {
				item := models.HistoryItem{
					ProductID: i.Product,
					Variant:   i.Variant,
					Quantity:  i.Quantity,
					Price:     i.Price,
				}
				if p, ok := byID[i.Product]; ok {
					item.Product = &p
				}
				return item
			}),
		}
	})
}

// distinctRefs devuelve las referencias de los documentos, sin duplicados
func distinctRefs[T any](docs []T, refs func(T) []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, d := range docs {
		for _, id := range refs(d) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func orderProductIDs(o models.Order) []primitive.ObjectID {
	return Project(o.Items, func(i models.OrderItem) primitive.ObjectID { return i.Product })
}
