package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// referencias generables; deletedP9 no existe en fixtureProducts
var (
	generatedProducts = []primitive.ObjectID{productP1, productP2, productP3, deletedP9}
	generatedUsers    = []primitive.ObjectID{userU1, userU2}
)

func propertyParameters() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	params.MaxSize = 8
	return params
}

func genOrderItem() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, len(generatedProducts)-1),
		gen.IntRange(1, 9),
		gen.Float64Range(0.5, 100),
	).Map(func(v []interface{}) models.OrderItem {
		return item(generatedProducts[v[0].(int)], v[1].(int), v[2].(float64))
	})
}

func genOrder() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, len(generatedUsers)-1),
		gen.IntRange(0, 72),
		gen.SliceOf(genOrderItem()),
	).Map(func(v []interface{}) models.Order {
		at := baseTime.Add(time.Duration(v[1].(int)) * time.Hour)
		return order(0, generatedUsers[v[0].(int)], at, v[2].([]models.OrderItem)...)
	})
}

// genOrders genera pedidos con ids distintos
func genOrders() gopter.Gen {
	return gen.SliceOf(genOrder()).Map(func(orders []models.Order) []models.Order {
		out := make([]models.Order, len(orders))
		for i, o := range orders {
			o.ID = oid(0x40 + byte(i))
			out[i] = o
		}
		return out
	})
}

func genReviews() gopter.Gen {
	review := gopter.CombineGens(
		gen.IntRange(0, len(generatedProducts)-1),
		gen.IntRange(1, 5),
	).Map(func(v []interface{}) models.Review {
		return models.Review{Product: generatedProducts[v[0].(int)], Rating: float64(v[1].(int))}
	})
	return gen.SliceOf(review)
}

func TestProperty_BestSellers(t *testing.T) {
	products := fixtureProducts()
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("units of resolvable products are conserved", prop.ForAll(
		func(orders []models.Order) bool {
			want := 0
			for _, o := range orders {
				for _, it := range o.Items {
					if it.Product != deletedP9 {
						want += it.Quantity
					}
				}
			}

			got := 0
			for _, row := range RankBestSellers(orders, products, 0) {
				if row.ProductID == deletedP9 {
					return false
				}
				got += row.TotalSold
			}
			return got == want
		},
		genOrders(),
	))

	properties.Property("ranking is non-increasing with ascending id ties", prop.ForAll(
		func(orders []models.Order) bool {
			rows := RankBestSellers(orders, products, 0)
			for i := 1; i < len(rows); i++ {
				prev, cur := rows[i-1], rows[i]
				if prev.TotalSold < cur.TotalSold {
					return false
				}
				if prev.TotalSold == cur.TotalSold && compareIDs(prev.ProductID, cur.ProductID) >= 0 {
					return false
				}
			}
			return true
		},
		genOrders(),
	))

	properties.Property("limit keeps a prefix of the full ranking", prop.ForAll(
		func(orders []models.Order, limit int) bool {
			full := RankBestSellers(orders, products, 0)
			limited := RankBestSellers(orders, products, limit)
			if len(limited) != min(limit, len(full)) {
				return false
			}
			for i := range limited {
				if limited[i] != full[i] {
					return false
				}
			}
			return true
		},
		genOrders(),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}

func TestProperty_CategoryRatings(t *testing.T) {
	products := fixtureProducts()
	categories := fixtureCategories()
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("average is the arithmetic mean of resolvable reviews", prop.ForAll(
		func(reviews []models.Review) bool {
			sums := map[string]float64{}
			counts := map[string]int{}
			for _, r := range reviews {
				switch r.Product {
				case productP1:
					sums["C1"] += r.Rating
					counts["C1"]++
				case productP2:
					sums["C2"] += r.Rating
					counts["C2"]++
				}
			}

			rows := AggregateCategoryRatings(reviews, products, categories)
			if len(rows) != len(counts) {
				return false
			}
			for _, row := range rows {
				if row.TotalReviews == 0 || row.TotalReviews != counts[row.CategoryName] {
					return false
				}
				mean := sums[row.CategoryName] / float64(counts[row.CategoryName])
				if math.Abs(mean-row.AverageRating) > 1e-9 {
					return false
				}
			}
			return true
		},
		genReviews(),
	))

	properties.Property("rows are non-increasing by average", prop.ForAll(
		func(reviews []models.Review) bool {
			rows := AggregateCategoryRatings(reviews, products, categories)
			for i := 1; i < len(rows); i++ {
				if rows[i-1].AverageRating < rows[i].AverageRating {
					return false
				}
			}
			return true
		},
		genReviews(),
	))

	properties.TestingRun(t)
}

func TestProperty_OrderHistory(t *testing.T) {
	products := fixtureProducts()
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("history holds only the user's orders, newest first", prop.ForAll(
		func(orders []models.Order, userIdx int) bool {
			user := generatedUsers[userIdx]
			want := 0
			for _, o := range orders {
				if o.User == user {
					want++
				}
			}

			rows := BuildOrderHistory(orders, products, user)
			if len(rows) != want {
				return false
			}
			for i, row := range rows {
				if row.User != user {
					return false
				}
				if i > 0 && row.OrderDate.After(rows[i-1].OrderDate) {
					return false
				}
			}
			return true
		},
		genOrders(),
		gen.IntRange(0, len(generatedUsers)-1),
	))

	properties.Property("every item survives with its snapshot", prop.ForAll(
		func(orders []models.Order) bool {
			for _, user := range generatedUsers {
				for _, row := range BuildOrderHistory(orders, products, user) {
					for _, it := range row.Items {
						resolved := it.ProductID != deletedP9
						if resolved != (it.Product != nil) {
							return false
						}
					}
				}
			}
			return true
		},
		genOrders(),
	))

	properties.TestingRun(t)
}
